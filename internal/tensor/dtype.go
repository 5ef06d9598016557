// Package tensor provides the host array representation bridged to memref descriptors.
package tensor

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Element is a constraint for Go types that can be read from or written to a tensor element.
// Tagged floating-point formats (float16, bfloat16, float8_e5m2) are accessed through their
// raw bit patterns (uint16 / uint8).
type Element interface {
	constraints.Integer | constraints.Float | constraints.Complex | ~bool
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Bool DataType = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float16
	BFloat16
	Float8E5M2
	Float32
	Float64
	Complex64
	Complex128
)

// DataTypes lists every data type known to the host array library, in declaration order.
var DataTypes = []DataType{
	Bool, Int8, Int16, Int32, Int64,
	Uint8, Uint16, Uint32, Uint64,
	Float16, BFloat16, Float8E5M2, Float32, Float64,
	Complex64, Complex128,
}

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Bool, Int8, Uint8, Float8E5M2:
		return 1
	case Int16, Uint16, Float16, BFloat16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64, Complex64:
		return 8
	case Complex128:
		return 16
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float16:
		return "float16"
	case BFloat16:
		return "bfloat16"
	case Float8E5M2:
		return "float8_e5m2"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Complex64:
		return "complex64"
	case Complex128:
		return "complex128"
	default:
		return "unknown"
	}
}

// IsExtended reports whether the data type is only available through an extended type registry.
func (dt DataType) IsExtended() bool {
	return dt == BFloat16 || dt == Float8E5M2
}

// ParseDataType returns the DataType with the given name (as printed by String).
func ParseDataType(name string) (DataType, error) {
	for _, dt := range DataTypes {
		if dt.String() == name {
			return dt, nil
		}
	}
	return 0, fmt.Errorf("unknown data type %q", name)
}
