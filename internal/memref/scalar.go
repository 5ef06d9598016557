package memref

import (
	"fmt"
	"reflect"

	"github.com/born-ml/memref/internal/tensor"
)

// ScalarKind identifies how a single element is represented inside a descriptor.
type ScalarKind int

// Scalar layout kinds.
const (
	Native           ScalarKind = iota // Directly representable Go primitive
	ComplexDouble                      // C128: (real, imag) float64 pair
	ComplexFloat                       // C64: (real, imag) float32 pair
	Float16Tagged                      // F16: raw binary16 bits
	BFloat16Tagged                     // BF16: raw bfloat16 bits
	Float8E5M2Tagged                   // F8E5M2: raw float8_e5m2 bits
)

// String returns a human-readable name for the kind.
func (k ScalarKind) String() string {
	switch k {
	case Native:
		return "native"
	case ComplexDouble:
		return "C128"
	case ComplexFloat:
		return "C64"
	case Float16Tagged:
		return "F16"
	case BFloat16Tagged:
		return "BF16"
	case Float8E5M2Tagged:
		return "F8E5M2"
	default:
		return "unknown"
	}
}

// C128 is the descriptor element for double-precision complex numbers.
type C128 struct {
	Real float64
	Imag float64
}

// C64 is the descriptor element for single-precision complex numbers.
type C64 struct {
	Real float32
	Imag float32
}

// F16 carries the raw bits of an IEEE binary16 value.
type F16 struct {
	F16 int16
}

// BF16 carries the raw bits of a bfloat16 value.
type BF16 struct {
	BF16 int16
}

// F8E5M2 carries the raw bits of a float8_e5m2 value.
type F8E5M2 struct {
	F8E5M2 int8
}

var (
	taggedTypes = map[ScalarKind]reflect.Type{
		ComplexDouble:    reflect.TypeOf(C128{}),
		ComplexFloat:     reflect.TypeOf(C64{}),
		Float16Tagged:    reflect.TypeOf(F16{}),
		BFloat16Tagged:   reflect.TypeOf(BF16{}),
		Float8E5M2Tagged: reflect.TypeOf(F8E5M2{}),
	}

	nativeTypes = map[tensor.DataType]reflect.Type{
		tensor.Bool:    reflect.TypeOf(false),
		tensor.Int8:    reflect.TypeOf(int8(0)),
		tensor.Int16:   reflect.TypeOf(int16(0)),
		tensor.Int32:   reflect.TypeOf(int32(0)),
		tensor.Int64:   reflect.TypeOf(int64(0)),
		tensor.Uint8:   reflect.TypeOf(uint8(0)),
		tensor.Uint16:  reflect.TypeOf(uint16(0)),
		tensor.Uint32:  reflect.TypeOf(uint32(0)),
		tensor.Uint64:  reflect.TypeOf(uint64(0)),
		tensor.Float32: reflect.TypeOf(float32(0)),
		tensor.Float64: reflect.TypeOf(float64(0)),
	}
)

// ScalarLayout identifies the fixed-size binary layout of one descriptor element.
// Native is only meaningful when Kind is Native.
type ScalarLayout struct {
	Kind   ScalarKind
	Native tensor.DataType
}

// NativeLayout returns the layout of a directly representable data type.
func NativeLayout(dt tensor.DataType) ScalarLayout {
	return ScalarLayout{Kind: Native, Native: dt}
}

// TaggedLayout returns the layout of a complex or tagged kind.
func TaggedLayout(kind ScalarKind) ScalarLayout {
	return ScalarLayout{Kind: kind}
}

// Type returns the Go type of one element, or nil if the layout is not valid.
func (l ScalarLayout) Type() reflect.Type {
	if l.Kind == Native {
		return nativeTypes[l.Native]
	}
	return taggedTypes[l.Kind]
}

// Size returns the element size in bytes, or 0 if the layout is not valid.
func (l ScalarLayout) Size() int {
	t := l.Type()
	if t == nil {
		return 0
	}
	return int(t.Size())
}

// StorageType returns the host data type matching the layout's raw field storage:
// the native type itself, the complex type for C128/C64, and the signed integer of
// the tagged field's width otherwise.
func (l ScalarLayout) StorageType() tensor.DataType {
	switch l.Kind {
	case ComplexDouble:
		return tensor.Complex128
	case ComplexFloat:
		return tensor.Complex64
	case Float16Tagged, BFloat16Tagged:
		return tensor.Int16
	case Float8E5M2Tagged:
		return tensor.Int8
	default:
		return l.Native
	}
}

// Valid reports whether the layout names a known element representation.
func (l ScalarLayout) Valid() bool {
	return l.Type() != nil
}

// String returns a human-readable name for the layout.
func (l ScalarLayout) String() string {
	if l.Kind == Native {
		return fmt.Sprintf("native(%s)", l.Native)
	}
	return l.Kind.String()
}
