// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"unsafe"

	"github.com/born-ml/memref/internal/tensor"
)

// RawTensor is the host array representation.
//
// RawTensor provides:
//   - Shape and type information via Shape(), Strides(), DType()
//   - Element access via At and Set
//   - Zero-copy views via Transpose(), Slice(), Reinterpret()
//   - Reference counting for owning tensors
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
//	tensor.Set[float32](raw, 1.5, 0, 2)
//	t, _ := raw.Transpose()  // Shares the buffer, strides [4 12]
type RawTensor = tensor.RawTensor

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// DataType represents runtime type information for tensors.
type DataType = tensor.DataType

// Element is a constraint for Go types usable with At and Set.
type Element = tensor.Element

// ExtendedTypes is the optional registry of extended data types.
type ExtendedTypes = tensor.ExtendedTypes

// Supported data types.
const (
	Bool       = tensor.Bool
	Int8       = tensor.Int8
	Int16      = tensor.Int16
	Int32      = tensor.Int32
	Int64      = tensor.Int64
	Uint8      = tensor.Uint8
	Uint16     = tensor.Uint16
	Uint32     = tensor.Uint32
	Uint64     = tensor.Uint64
	Float16    = tensor.Float16
	BFloat16   = tensor.BFloat16
	Float8E5M2 = tensor.Float8E5M2
	Float32    = tensor.Float32
	Float64    = tensor.Float64
	Complex64  = tensor.Complex64
	Complex128 = tensor.Complex128
)

// NewRaw creates a zero-initialized contiguous tensor.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// FromBytes wraps data as a contiguous tensor without copying.
func FromBytes(data []byte, shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.FromBytes(data, shape, dtype)
}

// FromSlice copies data into a new contiguous tensor.
func FromSlice[T Element](data []T, shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.FromSlice(data, shape, dtype)
}

// NewView creates a non-owning strided view over memory starting at ptr.
func NewView(ptr unsafe.Pointer, shape Shape, byteStrides []int, dtype DataType) (*RawTensor, error) {
	return tensor.NewView(ptr, shape, byteStrides, dtype)
}

// At returns the element at the given indices as T.
func At[T Element](r *RawTensor, indices ...int) T {
	return tensor.At[T](r, indices...)
}

// Set stores value at the given indices.
func Set[T Element](r *RawTensor, value T, indices ...int) {
	tensor.Set(r, value, indices...)
}

// ParseDataType returns the DataType with the given name.
func ParseDataType(name string) (DataType, error) {
	return tensor.ParseDataType(name)
}

// DefaultExtendedTypes returns a registry providing bfloat16 and float8_e5m2.
func DefaultExtendedTypes() *ExtendedTypes {
	return tensor.DefaultExtendedTypes()
}

// NewExtendedTypes returns a registry providing exactly the given types.
func NewExtendedTypes(types ...DataType) *ExtendedTypes {
	return tensor.NewExtendedTypes(types...)
}
