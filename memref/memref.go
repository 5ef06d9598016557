// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package memref builds compiler-runtime memref descriptors that alias host tensors,
// and rebuilds tensor views from such descriptors.
//
// Example usage:
//
//	import (
//	    "github.com/born-ml/memref/memref"
//	    "github.com/born-ml/memref/tensor"
//	)
//
//	reg := memref.NewRegistry(memref.DefaultConfig())
//	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, tensor.Float32)
//
//	desc, err := reg.DescribeRanked(x) // strides [2 1], offset 0, no copy
//	if err != nil {
//	    log.Fatal(err)
//	}
//	kernel(desc.Pointer())             // x must stay alive during the call
//
//	y, err := reg.ViewFromRanked(desc) // aliases x
package memref

import (
	"reflect"
	"unsafe"

	"go.uber.org/zap"

	"github.com/born-ml/memref/internal/memref"
	"github.com/born-ml/memref/internal/tensor"
)

// Registry maps tensor data types to descriptor element layouts and performs conversions.
type Registry = memref.Registry

// Config controls how a Registry maps element types.
type Config = memref.Config

// Descriptor is one populated ranked or zero-rank descriptor.
type Descriptor = memref.Descriptor

// Unranked is the rank-polymorphic (rank, pointer) descriptor.
type Unranked = memref.Unranked

// ScalarLayout identifies the binary layout of one descriptor element.
type ScalarLayout = memref.ScalarLayout

// ScalarKind identifies a family of element layouts.
type ScalarKind = memref.ScalarKind

// DtypeError reports a failed element type mapping.
type DtypeError = memref.DtypeError

// FieldInfo describes the placement of one descriptor field.
type FieldInfo = memref.FieldInfo

// Tagged element structs.
type (
	C128   = memref.C128
	C64    = memref.C64
	F16    = memref.F16
	BF16   = memref.BF16
	F8E5M2 = memref.F8E5M2
)

// Element layout kinds.
const (
	Native           = memref.Native
	ComplexDouble    = memref.ComplexDouble
	ComplexFloat     = memref.ComplexFloat
	Float16Tagged    = memref.Float16Tagged
	BFloat16Tagged   = memref.BFloat16Tagged
	Float8E5M2Tagged = memref.Float8E5M2Tagged
)

// Descriptor field names, in ABI order.
const (
	FieldAllocated = memref.FieldAllocated
	FieldAligned   = memref.FieldAligned
	FieldOffset    = memref.FieldOffset
	FieldShape     = memref.FieldShape
	FieldStrides   = memref.FieldStrides
)

// Mapping errors, matched with errors.Is.
var (
	ErrUnsupportedDtype           = memref.ErrUnsupportedDtype
	ErrMissingExtendedTypeSupport = memref.ErrMissingExtendedTypeSupport
)

// NewRegistry creates a registry from cfg.
func NewRegistry(cfg Config) *Registry {
	return memref.NewRegistry(cfg)
}

// DefaultConfig returns a configuration with extended types available.
func DefaultConfig() Config {
	return memref.DefaultConfig()
}

// NewDescriptor allocates and populates a descriptor. Strides and offset are in elements.
func NewDescriptor(elem ScalarLayout, allocated uintptr, aligned unsafe.Pointer, offset int64, shape, strides []int64) (*Descriptor, error) {
	return memref.NewDescriptor(elem, allocated, aligned, offset, shape, strides)
}

// DescriptorAt interprets foreign memory as a descriptor (unchecked).
func DescriptorAt(ptr unsafe.Pointer, rank int, elem ScalarLayout) *Descriptor {
	return memref.DescriptorAt(ptr, rank, elem)
}

// RankedLayout returns the descriptor struct type for rank >= 1.
func RankedLayout(rank int, elem ScalarLayout) reflect.Type {
	return memref.RankedLayout(rank, elem)
}

// ZeroRankLayout returns the descriptor struct type for a 0-d memref.
func ZeroRankLayout(elem ScalarLayout) reflect.Type {
	return memref.ZeroRankLayout(elem)
}

// DescriptorLayout returns ZeroRankLayout for rank 0 and RankedLayout otherwise.
func DescriptorLayout(rank int, elem ScalarLayout) reflect.Type {
	return memref.DescriptorLayout(rank, elem)
}

// LayoutFields returns the placement of every field of a descriptor struct type.
func LayoutFields(t reflect.Type) []FieldInfo {
	return memref.LayoutFields(t)
}

// NativeLayout returns the layout of a directly representable data type.
func NativeLayout(dt tensor.DataType) ScalarLayout {
	return memref.NativeLayout(dt)
}

// TaggedLayout returns the layout of a tagged element kind.
func TaggedLayout(kind ScalarKind) ScalarLayout {
	return memref.TaggedLayout(kind)
}

// ElementStrides converts per-dimension strides from bytes to elements.
func ElementStrides(byteStrides []int, itemSize int) []int64 {
	return memref.ElementStrides(byteStrides, itemSize)
}

// ByteStrides converts per-dimension strides from elements to bytes.
func ByteStrides(elemStrides []int64, itemSize int) []int {
	return memref.ByteStrides(elemStrides, itemSize)
}

// OffsetPointer advances aligned by offset elements of itemSize bytes each.
func OffsetPointer(aligned unsafe.Pointer, offset int64, itemSize int) unsafe.Pointer {
	return memref.OffsetPointer(aligned, offset, itemSize)
}

// Logger returns the package logger.
func Logger() *zap.Logger {
	return memref.Logger()
}

// SetLogger configures the package logger used by registries without their own.
func SetLogger(l *zap.Logger) {
	memref.SetLogger(l)
}
