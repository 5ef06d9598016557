// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package memref_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/memref/memref"
	"github.com/born-ml/memref/tensor"
)

func TestPublicStrideConversions(t *testing.T) {
	elem := memref.ElementStrides([]int{24, 8}, 8)
	assert.Equal(t, []int64{3, 1}, elem)
	assert.Equal(t, []int{24, 8}, memref.ByteStrides(elem, 8))

	data := []float64{0, 1, 2, 3}
	base := unsafe.Pointer(&data[0])
	assert.Equal(t, unsafe.Pointer(&data[3]), memref.OffsetPointer(base, 3, 8))
}

func TestPublicLayouts(t *testing.T) {
	f32 := memref.NativeLayout(tensor.Float32)
	typ := memref.DescriptorLayout(2, f32)
	assert.Equal(t, memref.RankedLayout(2, f32), typ)

	fields := memref.LayoutFields(typ)
	require.Len(t, fields, 5)
	assert.Equal(t, memref.FieldStrides, fields[4].Name)
	assert.Equal(t, uintptr(unsafe.Sizeof(uintptr(0)))*3+16, fields[4].Offset)

	bf16 := memref.TaggedLayout(memref.BFloat16Tagged)
	zero := memref.DescriptorLayout(0, bf16)
	assert.Equal(t, memref.ZeroRankLayout(bf16), zero)
	assert.Len(t, memref.LayoutFields(zero), 3)
	assert.Equal(t, uintptr(unsafe.Sizeof(memref.BF16{})), bf16.Type().Size())
}

func TestPublicRoundTrip(t *testing.T) {
	reg := memref.NewRegistry(memref.DefaultConfig())
	bits := []uint16{
		tensor.BFloat16FromFloat32(1.5),
		tensor.BFloat16FromFloat32(-2),
	}
	src, err := tensor.FromSlice(bits, tensor.Shape{2}, tensor.BFloat16)
	require.NoError(t, err)

	d, err := reg.DescribeRanked(src)
	require.NoError(t, err)
	view, err := reg.ViewFromRanked(d)
	require.NoError(t, err)

	assert.Equal(t, tensor.BFloat16, view.DType())
	assert.Equal(t, float32(-2), tensor.BFloat16ToFloat32(tensor.At[uint16](view, 1)))
	assert.NotNil(t, memref.Logger())
}

func TestPublicHalfHelpers(t *testing.T) {
	assert.Equal(t, float32(1.5), tensor.Float16ToFloat32(tensor.Float16FromFloat32(1.5)))
	assert.Equal(t, uint8(0x3D), tensor.Float8E5M2FromFloat32(1.1252))
	assert.Equal(t, float32(1.25), tensor.Float8E5M2ToFloat32(0x3D))
}
