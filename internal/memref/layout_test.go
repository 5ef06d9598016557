package memref

import (
	"reflect"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/memref/internal/tensor"
)

// rank2F32 is the descriptor a C caller would declare for memref<?x?xf32>.
type rank2F32 struct {
	Allocated uintptr
	Aligned   *float32
	Offset    int64
	Shape     [2]int64
	Strides   [2]int64
}

func TestRankedLayoutFields(t *testing.T) {
	ptrSize := unsafe.Sizeof(uintptr(0))

	for rank := 1; rank <= 4; rank++ {
		typ := RankedLayout(rank, NativeLayout(tensor.Float32))
		fields := LayoutFields(typ)
		require.Len(t, fields, 5)

		names := []string{FieldAllocated, FieldAligned, FieldOffset, FieldShape, FieldStrides}
		for i, f := range fields {
			assert.Equal(t, names[i], f.Name)
		}

		offsetAt := 2 * ptrSize
		shapeAt := offsetAt + 8
		stridesAt := shapeAt + uintptr(8*rank)
		assert.Equal(t, uintptr(0), fields[0].Offset)
		assert.Equal(t, ptrSize, fields[1].Offset)
		assert.Equal(t, offsetAt, fields[2].Offset)
		assert.Equal(t, shapeAt, fields[3].Offset)
		assert.Equal(t, stridesAt, fields[4].Offset)
		assert.Equal(t, uintptr(8*rank), fields[3].Size)
		assert.Equal(t, stridesAt+uintptr(8*rank), typ.Size(), "no padding beyond natural alignment")
	}
}

func TestRankedLayoutMatchesStaticStruct(t *testing.T) {
	typ := RankedLayout(2, NativeLayout(tensor.Float32))
	var s rank2F32

	assert.Equal(t, unsafe.Sizeof(s), typ.Size())
	assert.Equal(t, unsafe.Offsetof(s.Aligned), typ.Field(1).Offset)
	assert.Equal(t, unsafe.Offsetof(s.Offset), typ.Field(2).Offset)
	assert.Equal(t, unsafe.Offsetof(s.Shape), typ.Field(3).Offset)
	assert.Equal(t, unsafe.Offsetof(s.Strides), typ.Field(4).Offset)
	assert.Equal(t, reflect.TypeOf(s.Aligned), typ.Field(1).Type)
}

func TestZeroRankLayout(t *testing.T) {
	typ := ZeroRankLayout(TaggedLayout(ComplexDouble))
	fields := LayoutFields(typ)
	require.Len(t, fields, 3)
	assert.Equal(t, []string{FieldAllocated, FieldAligned, FieldOffset},
		[]string{fields[0].Name, fields[1].Name, fields[2].Name})
	assert.Equal(t, reflect.PointerTo(reflect.TypeOf(C128{})), typ.Field(1).Type)

	assert.Equal(t, typ, DescriptorLayout(0, TaggedLayout(ComplexDouble)))
}

func TestTaggedElementTypes(t *testing.T) {
	tests := []struct {
		kind ScalarKind
		typ  reflect.Type
		size uintptr
	}{
		{ComplexDouble, reflect.TypeOf(C128{}), 16},
		{ComplexFloat, reflect.TypeOf(C64{}), 8},
		{Float16Tagged, reflect.TypeOf(F16{}), 2},
		{BFloat16Tagged, reflect.TypeOf(BF16{}), 2},
		{Float8E5M2Tagged, reflect.TypeOf(F8E5M2{}), 1},
	}
	for _, tt := range tests {
		l := TaggedLayout(tt.kind)
		assert.Equal(t, tt.typ, l.Type(), tt.kind.String())
		assert.Equal(t, tt.size, l.Type().Size(), tt.kind.String())
	}

	// Complex pairs are bit-identical to Go's complex types.
	c := complex(1.25, -3.5)
	pair := *(*C128)(unsafe.Pointer(&c))
	assert.Equal(t, C128{Real: 1.25, Imag: -3.5}, pair)
}

func TestLayoutCacheIdempotent(t *testing.T) {
	elem := NativeLayout(tensor.Int64)
	first := RankedLayout(3, elem)

	var wg sync.WaitGroup
	got := make([]reflect.Type, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = RankedLayout(3, elem)
		}(i)
	}
	wg.Wait()

	for _, typ := range got {
		assert.Equal(t, first, typ)
	}
	assert.NotEqual(t, first, RankedLayout(2, elem))
	assert.NotEqual(t, first, RankedLayout(3, NativeLayout(tensor.Int32)))
}

func TestRankedLayoutPanics(t *testing.T) {
	assert.Panics(t, func() { RankedLayout(0, NativeLayout(tensor.Float32)) })
	assert.Panics(t, func() { RankedLayout(1, NativeLayout(tensor.Float16)) })
}
