package memref

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/memref/internal/tensor"
)

// patterned returns a contiguous tensor whose bytes are all distinct-ish and non-zero.
func patterned(t *testing.T, shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, dtype)
	require.NoError(t, err)
	data, err := raw.Data()
	require.NoError(t, err)
	for i := range data {
		data[i] = byte(i*7 + 1)
	}
	return raw
}

// assertSameView checks that got is an aliasing view equal to want.
func assertSameView(t *testing.T, want, got *tensor.RawTensor) {
	t.Helper()
	require.Equal(t, want.Shape(), got.Shape())
	assert.Equal(t, want.Strides(), got.Strides())
	assert.Equal(t, want.DType(), got.DType())
	assert.Equal(t, want.Ptr(), got.Ptr())
	want.Shape().Indices(func(idx []int) {
		assert.Equal(t, want.Bytes(idx...), got.Bytes(idx...), "element %v", idx)
	})
}

func TestRoundTripAllTypes(t *testing.T) {
	reg := NewRegistry(DefaultConfig())
	shapes := []tensor.Shape{{}, {5}, {2, 3}, {2, 3, 4}, {0, 3}, {2, 0}}

	for _, dt := range tensor.DataTypes {
		for _, shape := range shapes {
			t.Run(fmt.Sprintf("%s/%v", dt, []int(shape)), func(t *testing.T) {
				src := patterned(t, shape, dt)

				d, err := reg.DescribeRanked(src)
				require.NoError(t, err)
				assert.Equal(t, len(shape), d.Rank())
				assert.Equal(t, int64(0), d.Offset())
				assert.Equal(t, uintptr(src.Ptr()), d.Allocated())

				view, err := reg.ViewFromRanked(d)
				require.NoError(t, err)
				assert.False(t, view.IsOwner(), "reconstructed view must not own memory")
				assertSameView(t, src, view)
			})
		}
	}
}

func TestRoundTripEmptyWithoutBase(t *testing.T) {
	reg := NewRegistry(DefaultConfig())
	src, err := tensor.FromBytes(nil, tensor.Shape{2, 0}, tensor.Float32)
	require.NoError(t, err)
	require.Nil(t, src.Ptr())

	d, err := reg.DescribeRanked(src)
	require.NoError(t, err)
	assert.Nil(t, d.Aligned())
	assert.Equal(t, []int64{2, 0}, d.Shape())
	assert.Equal(t, []int64{0, 1}, d.Strides())

	view, err := reg.ViewFromRanked(d)
	require.NoError(t, err)
	assert.Equal(t, 0, view.NumElements())
	assertSameView(t, src, view)
}

func TestRoundTripAliasesMemory(t *testing.T) {
	reg := NewRegistry(DefaultConfig())
	src, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.Float32)
	require.NoError(t, err)

	d, err := reg.DescribeRanked(src)
	require.NoError(t, err)
	view, err := reg.ViewFromRanked(d)
	require.NoError(t, err)

	tensor.Set[float32](src, 42, 1, 2)
	assert.Equal(t, float32(42), tensor.At[float32](view, 1, 2))

	tensor.Set[float32](view, -7, 0, 1)
	assert.Equal(t, float32(-7), tensor.At[float32](src, 0, 1))
}

func TestRoundTripNonContiguous(t *testing.T) {
	reg := NewRegistry(DefaultConfig())
	base := patterned(t, tensor.Shape{4, 6}, tensor.Float64)

	transposed, err := base.Transpose()
	require.NoError(t, err)
	stepped, err := base.Slice(1, 1, 6, 2)
	require.NoError(t, err)
	reversed, err := base.Slice(0, 0, 4, -1)
	require.NoError(t, err)

	for name, src := range map[string]*tensor.RawTensor{
		"transposed": transposed,
		"stepped":    stepped,
		"reversed":   reversed,
	} {
		t.Run(name, func(t *testing.T) {
			d, err := reg.DescribeRanked(src)
			require.NoError(t, err)
			view, err := reg.ViewFromRanked(d)
			require.NoError(t, err)
			assertSameView(t, src, view)
		})
	}

	d, err := reg.DescribeRanked(reversed)
	require.NoError(t, err)
	assert.Equal(t, []int64{-6, 1}, d.Strides())
}

func TestStrideUnitInversion(t *testing.T) {
	reg := NewRegistry(DefaultConfig())

	for _, dt := range []tensor.DataType{tensor.Int8, tensor.Float16, tensor.Float32, tensor.Complex128} {
		base := patterned(t, tensor.Shape{3, 4, 5}, dt)
		src, err := base.Transpose(2, 0, 1)
		require.NoError(t, err)

		d, err := reg.DescribeRanked(src)
		require.NoError(t, err)

		for i, s := range d.Strides() {
			assert.Equal(t, src.Strides()[i], int(s)*src.ItemSize(), "%s dim %d", dt, i)
		}
		assert.Equal(t, src.Strides(), ByteStrides(ElementStrides(src.Strides(), src.ItemSize()), src.ItemSize()))
	}
}

func TestOffsetScaling(t *testing.T) {
	reg := NewRegistry(DefaultConfig())

	tests := []struct {
		elem ScalarLayout
		n    int
	}{
		{NativeLayout(tensor.Float64), 8},
		{NativeLayout(tensor.Int8), 1},
		{TaggedLayout(ComplexDouble), 16},
		{TaggedLayout(Float16Tagged), 2},
	}

	for _, tt := range tests {
		t.Run(tt.elem.String(), func(t *testing.T) {
			buf := make([]byte, 64*tt.n)
			aligned := unsafe.Pointer(&buf[0])

			for _, k := range []int64{0, 1, 5, 17} {
				d, err := NewDescriptor(tt.elem, uintptr(aligned), aligned, k, []int64{2}, []int64{1})
				require.NoError(t, err)

				view, err := reg.ViewFromRanked(d)
				require.NoError(t, err)
				assert.Equal(t, unsafe.Add(aligned, int(k)*tt.n), view.Ptr(), "offset %d", k)
				assert.Equal(t, unsafe.Add(aligned, int(k)*tt.n), OffsetPointer(aligned, k, tt.elem.Size()))
			}
		})
	}
}

func TestRankZero(t *testing.T) {
	reg := NewRegistry(DefaultConfig())
	src, err := tensor.FromSlice([]complex64{complex(2, -1)}, tensor.Shape{}, tensor.Complex64)
	require.NoError(t, err)

	d, err := reg.DescribeRanked(src)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Rank())
	assert.Len(t, LayoutFields(reflectElem(d)), 3, "zero-rank descriptor has no shape/strides")
	assert.Empty(t, d.Shape())
	assert.Equal(t, src.Ptr(), d.Aligned())

	view, err := reg.ViewFromRanked(d)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Rank())
	assert.Equal(t, complex64(complex(2, -1)), tensor.At[complex64](view))
}

func TestTaggedTypeOpacity(t *testing.T) {
	reg := NewRegistry(DefaultConfig())

	// Includes a NaN with payload and a negative zero: arithmetic would not preserve them.
	bits := []uint16{
		tensor.BFloat16FromFloat32(1.5),
		tensor.BFloat16FromFloat32(float32(math.Copysign(0, -1))),
		0x7FC1,
		0xFF80,
	}
	src, err := tensor.FromSlice(bits, tensor.Shape{2, 2}, tensor.BFloat16)
	require.NoError(t, err)

	d, err := reg.DescribeRanked(src)
	require.NoError(t, err)
	assert.Equal(t, TaggedLayout(BFloat16Tagged), d.Layout())

	view, err := reg.ViewFromRanked(d)
	require.NoError(t, err)
	assert.Equal(t, tensor.BFloat16, view.DType(), "must not come back as int16")
	for i, want := range bits {
		assert.Equal(t, want, tensor.At[uint16](view, i/2, i%2))
	}
	assert.Equal(t, float32(1.5), tensor.BFloat16ToFloat32(tensor.At[uint16](view, 0, 0)))
}

func TestMissingRegistryReverse(t *testing.T) {
	withExt := NewRegistry(DefaultConfig())
	without := NewRegistry(Config{})

	src := patterned(t, tensor.Shape{3}, tensor.Float8E5M2)
	d, err := withExt.DescribeRanked(src)
	require.NoError(t, err)

	view, err := without.ViewFromRanked(d)
	assert.ErrorIs(t, err, ErrMissingExtendedTypeSupport)
	assert.Nil(t, view, "never falls back to a raw integer view")

	desc, err := without.DescribeRanked(src)
	assert.ErrorIs(t, err, ErrMissingExtendedTypeSupport)
	assert.Nil(t, desc, "no partial descriptor")

	u, err := withExt.DescribeUnranked(src)
	require.NoError(t, err)
	_, err = without.ViewFromUnranked(u, tensor.Float8E5M2)
	assert.ErrorIs(t, err, ErrMissingExtendedTypeSupport)
}

func TestUnrankedConsistency(t *testing.T) {
	reg := NewRegistry(DefaultConfig())

	for _, shape := range []tensor.Shape{{}, {7}, {2, 3}, {2, 1, 3}} {
		for _, dt := range []tensor.DataType{tensor.Float32, tensor.Complex128, tensor.BFloat16, tensor.Bool} {
			src := patterned(t, shape, dt)

			u, err := reg.DescribeUnranked(src)
			require.NoError(t, err)
			assert.Equal(t, int64(len(shape)), u.Rank)

			fromUnranked, err := reg.ViewFromUnranked(u, dt)
			require.NoError(t, err)

			d, err := reg.DescribeRanked(src)
			require.NoError(t, err)
			fromRanked, err := reg.ViewFromRanked(d)
			require.NoError(t, err)

			assertSameView(t, fromRanked, fromUnranked)
		}
	}
}

func TestUnrankedFromStaticDescriptor(t *testing.T) {
	reg := NewRegistry(DefaultConfig())
	data := []float32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}

	// A strided 3x2 window starting at data[1].
	s := rank2F32{
		Allocated: uintptr(unsafe.Pointer(&data[0])),
		Aligned:   &data[0],
		Offset:    1,
		Shape:     [2]int64{3, 2},
		Strides:   [2]int64{4, 2},
	}
	u := &Unranked{Rank: 2, Descriptor: unsafe.Pointer(&s)}

	view, err := reg.ViewFromUnranked(u, tensor.Float32)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 2}, view.Shape())
	assert.Equal(t, []int{16, 8}, view.Strides())
	assert.Equal(t, float32(1), tensor.At[float32](view, 0, 0))
	assert.Equal(t, float32(3), tensor.At[float32](view, 0, 1))
	assert.Equal(t, float32(9), tensor.At[float32](view, 2, 0))
	assert.Equal(t, float32(11), tensor.At[float32](view, 2, 1))
}

func TestRowMajorFloat64Scenario(t *testing.T) {
	reg := NewRegistry(DefaultConfig())
	src, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.Float64)
	require.NoError(t, err)
	require.Equal(t, []int{24, 8}, src.Strides())

	d, err := reg.DescribeRanked(src)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1}, d.Strides())
	assert.Equal(t, []int64{2, 3}, d.Shape())
	assert.Equal(t, int64(0), d.Offset())

	view, err := reg.ViewFromRanked(d)
	require.NoError(t, err)
	assert.Equal(t, []int{24, 8}, view.Strides())
	assert.Equal(t, float64(6), tensor.At[float64](view, 1, 2))
}

func TestNewDescriptorValidation(t *testing.T) {
	_, err := NewDescriptor(NativeLayout(tensor.Float32), 0, nil, 0, []int64{1, 2}, []int64{1})
	assert.Error(t, err)

	_, err = NewDescriptor(ScalarLayout{Kind: ScalarKind(9)}, 0, nil, 0, nil, nil)
	assert.Error(t, err)

	d, err := NewDescriptor(NativeLayout(tensor.Int32), 0, nil, 0, []int64{4}, []int64{1})
	require.NoError(t, err)
	assert.Nil(t, d.Aligned())
	assert.Contains(t, d.String(), "shape=[4]")
}

// reflectElem returns the struct type behind a descriptor.
func reflectElem(d *Descriptor) reflect.Type {
	return d.value.Type().Elem()
}
