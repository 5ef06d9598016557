package tensor

import (
	"math"
	"testing"
)

func TestDataTypeRoundTripNames(t *testing.T) {
	for _, dt := range DataTypes {
		got, err := ParseDataType(dt.String())
		if err != nil {
			t.Fatalf("ParseDataType(%q) failed: %v", dt, err)
		}
		if got != dt {
			t.Errorf("ParseDataType(%q) = %v", dt, got)
		}
	}
	if _, err := ParseDataType("float128"); err == nil {
		t.Error("ParseDataType should reject unknown names")
	}
}

func TestDataTypeSize(t *testing.T) {
	sizes := map[DataType]int{
		Bool: 1, Int8: 1, Uint8: 1, Float8E5M2: 1,
		Int16: 2, Uint16: 2, Float16: 2, BFloat16: 2,
		Int32: 4, Uint32: 4, Float32: 4,
		Int64: 8, Uint64: 8, Float64: 8, Complex64: 8,
		Complex128: 16,
	}
	for dt, want := range sizes {
		if dt.Size() != want {
			t.Errorf("%s.Size() = %d, want %d", dt, dt.Size(), want)
		}
	}
}

func TestIsExtended(t *testing.T) {
	for _, dt := range DataTypes {
		want := dt == BFloat16 || dt == Float8E5M2
		if dt.IsExtended() != want {
			t.Errorf("%s.IsExtended() = %v, want %v", dt, dt.IsExtended(), want)
		}
	}
}

func TestExtendedTypes(t *testing.T) {
	var absent *ExtendedTypes
	if absent.Has(BFloat16) || absent.Types() != nil {
		t.Error("nil registry should provide nothing")
	}

	ext := DefaultExtendedTypes()
	if !ext.Has(BFloat16) || !ext.Has(Float8E5M2) || ext.Has(Float16) {
		t.Errorf("default registry provides %v", ext.Types())
	}
}

func TestFloat8E5M2Rounding(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{1.1252, 0x3D}, // just above the 1.125 midpoint, a tie once rounded to float16
		{1.1248, 0x3C},
		{1.125, 0x3C}, // tie, even mantissa
		{1.375, 0x3E}, // tie, odd mantissa rounds up
		{-1.1252, 0xBD},
		{60000, 0x7B},
		{61440, 0x7C}, // tie above the largest finite value overflows
		{1e9, 0x7C},
		{float32(math.Ldexp(1, -14)), 0x04},
		{float32(math.Ldexp(1, -16)), 0x01},
		{float32(math.Ldexp(1.5, -17)), 0x01},
		{float32(math.Ldexp(1, -17)), 0x00}, // tie between 0 and the smallest subnormal
		{float32(math.Ldexp(1, -18)), 0x00},
		{float32(math.Copysign(0, -1)), 0x80},
		{float32(math.Inf(-1)), 0xFC},
	}
	for _, tt := range tests {
		if got := Float8E5M2FromFloat32(tt.in); got != tt.want {
			t.Errorf("Float8E5M2FromFloat32(%v) = %#02x, want %#02x", tt.in, got, tt.want)
		}
	}
}

func TestShapeIndices(t *testing.T) {
	var got [][]int
	Shape{2, 3}.Indices(func(idx []int) {
		got = append(got, append([]int(nil), idx...))
	})
	if len(got) != 6 || got[0][0] != 0 || got[5][0] != 1 || got[5][1] != 2 {
		t.Errorf("Indices = %v", got)
	}

	calls := 0
	Shape{}.Indices(func(idx []int) { calls++ })
	if calls != 1 {
		t.Errorf("scalar shape should yield one index, got %d", calls)
	}

	Shape{3, 0}.Indices(func([]int) { t.Error("empty shape should yield no index") })
}

func TestHalfConversions(t *testing.T) {
	values := []float32{0, 1, -2, 0.5, 1.5, 65504, -0.25}
	for _, v := range values {
		if got := Float16ToFloat32(Float16FromFloat32(v)); got != v {
			t.Errorf("float16 round trip of %v = %v", v, got)
		}
		if got := BFloat16ToFloat32(BFloat16FromFloat32(v)); v != 65504 && got != v {
			t.Errorf("bfloat16 round trip of %v = %v", v, got)
		}
	}

	for _, v := range []float32{0, 1, -2, 0.5, 1.5, 57344, -0.25} {
		if got := Float8E5M2ToFloat32(Float8E5M2FromFloat32(v)); got != v {
			t.Errorf("float8_e5m2 round trip of %v = %v", v, got)
		}
	}

	if Float16FromFloat32(1) != 0x3C00 {
		t.Errorf("float16(1) = %#04x, want 0x3c00", Float16FromFloat32(1))
	}
	if BFloat16FromFloat32(1) != 0x3F80 {
		t.Errorf("bfloat16(1) = %#04x, want 0x3f80", BFloat16FromFloat32(1))
	}
	if Float8E5M2FromFloat32(1) != 0x3C {
		t.Errorf("float8_e5m2(1) = %#02x, want 0x3c", Float8E5M2FromFloat32(1))
	}
	if !math.IsNaN(float64(Float8E5M2ToFloat32(Float8E5M2FromFloat32(float32(math.NaN()))))) {
		t.Error("float8_e5m2 should preserve NaN")
	}
	if !math.IsNaN(float64(BFloat16ToFloat32(BFloat16FromFloat32(float32(math.NaN()))))) {
		t.Error("bfloat16 should preserve NaN")
	}
}
