package tensor

import (
	"math"

	"github.com/x448/float16"
)

// Float16FromFloat32 returns the IEEE 754 binary16 bit pattern nearest to f.
func Float16FromFloat32(f float32) uint16 {
	return float16.Fromfloat32(f).Bits()
}

// Float16ToFloat32 widens an IEEE 754 binary16 bit pattern to float32.
func Float16ToFloat32(bits uint16) float32 {
	return float16.Frombits(bits).Float32()
}

// BFloat16FromFloat32 returns the bfloat16 bit pattern nearest to f (round to nearest even).
func BFloat16FromFloat32(f float32) uint16 {
	bits := math.Float32bits(f)
	if math.IsNaN(float64(f)) { // keep it quiet, drop the low payload
		return uint16(bits>>16) | 0x0040
	}
	bits += 0x7FFF + (bits>>16)&1
	return uint16(bits >> 16)
}

// BFloat16ToFloat32 widens a bfloat16 bit pattern to float32. The conversion is exact.
func BFloat16ToFloat32(bits uint16) float32 {
	return math.Float32frombits(uint32(bits) << 16)
}

// Float8E5M2FromFloat32 returns the float8_e5m2 bit pattern nearest to f (round to
// nearest even, overflow to infinity). The float32 is rounded once, straight to two
// mantissa bits.
func Float8E5M2FromFloat32(f float32) uint8 {
	bits := math.Float32bits(f)
	sign := uint8(bits>>24) & 0x80
	switch {
	case math.IsNaN(float64(f)):
		return sign | 0x7E
	case math.IsInf(float64(f), 0):
		return sign | 0x7C
	}

	exp := int(bits>>23&0xFF) - 127
	if exp < -17 { // below half the smallest subnormal, 2^-16, including float32 subnormals
		return sign
	}
	full := bits&0x7FFFFF | 0x800000 // value = full * 2^(exp-23)

	// Quantize to units of 2^(target-2), target being the e5m2 exponent of the result.
	target := max(exp, -14)
	shift := uint(21 + target - exp)
	q := full >> shift
	rem, half := full&(1<<shift-1), uint32(1)<<(shift-1)
	if rem > half || (rem == half && q&1 == 1) {
		q++
	}

	// Subnormals (q < 4 at target -14) and a carry into the next binade both encode
	// continuously as exponent field * 4 + mantissa.
	enc := (target+15)<<2 + int(q) - 4
	if enc >= 0x7C {
		return sign | 0x7C
	}
	return sign | uint8(enc)
}

// Float8E5M2ToFloat32 widens a float8_e5m2 bit pattern to float32. The conversion is exact.
func Float8E5M2ToFloat32(bits uint8) float32 {
	return float16.Frombits(uint16(bits) << 8).Float32()
}
