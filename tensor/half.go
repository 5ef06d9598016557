// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/memref/internal/tensor"

// Float16FromFloat32 returns the IEEE 754 binary16 bit pattern nearest to f.
func Float16FromFloat32(f float32) uint16 {
	return tensor.Float16FromFloat32(f)
}

// Float16ToFloat32 widens a binary16 bit pattern to float32.
func Float16ToFloat32(bits uint16) float32 {
	return tensor.Float16ToFloat32(bits)
}

// BFloat16FromFloat32 returns the bfloat16 bit pattern nearest to f.
func BFloat16FromFloat32(f float32) uint16 {
	return tensor.BFloat16FromFloat32(f)
}

// BFloat16ToFloat32 widens a bfloat16 bit pattern to float32.
func BFloat16ToFloat32(bits uint16) float32 {
	return tensor.BFloat16ToFloat32(bits)
}

// Float8E5M2FromFloat32 returns the float8_e5m2 bit pattern nearest to f.
func Float8E5M2FromFloat32(f float32) uint8 {
	return tensor.Float8E5M2FromFloat32(f)
}

// Float8E5M2ToFloat32 widens a float8_e5m2 bit pattern to float32.
func Float8E5M2ToFloat32(bits uint8) float32 {
	return tensor.Float8E5M2ToFloat32(bits)
}
