// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the host array type bridged to memref descriptors.
//
// # Overview
//
// A RawTensor is a typed, strided window onto memory:
//   - Owning tensors (NewRaw, FromBytes, FromSlice) hold a reference-counted buffer
//   - Views (NewView) alias memory managed elsewhere, such as a buffer described by a memref
//   - Strides are always in bytes; Transpose and Slice produce non-contiguous views
//
// # Basic Usage
//
//	import "github.com/born-ml/memref/tensor"
//
//	x, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.Float64)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	x.Strides()                       // [24 8]
//	v := tensor.At[float64](x, 1, 2)  // 6
//
// # Supported Data Types
//
//   - bool, int8..int64, uint8..uint64
//   - float32, float64, complex64, complex128
//   - float16, bfloat16, float8_e5m2 (stored as raw bit patterns)
//
// bfloat16 and float8_e5m2 are extended types: a memref registry only maps them when
// constructed with an ExtendedTypes registry (see DefaultExtendedTypes).
package tensor
