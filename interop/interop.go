// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package interop exposes gonum matrices as host tensors without copying.
//
// Example:
//
//	m := mat.NewDense(2, 3, nil)
//	t, _ := interop.FromDense(m)
//	desc, _ := reg.DescribeRanked(t) // strides [3 1]
package interop

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/memref/internal/interop"
	"github.com/born-ml/memref/internal/tensor"
)

// ErrLayout is returned when a tensor cannot be expressed in gonum's storage layout.
var ErrLayout = interop.ErrLayout

// FromDense returns a float64 tensor aliasing m.
func FromDense(m *mat.Dense) (*tensor.RawTensor, error) {
	return interop.FromDense(m)
}

// FromCDense returns a complex128 tensor aliasing m.
func FromCDense(m *mat.CDense) (*tensor.RawTensor, error) {
	return interop.FromCDense(m)
}

// FromVecDense returns a rank-1 float64 tensor aliasing v.
func FromVecDense(v *mat.VecDense) (*tensor.RawTensor, error) {
	return interop.FromVecDense(v)
}

// ToDense returns a gonum matrix aliasing a rank-2 float64 tensor.
func ToDense(t *tensor.RawTensor) (*mat.Dense, error) {
	return interop.ToDense(t)
}
