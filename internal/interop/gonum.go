// Package interop exposes gonum matrices and vectors as host tensors without copying,
// so they can be described as memrefs, and turns row-major float64 tensors back into
// gonum matrices.
package interop

import (
	"errors"
	"fmt"
	"unsafe"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/memref/internal/tensor"
)

// ErrLayout is returned when a tensor cannot be expressed in gonum's storage layout.
var ErrLayout = errors.New("tensor layout not representable in gonum")

// FromDense returns a (rows, cols) float64 tensor aliasing m's storage.
// gonum's row stride becomes the tensor's leading byte stride, so views produced by
// m.Slice keep their gaps.
func FromDense(m *mat.Dense) (*tensor.RawTensor, error) {
	raw := m.RawMatrix()
	if len(raw.Data) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrLayout)
	}
	return tensor.NewView(
		unsafe.Pointer(&raw.Data[0]),
		tensor.Shape{raw.Rows, raw.Cols},
		[]int{raw.Stride * 8, 8},
		tensor.Float64,
	)
}

// FromCDense returns a (rows, cols) complex128 tensor aliasing m's storage.
func FromCDense(m *mat.CDense) (*tensor.RawTensor, error) {
	raw := m.RawCMatrix()
	if len(raw.Data) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrLayout)
	}
	return tensor.NewView(
		unsafe.Pointer(&raw.Data[0]),
		tensor.Shape{raw.Rows, raw.Cols},
		[]int{raw.Stride * 16, 16},
		tensor.Complex128,
	)
}

// FromVecDense returns a rank-1 float64 tensor aliasing v's storage, honoring its increment.
func FromVecDense(v *mat.VecDense) (*tensor.RawTensor, error) {
	raw := v.RawVector()
	if len(raw.Data) == 0 {
		return nil, fmt.Errorf("%w: empty vector", ErrLayout)
	}
	return tensor.NewView(
		unsafe.Pointer(&raw.Data[0]),
		tensor.Shape{raw.N},
		[]int{raw.Inc * 8},
		tensor.Float64,
	)
}

// ToDense returns a gonum matrix aliasing a rank-2 float64 tensor. The tensor's
// columns must be adjacent (column stride of one element) and its row stride must
// be at least the number of columns; transposed views must be made contiguous first.
func ToDense(t *tensor.RawTensor) (*mat.Dense, error) {
	if t.DType() != tensor.Float64 || t.Rank() != 2 {
		return nil, fmt.Errorf("%w: need rank-2 float64, got rank-%d %s", ErrLayout, t.Rank(), t.DType())
	}
	rows, cols := t.Shape()[0], t.Shape()[1]
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrLayout)
	}

	strides := t.Strides()
	if cols > 1 && strides[1] != 8 {
		return nil, fmt.Errorf("%w: column stride %d bytes", ErrLayout, strides[1])
	}
	stride := cols
	if rows > 1 {
		if strides[0]%8 != 0 || strides[0]/8 < cols {
			return nil, fmt.Errorf("%w: row stride %d bytes", ErrLayout, strides[0])
		}
		stride = strides[0] / 8
	}

	//nolint:gosec // unsafe.Slice spans exactly the rows*stride window the tensor addresses
	data := unsafe.Slice((*float64)(t.Ptr()), (rows-1)*stride+cols)
	var m mat.Dense
	m.SetRawMatrix(blas64.General{Rows: rows, Cols: cols, Stride: stride, Data: data})
	return &m, nil
}
