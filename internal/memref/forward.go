package memref

import (
	"go.uber.org/zap"

	"github.com/born-ml/memref/internal/tensor"
)

// ElementStrides converts per-dimension strides from bytes to elements.
// Descriptors always store strides in elements.
func ElementStrides(byteStrides []int, itemSize int) []int64 {
	out := make([]int64, len(byteStrides))
	for i, s := range byteStrides {
		out[i] = int64(s / itemSize)
	}
	return out
}

// DescribeRanked builds a descriptor aliasing t's memory. Nothing is copied: t must
// stay alive and unmoved for as long as the descriptor is used.
//
// A 0-d tensor yields a zero-rank descriptor. Otherwise the descriptor carries t's
// shape and its strides converted to elements. The offset is always 0 because the
// aligned pointer is t's first logical element.
func (r *Registry) DescribeRanked(t *tensor.RawTensor) (*Descriptor, error) {
	elem, err := r.MapElementType(t.DType())
	if err != nil {
		return nil, err
	}

	base := t.Ptr()
	rank := t.Rank()
	shape := make([]int64, rank)
	for i, dim := range t.Shape() {
		shape[i] = int64(dim)
	}
	strides := ElementStrides(t.Strides(), t.ItemSize())

	d, err := NewDescriptor(elem, uintptr(base), base, 0, shape, strides)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("described tensor",
		zap.Int("rank", rank),
		zap.Stringer("dtype", t.DType()),
		zap.Stringer("layout", elem),
		zap.Int64s("strides", strides))
	return d, nil
}

// DescribeUnranked builds a ranked descriptor for t and wraps it with its rank.
// The returned value references the ranked descriptor, keeping it alive.
func (r *Registry) DescribeUnranked(t *tensor.RawTensor) (*Unranked, error) {
	d, err := r.DescribeRanked(t)
	if err != nil {
		return nil, err
	}
	return &Unranked{
		Rank:       int64(t.Rank()),
		Descriptor: d.Pointer(),
	}, nil
}
