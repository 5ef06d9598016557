package memref

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/born-ml/memref/internal/tensor"
)

// ByteStrides converts per-dimension strides from elements to bytes.
// It is the exact inverse of ElementStrides for strides that are multiples of itemSize.
func ByteStrides(elemStrides []int64, itemSize int) []int {
	out := make([]int, len(elemStrides))
	for i, s := range elemStrides {
		out[i] = int(s) * itemSize
	}
	return out
}

// OffsetPointer advances aligned by offset elements of itemSize bytes each.
func OffsetPointer(aligned unsafe.Pointer, offset int64, itemSize int) unsafe.Pointer {
	return unsafe.Add(aligned, offset*int64(itemSize))
}

// ViewFromRanked rebuilds a non-owning tensor view from d. The view starts at the
// aligned pointer advanced by the descriptor offset, uses d's shape and its strides
// converted to bytes, and carries the logical element type of d's layout.
func (r *Registry) ViewFromRanked(d *Descriptor) (*tensor.RawTensor, error) {
	elem := d.Layout()
	itemSize := elem.Size()
	ptr := OffsetPointer(d.Aligned(), d.Offset(), itemSize)

	dims := d.Shape()
	shape := make(tensor.Shape, len(dims))
	for i, dim := range dims {
		shape[i] = int(dim)
	}

	raw, err := tensor.NewView(ptr, shape, ByteStrides(d.Strides(), itemSize), elem.StorageType())
	if err != nil {
		return nil, fmt.Errorf("failed to create view: %w", err)
	}
	view, err := r.Reinterpret(raw, elem)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("rebuilt view",
		zap.Int("rank", d.Rank()),
		zap.Stringer("layout", elem),
		zap.Int64("offset", d.Offset()))
	return view, nil
}

// ViewFromUnranked rebuilds a view from an unranked descriptor whose pointee holds
// elements of dtype. A pointee whose layout disagrees with u.Rank is undefined behavior.
func (r *Registry) ViewFromUnranked(u *Unranked, dtype tensor.DataType) (*tensor.RawTensor, error) {
	elem, err := r.MapElementType(dtype)
	if err != nil {
		return nil, err
	}
	if u.Rank < 0 {
		return nil, fmt.Errorf("invalid unranked descriptor rank %d", u.Rank)
	}
	return r.ViewFromRanked(DescriptorAt(u.Descriptor, int(u.Rank), elem))
}
