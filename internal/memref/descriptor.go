package memref

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"
)

// Field indices inside every descriptor struct type.
const (
	allocatedField = iota
	alignedField
	offsetField
	shapeField
	stridesField
)

// Descriptor is one populated instance of a ranked or zero-rank descriptor struct.
// It is created fresh by NewDescriptor or DescribeRanked and has no setters.
type Descriptor struct {
	rank   int
	layout ScalarLayout
	value  reflect.Value // *struct built by DescriptorLayout
}

// NewDescriptor allocates and populates a descriptor for elem.
// The rank is len(shape); strides are in elements and offset is in elements from aligned.
// The descriptor does not own the memory aligned points into.
func NewDescriptor(elem ScalarLayout, allocated uintptr, aligned unsafe.Pointer, offset int64, shape, strides []int64) (*Descriptor, error) {
	if !elem.Valid() {
		return nil, fmt.Errorf("invalid scalar layout %s", elem)
	}
	if len(shape) != len(strides) {
		return nil, fmt.Errorf("shape rank %d does not match strides rank %d", len(shape), len(strides))
	}

	rank := len(shape)
	value := reflect.New(DescriptorLayout(rank, elem))
	s := value.Elem()
	s.Field(allocatedField).SetUint(uint64(allocated))
	s.Field(alignedField).Set(reflect.NewAt(elem.Type(), aligned))
	s.Field(offsetField).SetInt(offset)
	for i := 0; i < rank; i++ {
		s.Field(shapeField).Index(i).SetInt(shape[i])
		s.Field(stridesField).Index(i).SetInt(strides[i])
	}

	return &Descriptor{rank: rank, layout: elem, value: value}, nil
}

// DescriptorAt interprets the memory at ptr as a descriptor of the given rank and
// element layout. Nothing is checked: a ptr that does not hold such a descriptor
// is undefined behavior.
func DescriptorAt(ptr unsafe.Pointer, rank int, elem ScalarLayout) *Descriptor {
	return &Descriptor{
		rank:   rank,
		layout: elem,
		value:  reflect.NewAt(DescriptorLayout(rank, elem), ptr),
	}
}

// Rank returns the number of dimensions.
func (d *Descriptor) Rank() int {
	return d.rank
}

// Layout returns the element layout.
func (d *Descriptor) Layout() ScalarLayout {
	return d.layout
}

// Allocated returns the allocation origin. It is informational and never used for addressing.
func (d *Descriptor) Allocated() uintptr {
	return uintptr(d.value.Elem().Field(allocatedField).Uint())
}

// Aligned returns the address of element [0, ..., 0] before the offset is applied.
func (d *Descriptor) Aligned() unsafe.Pointer {
	return d.value.Elem().Field(alignedField).UnsafePointer()
}

// Offset returns the distance in elements from Aligned to the first logical element.
func (d *Descriptor) Offset() int64 {
	return d.value.Elem().Field(offsetField).Int()
}

// Shape returns a copy of the extents, one per dimension.
func (d *Descriptor) Shape() []int64 {
	return d.sizes(shapeField)
}

// Strides returns a copy of the strides in elements, one per dimension.
func (d *Descriptor) Strides() []int64 {
	return d.sizes(stridesField)
}

func (d *Descriptor) sizes(field int) []int64 {
	out := make([]int64, d.rank)
	if d.rank == 0 {
		return out
	}
	arr := d.value.Elem().Field(field)
	for i := range out {
		out[i] = arr.Index(i).Int()
	}
	return out
}

// Pointer returns the address of the descriptor struct, as passed across the call boundary.
// The descriptor must stay reachable for as long as the pointer is in use.
func (d *Descriptor) Pointer() unsafe.Pointer {
	return d.value.UnsafePointer()
}

// Interface returns the descriptor as a pointer to its struct type.
func (d *Descriptor) Interface() any {
	return d.value.Interface()
}

// Size returns the size in bytes of the descriptor struct.
func (d *Descriptor) Size() uintptr {
	return d.value.Type().Elem().Size()
}

// String returns a human-readable representation of the descriptor.
func (d *Descriptor) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "memref<%s rank=%d aligned=%p offset=%d", d.layout, d.rank, d.Aligned(), d.Offset())
	if d.rank > 0 {
		fmt.Fprintf(&b, " shape=%v strides=%v", d.Shape(), d.Strides())
	}
	b.WriteString(">")
	return b.String()
}
