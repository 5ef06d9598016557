package memref

import (
	"fmt"
	"reflect"
	"sync"
)

// Descriptor field names, in ABI order.
const (
	FieldAllocated = "Allocated"
	FieldAligned   = "Aligned"
	FieldOffset    = "Offset"
	FieldShape     = "Shape"
	FieldStrides   = "Strides"
)

var (
	allocatedType = reflect.TypeOf(uintptr(0))
	indexType     = reflect.TypeOf(int64(0))

	layoutCache sync.Map // layoutKey -> reflect.Type
)

type layoutKey struct {
	rank   int
	layout ScalarLayout
}

// RankedLayout returns the descriptor struct type for rank >= 1 and element layout elem:
//
//	struct {
//	    Allocated uintptr
//	    Aligned   *Elem
//	    Offset    int64
//	    Shape     [rank]int64
//	    Strides   [rank]int64
//	}
//
// Types are built once per (rank, elem) and cached. Panics if rank < 1 or elem is invalid.
func RankedLayout(rank int, elem ScalarLayout) reflect.Type {
	if rank < 1 {
		panic(fmt.Sprintf("ranked descriptor requires rank >= 1, got %d", rank))
	}
	return cachedLayout(rank, elem)
}

// ZeroRankLayout returns the descriptor struct type for a 0-d memref of elem.
// It has the Allocated, Aligned and Offset fields only.
func ZeroRankLayout(elem ScalarLayout) reflect.Type {
	return cachedLayout(0, elem)
}

// DescriptorLayout returns ZeroRankLayout for rank 0 and RankedLayout otherwise.
func DescriptorLayout(rank int, elem ScalarLayout) reflect.Type {
	if rank == 0 {
		return ZeroRankLayout(elem)
	}
	return RankedLayout(rank, elem)
}

func cachedLayout(rank int, elem ScalarLayout) reflect.Type {
	key := layoutKey{rank: rank, layout: elem}
	if t, ok := layoutCache.Load(key); ok {
		return t.(reflect.Type)
	}
	t, _ := layoutCache.LoadOrStore(key, buildLayout(rank, elem))
	return t.(reflect.Type)
}

func buildLayout(rank int, elem ScalarLayout) reflect.Type {
	elemType := elem.Type()
	if elemType == nil {
		panic(fmt.Sprintf("invalid scalar layout %s", elem))
	}

	fields := []reflect.StructField{
		{Name: FieldAllocated, Type: allocatedType},
		{Name: FieldAligned, Type: reflect.PointerTo(elemType)},
		{Name: FieldOffset, Type: indexType},
	}
	if rank > 0 {
		sizes := reflect.ArrayOf(rank, indexType)
		fields = append(fields,
			reflect.StructField{Name: FieldShape, Type: sizes},
			reflect.StructField{Name: FieldStrides, Type: sizes},
		)
	}
	return reflect.StructOf(fields)
}

// FieldInfo describes the placement of one descriptor field.
type FieldInfo struct {
	Name   string
	Offset uintptr
	Size   uintptr
}

// LayoutFields returns the placement of every field of a descriptor struct type.
func LayoutFields(t reflect.Type) []FieldInfo {
	out := make([]FieldInfo, t.NumField())
	for i := range out {
		f := t.Field(i)
		out[i] = FieldInfo{Name: f.Name, Offset: f.Offset, Size: f.Type.Size()}
	}
	return out
}
