// Package memref translates host tensors to and from the strided memory-reference
// descriptors used by a compiler's lowered runtime.
//
// A ranked descriptor is laid out exactly as the runtime expects:
//
//	struct {
//	    allocated uintptr      // origin of the allocation, informational only
//	    aligned   *Elem        // element [0, ..., 0] before the offset is applied
//	    offset    int64        // in elements
//	    shape     [rank]int64  // extents
//	    strides   [rank]int64  // in elements
//	}
//
// Rank-0 descriptors stop after offset. An unranked descriptor is the pair
// (rank int64, descriptor pointer).
//
// Descriptors never own the memory they reference. A descriptor built from a tensor
// aliases the tensor's buffer, and a tensor rebuilt from a descriptor is a non-owning
// view; the caller keeps the backing memory alive for as long as either is used.
//
// Example:
//
//	reg := memref.NewRegistry(memref.DefaultConfig())
//	desc, err := reg.DescribeRanked(t)
//	if err != nil {
//	    return err
//	}
//	callKernel(desc.Pointer())
//	out, err := reg.ViewFromRanked(desc)
package memref
