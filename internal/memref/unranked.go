package memref

import (
	"fmt"
	"unsafe"
)

// Unranked is the rank-polymorphic descriptor passed when the callee's rank is only
// known at runtime. Descriptor points to a ranked (or zero-rank) descriptor whose
// layout is determined by Rank and a separately known element type.
type Unranked struct {
	Rank       int64
	Descriptor unsafe.Pointer
}

// Pointer returns the address of the unranked descriptor, as passed across the call boundary.
func (u *Unranked) Pointer() unsafe.Pointer {
	return unsafe.Pointer(u)
}

// String returns a human-readable representation of the descriptor.
func (u *Unranked) String() string {
	return fmt.Sprintf("memref<*, rank=%d descriptor=%p>", u.Rank, u.Descriptor)
}
