package memref

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrUnsupportedDtype           = errors.New("unsupported dtype")
	ErrMissingExtendedTypeSupport = errors.New("extended type support is not available")
)

// DtypeError reports a failed element type mapping.
type DtypeError struct {
	Op    string // Operation that failed (e.g., "map element type")
	DType string // Logical element type or scalar layout involved
	Err   error  // ErrUnsupportedDtype or ErrMissingExtendedTypeSupport
}

// Error implements the error interface.
func (e *DtypeError) Error() string {
	if errors.Is(e.Err, ErrMissingExtendedTypeSupport) {
		return fmt.Sprintf("%s: %s requires extended type support, construct the registry with tensor.DefaultExtendedTypes()", e.Op, e.DType)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.DType, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *DtypeError) Unwrap() error {
	return e.Err
}
