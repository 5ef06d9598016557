package tensor

import "slices"

// ExtendedTypes is the optional registry of data types the host can store but has no
// native arithmetic for. A nil *ExtendedTypes means the registry is absent.
type ExtendedTypes struct {
	types []DataType
}

// DefaultExtendedTypes returns a registry providing bfloat16 and float8_e5m2.
func DefaultExtendedTypes() *ExtendedTypes {
	return NewExtendedTypes(BFloat16, Float8E5M2)
}

// NewExtendedTypes returns a registry providing exactly the given types.
func NewExtendedTypes(types ...DataType) *ExtendedTypes {
	return &ExtendedTypes{types: slices.Clone(types)}
}

// Has reports whether dt is provided by the registry. It is safe to call on nil.
func (e *ExtendedTypes) Has(dt DataType) bool {
	return e != nil && slices.Contains(e.types, dt)
}

// Types returns the data types provided by the registry.
func (e *ExtendedTypes) Types() []DataType {
	if e == nil {
		return nil
	}
	return slices.Clone(e.types)
}
