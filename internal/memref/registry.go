package memref

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/born-ml/memref/internal/tensor"
)

// Config controls how a Registry maps element types.
type Config struct {
	ExtendedTypes *tensor.ExtendedTypes // Optional registry for bfloat16/float8_e5m2, nil if absent.
	Logger        *zap.Logger           // Optional logger, defaults to the package logger.
}

// DefaultConfig returns a configuration with the extended type registry present.
func DefaultConfig() Config {
	return Config{
		ExtendedTypes: tensor.DefaultExtendedTypes(),
	}
}

// Registry maps host data types to descriptor element layouts and back.
// It holds no mutable state and is safe for concurrent use.
type Registry struct {
	extended *tensor.ExtendedTypes
	logger   *zap.Logger
}

// NewRegistry creates a registry from cfg.
func NewRegistry(cfg Config) *Registry {
	l := cfg.Logger
	if l == nil {
		l = Logger()
	}
	return &Registry{
		extended: cfg.ExtendedTypes,
		logger:   l.Named("memref"),
	}
}

// HasExtendedTypes reports whether the extended type registry is present.
func (r *Registry) HasExtendedTypes() bool {
	return r.extended != nil
}

// MapElementType returns the element layout used to describe dt.
//
// complex128, complex64 and float16 map to tagged layouts; bfloat16 and float8_e5m2
// map to tagged layouts only when the extended type registry provides them and fail
// with ErrMissingExtendedTypeSupport otherwise. Every other known type maps natively.
func (r *Registry) MapElementType(dt tensor.DataType) (ScalarLayout, error) {
	switch dt {
	case tensor.Complex128:
		return TaggedLayout(ComplexDouble), nil
	case tensor.Complex64:
		return TaggedLayout(ComplexFloat), nil
	case tensor.Float16:
		return TaggedLayout(Float16Tagged), nil
	case tensor.BFloat16:
		if !r.extended.Has(dt) {
			return ScalarLayout{}, r.fail("map element type", dt.String(), ErrMissingExtendedTypeSupport)
		}
		return TaggedLayout(BFloat16Tagged), nil
	case tensor.Float8E5M2:
		if !r.extended.Has(dt) {
			return ScalarLayout{}, r.fail("map element type", dt.String(), ErrMissingExtendedTypeSupport)
		}
		return TaggedLayout(Float8E5M2Tagged), nil
	}

	layout := NativeLayout(dt)
	if !layout.Valid() {
		return ScalarLayout{}, r.fail("map element type", dt.String(), ErrUnsupportedDtype)
	}
	return layout, nil
}

// MapLayoutToElementType returns the logical data type recovered from an element layout.
// It is the inverse of MapElementType.
func (r *Registry) MapLayoutToElementType(l ScalarLayout) (tensor.DataType, error) {
	switch l.Kind {
	case ComplexDouble:
		return tensor.Complex128, nil
	case ComplexFloat:
		return tensor.Complex64, nil
	case Float16Tagged:
		return tensor.Float16, nil
	case BFloat16Tagged:
		if !r.extended.Has(tensor.BFloat16) {
			return 0, r.fail("map layout to element type", l.String(), ErrMissingExtendedTypeSupport)
		}
		return tensor.BFloat16, nil
	case Float8E5M2Tagged:
		if !r.extended.Has(tensor.Float8E5M2) {
			return 0, r.fail("map layout to element type", l.String(), ErrMissingExtendedTypeSupport)
		}
		return tensor.Float8E5M2, nil
	case Native:
		if l.Valid() {
			return l.Native, nil
		}
	}
	return 0, r.fail("map layout to element type", l.String(), ErrUnsupportedDtype)
}

// Reinterpret re-tags view, whose elements are stored with layout l, with the
// logical data type of l. No data is moved.
func (r *Registry) Reinterpret(view *tensor.RawTensor, l ScalarLayout) (*tensor.RawTensor, error) {
	dt, err := r.MapLayoutToElementType(l)
	if err != nil {
		return nil, err
	}
	if dt == view.DType() {
		return view, nil
	}
	out, err := view.Reinterpret(dt)
	if err != nil {
		return nil, fmt.Errorf("reinterpret as %s: %w", l, err)
	}
	return out, nil
}

func (r *Registry) fail(op, dtype string, err error) error {
	r.logger.Debug("element type mapping failed",
		zap.String("op", op),
		zap.String("dtype", dtype),
		zap.Error(err))
	return &DtypeError{Op: op, DType: dtype, Err: err}
}
