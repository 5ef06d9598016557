package tensor

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

// tensorBuffer is a reference-counted buffer shared between a tensor and its views.
type tensorBuffer struct {
	data     []byte
	refCount atomic.Int32
	mu       sync.Mutex // For safe deallocation
}

// newTensorBuffer creates a new reference-counted buffer with refCount = 1.
func newTensorBuffer(data []byte) *tensorBuffer {
	buf := &tensorBuffer{data: data}
	buf.refCount.Store(1)
	return buf
}

// addRef increments the reference count.
func (tb *tensorBuffer) addRef() {
	tb.refCount.Add(1)
}

// release decrements the reference count and drops the data if it reaches 0.
func (tb *tensorBuffer) release() {
	if tb.refCount.Add(-1) == 0 {
		tb.mu.Lock()
		defer tb.mu.Unlock()
		tb.data = nil
	}
}

// isUnique returns true if this buffer has only one reference.
func (tb *tensorBuffer) isUnique() bool {
	return tb.refCount.Load() == 1
}

// RawTensor is the host array representation: a typed, strided window onto memory.
//
// A RawTensor either owns a reference-counted buffer (NewRaw, FromBytes, and views
// derived from them via Slice, Transpose, Reinterpret, Clone) or is a non-owning view
// over memory it does not manage (NewView). Strides are always expressed in bytes.
type RawTensor struct {
	buffer *tensorBuffer  // Shared buffer, nil for non-owning views
	ptr    unsafe.Pointer // Address of the logical first element
	shape  Shape          // Tensor dimensions
	stride []int          // Byte strides, one per dimension
	dtype  DataType       // Runtime type information
}

// NewRaw creates a new contiguous row-major RawTensor with the given shape and type.
// Memory is zero-initialized.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	// Keep at least one element of backing storage so the base address is always valid.
	byteSize := max(shape.NumElements(), 1) * dtype.Size()
	return FromBytes(make([]byte, byteSize), shape, dtype)
}

// FromBytes wraps data as a contiguous row-major tensor. The slice is not copied:
// the tensor takes shared ownership of it and writes through to it.
func FromBytes(data []byte, shape Shape, dtype DataType) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	need := shape.NumElements() * dtype.Size()
	if len(data) < need {
		return nil, fmt.Errorf("shape %v of %s requires %d bytes, but got %d", shape, dtype, need, len(data))
	}

	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = unsafe.Pointer(&data[0])
	}
	return &RawTensor{
		buffer: newTensorBuffer(data),
		ptr:    ptr,
		shape:  shape.Clone(),
		stride: shape.ByteStrides(dtype.Size()),
		dtype:  dtype,
	}, nil
}

// FromSlice copies data into a new contiguous tensor of the given shape.
// The dtype is taken from the caller since T alone cannot distinguish tagged formats
// (e.g. float16 and uint16 share a Go representation).
func FromSlice[T Element](data []T, shape Shape, dtype DataType) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	var zero T
	if int(unsafe.Sizeof(zero)) != dtype.Size() {
		return nil, fmt.Errorf("element size %d does not match %s size %d", unsafe.Sizeof(zero), dtype, dtype.Size())
	}

	raw, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		//nolint:gosec // unsafe.Slice for zero-copy typed access, bounded by NumElements()
		copy(unsafe.Slice((*T)(raw.ptr), len(data)), data)
	}
	return raw, nil
}

// NewView creates a non-owning strided view over memory starting at ptr.
// byteStrides are in bytes, one per dimension. The caller must keep the
// underlying memory alive for as long as the view is used.
func NewView(ptr unsafe.Pointer, shape Shape, byteStrides []int, dtype DataType) (*RawTensor, error) {
	if len(shape) != len(byteStrides) {
		return nil, fmt.Errorf("shape rank %d does not match strides rank %d", len(shape), len(byteStrides))
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &RawTensor{
		ptr:    ptr,
		shape:  shape.Clone(),
		stride: append([]int{}, byteStrides...),
		dtype:  dtype,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's per-dimension strides in bytes.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// ItemSize returns the size of one element in bytes.
func (r *RawTensor) ItemSize() int {
	return r.dtype.Size()
}

// Rank returns the number of dimensions.
func (r *RawTensor) Rank() int {
	return len(r.shape)
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// Ptr returns the address of the logical first element.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Ptr() unsafe.Pointer {
	return r.ptr
}

// IsOwner reports whether the tensor holds a reference to its backing buffer.
func (r *RawTensor) IsOwner() bool {
	return r.buffer != nil
}

// IsContiguous reports whether the tensor is laid out row-major without gaps.
func (r *RawTensor) IsContiguous() bool {
	want := r.shape.ByteStrides(r.ItemSize())
	for i, s := range r.stride {
		if r.shape[i] > 1 && s != want[i] {
			return false
		}
	}
	return true
}

// Data returns the contiguous element bytes of the tensor.
// Returns an error for non-contiguous tensors.
func (r *RawTensor) Data() ([]byte, error) {
	if !r.IsContiguous() {
		return nil, fmt.Errorf("tensor with strides %v is not contiguous", r.stride)
	}
	n := r.NumElements() * r.ItemSize()
	if n == 0 || r.ptr == nil {
		return []byte{}, nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounded by NumElements()
	return unsafe.Slice((*byte)(r.ptr), n), nil
}

// ElementPtr returns the address of the element at the given indices.
// Panics if indices are out of bounds.
func (r *RawTensor) ElementPtr(indices ...int) unsafe.Pointer {
	if len(indices) != len(r.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(r.shape), len(indices)))
	}

	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= r.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, r.shape[i]))
		}
		offset += idx * r.stride[i]
	}
	return unsafe.Add(r.ptr, offset)
}

// Bytes returns the raw bytes of the element at the given indices (zero-copy).
func (r *RawTensor) Bytes(indices ...int) []byte {
	//nolint:gosec // unsafe.Slice over a single element
	return unsafe.Slice((*byte)(r.ElementPtr(indices...)), r.ItemSize())
}

// Reinterpret returns a view of the same bytes under a different data type.
// No data is moved or converted; both types must have the same element size.
func (r *RawTensor) Reinterpret(dtype DataType) (*RawTensor, error) {
	if dtype.Size() != r.ItemSize() {
		return nil, fmt.Errorf("cannot reinterpret %s (%d bytes) as %s (%d bytes)",
			r.dtype, r.ItemSize(), dtype, dtype.Size())
	}
	v := r.view()
	v.dtype = dtype
	return v, nil
}

// Transpose returns a view with dimensions permuted by perm.
// With no arguments the dimension order is reversed.
func (r *RawTensor) Transpose(perm ...int) (*RawTensor, error) {
	if len(perm) == 0 {
		perm = make([]int, r.Rank())
		for i := range perm {
			perm[i] = r.Rank() - 1 - i
		}
	}
	if len(perm) != r.Rank() {
		return nil, fmt.Errorf("permutation %v does not match rank %d", perm, r.Rank())
	}

	seen := make([]bool, r.Rank())
	for _, p := range perm {
		if p < 0 || p >= r.Rank() || seen[p] {
			return nil, fmt.Errorf("invalid permutation %v", perm)
		}
		seen[p] = true
	}

	v := r.view()
	for i, p := range perm {
		v.shape[i] = r.shape[p]
		v.stride[i] = r.stride[p]
	}
	return v, nil
}

// Slice returns a view restricted to [start, end) along dim with the given step.
// A negative step walks the dimension backwards starting at end-1.
func (r *RawTensor) Slice(dim, start, end, step int) (*RawTensor, error) {
	if dim < 0 || dim >= r.Rank() {
		return nil, fmt.Errorf("dimension %d out of range for rank %d", dim, r.Rank())
	}
	if start < 0 || end > r.shape[dim] || start > end {
		return nil, fmt.Errorf("invalid range [%d, %d) for dimension %d (size %d)", start, end, dim, r.shape[dim])
	}
	if step == 0 {
		return nil, errors.New("slice step cannot be zero")
	}

	v := r.view()
	n := end - start
	first := start
	if step < 0 {
		first = end - 1
	}
	abs := max(step, -step)
	v.shape[dim] = (n + abs - 1) / abs
	v.stride[dim] = r.stride[dim] * step
	if n > 0 {
		v.ptr = unsafe.Add(r.ptr, first*r.stride[dim])
	}
	return v, nil
}

// view returns a new RawTensor sharing memory (and ownership, if any) with r.
func (r *RawTensor) view() *RawTensor {
	if r.buffer != nil {
		r.buffer.addRef()
	}
	return &RawTensor{
		buffer: r.buffer,
		ptr:    r.ptr,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
	}
}

// Clone creates a shallow copy of the RawTensor that shares its memory.
func (r *RawTensor) Clone() *RawTensor {
	return r.view()
}

// Contiguous returns a freshly allocated row-major copy of the tensor.
func (r *RawTensor) Contiguous() (*RawTensor, error) {
	out, err := NewRaw(r.shape, r.dtype)
	if err != nil {
		return nil, err
	}
	r.shape.Indices(func(idx []int) {
		copy(out.Bytes(idx...), r.Bytes(idx...))
	})
	return out, nil
}

// Release decrements the reference count of an owning tensor.
// It is a no-op for non-owning views.
func (r *RawTensor) Release() {
	if r.buffer != nil {
		r.buffer.release()
	}
}

// IsUnique returns true if this tensor is the only reference to its buffer.
func (r *RawTensor) IsUnique() bool {
	return r.buffer != nil && r.buffer.isUnique()
}

// String returns a human-readable representation of the tensor.
func (r *RawTensor) String() string {
	return fmt.Sprintf("RawTensor[%s]%v strides=%v", r.dtype, r.shape, r.stride)
}

// At returns the element at the given indices as T.
// Panics if T's size does not match the tensor's element size.
func At[T Element](r *RawTensor, indices ...int) T {
	checkElementSize[T](r)
	return *(*T)(r.ElementPtr(indices...))
}

// Set stores value at the given indices.
// Panics if T's size does not match the tensor's element size.
func Set[T Element](r *RawTensor, value T, indices ...int) {
	checkElementSize[T](r)
	*(*T)(r.ElementPtr(indices...)) = value
}

func checkElementSize[T Element](r *RawTensor) {
	var zero T
	if int(unsafe.Sizeof(zero)) != r.ItemSize() {
		panic(fmt.Sprintf("element size %d does not match tensor dtype %s", unsafe.Sizeof(zero), r.dtype))
	}
}
