package loader

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"unsafe"

	"go.uber.org/zap"

	"github.com/born-ml/memref/internal/memref"
	"github.com/born-ml/memref/internal/parallel"
	"github.com/born-ml/memref/internal/tensor"
)

// SafeTensors format:
// [8 bytes: header_size (uint64 LE)]
// [header_size bytes: JSON header]
// [tensor data: raw bytes]

// SafeTensorsDType represents supported SafeTensors data types.
type SafeTensorsDType string

// Supported SafeTensors dtypes.
const (
	SafeTensorsBool   SafeTensorsDType = "BOOL"
	SafeTensorsI8     SafeTensorsDType = "I8"
	SafeTensorsI16    SafeTensorsDType = "I16"
	SafeTensorsI32    SafeTensorsDType = "I32"
	SafeTensorsI64    SafeTensorsDType = "I64"
	SafeTensorsU8     SafeTensorsDType = "U8"
	SafeTensorsU16    SafeTensorsDType = "U16"
	SafeTensorsU32    SafeTensorsDType = "U32"
	SafeTensorsU64    SafeTensorsDType = "U64"
	SafeTensorsF8E5M2 SafeTensorsDType = "F8_E5M2"
	SafeTensorsF16    SafeTensorsDType = "F16"
	SafeTensorsBF16   SafeTensorsDType = "BF16"
	SafeTensorsF32    SafeTensorsDType = "F32"
	SafeTensorsF64    SafeTensorsDType = "F64"
	SafeTensorsC64    SafeTensorsDType = "C64"
)

var safeTensorsDTypes = map[SafeTensorsDType]tensor.DataType{
	SafeTensorsBool:   tensor.Bool,
	SafeTensorsI8:     tensor.Int8,
	SafeTensorsI16:    tensor.Int16,
	SafeTensorsI32:    tensor.Int32,
	SafeTensorsI64:    tensor.Int64,
	SafeTensorsU8:     tensor.Uint8,
	SafeTensorsU16:    tensor.Uint16,
	SafeTensorsU32:    tensor.Uint32,
	SafeTensorsU64:    tensor.Uint64,
	SafeTensorsF8E5M2: tensor.Float8E5M2,
	SafeTensorsF16:    tensor.Float16,
	SafeTensorsBF16:   tensor.BFloat16,
	SafeTensorsF32:    tensor.Float32,
	SafeTensorsF64:    tensor.Float64,
	SafeTensorsC64:    tensor.Complex64,
}

// DataType converts the SafeTensors dtype to a host data type.
func (d SafeTensorsDType) DataType() (tensor.DataType, error) {
	dt, ok := safeTensorsDTypes[d]
	if !ok {
		return 0, fmt.Errorf("unsupported dtype: %s", d)
	}
	return dt, nil
}

// SafeTensorInfo describes a tensor in SafeTensors format.
type SafeTensorInfo struct {
	DType       SafeTensorsDType `json:"dtype"`
	Shape       []int            `json:"shape"`
	DataOffsets [2]int64         `json:"data_offsets"` // [start, end]
}

// SafeTensorsHeader is the JSON header in SafeTensors format.
type SafeTensorsHeader struct {
	Metadata map[string]string         `json:"__metadata__"`
	Tensors  map[string]SafeTensorInfo `json:"-"`
}

// UnmarshalJSON implements custom JSON unmarshaling for SafeTensorsHeader.
func (h *SafeTensorsHeader) UnmarshalJSON(data []byte) error {
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return err
	}

	if metadataRaw, ok := rawMap["__metadata__"]; ok {
		if err := json.Unmarshal(metadataRaw, &h.Metadata); err != nil {
			return fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	// Everything except __metadata__ is a tensor entry.
	h.Tensors = make(map[string]SafeTensorInfo)
	for key, value := range rawMap {
		if key == "__metadata__" {
			continue
		}
		var info SafeTensorInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return fmt.Errorf("failed to unmarshal tensor %s: %w", key, err)
		}
		h.Tensors[key] = info
	}

	return nil
}

// Options configures a SafeTensorsReader.
type Options struct {
	MaxHeaderSize uint64          // Reject headers larger than this many bytes.
	Mmap          bool            // Map the file and alias tensor data instead of reading it.
	Parallel      parallel.Config // Concurrency used by DescribeFile.
	Logger        *zap.Logger     // Optional logger, no-op if nil.
}

// DefaultOptions returns the default reader options (100MB header limit, reads
// through the file, loads tensors on all CPUs).
func DefaultOptions() Options {
	return Options{
		MaxHeaderSize: 100 * 1024 * 1024,
		Parallel:      parallel.DefaultConfig(),
	}
}

// SafeTensorsReader reads SafeTensors format files.
// It is safe for concurrent use until Close is called.
type SafeTensorsReader struct {
	file       *os.File
	mapped     []byte // whole file when opened with Options.Mmap
	header     SafeTensorsHeader
	dataOffset int64 // Offset where tensor data starts
	logger     *zap.Logger
}

// NewSafeTensorsReader creates a new SafeTensors reader with default options.
func NewSafeTensorsReader(path string) (*SafeTensorsReader, error) {
	return NewSafeTensorsReaderWithOptions(path, DefaultOptions())
}

// NewSafeTensorsReaderWithOptions creates a new SafeTensors reader with custom options.
func NewSafeTensorsReaderWithOptions(path string, opts Options) (*SafeTensorsReader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	var headerSize uint64
	if err := binary.Read(file, binary.LittleEndian, &headerSize); err != nil {
		_ = file.Close() // Best effort close on error
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}

	if opts.MaxHeaderSize > 0 && headerSize > opts.MaxHeaderSize {
		_ = file.Close()
		return nil, fmt.Errorf("invalid header size: %d (too large)", headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(file, headerBytes); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var header SafeTensorsHeader
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &SafeTensorsReader{
		file:       file,
		header:     header,
		dataOffset: int64(8 + headerSize), //nolint:gosec // G115: header size bounded by MaxHeaderSize
		logger:     logger,
	}

	if opts.Mmap {
		stat, err := file.Stat()
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("failed to stat file: %w", err)
		}
		r.mapped, err = mmapFile(file, stat.Size())
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("mmap failed: %w", err)
		}
	}

	logger.Debug("opened safetensors file",
		zap.String("path", path),
		zap.Int("tensors", len(header.Tensors)),
		zap.Uint64("header_size", headerSize),
		zap.Bool("mmap", r.mapped != nil))
	return r, nil
}

// Close unmaps and closes the SafeTensors file. Tensors loaded from a mapped
// reader must not be used afterwards.
func (r *SafeTensorsReader) Close() error {
	var err error
	if r.mapped != nil {
		err = munmapFile(r.mapped)
		r.mapped = nil
	}
	if r.file != nil {
		if closeErr := r.file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		r.file = nil
	}
	return err
}

// Metadata returns the metadata map from the header.
func (r *SafeTensorsReader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorNames returns all tensor names in the file, sorted.
func (r *SafeTensorsReader) TensorNames() []string {
	names := make([]string, 0, len(r.header.Tensors))
	for name := range r.header.Tensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TensorInfo returns information about a specific tensor.
func (r *SafeTensorsReader) TensorInfo(name string) (*SafeTensorInfo, error) {
	info, ok := r.header.Tensors[name]
	if !ok {
		return nil, fmt.Errorf("tensor %s not found", name)
	}
	return &info, nil
}

// ReadTensorData reads raw tensor data for a given tensor name.
// On a mapped reader the result aliases the read-only mapping.
func (r *SafeTensorsReader) ReadTensorData(name string) ([]byte, error) {
	info, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}

	start := r.dataOffset + info.DataOffsets[0]
	size := info.DataOffsets[1] - info.DataOffsets[0]
	if info.DataOffsets[0] < 0 || size < 0 {
		return nil, fmt.Errorf("invalid data offsets for tensor %s: [%d, %d]",
			name, info.DataOffsets[0], info.DataOffsets[1])
	}

	if r.mapped != nil {
		if start+size > int64(len(r.mapped)) {
			return nil, fmt.Errorf("tensor %s: data range [%d, %d) exceeds file size %d",
				name, start, start+size, len(r.mapped))
		}
		return r.mapped[start : start+size : start+size], nil
	}

	data := make([]byte, size)
	if _, err := r.file.ReadAt(data, start); err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	return data, nil
}

// LoadTensor loads a tensor into a contiguous host tensor.
// Data is interpreted in host byte order; SafeTensors files are little-endian.
// On a mapped reader the tensor aliases the file mapping: it is read-only and
// valid only until Close. Data whose address in the mapping is not a multiple of
// the element size is copied instead, so the tensor can back a memref.
func (r *SafeTensorsReader) LoadTensor(name string) (*tensor.RawTensor, error) {
	info, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}

	dtype, err := info.DType.DataType()
	if err != nil {
		return nil, fmt.Errorf("failed to convert dtype for tensor %s: %w", name, err)
	}

	shape := tensor.Shape(info.Shape)
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape for tensor %s: %w", name, err)
	}
	if want := int64(shape.NumElements() * dtype.Size()); want != info.DataOffsets[1]-info.DataOffsets[0] {
		return nil, fmt.Errorf("tensor %s: shape %v of %s needs %d bytes, header declares %d",
			name, shape, dtype, want, info.DataOffsets[1]-info.DataOffsets[0])
	}

	data, err := r.ReadTensorData(name)
	if err != nil {
		return nil, err
	}
	if r.mapped != nil && !aligned(data, dtype.Size()) {
		r.logger.Debug("copying misaligned mapped tensor",
			zap.String("tensor", name),
			zap.Stringer("dtype", dtype))
		data = bytes.Clone(data)
	}

	raw, err := tensor.FromBytes(data, shape, dtype)
	if err != nil {
		return nil, fmt.Errorf("failed to create tensor: %w", err)
	}
	return raw, nil
}

// aligned reports whether data starts at a multiple of itemSize.
func aligned(data []byte, itemSize int) bool {
	if len(data) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&data[0]))%uintptr(itemSize) == 0
}

// Described pairs a loaded tensor with the descriptor aliasing it.
// Tensor must be kept alive for as long as Descriptor is used.
type Described struct {
	Name       string
	Tensor     *tensor.RawTensor
	Descriptor *memref.Descriptor
}

// Describe loads a tensor and builds its ranked descriptor with reg.
func (r *SafeTensorsReader) Describe(name string, reg *memref.Registry) (*Described, error) {
	raw, err := r.LoadTensor(name)
	if err != nil {
		return nil, err
	}
	d, err := reg.DescribeRanked(raw)
	if err != nil {
		return nil, fmt.Errorf("tensor %s: %w", name, err)
	}
	return &Described{Name: name, Tensor: raw, Descriptor: d}, nil
}

// DescribeFile opens a SafeTensors file and describes every tensor, returned in
// name order. Tensors are loaded concurrently per opts.Parallel; any tensor that
// cannot be described fails the call.
//
// The file is closed before returning, so opts.Mmap is ignored: the descriptors
// must outlive the reader.
func DescribeFile(path string, reg *memref.Registry, opts Options) ([]*Described, error) {
	opts.Mmap = false
	r, err := NewSafeTensorsReaderWithOptions(path, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = r.Close() // Best effort close
	}()

	names := r.TensorNames()
	out := make([]*Described, len(names))
	err = parallel.ForEach(len(names), func(i int) error {
		d, err := r.Describe(names[i], reg)
		if err != nil {
			return err
		}
		out[i] = d
		return nil
	}, opts.Parallel)
	if err != nil {
		return nil, err
	}
	return out, nil
}
