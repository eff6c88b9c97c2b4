package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/born-ml/named/internal/names"
	"github.com/born-ml/named/internal/tensor"
)

// Metadata keys written by this package.
const (
	MetadataNamesPrefix = "born.names."
	MetadataChecksum    = "born.sha256"
)

// MaxHeaderSize bounds the JSON header read from a file.
const MaxHeaderSize = 100 << 20

const metadataKey = "__metadata__"

// Entry is one tensor of a file, with optional axis names.
type Entry struct {
	Name   string
	Tensor *tensor.RawTensor
	Names  names.Names
}

// File is the parsed content of a SafeTensors file.
type File struct {
	Entries  []Entry
	Metadata map[string]string // user metadata, without the born.* keys
}

// Lookup returns the entry called name.
func (f *File) Lookup(name string) (Entry, bool) {
	for _, e := range f.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// SafeTensorHeader represents a tensor in the SafeTensors header.
type SafeTensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// Save writes entries to path, creating its directory.
func Save(path string, entries []Entry, metadata map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Write(file, entries, metadata); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// Write writes entries in SafeTensors format.
//
// Tensors are written in alphabetical order by name (SafeTensors requirement).
func Write(w io.Writer, entries []Entry, metadata map[string]string) error {
	sorted := append([]Entry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	meta := make(map[string]string, len(metadata)+len(sorted)+1)
	for k, v := range metadata {
		meta[k] = v
	}

	header := make(map[string]any, len(sorted)+1)
	var data bytes.Buffer
	for i, e := range sorted {
		if e.Name == "" || e.Name == metadataKey {
			return fmt.Errorf("invalid tensor name %q", e.Name)
		}
		if i > 0 && sorted[i-1].Name == e.Name {
			return fmt.Errorf("duplicate tensor name %q", e.Name)
		}
		dtype, err := dtypeToSafeTensors(e.Tensor.DType())
		if err != nil {
			return &ValidationError{Tensor: e.Name, Err: err, Detail: e.Tensor.DType().String()}
		}
		if e.Names != nil {
			if err := names.Validate(e.Names, e.Tensor.Rank()); err != nil {
				return fmt.Errorf("tensor %q: %w", e.Name, err)
			}
			if slices.ContainsFunc(e.Names, func(n string) bool { return strings.Contains(n, ",") }) {
				return fmt.Errorf("tensor %q: axis names %v must not contain commas", e.Name, e.Names)
			}
			meta[MetadataNamesPrefix+e.Name] = strings.Join(e.Names, ",")
		}

		shape := make([]int64, e.Tensor.Rank())
		for d, size := range e.Tensor.Shape() {
			shape[d] = int64(size)
		}
		begin := int64(data.Len())
		data.Write(e.Tensor.Bytes())
		header[e.Name] = SafeTensorHeader{
			DType:       dtype,
			Shape:       shape,
			DataOffsets: [2]int64{begin, int64(data.Len())},
		}
	}
	meta[MetadataChecksum] = Checksum(data.Bytes())
	header[metadataKey] = meta

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(data.Bytes()); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return nil
}

// Load reads the SafeTensors file at path.
func Load(path string) (*File, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return Read(file)
}

// Read parses a SafeTensors stream.
func Read(r io.Reader) (*File, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(headerJSON, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}

	meta := map[string]string{}
	if m, ok := raw[metadataKey]; ok {
		if err := json.Unmarshal(m, &meta); err != nil {
			return nil, fmt.Errorf("failed to parse metadata: %w", err)
		}
		delete(raw, metadataKey)
	}
	if err := ValidateChecksum(data, meta[MetadataChecksum]); err != nil {
		return nil, err
	}

	headers := make(map[string]SafeTensorHeader, len(raw))
	for name, msg := range raw {
		var h SafeTensorHeader
		if err := json.Unmarshal(msg, &h); err != nil {
			return nil, fmt.Errorf("failed to parse tensor %q: %w", name, err)
		}
		headers[name] = h
	}
	order, err := validateOffsets(headers, int64(len(data)))
	if err != nil {
		return nil, err
	}

	f := &File{Metadata: map[string]string{}}
	for _, name := range order {
		h := headers[name]
		t, err := decodeTensor(name, h, data[h.DataOffsets[0]:h.DataOffsets[1]])
		if err != nil {
			return nil, err
		}
		entry := Entry{Name: name, Tensor: t}
		if list, ok := meta[MetadataNamesPrefix+name]; ok {
			entry.Names = names.Of(strings.Split(list, ",")...)
			if err := names.Validate(entry.Names, t.Rank()); err != nil {
				return nil, fmt.Errorf("tensor %q: %w", name, err)
			}
		}
		f.Entries = append(f.Entries, entry)
	}
	for k, v := range meta {
		if !strings.HasPrefix(k, "born.") {
			f.Metadata[k] = v
		}
	}
	return f, nil
}

// validateOffsets checks that the tensors tile the data section without
// gaps or overlaps and returns their names in data order.
func validateOffsets(headers map[string]SafeTensorHeader, dataSize int64) ([]string, error) {
	order := make([]string, 0, len(headers))
	for name := range headers {
		order = append(order, name)
	}
	sort.Slice(order, func(i, j int) bool {
		return headers[order[i]].DataOffsets[0] < headers[order[j]].DataOffsets[0]
	})

	var end int64
	for _, name := range order {
		off := headers[name].DataOffsets
		if off[0] < end {
			return nil, &ValidationError{Tensor: name, Err: ErrOffsetOverlap, Detail: fmt.Sprintf("begins at %d before %d", off[0], end)}
		}
		if off[0] > end || off[1] < off[0] {
			return nil, &ValidationError{Tensor: name, Err: ErrOutOfBounds, Detail: fmt.Sprintf("offsets %v", off)}
		}
		if off[1] > dataSize {
			return nil, &ValidationError{Tensor: name, Err: ErrOutOfBounds, Detail: fmt.Sprintf("ends at %d past %d", off[1], dataSize)}
		}
		end = off[1]
	}
	if end != dataSize {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrOutOfBounds, dataSize-end)
	}
	return order, nil
}

func decodeTensor(name string, h SafeTensorHeader, data []byte) (*tensor.RawTensor, error) {
	dtype, err := dtypeFromSafeTensors(h.DType)
	if err != nil {
		return nil, &ValidationError{Tensor: name, Err: err, Detail: h.DType}
	}
	size, ok := byteSize(h.Shape, dtype.Size())
	if !ok {
		return nil, &ValidationError{Tensor: name, Err: ErrOutOfBounds,
			Detail: fmt.Sprintf("shape %v overflows", h.Shape)}
	}
	if size != int64(len(data)) {
		return nil, &ValidationError{Tensor: name, Err: ErrOutOfBounds,
			Detail: fmt.Sprintf("shape %v needs %d bytes, got %d", h.Shape, size, len(data))}
	}

	shape := make(tensor.Shape, len(h.Shape))
	for i, dim := range h.Shape {
		shape[i] = int(dim)
	}
	t, err := tensor.NewRaw(shape, dtype, tensor.CPU)
	if err != nil {
		return nil, fmt.Errorf("tensor %q: %w", name, err)
	}
	copy(t.Bytes(), data)
	return t, nil
}

// byteSize returns the number of bytes a tensor of shape takes.
// It reports false for non-positive dimensions or when the count does not
// fit in an int.
func byteSize(shape []int64, elemSize int) (int64, bool) {
	n := int64(elemSize)
	for _, dim := range shape {
		if dim <= 0 || n > math.MaxInt/dim {
			return 0, false
		}
		n *= dim
	}
	return n, true
}

// dtypeToSafeTensors converts tensor.DataType to SafeTensors dtype string.
func dtypeToSafeTensors(dt tensor.DataType) (string, error) {
	switch dt {
	case tensor.Float32:
		return "F32", nil
	case tensor.Float64:
		return "F64", nil
	case tensor.Int32:
		return "I32", nil
	case tensor.Int64:
		return "I64", nil
	default:
		return "", ErrUnsupportedDType
	}
}

func dtypeFromSafeTensors(s string) (tensor.DataType, error) {
	switch s {
	case "F32":
		return tensor.Float32, nil
	case "F64":
		return tensor.Float64, nil
	case "I32":
		return tensor.Int32, nil
	case "I64":
		return tensor.Int64, nil
	default:
		return 0, ErrUnsupportedDType
	}
}
