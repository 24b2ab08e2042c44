package checkpoint

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/fastestimator/fastestimator/internal/optim"
	"github.com/fastestimator/fastestimator/internal/tensor"
)

// Checkpoint is a parsed SafeTensors file held in memory.
type Checkpoint struct {
	metadata map[string]string
	headers  map[string]tensorHeader
	data     []byte
}

// Open reads and validates the file at path. A stored checksum is
// verified against the data section.
func Open(path string) (*Checkpoint, error) {
	//nolint:gosec // G304: loading a user-chosen checkpoint is the point
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw) < 8 {
		return nil, &ValidationError{Err: ErrOutOfBounds, Details: "file shorter than header size field"}
	}
	headerSize := binary.LittleEndian.Uint64(raw[:8])
	if headerSize > MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}
	if headerSize > uint64(len(raw)-8) {
		return nil, &ValidationError{Err: ErrOutOfBounds, Details: fmt.Sprintf("header size %d exceeds file", headerSize)}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw[8:8+headerSize], &fields); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	c := &Checkpoint{
		metadata: map[string]string{},
		headers:  make(map[string]tensorHeader, len(fields)),
		data:     raw[8+headerSize:],
	}
	var spans []span
	for name, msg := range fields {
		if name == metadataKey {
			if err := json.Unmarshal(msg, &c.metadata); err != nil {
				return nil, fmt.Errorf("failed to parse metadata: %w", err)
			}
			continue
		}
		if err := validateName(name); err != nil {
			return nil, err
		}
		var h tensorHeader
		if err := json.Unmarshal(msg, &h); err != nil {
			return nil, fmt.Errorf("tensor %q: %w", name, err)
		}
		if h.DType != dtypeF32 {
			return nil, fmt.Errorf("tensor %q: %w: %s", name, ErrUnsupportedDType, h.DType)
		}
		n := int64(1)
		for _, d := range h.Shape {
			n *= d
		}
		if h.DataOffsets[1]-h.DataOffsets[0] != n*4 {
			return nil, &ValidationError{Err: ErrOutOfBounds, Tensor: name,
				Details: fmt.Sprintf("shape %v needs %d bytes, region holds %d", h.Shape, n*4, h.DataOffsets[1]-h.DataOffsets[0])}
		}
		c.headers[name] = h
		spans = append(spans, span{name: name, start: h.DataOffsets[0], end: h.DataOffsets[1]})
	}
	if err := validateOffsets(spans, int64(len(c.data))); err != nil {
		return nil, err
	}

	if want, ok := c.metadata[checksumKey]; ok {
		if got := checksum(c.data); got != want {
			return nil, fmt.Errorf("%w: got %s, want %s", ErrChecksumMismatch, got[:12], want[:min(12, len(want))])
		}
	}
	return c, nil
}

// Metadata returns user metadata, including the stored checksum.
func (c *Checkpoint) Metadata() map[string]string { return c.metadata }

// Tensors describes the stored tensors in name order.
func (c *Checkpoint) Tensors() []TensorInfo {
	names := make([]string, 0, len(c.headers))
	for name := range c.headers {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]TensorInfo, len(names))
	for i, name := range names {
		h := c.headers[name]
		shape := make([]int, len(h.Shape))
		for j, d := range h.Shape {
			shape[j] = int(d)
		}
		out[i] = TensorInfo{Name: name, Shape: shape, Size: h.DataOffsets[1] - h.DataOffsets[0]}
	}
	return out
}

// Tensor decodes the named tensor.
func (c *Checkpoint) Tensor(name string) (*tensor.Tensor, error) {
	h, ok := c.headers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingTensor, name)
	}
	region := c.data[h.DataOffsets[0]:h.DataOffsets[1]]
	values := make([]float32, len(region)/4)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(region[i*4:]))
	}
	shape := make(tensor.Shape, len(h.Shape))
	for i, d := range h.Shape {
		shape[i] = int(d)
	}
	if len(shape) == 0 {
		return tensor.Scalar(values[0]), nil
	}
	return tensor.FromSlice(values, shape)
}

// Load reads every tensor in the file at path.
func Load(path string) (map[string]*tensor.Tensor, map[string]string, error) {
	c, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	out := make(map[string]*tensor.Tensor, len(c.headers))
	for name := range c.headers {
		t, err := c.Tensor(name)
		if err != nil {
			return nil, nil, err
		}
		out[name] = t
	}
	return out, c.Metadata(), nil
}

// LoadParameters copies stored values into params in place. Every
// parameter must be present with a matching shape; nothing is modified
// otherwise.
func LoadParameters(path string, params []*optim.Parameter) (map[string]string, error) {
	c, err := Open(path)
	if err != nil {
		return nil, err
	}
	loaded := make([]*tensor.Tensor, len(params))
	for i, p := range params {
		t, err := c.Tensor(p.Name)
		if err != nil {
			return nil, err
		}
		if !t.Shape().Equal(p.Value.Shape()) {
			return nil, fmt.Errorf("parameter %q: %w: stored %v, have %v", p.Name, tensor.ErrShapeMismatch, t.Shape(), p.Value.Shape())
		}
		loaded[i] = t
	}
	for i, p := range params {
		copy(p.Value.Data(), loaded[i].Data())
	}
	return c.Metadata(), nil
}
