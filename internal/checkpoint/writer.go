package checkpoint

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"

	"github.com/fastestimator/fastestimator/internal/optim"
	"github.com/fastestimator/fastestimator/internal/tensor"
)

// Save writes tensors to path in SafeTensors format. The file is
// written to a temporary name first and renamed into place.
func Save(path string, tensors map[string]*tensor.Tensor, metadata map[string]string) error {
	names := slices.Sorted(maps.Keys(tensors))

	var data bytes.Buffer
	header := make(map[string]any, len(names)+1)
	var offset int64
	for _, name := range names {
		if err := validateName(name); err != nil {
			return err
		}
		t := tensors[name]
		shape := make([]int64, len(t.Shape()))
		for i, d := range t.Shape() {
			shape[i] = int64(d)
		}
		size := int64(t.NumElements() * 4)
		header[name] = tensorHeader{
			DType:       dtypeF32,
			Shape:       shape,
			DataOffsets: [2]int64{offset, offset + size},
		}
		offset += size

		buf := make([]byte, 4)
		for _, v := range t.Data() {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
			data.Write(buf)
		}
	}

	meta := maps.Clone(metadata)
	if meta == nil {
		meta = map[string]string{}
	}
	meta[checksumKey] = checksum(data.Bytes())
	header[metadataKey] = meta

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := binary.Write(tmp, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := tmp.Write(headerJSON); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := tmp.Write(data.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}

	slog.Debug("checkpoint saved", "path", path, "tensors", len(names), "bytes", offset)
	return nil
}

// SaveParameters saves optimizer parameters keyed by name.
func SaveParameters(path string, params []*optim.Parameter, metadata map[string]string) error {
	tensors := make(map[string]*tensor.Tensor, len(params))
	for _, p := range params {
		if _, dup := tensors[p.Name]; dup {
			return &ValidationError{Err: ErrInvalidTensorName, Tensor: p.Name, Details: "duplicate parameter name"}
		}
		tensors[p.Name] = p.Value
	}
	return Save(path, tensors, metadata)
}
