package checkpoint

import (
	"crypto/sha256"
	"encoding/hex"
)

const (
	metadataKey = "__metadata__"
	checksumKey = "checksum"
	dtypeF32    = "F32"
)

// Validation limits.
const (
	MaxHeaderSize    = 100 * 1024 * 1024
	MaxTensorNameLen = 4096
)

// tensorHeader represents a tensor in the SafeTensors header.
type tensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// TensorInfo describes a stored tensor.
type TensorInfo struct {
	Name  string
	Shape []int
	Size  int64 // bytes
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
