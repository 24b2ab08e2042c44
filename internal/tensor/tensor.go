// Package tensor provides the dense float32 tensor that operations and
// datasets exchange.
//
// Tensors are stored row-major on the CPU. Element access with an
// out-of-range index panics, the same way slice indexing does.
package tensor

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidShape  = errors.New("invalid shape")
	ErrShapeMismatch = errors.New("shape mismatch")
)

// Tensor is a dense row-major float32 tensor.
type Tensor struct {
	shape   Shape
	strides []int
	data    []float32
}

// New creates a zero-filled tensor with the given shape.
func New(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &Tensor{
		shape:   shape.Clone(),
		strides: shape.Strides(),
		data:    make([]float32, shape.NumElements()),
	}, nil
}

// Zeros creates a zero-filled tensor and panics on an invalid shape.
//
// Example:
//
//	t := tensor.Zeros(tensor.Shape{3, 4})
func Zeros(shape Shape) *Tensor {
	t, err := New(shape)
	if err != nil {
		panic(err)
	}
	return t
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float32) *Tensor {
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// Scalar creates a rank-0 tensor holding v.
func Scalar(v float32) *Tensor {
	return &Tensor{shape: Shape{}, strides: []int{}, data: []float32{v}}
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float32, shape Shape) (*Tensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, but got %d",
			ErrShapeMismatch, shape, shape.NumElements(), len(data))
	}
	t, err := New(shape)
	if err != nil {
		return nil, err
	}
	copy(t.data, data)
	return t, nil
}

// Arange returns a 1-D tensor holding start, start+1, ..., stop-1.
func Arange(start, stop int) *Tensor {
	t := Zeros(Shape{stop - start})
	for i := range t.data {
		t.data[i] = float32(start + i)
	}
	return t
}

// Shape returns a copy of the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape.Clone()
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Data returns the underlying storage. Writes are visible to the tensor.
func (t *Tensor) Data() []float32 {
	return t.data
}

// Strides returns the row-major strides.
func (t *Tensor) Strides() []int {
	return t.strides
}

// Offset converts a multi-dimensional index into a flat offset.
func (t *Tensor) Offset(indices ...int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("tensor: got %d indices for rank %d", len(indices), len(t.shape)))
	}
	off := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index %d out of range for dimension %d of size %d", idx, i, t.shape[i]))
		}
		off += idx * t.strides[i]
	}
	return off
}

// At returns the element at the given index.
func (t *Tensor) At(indices ...int) float32 {
	return t.data[t.Offset(indices...)]
}

// Set stores v at the given index.
func (t *Tensor) Set(v float32, indices ...int) {
	t.data[t.Offset(indices...)] = v
}

// Item returns the single value of a one-element tensor.
func (t *Tensor) Item() float32 {
	if len(t.data) != 1 {
		panic(fmt.Sprintf("tensor: Item called on tensor with %d elements", len(t.data)))
	}
	return t.data[0]
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	data := make([]float32, len(t.data))
	copy(data, t.data)
	return &Tensor{shape: t.shape.Clone(), strides: t.shape.Strides(), data: data}
}

// Reshape returns a tensor sharing storage with t under a new shape.
func (t *Tensor) Reshape(shape Shape) (*Tensor, error) {
	if shape.NumElements() != len(t.data) {
		return nil, fmt.Errorf("%w: cannot reshape %v into %v", ErrShapeMismatch, t.shape, shape)
	}
	return &Tensor{shape: shape.Clone(), strides: shape.Strides(), data: t.data}, nil
}

// String returns a short description, not the contents.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(shape=%v)", t.shape)
}
