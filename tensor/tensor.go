// Copyright 2025 The FastEstimator Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float32 tensor used by ops and
// optimizers.
//
// Example:
//
//	x := tensor.Full(tensor.Shape{2, 3}, 1)
//	y, _ := x.Reshape(tensor.Shape{3, 2})
//	fmt.Println(y.At(2, 1))
package tensor

import (
	"github.com/fastestimator/fastestimator/internal/tensor"
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is a row-major float32 tensor.
type Tensor = tensor.Tensor

// Errors returned by tensor constructors and element-wise ops.
var (
	ErrInvalidShape  = tensor.ErrInvalidShape
	ErrShapeMismatch = tensor.ErrShapeMismatch
)

// New allocates a zero tensor, validating shape.
func New(shape Shape) (*Tensor, error) { return tensor.New(shape) }

// Zeros allocates a zero tensor. It panics on an invalid shape.
func Zeros(shape Shape) *Tensor { return tensor.Zeros(shape) }

// Full allocates a tensor filled with value.
func Full(shape Shape, value float32) *Tensor { return tensor.Full(shape, value) }

// Scalar creates a rank-0 tensor.
func Scalar(v float32) *Tensor { return tensor.Scalar(v) }

// FromSlice copies data into a tensor of the given shape.
func FromSlice(data []float32, shape Shape) (*Tensor, error) { return tensor.FromSlice(data, shape) }

// Arange creates the vector [start, stop).
func Arange(start, stop int) *Tensor { return tensor.Arange(start, stop) }
