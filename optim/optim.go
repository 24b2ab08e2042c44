// Copyright 2025 The FastEstimator Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimizers whose learning rate can follow a
// schedule.
package optim

import (
	"github.com/fastestimator/fastestimator/internal/optim"
	"github.com/fastestimator/fastestimator/internal/tensor"
)

type (
	Optimizer  = optim.Optimizer
	Parameter  = optim.Parameter
	SGD        = optim.SGD
	SGDConfig  = optim.SGDConfig
	Adam       = optim.Adam
	AdamConfig = optim.AdamConfig
)

// NewParameter creates a named trainable tensor.
func NewParameter(name string, value *tensor.Tensor) *Parameter {
	return optim.NewParameter(name, value)
}

// NewSGD creates a stochastic gradient descent optimizer.
func NewSGD(params []*Parameter, config SGDConfig) *SGD { return optim.NewSGD(params, config) }

// NewAdam creates an Adam optimizer.
func NewAdam(params []*Parameter, config AdamConfig) *Adam { return optim.NewAdam(params, config) }
