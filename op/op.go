// Copyright 2025 The FastEstimator Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package op exposes the operation contract and the built-in ops.
//
// An op names the record keys it reads and writes and may be limited to
// some execution modes ("train", "eval", "test", "infer") or dataset
// ids. Prefix a tag with "!" to exclude it instead:
//
//	mse, err := op.NewMeanSquaredError(op.LossConfig{
//	    Inputs:  []string{"y_pred", "y"},
//	    Outputs: []string{"mse"},
//	    Mode:    []string{"!infer"},
//	})
package op

import (
	"github.com/fastestimator/fastestimator/internal/op"
	"github.com/fastestimator/fastestimator/internal/op/numpyop"
	"github.com/fastestimator/fastestimator/internal/op/tensorop"
)

// Op is the contract shared by every operation.
type Op = op.Op

// Builder is implemented by ops needing one-time device setup.
type Builder = op.Builder

// State carries per-step information such as the current mode.
type State = op.State

// Config holds routing arguments common to every op.
type Config = op.Config

// Base implements routing for custom ops.
type Base = op.Base

// ConfigError reports an invalid op configuration.
type ConfigError = op.ConfigError

// Errors.
var (
	ErrConfig    = op.ErrConfig
	ErrInputType = op.ErrInputType
)

// State keys.
const (
	StateMode   = op.StateMode
	StateDSID   = op.StateDSID
	StateEpoch  = op.StateEpoch
	StateStep   = op.StateStep
	StateDevice = op.StateDevice
)

// NewBase validates cfg for a custom op.
func NewBase(name string, cfg Config) (Base, error) { return op.NewBase(name, cfg) }

// Applies reports whether o runs for the given mode and dataset id.
func Applies(o Op, mode, dsID string) bool { return op.Applies(o, mode, dsID) }

// Losses

type (
	LossConfig         = tensorop.LossConfig
	LossOp             = tensorop.LossOp
	MeanSquaredError   = tensorop.MeanSquaredError
	CrossEntropyConfig = tensorop.CrossEntropyConfig
	CrossEntropy       = tensorop.CrossEntropy
)

// NewLossOp creates a pass-through loss op.
func NewLossOp(cfg LossConfig) (*LossOp, error) { return tensorop.NewLossOp(cfg) }

// NewMeanSquaredError creates a mean squared error loss.
func NewMeanSquaredError(cfg LossConfig) (*MeanSquaredError, error) {
	return tensorop.NewMeanSquaredError(cfg)
}

// NewCrossEntropy creates a cross entropy loss.
func NewCrossEntropy(cfg CrossEntropyConfig) (*CrossEntropy, error) {
	return tensorop.NewCrossEntropy(cfg)
}

// Tensor ops

type (
	Resize3DConfig  = tensorop.Resize3DConfig
	Resize3D        = tensorop.Resize3D
	NormalizeConfig = tensorop.NormalizeConfig
	Normalize       = tensorop.Normalize
)

// Resize modes.
const (
	ResizeNearest = tensorop.ResizeNearest
	ResizeArea    = tensorop.ResizeArea
)

// NewResize3D creates a volume resize op.
func NewResize3D(cfg Resize3DConfig) (*Resize3D, error) { return tensorop.NewResize3D(cfg) }

// NewNormalize creates a normalization op.
func NewNormalize(cfg NormalizeConfig) (*Normalize, error) { return tensorop.NewNormalize(cfg) }

// Preprocessing

type (
	Tokenizer      = numpyop.Tokenizer
	TikToken       = numpyop.TikToken
	TokenizeConfig = numpyop.TokenizeConfig
	Tokenize       = numpyop.Tokenize
)

// NewTikToken loads a tiktoken encoding such as "cl100k_base".
func NewTikToken(encoding string) (*TikToken, error) { return numpyop.NewTikToken(encoding) }

// NewTokenize creates a tokenization op.
func NewTokenize(cfg TokenizeConfig) (*Tokenize, error) { return numpyop.NewTokenize(cfg) }
