// Copyright 2025 The FastEstimator Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package pipeline runs ops over dataset records.
//
// Example:
//
//	p, err := pipeline.New([]op.Op{normalize, resize}, pipeline.WithWorkers(8))
//	batches, err := p.Batches(ctx, ds, op.State{op.StateMode: "train"}, 32, true)
package pipeline

import (
	"context"

	"github.com/fastestimator/fastestimator/internal/dataset"
	"github.com/fastestimator/fastestimator/internal/op"
	"github.com/fastestimator/fastestimator/internal/pipeline"
)

// Pipeline executes an ordered list of ops.
type Pipeline = pipeline.Pipeline

// Option configures a Pipeline.
type Option = pipeline.Option

// Errors.
var (
	ErrKeyNotFound    = pipeline.ErrKeyNotFound
	ErrOutputMismatch = pipeline.ErrOutputMismatch
)

// New builds a pipeline; ops implementing op.Builder are built here.
func New(ops []op.Op, opts ...Option) (*Pipeline, error) { return pipeline.New(ops, opts...) }

// WithWorkers bounds concurrent record processing.
func WithWorkers(n int) Option { return pipeline.WithWorkers(n) }

// WithDevice sets the device passed to ops.
func WithDevice(device string) Option { return pipeline.WithDevice(device) }

// Collate stacks records into one batch record.
func Collate(records []dataset.Record) (dataset.Record, error) { return pipeline.Collate(records) }

// Transform is a convenience for New(ops).Transform(ctx, ds, state).
func Transform(ctx context.Context, ops []op.Op, ds dataset.Dataset, state op.State) ([]dataset.Record, error) {
	p, err := pipeline.New(ops)
	if err != nil {
		return nil, err
	}
	return p.Transform(ctx, ds, state)
}
