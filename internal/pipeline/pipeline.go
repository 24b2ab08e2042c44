// Package pipeline runs ops over dataset records: it resolves input
// keys, applies mode and dataset-id filters, and writes outputs back.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fastestimator/fastestimator/internal/dataset"
	"github.com/fastestimator/fastestimator/internal/envconfig"
	"github.com/fastestimator/fastestimator/internal/op"
)

// Common errors.
var (
	ErrKeyNotFound    = errors.New("key not found")
	ErrOutputMismatch = errors.New("op returned wrong number of outputs")
)

// Pipeline executes an ordered list of ops.
type Pipeline struct {
	ops     []op.Op
	workers int
	device  string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers bounds concurrent record processing in Transform.
func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = max(n, 1) }
}

// WithDevice sets the device passed to ops implementing op.Builder.
func WithDevice(device string) Option {
	return func(p *Pipeline) { p.device = device }
}

// New builds a pipeline. Ops implementing op.Builder are built once here.
// Defaults come from FE_NUM_WORKERS and FE_DEVICE.
func New(ops []op.Op, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		ops:     ops,
		workers: max(int(envconfig.NumWorkers()), 1),
		device:  envconfig.Device(),
	}
	for _, o := range opts {
		o(p)
	}

	for i, o := range ops {
		if o == nil {
			return nil, fmt.Errorf("%w: op %d is nil", op.ErrConfig, i)
		}
		if b, ok := o.(op.Builder); ok {
			if err := b.Build(p.device); err != nil {
				return nil, fmt.Errorf("build op %d (%T): %w", i, o, err)
			}
		}
	}
	return p, nil
}

// Ops returns the ops in execution order.
func (p *Pipeline) Ops() []op.Op {
	return p.ops
}

// Run applies every op whose filters admit the state's mode and dataset
// id. The input record is not modified; a shallow copy with the outputs
// written is returned.
func (p *Pipeline) Run(record dataset.Record, state op.State) (dataset.Record, error) {
	out := maps.Clone(record)
	if out == nil {
		out = dataset.Record{}
	}
	currentMode, dsID := state.Mode(), state.DSID()

	for i, o := range p.ops {
		if !op.Applies(o, currentMode, dsID) {
			continue
		}

		inputs := o.Inputs()
		data := make([]any, len(inputs))
		for j, key := range inputs {
			v, ok := out[key]
			if !ok {
				return nil, fmt.Errorf("op %d (%T): %w: %q", i, o, ErrKeyNotFound, key)
			}
			data[j] = v
		}

		results, err := o.Forward(data, state)
		if err != nil {
			return nil, fmt.Errorf("op %d (%T): %w", i, o, err)
		}

		outputs := o.Outputs()
		if len(results) != len(outputs) {
			return nil, fmt.Errorf("op %d (%T): %w: got %d values for %d keys",
				i, o, ErrOutputMismatch, len(results), len(outputs))
		}
		for j, key := range outputs {
			out[key] = results[j]
		}
	}
	return out, nil
}

// Transform runs the pipeline over every record of ds concurrently and
// returns the results in index order. The first failure cancels the
// remaining work.
func (p *Pipeline) Transform(ctx context.Context, ds dataset.Dataset, state op.State) ([]dataset.Record, error) {
	runID := uuid.New()
	start := time.Now()
	n := ds.Len()
	slog.Debug("pipeline transform started", "run", runID, "records", n, "mode", state.Mode(), "workers", p.workers)

	results := make([]dataset.Record, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := ds.Get(i)
			if err != nil {
				return err
			}
			out, err := p.Run(rec, state)
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("pipeline transform failed", "run", runID, "error", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Debug("pipeline transform finished", "run", runID, "records", n, "elapsed", time.Since(start))
	return results, nil
}
