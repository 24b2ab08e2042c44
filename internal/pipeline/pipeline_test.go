package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/fastestimator/fastestimator/internal/dataset"
	"github.com/fastestimator/fastestimator/internal/op"
	"github.com/fastestimator/fastestimator/internal/op/tensorop"
	"github.com/fastestimator/fastestimator/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scale multiplies its single tensor input by a factor.
type scale struct {
	op.Base
	factor float32
	built  string
}

func newScale(t *testing.T, in, out string, factor float32, modes ...string) *scale {
	t.Helper()
	b, err := op.NewBase("Scale", op.Config{Inputs: []string{in}, Outputs: []string{out}, Mode: modes})
	require.NoError(t, err)
	return &scale{Base: b, factor: factor}
}

func (s *scale) Build(device string) error {
	s.built = device
	return s.Base.Build(device)
}

func (s *scale) Forward(data []any, _ op.State) ([]any, error) {
	ts, err := op.Tensors("Scale", data)
	if err != nil {
		return nil, err
	}
	return []any{ts[0].Map(func(v float32) float32 { return v * s.factor })}, nil
}

// failing always errors.
type failing struct{ op.Base }

func (failing) Forward([]any, op.State) ([]any, error) { return nil, errors.New("kernel failed") }

// wide declares two outputs but returns one value.
type wide struct{ op.Base }

func (wide) Forward(data []any, _ op.State) ([]any, error) { return data[:1], nil }

func TestPipeline_Run(t *testing.T) {
	double := newScale(t, "x", "x2", 2)
	trainOnly := newScale(t, "x2", "x4", 2, "train")

	p, err := New([]op.Op{double, trainOnly}, WithDevice("cpu:1"))
	require.NoError(t, err)
	assert.Equal(t, "cpu:1", double.built)
	assert.Equal(t, "cpu:1", double.Device())

	rec := dataset.Record{"x": tensor.Full(tensor.Shape{2}, 1)}

	out, err := p.Run(rec, op.State{op.StateMode: "train"})
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 2}, out["x2"].(*tensor.Tensor).Data())
	assert.Equal(t, []float32{4, 4}, out["x4"].(*tensor.Tensor).Data())

	out, err = p.Run(rec, op.State{op.StateMode: "eval"})
	require.NoError(t, err)
	assert.Contains(t, out, "x2")
	assert.NotContains(t, out, "x4")

	// Input record untouched.
	assert.Len(t, rec, 1)
}

func TestPipeline_Run_Errors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		p, err := New([]op.Op{newScale(t, "y", "z", 1)})
		require.NoError(t, err)
		_, err = p.Run(dataset.Record{"x": 1}, op.State{})
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("pass-through loss", func(t *testing.T) {
		loss, err := tensorop.NewLossOp(tensorop.LossConfig{Inputs: []string{"a", "b"}, Outputs: []string{"c"}})
		require.NoError(t, err)
		p, err := New([]op.Op{loss})
		require.NoError(t, err)
		out, err := p.Run(dataset.Record{"a": 1, "b": 2}, op.State{})
		require.NoError(t, err)
		assert.Equal(t, 1, out["c"])
	})

	t.Run("output count", func(t *testing.T) {
		b, err := op.NewBase("Wide", op.Config{Inputs: []string{"x"}, Outputs: []string{"y", "z"}})
		require.NoError(t, err)
		p, err := New([]op.Op{&wide{Base: b}})
		require.NoError(t, err)
		_, err = p.Run(dataset.Record{"x": 1}, op.State{})
		assert.ErrorIs(t, err, ErrOutputMismatch)
	})

	t.Run("backend error propagates", func(t *testing.T) {
		b, err := op.NewBase("Failing", op.Config{Inputs: []string{"x"}, Outputs: []string{"x"}})
		require.NoError(t, err)
		p, err := New([]op.Op{&failing{Base: b}})
		require.NoError(t, err)
		_, err = p.Run(dataset.Record{"x": 1}, op.State{})
		assert.ErrorContains(t, err, "kernel failed")
	})

	t.Run("nil op", func(t *testing.T) {
		_, err := New([]op.Op{nil})
		assert.ErrorIs(t, err, op.ErrConfig)
	})
}

func TestPipeline_Transform(t *testing.T) {
	records := make([]dataset.Record, 50)
	for i := range records {
		records[i] = dataset.Record{"x": tensor.Full(tensor.Shape{1}, float32(i))}
	}
	ds := dataset.NewInMemoryDataset(records)

	p, err := New([]op.Op{newScale(t, "x", "y", 3)}, WithWorkers(4))
	require.NoError(t, err)

	out, err := p.Transform(context.Background(), ds, op.State{op.StateMode: "train"})
	require.NoError(t, err)
	require.Len(t, out, 50)
	for i, r := range out {
		assert.Equal(t, float32(3*i), r["y"].(*tensor.Tensor).Item())
	}
}

func TestPipeline_Transform_Error(t *testing.T) {
	ds := dataset.NewInMemoryDataset([]dataset.Record{{"x": 1}, {"x": "text"}})
	p, err := New([]op.Op{newScale(t, "x", "y", 3)}, WithWorkers(2))
	require.NoError(t, err)

	_, err = p.Transform(context.Background(), ds, op.State{})
	assert.ErrorIs(t, err, op.ErrInputType)
}

func TestPipeline_Transform_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ds := dataset.NewInMemoryDataset([]dataset.Record{{"x": tensor.Zeros(tensor.Shape{1})}})
	p, err := New([]op.Op{newScale(t, "x", "y", 3)})
	require.NoError(t, err)

	_, err = p.Transform(ctx, ds, op.State{})
	assert.ErrorIs(t, err, context.Canceled)
}
