package tensorop

import (
	"fmt"

	"github.com/fastestimator/fastestimator/internal/op"
)

// MeanSquaredError computes mean((pred - true)²) for each sample.
//
// Example:
//
//	mse, _ := tensorop.NewMeanSquaredError(tensorop.LossConfig{
//	    Inputs:  []string{"y_pred", "y"},
//	    Outputs: []string{"mse"},
//	    Mode:    []string{"!infer"},
//	})
type MeanSquaredError struct {
	*LossOp
}

// NewMeanSquaredError creates an MSE loss op with a single output.
func NewMeanSquaredError(cfg LossConfig) (*MeanSquaredError, error) {
	base, err := newLossOp("MeanSquaredError", cfg)
	if err != nil {
		return nil, err
	}
	if len(cfg.Outputs) != 1 {
		return nil, op.NewConfigError("MeanSquaredError", "outputs", "expected exactly one output, got %d", len(cfg.Outputs))
	}
	return &MeanSquaredError{LossOp: base}, nil
}

// Forward returns the loss: a scalar when averaging, else shape [batch].
func (m *MeanSquaredError) Forward(data []any, _ op.State) ([]any, error) {
	ts, err := op.Tensors("MeanSquaredError", data)
	if err != nil {
		return nil, err
	}
	pred, truth := ts[m.PredKeyIdx()], ts[m.TrueKeyIdx()]

	diff, err := pred.Sub(truth)
	if err != nil {
		return nil, fmt.Errorf("MeanSquaredError: %w", err)
	}
	squared := diff.Map(func(v float32) float32 { return v * v })

	if pred.Rank() == 0 {
		return []any{scalar(squared.Item())}, nil
	}
	perSample, err := squared.MeanPerSample()
	if err != nil {
		return nil, fmt.Errorf("MeanSquaredError: %w", err)
	}
	return []any{m.reduce(perSample.Data())}, nil
}

var _ op.Op = (*MeanSquaredError)(nil)
