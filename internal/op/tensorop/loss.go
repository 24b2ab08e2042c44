// Package tensorop implements operations over batched tensors: losses,
// resizing and normalization.
package tensorop

import (
	"github.com/fastestimator/fastestimator/internal/op"
)

// LossConfig configures a loss op.
//
// Inputs must hold at least the prediction key followed by the ground
// truth key; Outputs at least one key to store the loss.
type LossConfig struct {
	Inputs  []string
	Outputs []string
	Mode    []string
	DSID    []string

	// PerSample keeps one loss value per batch element instead of
	// averaging over the batch.
	PerSample bool
}

// LossOp is the base for loss operations. Used directly it passes its
// inputs through unchanged, which is useful when a loss is computed
// elsewhere and only needs routing.
type LossOp struct {
	op.Base
	averageLoss bool
}

// NewLossOp creates a pass-through loss op.
func NewLossOp(cfg LossConfig) (*LossOp, error) {
	return newLossOp("LossOp", cfg)
}

func newLossOp(name string, cfg LossConfig) (*LossOp, error) {
	if len(cfg.Inputs) < 2 {
		return nil, op.NewConfigError(name, "inputs", "need at least two inputs to calculate loss, got %d", len(cfg.Inputs))
	}
	if len(cfg.Outputs) < 1 {
		return nil, op.NewConfigError(name, "outputs", "need at least one output to store the loss")
	}
	base, err := op.NewBase(name, op.Config{
		Inputs:  cfg.Inputs,
		Outputs: cfg.Outputs,
		Mode:    cfg.Mode,
		DSID:    cfg.DSID,
	})
	if err != nil {
		return nil, err
	}
	return &LossOp{Base: base, averageLoss: !cfg.PerSample}, nil
}

// PredKeyIdx is the position of the prediction among the inputs.
func (l *LossOp) PredKeyIdx() int { return 0 }

// TrueKeyIdx is the position of the ground truth among the inputs.
func (l *LossOp) TrueKeyIdx() int { return 1 }

// PredKey returns the prediction key.
func (l *LossOp) PredKey() string { return l.Inputs()[l.PredKeyIdx()] }

// TrueKey returns the ground-truth key.
func (l *LossOp) TrueKey() string { return l.Inputs()[l.TrueKeyIdx()] }

// AverageLoss reports whether the loss is reduced to a batch mean.
func (l *LossOp) AverageLoss() bool { return l.averageLoss }

// Forward passes the first len(Outputs) inputs through.
func (l *LossOp) Forward(data []any, _ op.State) ([]any, error) {
	n := len(l.Outputs())
	if n > len(data) {
		return nil, op.NewConfigError("LossOp", "outputs", "%d outputs but only %d inputs to pass through", n, len(data))
	}
	return data[:n], nil
}

// reduce applies the batch reduction to per-sample losses.
func (l *LossOp) reduce(perSample []float32) any {
	if !l.averageLoss {
		return vector(perSample)
	}
	var sum float32
	for _, v := range perSample {
		sum += v
	}
	return scalar(sum / float32(len(perSample)))
}
