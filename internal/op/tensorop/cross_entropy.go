package tensorop

import (
	"fmt"
	"math"

	"github.com/fastestimator/fastestimator/internal/op"
	"github.com/fastestimator/fastestimator/internal/tensor"
)

const epsilon = 1e-7

// CrossEntropyConfig configures a CrossEntropy op.
type CrossEntropyConfig struct {
	LossConfig

	// FromLogits treats predictions as unnormalized scores.
	FromLogits bool
}

// CrossEntropy computes the cross-entropy between predictions and labels.
//
// The variant is chosen from the shapes at Forward time:
//   - binary: pred is [batch] or [batch, 1], labels the same shape in {0, 1}
//   - categorical: pred and labels are [batch, classes], labels one-hot
//   - sparse: pred is [batch, classes], labels are [batch] class indices
//
// Probabilities are clipped to [1e-7, 1-1e-7] before taking logs.
type CrossEntropy struct {
	*LossOp
	fromLogits bool
}

// NewCrossEntropy creates a cross-entropy loss op with a single output.
func NewCrossEntropy(cfg CrossEntropyConfig) (*CrossEntropy, error) {
	base, err := newLossOp("CrossEntropy", cfg.LossConfig)
	if err != nil {
		return nil, err
	}
	if len(cfg.Outputs) != 1 {
		return nil, op.NewConfigError("CrossEntropy", "outputs", "expected exactly one output, got %d", len(cfg.Outputs))
	}
	return &CrossEntropy{LossOp: base, fromLogits: cfg.FromLogits}, nil
}

// Forward returns the loss: a scalar when averaging, else shape [batch].
func (c *CrossEntropy) Forward(data []any, _ op.State) ([]any, error) {
	ts, err := op.Tensors("CrossEntropy", data)
	if err != nil {
		return nil, err
	}
	pred, truth := ts[c.PredKeyIdx()], ts[c.TrueKeyIdx()]

	var perSample []float32
	switch {
	case pred.Rank() == 1 || (pred.Rank() == 2 && pred.Shape()[1] == 1):
		perSample, err = c.binary(pred, truth)
	case pred.Rank() == 2 && truth.Shape().Equal(pred.Shape()):
		perSample, err = c.categorical(pred, truth)
	case pred.Rank() == 2 && truth.Rank() == 1 && truth.Shape()[0] == pred.Shape()[0]:
		perSample, err = c.sparse(pred, truth)
	default:
		err = fmt.Errorf("%w: predictions %v and labels %v", tensor.ErrShapeMismatch, pred.Shape(), truth.Shape())
	}
	if err != nil {
		return nil, fmt.Errorf("CrossEntropy: %w", err)
	}
	return []any{c.reduce(perSample)}, nil
}

func (c *CrossEntropy) binary(pred, truth *tensor.Tensor) ([]float32, error) {
	if truth.Rank() == 0 || pred.NumElements() != truth.NumElements() || truth.Shape()[0] != pred.Shape()[0] {
		return nil, fmt.Errorf("%w: predictions %v and labels %v", tensor.ErrShapeMismatch, pred.Shape(), truth.Shape())
	}
	out := make([]float32, pred.NumElements())
	for i, p := range pred.Data() {
		if c.fromLogits {
			p = float32(1 / (1 + math.Exp(-float64(p))))
		}
		p = clip(p, epsilon, 1-epsilon)
		y := truth.Data()[i]
		out[i] = -(y*log32(p) + (1-y)*log32(1-p))
	}
	return out, nil
}

func (c *CrossEntropy) categorical(pred, truth *tensor.Tensor) ([]float32, error) {
	batch, classes := pred.Shape()[0], pred.Shape()[1]
	out := make([]float32, batch)
	for b := 0; b < batch; b++ {
		probs := c.probabilities(pred.Data()[b*classes : (b+1)*classes])
		labels := truth.Data()[b*classes : (b+1)*classes]
		var loss float32
		for k, y := range labels {
			loss -= y * log32(probs[k])
		}
		out[b] = loss
	}
	return out, nil
}

func (c *CrossEntropy) sparse(pred, truth *tensor.Tensor) ([]float32, error) {
	batch, classes := pred.Shape()[0], pred.Shape()[1]
	out := make([]float32, batch)
	for b := 0; b < batch; b++ {
		label := int(truth.Data()[b])
		if label < 0 || label >= classes {
			return nil, fmt.Errorf("label %d at sample %d out of range [0, %d)", label, b, classes)
		}
		probs := c.probabilities(pred.Data()[b*classes : (b+1)*classes])
		out[b] = -log32(probs[label])
	}
	return out, nil
}

// probabilities returns clipped class probabilities for one sample,
// applying a numerically stable softmax to logits.
func (c *CrossEntropy) probabilities(row []float32) []float32 {
	probs := make([]float32, len(row))
	if !c.fromLogits {
		for i, p := range row {
			probs[i] = clip(p, epsilon, 1-epsilon)
		}
		return probs
	}

	maxVal := row[0]
	for _, v := range row[1:] {
		maxVal = max(maxVal, v)
	}
	var sum float64
	for i, v := range row {
		e := math.Exp(float64(v - maxVal))
		probs[i] = float32(e)
		sum += e
	}
	for i := range probs {
		probs[i] = clip(float32(float64(probs[i])/sum), epsilon, 1-epsilon)
	}
	return probs
}

func log32(v float32) float32 {
	return float32(math.Log(float64(v)))
}

var _ op.Op = (*CrossEntropy)(nil)
