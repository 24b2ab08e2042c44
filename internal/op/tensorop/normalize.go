package tensorop

import (
	"fmt"

	"github.com/fastestimator/fastestimator/internal/op"
	"github.com/fastestimator/fastestimator/internal/tensor"
)

// ImageNet statistics used when NormalizeConfig leaves them empty.
var (
	DefaultMean = []float32{0.485, 0.456, 0.406}
	DefaultStd  = []float32{0.229, 0.224, 0.225}
)

// DefaultMaxPixelValue is the scale used for 8-bit images.
const DefaultMaxPixelValue = 255

// NormalizeConfig configures a Normalize op.
type NormalizeConfig struct {
	Inputs  []string
	Outputs []string
	Mode    []string
	DSID    []string

	// Mean and Std hold one value for all channels or one per channel
	// (last axis).
	Mean []float32
	Std  []float32

	// MaxPixelValue scales inputs into [0, 1] before normalizing.
	MaxPixelValue float32
}

// Normalize computes (x/maxPixelValue - mean) / std.
type Normalize struct {
	op.Base
	mean     []float32
	std      []float32
	maxPixel float32
}

// NewNormalize validates cfg and creates the op.
func NewNormalize(cfg NormalizeConfig) (*Normalize, error) {
	if cfg.Mean == nil {
		cfg.Mean = DefaultMean
	}
	if cfg.Std == nil {
		cfg.Std = DefaultStd
	}
	if cfg.MaxPixelValue == 0 {
		cfg.MaxPixelValue = DefaultMaxPixelValue
	}
	if cfg.MaxPixelValue < 0 {
		return nil, op.NewConfigError("Normalize", "max_pixel_value", "must be positive, got %g", cfg.MaxPixelValue)
	}
	if len(cfg.Mean) == 0 || len(cfg.Std) == 0 {
		return nil, op.NewConfigError("Normalize", "mean", "mean and std must not be empty")
	}
	if len(cfg.Mean) != len(cfg.Std) && len(cfg.Mean) != 1 && len(cfg.Std) != 1 {
		return nil, op.NewConfigError("Normalize", "std", "mean has %d values but std has %d", len(cfg.Mean), len(cfg.Std))
	}
	for _, s := range cfg.Std {
		if s == 0 {
			return nil, op.NewConfigError("Normalize", "std", "standard deviation must be non-zero")
		}
	}
	if len(cfg.Inputs) != len(cfg.Outputs) {
		return nil, op.NewConfigError("Normalize", "outputs", "got %d inputs but %d outputs", len(cfg.Inputs), len(cfg.Outputs))
	}
	base, err := op.NewBase("Normalize", op.Config{
		Inputs:  cfg.Inputs,
		Outputs: cfg.Outputs,
		Mode:    cfg.Mode,
		DSID:    cfg.DSID,
	})
	if err != nil {
		return nil, err
	}
	return &Normalize{
		Base:     base,
		mean:     append([]float32(nil), cfg.Mean...),
		std:      append([]float32(nil), cfg.Std...),
		maxPixel: cfg.MaxPixelValue,
	}, nil
}

// Forward normalizes every input tensor.
func (n *Normalize) Forward(data []any, _ op.State) ([]any, error) {
	ts, err := op.Tensors("Normalize", data)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(ts))
	for i, t := range ts {
		normalized, err := n.normalize(t)
		if err != nil {
			return nil, fmt.Errorf("Normalize: input %d: %w", i, err)
		}
		out[i] = normalized
	}
	return out, nil
}

func (n *Normalize) normalize(in *tensor.Tensor) (*tensor.Tensor, error) {
	channels := max(len(n.mean), len(n.std))
	if channels > 1 {
		if in.Rank() == 0 || in.Shape()[in.Rank()-1] != channels {
			return nil, fmt.Errorf("%w: %d channel statistics for input %v", tensor.ErrShapeMismatch, channels, in.Shape())
		}
	}

	out := in.Clone()
	data := out.Data()
	for i, v := range data {
		c := i % channels
		data[i] = (v/n.maxPixel - n.stat(n.mean, c)) / n.stat(n.std, c)
	}
	return out, nil
}

func (n *Normalize) stat(values []float32, c int) float32 {
	if len(values) == 1 {
		return values[0]
	}
	return values[c]
}

var _ op.Op = (*Normalize)(nil)
