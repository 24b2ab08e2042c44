// Package numpyop implements per-sample operations over host data such
// as strings, run while preparing records.
package numpyop

import (
	"fmt"
	"strings"

	"github.com/fastestimator/fastestimator/internal/op"
	"github.com/fastestimator/fastestimator/internal/tensor"
)

// TokenizeConfig configures a Tokenize op.
type TokenizeConfig struct {
	Inputs  []string
	Outputs []string
	Mode    []string
	DSID    []string

	Tokenizer Tokenizer

	// ToLower lowercases text before encoding.
	ToLower bool

	// MaxLength truncates or pads the ids to a fixed length when > 0.
	MaxLength int

	// PadID fills positions past the end of short sequences.
	PadID int32
}

// Tokenize encodes text values into 1-D tensors of token ids.
type Tokenize struct {
	op.Base
	tokenizer Tokenizer
	toLower   bool
	maxLength int
	padID     int32
}

// NewTokenize validates cfg and creates the op.
func NewTokenize(cfg TokenizeConfig) (*Tokenize, error) {
	if cfg.Tokenizer == nil {
		return nil, op.NewConfigError("Tokenize", "tokenizer", "a tokenizer is required")
	}
	if cfg.MaxLength < 0 {
		return nil, op.NewConfigError("Tokenize", "max_length", "must not be negative, got %d", cfg.MaxLength)
	}
	if len(cfg.Inputs) != len(cfg.Outputs) {
		return nil, op.NewConfigError("Tokenize", "outputs", "got %d inputs but %d outputs", len(cfg.Inputs), len(cfg.Outputs))
	}
	base, err := op.NewBase("Tokenize", op.Config{
		Inputs:  cfg.Inputs,
		Outputs: cfg.Outputs,
		Mode:    cfg.Mode,
		DSID:    cfg.DSID,
	})
	if err != nil {
		return nil, err
	}
	return &Tokenize{
		Base:      base,
		tokenizer: cfg.Tokenizer,
		toLower:   cfg.ToLower,
		maxLength: cfg.MaxLength,
		padID:     cfg.PadID,
	}, nil
}

// Forward encodes every input. Inputs must be string or []byte.
func (t *Tokenize) Forward(data []any, _ op.State) ([]any, error) {
	out := make([]any, len(data))
	for i, d := range data {
		var text string
		switch v := d.(type) {
		case string:
			text = v
		case []byte:
			text = string(v)
		default:
			return nil, fmt.Errorf("Tokenize: %w: input %d is %T, want string", op.ErrInputType, i, d)
		}
		if t.toLower {
			text = strings.ToLower(text)
		}

		ids, err := t.tokenizer.Encode(text)
		if err != nil {
			return nil, fmt.Errorf("Tokenize: input %d: %w", i, err)
		}
		if len(ids) == 0 && t.maxLength == 0 {
			return nil, fmt.Errorf("Tokenize: input %d encodes to no tokens, set MaxLength to pad", i)
		}
		out[i] = t.toTensor(ids)
	}
	return out, nil
}

func (t *Tokenize) toTensor(ids []int32) *tensor.Tensor {
	n := len(ids)
	if t.maxLength > 0 {
		n = t.maxLength
	}
	out := tensor.Full(tensor.Shape{n}, float32(t.padID))
	data := out.Data()
	for i := 0; i < n && i < len(ids); i++ {
		data[i] = float32(ids[i])
	}
	return out
}

var _ op.Op = (*Tokenize)(nil)
