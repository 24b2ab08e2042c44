package op

import (
	"fmt"
	"slices"

	"github.com/fastestimator/fastestimator/internal/mode"
	"github.com/fastestimator/fastestimator/internal/tensor"
)

// Config holds the routing arguments common to every op.
type Config struct {
	Inputs  []string
	Outputs []string
	Mode    []string // e.g. {"train"} or {"!infer"}; nil runs in every mode
	DSID    []string // e.g. {"ds1"} or {"!ds1"}; nil runs for every dataset
}

// Base implements the routing half of Op. Concrete ops embed it and
// provide Forward.
type Base struct {
	inputs  []string
	outputs []string
	modes   mode.Filter
	dsIDs   mode.Filter
	device  string
}

// NewBase validates cfg and returns the routing configuration. name is
// used in error messages.
func NewBase(name string, cfg Config) (Base, error) {
	for _, k := range cfg.Inputs {
		if k == "" {
			return Base{}, NewConfigError(name, "inputs", "empty key in %q", cfg.Inputs)
		}
	}
	for _, k := range cfg.Outputs {
		if k == "" {
			return Base{}, NewConfigError(name, "outputs", "empty key in %q", cfg.Outputs)
		}
	}
	modes, err := mode.Parse(cfg.Mode...)
	if err != nil {
		return Base{}, &ConfigError{Op: name, Field: "mode", Details: err.Error()}
	}
	dsIDs, err := mode.ParseDSID(cfg.DSID...)
	if err != nil {
		return Base{}, &ConfigError{Op: name, Field: "ds_id", Details: err.Error()}
	}
	return Base{
		inputs:  slices.Clone(cfg.Inputs),
		outputs: slices.Clone(cfg.Outputs),
		modes:   modes,
		dsIDs:   dsIDs,
	}, nil
}

// Inputs returns a copy of the input keys.
func (b *Base) Inputs() []string { return slices.Clone(b.inputs) }

// Outputs returns a copy of the output keys.
func (b *Base) Outputs() []string { return slices.Clone(b.outputs) }

// Modes returns the execution-mode filter.
func (b *Base) Modes() mode.Filter { return b.modes }

// DSIDs returns the dataset-id filter.
func (b *Base) DSIDs() mode.Filter { return b.dsIDs }

// Build records the device. Call once before the first Forward.
func (b *Base) Build(device string) error {
	if device == "" {
		device = "cpu"
	}
	b.device = device
	return nil
}

// Device returns the device chosen by Build ("" before Build).
func (b *Base) Device() string { return b.device }

// Tensors converts Forward's data to tensors, failing on the first
// non-tensor value.
func Tensors(name string, data []any) ([]*tensor.Tensor, error) {
	out := make([]*tensor.Tensor, len(data))
	for i, d := range data {
		t, ok := d.(*tensor.Tensor)
		if !ok {
			return nil, fmt.Errorf("%s: %w: input %d is %T, want *tensor.Tensor", name, ErrInputType, i, d)
		}
		out[i] = t
	}
	return out, nil
}
