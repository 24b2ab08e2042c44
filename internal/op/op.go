// Package op defines the operation contract shared by every per-batch
// transform.
//
// An Op declares the record keys it reads (Inputs) and writes (Outputs)
// and the execution modes and dataset ids it runs in. The surrounding
// execution loop resolves keys, evaluates the filters and calls Forward
// with the resolved values in input order. Ops never look keys up
// themselves.
package op

import (
	"github.com/fastestimator/fastestimator/internal/mode"
)

// Op is a configured per-batch transform.
type Op interface {
	// Inputs returns the record keys read by Forward, in order.
	Inputs() []string

	// Outputs returns the record keys written with Forward's results.
	Outputs() []string

	// Modes returns the execution-mode filter.
	Modes() mode.Filter

	// DSIDs returns the dataset-id filter.
	DSIDs() mode.Filter

	// Forward transforms data, aligned with Inputs, into values aligned
	// with Outputs. It must not retain or mutate per-call state.
	Forward(data []any, state State) ([]any, error)
}

// Builder is implemented by ops that need one-time setup (for example
// choosing a device) before first use.
type Builder interface {
	Build(device string) error
}

// Applies reports whether o runs for the given mode and dataset id.
func Applies(o Op, currentMode, dsID string) bool {
	return o.Modes().Applies(currentMode) && o.DSIDs().Applies(dsID)
}

// State is the shared per-step context handed to Forward. Ops read it;
// the execution loop owns its schema.
type State map[string]any

// Well-known State keys.
const (
	StateMode   = "mode"
	StateDSID   = "ds_id"
	StateEpoch  = "epoch"
	StateStep   = "step"
	StateDevice = "device"
)

// Mode returns the current execution mode, or "" if unset.
func (s State) Mode() string {
	v, _ := s[StateMode].(string)
	return v
}

// DSID returns the current dataset id, or "" if unset.
func (s State) DSID() string {
	v, _ := s[StateDSID].(string)
	return v
}

// Step returns the global step counter, or 0 if unset.
func (s State) Step() int {
	v, _ := s[StateStep].(int)
	return v
}

// Epoch returns the epoch counter, or 0 if unset.
func (s State) Epoch() int {
	v, _ := s[StateEpoch].(int)
	return v
}
