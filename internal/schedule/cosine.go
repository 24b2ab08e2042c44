// Package schedule provides hyperparameter schedules: pure functions
// from a step or epoch counter to a value, and the glue that applies
// them to an optimizer.
package schedule

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSchedule is returned for malformed schedule parameters.
var ErrInvalidSchedule = errors.New("invalid schedule")

// DefaultMinLR is the floor used by CosineDecay when none is given.
const DefaultMinLR = 1e-6

// CosineDecay returns the learning rate at epochOrStep for a half-cosine
// decay from initLR to minLR that restarts every cycleLength steps after
// start. Before start it returns initLR.
//
//	p  = ((t - start) mod cycleLength) / cycleLength
//	lr = (initLR - minLR)/2 * cos(p*π) + (initLR + minLR)/2
//
// cycleLength must be positive; CosineDecay panics otherwise.
//
// Example:
//
//	schedule.CosineDecay(5, 10, 0.1, 0, 0) // 0.05
func CosineDecay(epochOrStep, cycleLength int, initLR, minLR float64, start int) float64 {
	if cycleLength <= 0 {
		panic(fmt.Sprintf("schedule: cycle length must be positive, got %d", cycleLength))
	}
	if epochOrStep < start {
		return initLR
	}
	stepInCycle := float64((epochOrStep-start)%cycleLength) / float64(cycleLength)
	return (initLR-minLR)/2*math.Cos(stepInCycle*math.Pi) + (initLR+minLR)/2
}

// CosineConfig configures a Cosine schedule.
type CosineConfig struct {
	CycleLength int     // Steps (or epochs) per decay cycle. Must be > 0.
	InitLR      float64 // Value at the start of each cycle.
	MinLR       float64 // Value approached at the end of each cycle.
	Start       int     // Counter value at which decay begins.
}

// Cosine is a validated CosineDecay schedule.
type Cosine struct {
	cfg CosineConfig
}

// NewCosineDecay validates cfg.
func NewCosineDecay(cfg CosineConfig) (*Cosine, error) {
	switch {
	case cfg.CycleLength <= 0:
		return nil, fmt.Errorf("%w: cycle length must be positive, got %d", ErrInvalidSchedule, cfg.CycleLength)
	case cfg.Start < 0:
		return nil, fmt.Errorf("%w: start must not be negative, got %d", ErrInvalidSchedule, cfg.Start)
	case cfg.MinLR > cfg.InitLR:
		return nil, fmt.Errorf("%w: min lr %g exceeds initial lr %g", ErrInvalidSchedule, cfg.MinLR, cfg.InitLR)
	}
	return &Cosine{cfg: cfg}, nil
}

// Value implements Scheduler.
func (c *Cosine) Value(epochOrStep int) float64 {
	return CosineDecay(epochOrStep, c.cfg.CycleLength, c.cfg.InitLR, c.cfg.MinLR, c.cfg.Start)
}

// String describes the schedule.
func (c *Cosine) String() string {
	return fmt.Sprintf("cosine(cycle=%d, init=%g, min=%g, start=%d)",
		c.cfg.CycleLength, c.cfg.InitLR, c.cfg.MinLR, c.cfg.Start)
}
