// Copyright 2025 The FastEstimator Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package schedule provides hyperparameter schedules.
//
// Example:
//
//	lr := schedule.CosineDecay(step, 1000, 1e-3, schedule.DefaultMinLR, 0)
package schedule

import (
	"github.com/fastestimator/fastestimator/internal/schedule"
)

// DefaultMinLR is the default floor of CosineDecay.
const DefaultMinLR = schedule.DefaultMinLR

// ErrInvalidSchedule is returned for malformed schedule parameters.
var ErrInvalidSchedule = schedule.ErrInvalidSchedule

type (
	Scheduler       = schedule.Scheduler
	Func            = schedule.Func
	CosineConfig    = schedule.CosineConfig
	Cosine          = schedule.Cosine
	EpochScheduler  = schedule.EpochScheduler
	RepeatScheduler = schedule.RepeatScheduler
	LRSetter        = schedule.LRSetter
	LRScheduler     = schedule.LRScheduler
	Unit            = schedule.Unit
)

// LRScheduler units.
const (
	PerStep  = schedule.PerStep
	PerEpoch = schedule.PerEpoch
)

// CosineDecay returns the cosine-decayed value at epochOrStep. It panics
// if cycleLength is not positive.
func CosineDecay(epochOrStep, cycleLength int, initLR, minLR float64, start int) float64 {
	return schedule.CosineDecay(epochOrStep, cycleLength, initLR, minLR, start)
}

// NewCosineDecay validates cfg and returns a Scheduler.
func NewCosineDecay(cfg CosineConfig) (*Cosine, error) { return schedule.NewCosineDecay(cfg) }

// NewEpochScheduler creates a schedule that changes value at the given epochs.
func NewEpochScheduler(values map[int]float64) (*EpochScheduler, error) {
	return schedule.NewEpochScheduler(values)
}

// NewRepeatScheduler creates a schedule cycling through values.
func NewRepeatScheduler(values ...float64) (*RepeatScheduler, error) {
	return schedule.NewRepeatScheduler(values...)
}

// NewLRScheduler binds s to an optimizer's learning rate.
func NewLRScheduler(optimizer LRSetter, s Scheduler, unit Unit) (*LRScheduler, error) {
	return schedule.NewLRScheduler(optimizer, s, unit)
}
