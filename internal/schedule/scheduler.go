package schedule

import (
	"fmt"
	"slices"
)

// Scheduler maps a step or epoch counter to a hyperparameter value.
// Implementations are pure and safe for concurrent use.
type Scheduler interface {
	Value(epochOrStep int) float64
}

// Func adapts a plain function to Scheduler.
type Func func(epochOrStep int) float64

// Value implements Scheduler.
func (f Func) Value(epochOrStep int) float64 { return f(epochOrStep) }

// EpochScheduler switches values at given epochs. The value for epoch e
// comes from the largest key <= e. Before the first key it returns the
// first key's value.
//
// Example:
//
//	s, _ := schedule.NewEpochScheduler(map[int]float64{1: 1e-3, 10: 1e-4})
//	s.Value(9)  // 1e-3
//	s.Value(10) // 1e-4
type EpochScheduler struct {
	epochs []int
	values []float64
}

// NewEpochScheduler builds an EpochScheduler. Keys must be >= 0.
func NewEpochScheduler(values map[int]float64) (*EpochScheduler, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: epoch scheduler needs at least one entry", ErrInvalidSchedule)
	}
	s := &EpochScheduler{}
	for e := range values {
		if e < 0 {
			return nil, fmt.Errorf("%w: epoch %d is negative", ErrInvalidSchedule, e)
		}
		s.epochs = append(s.epochs, e)
	}
	slices.Sort(s.epochs)
	for _, e := range s.epochs {
		s.values = append(s.values, values[e])
	}
	return s, nil
}

// Value implements Scheduler.
func (s *EpochScheduler) Value(epoch int) float64 {
	i, found := slices.BinarySearch(s.epochs, epoch)
	if found {
		return s.values[i]
	}
	if i == 0 {
		return s.values[0]
	}
	return s.values[i-1]
}

// RepeatScheduler cycles through values, one per counter step.
type RepeatScheduler struct {
	values []float64
}

// NewRepeatScheduler builds a RepeatScheduler over a non-empty list.
func NewRepeatScheduler(values ...float64) (*RepeatScheduler, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: repeat scheduler needs at least one value", ErrInvalidSchedule)
	}
	return &RepeatScheduler{values: slices.Clone(values)}, nil
}

// Value implements Scheduler. Counters start at 1, as epochs do.
func (s *RepeatScheduler) Value(epoch int) float64 {
	n := len(s.values)
	return s.values[((epoch-1)%n+n)%n]
}
