package schedule

import (
	"fmt"
	"log/slog"
)

// Unit selects the counter an LRScheduler follows.
type Unit int

// Counter units.
const (
	PerStep Unit = iota
	PerEpoch
)

// String returns "step" or "epoch".
func (u Unit) String() string {
	if u == PerEpoch {
		return "epoch"
	}
	return "step"
}

// LRSetter is implemented by optimizers whose learning rate can change
// during training.
type LRSetter interface {
	GetLR() float32
	SetLR(lr float32)
}

// LRScheduler applies a Scheduler to an optimizer's learning rate once
// per step or once per epoch. The training loop calls OnEpochBegin and
// OnBatchBegin; only the hook matching Unit has an effect.
type LRScheduler struct {
	optimizer LRSetter
	schedule  Scheduler
	unit      Unit
}

// NewLRScheduler binds s to optimizer.
func NewLRScheduler(optimizer LRSetter, s Scheduler, unit Unit) (*LRScheduler, error) {
	if optimizer == nil || s == nil {
		return nil, fmt.Errorf("%w: optimizer and schedule are required", ErrInvalidSchedule)
	}
	return &LRScheduler{optimizer: optimizer, schedule: s, unit: unit}, nil
}

// OnEpochBegin updates the learning rate for epoch when following epochs.
func (l *LRScheduler) OnEpochBegin(epoch int) {
	if l.unit == PerEpoch {
		l.apply(epoch)
	}
}

// OnBatchBegin updates the learning rate for step when following steps.
func (l *LRScheduler) OnBatchBegin(step int) {
	if l.unit == PerStep {
		l.apply(step)
	}
}

func (l *LRScheduler) apply(counter int) {
	lr := float32(l.schedule.Value(counter))
	if lr != l.optimizer.GetLR() {
		slog.Debug("learning rate updated", l.unit.String(), counter, "lr", lr)
	}
	l.optimizer.SetLR(lr)
}
