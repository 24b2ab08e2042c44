// Package optim implements optimizers whose learning rate is driven by
// the schedules in package schedule.
//
// Example usage:
//
//	w := optim.NewParameter("w", tensor.Zeros(tensor.Shape{3}))
//	sgd := optim.NewSGD([]*optim.Parameter{w}, optim.SGDConfig{LR: 0.1})
//	lr, _ := schedule.NewLRScheduler(sgd, cosine, schedule.PerStep)
//
//	for step := 1; step <= steps; step++ {
//	    lr.OnBatchBegin(step)
//	    grads := computeGradients(w)
//	    if err := sgd.Step(grads); err != nil { ... }
//	}
package optim

import (
	"fmt"

	"github.com/fastestimator/fastestimator/internal/tensor"
)

// Optimizer updates parameters from gradients.
type Optimizer interface {
	// Step applies one update. grads maps parameter names to gradients;
	// parameters without a gradient are left unchanged.
	Step(grads map[string]*tensor.Tensor) error

	// GetLR returns the current learning rate.
	GetLR() float32

	// SetLR changes the learning rate, typically from a schedule.
	SetLR(lr float32)
}

// Parameter is a named trainable tensor.
type Parameter struct {
	Name  string
	Value *tensor.Tensor
}

// NewParameter creates a parameter.
func NewParameter(name string, value *tensor.Tensor) *Parameter {
	return &Parameter{Name: name, Value: value}
}

// gradient looks up and shape-checks the gradient for param.
func gradient(param *Parameter, grads map[string]*tensor.Tensor) (*tensor.Tensor, error) {
	grad, ok := grads[param.Name]
	if !ok || grad == nil {
		return nil, nil
	}
	if !grad.Shape().Equal(param.Value.Shape()) {
		return nil, fmt.Errorf("%w: gradient for %q is %v, parameter is %v",
			tensor.ErrShapeMismatch, param.Name, grad.Shape(), param.Value.Shape())
	}
	return grad, nil
}
