package optim

import (
	"github.com/fastestimator/fastestimator/internal/tensor"
)

// SGD implements Stochastic Gradient Descent with optional momentum.
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
type SGD struct {
	params     []*Parameter
	lr         float32
	momentum   float32
	velocities map[*Parameter]*tensor.Tensor
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float32 // Learning rate (default: 0.01)
	Momentum float32 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(params []*Parameter, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*Parameter]*tensor.Tensor),
	}
}

// Step performs a single optimization step.
func (s *SGD) Step(grads map[string]*tensor.Tensor) error {
	for _, param := range s.params {
		grad, err := gradient(param, grads)
		if err != nil {
			return err
		}
		if grad == nil {
			continue
		}

		update := grad.Data()
		if s.momentum != 0 {
			velocity, ok := s.velocities[param]
			if !ok {
				velocity = tensor.Zeros(param.Value.Shape())
				s.velocities[param] = velocity
			}
			vData := velocity.Data()
			for i, g := range update {
				vData[i] = s.momentum*vData[i] + g
			}
			update = vData
		}

		pData := param.Value.Data()
		for i, u := range update {
			pData[i] -= s.lr * u
		}
	}
	return nil
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float32 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float32) {
	s.lr = lr
}
