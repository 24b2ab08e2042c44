package optim

import (
	"math"

	"github.com/fastestimator/fastestimator/internal/tensor"
)

// Adam implements Adaptive Moment Estimation with bias correction.
//
//	m = β1*m + (1-β1)*g
//	v = β2*v + (1-β2)*g²
//	param -= lr * m̂ / (√v̂ + ε)
type Adam struct {
	params []*Parameter
	lr     float32
	beta1  float32
	beta2  float32
	eps    float32
	t      int
	m      map[*Parameter]*tensor.Tensor
	v      map[*Parameter]*tensor.Tensor
}

// AdamConfig holds configuration for the Adam optimizer.
type AdamConfig struct {
	LR    float32    // Learning rate (default: 0.001)
	Betas [2]float32 // Running average coefficients (default: [0.9, 0.999])
	Eps   float32    // Numerical stability term (default: 1e-8)
}

// NewAdam creates a new Adam optimizer.
func NewAdam(params []*Parameter, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	return &Adam{
		params: params,
		lr:     config.LR,
		beta1:  config.Betas[0],
		beta2:  config.Betas[1],
		eps:    config.Eps,
		m:      make(map[*Parameter]*tensor.Tensor),
		v:      make(map[*Parameter]*tensor.Tensor),
	}
}

// Step performs a single optimization step.
func (a *Adam) Step(grads map[string]*tensor.Tensor) error {
	a.t++
	bc1 := float32(1 - math.Pow(float64(a.beta1), float64(a.t)))
	bc2 := float32(1 - math.Pow(float64(a.beta2), float64(a.t)))

	for _, param := range a.params {
		grad, err := gradient(param, grads)
		if err != nil {
			return err
		}
		if grad == nil {
			continue
		}

		m, ok := a.m[param]
		if !ok {
			m = tensor.Zeros(param.Value.Shape())
			a.m[param] = m
		}
		v, ok := a.v[param]
		if !ok {
			v = tensor.Zeros(param.Value.Shape())
			a.v[param] = v
		}

		mData, vData, pData := m.Data(), v.Data(), param.Value.Data()
		for i, g := range grad.Data() {
			mData[i] = a.beta1*mData[i] + (1-a.beta1)*g
			vData[i] = a.beta2*vData[i] + (1-a.beta2)*g*g
			mHat := mData[i] / bc1
			vHat := vData[i] / bc2
			pData[i] -= a.lr * mHat / (float32(math.Sqrt(float64(vHat))) + a.eps)
		}
	}
	return nil
}

// GetLR returns the current learning rate.
func (a *Adam) GetLR() float32 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float32) {
	a.lr = lr
}
