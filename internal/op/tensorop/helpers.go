package tensorop

import (
	"github.com/fastestimator/fastestimator/internal/tensor"
)

func scalar(v float32) *tensor.Tensor { return tensor.Scalar(v) }

func vector(v []float32) *tensor.Tensor {
	t, err := tensor.FromSlice(v, tensor.Shape{len(v)})
	if err != nil {
		panic(err)
	}
	return t
}

func clip(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
