package tensor

import "fmt"

// Sub returns t - other. Shapes must match exactly.
func (t *Tensor) Sub(other *Tensor) (*Tensor, error) {
	if !t.shape.Equal(other.shape) {
		return nil, fmt.Errorf("%w: sub %v and %v", ErrShapeMismatch, t.shape, other.shape)
	}
	out := t.Clone()
	for i, v := range other.data {
		out.data[i] -= v
	}
	return out, nil
}

// Map returns a new tensor with f applied to every element.
func (t *Tensor) Map(f func(float32) float32) *Tensor {
	out := t.Clone()
	for i, v := range out.data {
		out.data[i] = f(v)
	}
	return out
}

// Sum returns the sum of all elements.
func (t *Tensor) Sum() float32 {
	var sum float32
	for _, v := range t.data {
		sum += v
	}
	return sum
}

// Mean returns the arithmetic mean of all elements.
func (t *Tensor) Mean() float32 {
	return t.Sum() / float32(len(t.data))
}

// MeanPerSample reduces all but the leading dimension with a mean,
// returning a tensor of shape [batch].
func (t *Tensor) MeanPerSample() (*Tensor, error) {
	if len(t.shape) == 0 {
		return nil, fmt.Errorf("%w: per-sample mean of a scalar", ErrInvalidShape)
	}
	batch := t.shape[0]
	per := len(t.data) / batch
	out := Zeros(Shape{batch})
	for b := 0; b < batch; b++ {
		var sum float32
		for _, v := range t.data[b*per : (b+1)*per] {
			sum += v
		}
		out.data[b] = sum / float32(per)
	}
	return out, nil
}
