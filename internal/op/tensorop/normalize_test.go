package tensorop

import (
	"testing"

	"github.com/fastestimator/fastestimator/internal/op"
	"github.com/fastestimator/fastestimator/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalizeInput(t *testing.T) *tensor.Tensor {
	t.Helper()
	x, err := tensor.Arange(0, 27).Reshape(tensor.Shape{1, 3, 3, 3})
	require.NoError(t, err)
	return x
}

func TestNormalize_Scalar(t *testing.T) {
	expected := []float32{
		-1.6688062, -1.5404365, -1.4120668, -1.283697, -1.1553273, -1.0269576,
		-0.89858794, -0.77021825, -0.6418485, -0.5134788, -0.38510913, -0.2567394,
		-0.1283697, 0., 0.1283697, 0.2567394, 0.38510913, 0.5134788,
		0.6418485, 0.77021825, 0.89858794, 1.0269576, 1.1553273, 1.283697,
		1.4120668, 1.5404365, 1.6688062,
	}

	n, err := NewNormalize(NormalizeConfig{
		Inputs:        []string{"image"},
		Outputs:       []string{"image"},
		Mean:          []float32{0.482},
		Std:           []float32{0.289},
		MaxPixelValue: 27,
	})
	require.NoError(t, err)
	require.NoError(t, n.Build("cpu"))

	out, err := n.Forward([]any{normalizeInput(t)}, op.State{})
	require.NoError(t, err)

	got := out[0].(*tensor.Tensor)
	assert.Equal(t, tensor.Shape{1, 3, 3, 3}, got.Shape())
	assert.InDeltaSlice(t, expected, got.Data(), 1e-2)
}

func TestNormalize_PerChannel(t *testing.T) {
	expected := []float32{
		-1.5331011, -1.543425, -1.5537487, -1.1459544, -1.1562783, -1.166602,
		-0.7588076, -0.7691315, -0.7794553, -0.37166086, -0.38198477, -0.39230856,
		0.01548585, 0.00516195, -0.00516183, 0.4026326, 0.39230868, 0.3819849,
		0.7897793, 0.7794554, 0.7691316, 1.176926, 1.1666021, 1.1562784,
		1.5640727, 1.5537488, 1.5434251,
	}

	n, err := NewNormalize(NormalizeConfig{
		Inputs:        []string{"image"},
		Outputs:       []string{"image"},
		Mean:          []float32{0.44, 0.48, 0.52},
		Std:           []float32{0.287, 0.287, 0.287},
		MaxPixelValue: 27,
	})
	require.NoError(t, err)

	in := normalizeInput(t)
	out, err := n.Forward([]any{in}, op.State{})
	require.NoError(t, err)
	assert.InDeltaSlice(t, expected, out[0].(*tensor.Tensor).Data(), 1e-2)

	// Input is not modified.
	assert.Equal(t, float32(26), in.At(0, 2, 2, 2))
}

func TestNormalize_Defaults(t *testing.T) {
	n, err := NewNormalize(NormalizeConfig{Inputs: []string{"x"}, Outputs: []string{"x"}})
	require.NoError(t, err)

	x := tensor.Full(tensor.Shape{1, 3}, 255)
	out, err := n.Forward([]any{x}, op.State{})
	require.NoError(t, err)

	want := []float32{(1 - 0.485) / 0.229, (1 - 0.456) / 0.224, (1 - 0.406) / 0.225}
	assert.InDeltaSlice(t, want, out[0].(*tensor.Tensor).Data(), 1e-5)
}

func TestNormalize_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  NormalizeConfig
	}{
		{"zero std", NormalizeConfig{Inputs: []string{"x"}, Outputs: []string{"x"}, Mean: []float32{0}, Std: []float32{0}}},
		{"length mismatch", NormalizeConfig{Inputs: []string{"x"}, Outputs: []string{"x"}, Mean: []float32{0, 0}, Std: []float32{1, 1, 1}}},
		{"negative scale", NormalizeConfig{Inputs: []string{"x"}, Outputs: []string{"x"}, MaxPixelValue: -1}},
		{"key count", NormalizeConfig{Inputs: []string{"x"}, Outputs: nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNormalize(tt.cfg)
			assert.ErrorIs(t, err, op.ErrConfig)
		})
	}
}

func TestNormalize_ChannelMismatch(t *testing.T) {
	n, err := NewNormalize(NormalizeConfig{Inputs: []string{"x"}, Outputs: []string{"x"}})
	require.NoError(t, err)

	_, err = n.Forward([]any{tensor.Zeros(tensor.Shape{2, 4})}, op.State{})
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}
