package tensorop

import (
	"math"
	"testing"

	"github.com/fastestimator/fastestimator/internal/op"
	"github.com/fastestimator/fastestimator/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTensor(t *testing.T, data []float32, shape tensor.Shape) *tensor.Tensor {
	t.Helper()
	x, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)
	return x
}

func TestNewLossOp_Validation(t *testing.T) {
	tests := []struct {
		name    string
		inputs  []string
		outputs []string
		wantErr bool
	}{
		{"valid", []string{"y_pred", "y"}, []string{"loss"}, false},
		{"extra inputs", []string{"y_pred", "y", "weights"}, []string{"loss"}, false},
		{"one input", []string{"y_pred"}, []string{"loss"}, true},
		{"no inputs", nil, []string{"loss"}, true},
		{"no outputs", []string{"y_pred", "y"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLossOp(LossConfig{Inputs: tt.inputs, Outputs: tt.outputs})
			if tt.wantErr {
				assert.ErrorIs(t, err, op.ErrConfig)
				var cfgErr *op.ConfigError
				assert.ErrorAs(t, err, &cfgErr)
				assert.Nil(t, l)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.inputs, l.Inputs())
		})
	}
}

func TestLossOp_Keys(t *testing.T) {
	l, err := NewLossOp(LossConfig{
		Inputs:  []string{"y_pred", "y"},
		Outputs: []string{"ce"},
		Mode:    []string{"!infer"},
	})
	require.NoError(t, err)

	assert.Equal(t, "y_pred", l.PredKey())
	assert.Equal(t, "y", l.TrueKey())
	assert.Equal(t, 0, l.PredKeyIdx())
	assert.Equal(t, 1, l.TrueKeyIdx())
	assert.True(t, l.AverageLoss())
	assert.False(t, l.Modes().Applies("infer"))
	assert.True(t, l.Modes().Applies("train"))
}

func TestLossOp_PassThrough(t *testing.T) {
	l, err := NewLossOp(LossConfig{Inputs: []string{"a", "b"}, Outputs: []string{"c"}})
	require.NoError(t, err)

	out, err := l.Forward([]any{"first", "second"}, op.State{})
	require.NoError(t, err)
	assert.Equal(t, []any{"first"}, out)
}

func TestLossOp_InvalidMode(t *testing.T) {
	_, err := NewLossOp(LossConfig{Inputs: []string{"a", "b"}, Outputs: []string{"c"}, Mode: []string{"training"}})
	assert.ErrorIs(t, err, op.ErrConfig)
}

func TestMeanSquaredError(t *testing.T) {
	pred := mustTensor(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	truth := mustTensor(t, []float32{1, 0, 3, 1}, tensor.Shape{2, 2})

	t.Run("average", func(t *testing.T) {
		mse, err := NewMeanSquaredError(LossConfig{Inputs: []string{"p", "y"}, Outputs: []string{"mse"}})
		require.NoError(t, err)

		out, err := mse.Forward([]any{pred, truth}, op.State{})
		require.NoError(t, err)
		require.Len(t, out, 1)
		// per sample: (0+4)/2 = 2, (0+9)/2 = 4.5
		assert.InDelta(t, 3.25, out[0].(*tensor.Tensor).Item(), 1e-6)
	})

	t.Run("per sample", func(t *testing.T) {
		mse, err := NewMeanSquaredError(LossConfig{Inputs: []string{"p", "y"}, Outputs: []string{"mse"}, PerSample: true})
		require.NoError(t, err)
		assert.False(t, mse.AverageLoss())

		out, err := mse.Forward([]any{pred, truth}, op.State{})
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float32{2, 4.5}, out[0].(*tensor.Tensor).Data(), 1e-6)
	})

	t.Run("shape mismatch", func(t *testing.T) {
		mse, err := NewMeanSquaredError(LossConfig{Inputs: []string{"p", "y"}, Outputs: []string{"mse"}})
		require.NoError(t, err)

		_, err = mse.Forward([]any{pred, tensor.Zeros(tensor.Shape{4})}, op.State{})
		assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
	})

	t.Run("non-tensor input", func(t *testing.T) {
		mse, err := NewMeanSquaredError(LossConfig{Inputs: []string{"p", "y"}, Outputs: []string{"mse"}})
		require.NoError(t, err)

		_, err = mse.Forward([]any{pred, "label"}, op.State{})
		assert.ErrorIs(t, err, op.ErrInputType)
	})

	t.Run("two outputs rejected", func(t *testing.T) {
		_, err := NewMeanSquaredError(LossConfig{Inputs: []string{"p", "y"}, Outputs: []string{"a", "b"}})
		assert.ErrorIs(t, err, op.ErrConfig)
	})
}

func TestCrossEntropy_Sparse(t *testing.T) {
	ce, err := NewCrossEntropy(CrossEntropyConfig{
		LossConfig: LossConfig{Inputs: []string{"y_pred", "y"}, Outputs: []string{"ce"}, PerSample: true},
	})
	require.NoError(t, err)

	pred := mustTensor(t, []float32{0.7, 0.2, 0.1, 0.1, 0.1, 0.8}, tensor.Shape{2, 3})
	labels := mustTensor(t, []float32{0, 2}, tensor.Shape{2})

	out, err := ce.Forward([]any{pred, labels}, op.State{})
	require.NoError(t, err)

	got := out[0].(*tensor.Tensor).Data()
	assert.InDelta(t, -math.Log(0.7), got[0], 1e-5)
	assert.InDelta(t, -math.Log(0.8), got[1], 1e-5)

	_, err = ce.Forward([]any{pred, mustTensor(t, []float32{0, 3}, tensor.Shape{2})}, op.State{})
	assert.Error(t, err)
}

func TestCrossEntropy_CategoricalMatchesSparse(t *testing.T) {
	ce, err := NewCrossEntropy(CrossEntropyConfig{
		LossConfig: LossConfig{Inputs: []string{"y_pred", "y"}, Outputs: []string{"ce"}},
		FromLogits: true,
	})
	require.NoError(t, err)

	logits := mustTensor(t, []float32{2, 1, 0.1, 0.5, 2.5, -1}, tensor.Shape{2, 3})
	sparse := mustTensor(t, []float32{0, 1}, tensor.Shape{2})
	onehot := mustTensor(t, []float32{1, 0, 0, 0, 1, 0}, tensor.Shape{2, 3})

	a, err := ce.Forward([]any{logits, sparse}, op.State{})
	require.NoError(t, err)
	b, err := ce.Forward([]any{logits, onehot}, op.State{})
	require.NoError(t, err)

	assert.InDelta(t, a[0].(*tensor.Tensor).Item(), b[0].(*tensor.Tensor).Item(), 1e-6)

	// softmax([2, 1, 0.1])[0] = 0.6590
	l0 := -math.Log(math.Exp(2) / (math.Exp(2) + math.Exp(1) + math.Exp(0.1)))
	l1 := -math.Log(math.Exp(2.5) / (math.Exp(0.5) + math.Exp(2.5) + math.Exp(-1)))
	assert.InDelta(t, (l0+l1)/2, a[0].(*tensor.Tensor).Item(), 1e-5)
}

func TestCrossEntropy_Binary(t *testing.T) {
	ce, err := NewCrossEntropy(CrossEntropyConfig{
		LossConfig: LossConfig{Inputs: []string{"y_pred", "y"}, Outputs: []string{"ce"}, PerSample: true},
	})
	require.NoError(t, err)

	pred := mustTensor(t, []float32{0.9, 0.2}, tensor.Shape{2, 1})
	labels := mustTensor(t, []float32{1, 0}, tensor.Shape{2, 1})

	out, err := ce.Forward([]any{pred, labels}, op.State{})
	require.NoError(t, err)
	got := out[0].(*tensor.Tensor).Data()
	assert.InDelta(t, -math.Log(0.9), got[0], 1e-5)
	assert.InDelta(t, -math.Log(0.8), got[1], 1e-5)

	// Flat labels against [batch, 1] predictions.
	out, err = ce.Forward([]any{pred, mustTensor(t, []float32{1, 0}, tensor.Shape{2})}, op.State{})
	require.NoError(t, err)
	assert.InDeltaSlice(t, got, out[0].(*tensor.Tensor).Data(), 1e-6)

	mismatched := []struct {
		name        string
		pred, truth *tensor.Tensor
	}{
		{"scalar label", mustTensor(t, []float32{0.7}, tensor.Shape{1}), tensor.Scalar(1)},
		{"batch differs", pred, mustTensor(t, []float32{1, 0, 1}, tensor.Shape{3, 1})},
	}
	for _, tt := range mismatched {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ce.Forward([]any{tt.pred, tt.truth}, op.State{})
			assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
		})
	}
}
