package optim_test

import (
	"testing"

	"github.com/fastestimator/fastestimator/internal/optim"
	"github.com/fastestimator/fastestimator/internal/schedule"
	"github.com/fastestimator/fastestimator/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func param(t *testing.T, name string, values ...float32) *optim.Parameter {
	t.Helper()
	x, err := tensor.FromSlice(values, tensor.Shape{len(values)})
	require.NoError(t, err)
	return optim.NewParameter(name, x)
}

func grad(t *testing.T, values ...float32) *tensor.Tensor {
	t.Helper()
	g, err := tensor.FromSlice(values, tensor.Shape{len(values)})
	require.NoError(t, err)
	return g
}

func TestSGD_SimpleUpdate(t *testing.T) {
	x := param(t, "x", 2.0)
	sgd := optim.NewSGD([]*optim.Parameter{x}, optim.SGDConfig{LR: 0.1})

	require.NoError(t, sgd.Step(map[string]*tensor.Tensor{"x": grad(t, 1.0)}))

	// x_new = 2.0 - 0.1 * 1.0
	assert.InDelta(t, 1.9, x.Value.Item(), 1e-6)
}

func TestSGD_WithMomentum(t *testing.T) {
	x := param(t, "x", 1.0)
	sgd := optim.NewSGD([]*optim.Parameter{x}, optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	grads := map[string]*tensor.Tensor{"x": grad(t, 1.0)}
	require.NoError(t, sgd.Step(grads))
	// v = 1, x = 1 - 0.1
	assert.InDelta(t, 0.9, x.Value.Item(), 1e-6)

	require.NoError(t, sgd.Step(grads))
	// v = 0.9 + 1 = 1.9, x = 0.9 - 0.19
	assert.InDelta(t, 0.71, x.Value.Item(), 1e-6)
}

func TestSGD_SkipsMissingGradients(t *testing.T) {
	x := param(t, "x", 1.0)
	y := param(t, "y", 5.0)
	sgd := optim.NewSGD([]*optim.Parameter{x, y}, optim.SGDConfig{LR: 1})

	require.NoError(t, sgd.Step(map[string]*tensor.Tensor{"x": grad(t, 0.5)}))
	assert.InDelta(t, 0.5, x.Value.Item(), 1e-6)
	assert.InDelta(t, 5.0, y.Value.Item(), 1e-6)
}

func TestSGD_ShapeMismatch(t *testing.T) {
	x := param(t, "x", 1.0, 2.0)
	sgd := optim.NewSGD([]*optim.Parameter{x}, optim.SGDConfig{})
	assert.Equal(t, float32(0.01), sgd.GetLR())

	err := sgd.Step(map[string]*tensor.Tensor{"x": grad(t, 1.0)})
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestAdam_FirstStep(t *testing.T) {
	x := param(t, "x", 1.0, -1.0)
	adam := optim.NewAdam([]*optim.Parameter{x}, optim.AdamConfig{LR: 0.01})

	require.NoError(t, adam.Step(map[string]*tensor.Tensor{"x": grad(t, 3.0, -0.5)}))

	// After bias correction the first step moves each weight by ~lr * sign(g).
	assert.InDelta(t, 0.99, x.Value.Data()[0], 1e-5)
	assert.InDelta(t, -0.99, x.Value.Data()[1], 1e-5)
}

func TestAdam_Defaults(t *testing.T) {
	adam := optim.NewAdam(nil, optim.AdamConfig{})
	assert.Equal(t, float32(0.001), adam.GetLR())
	adam.SetLR(0.5)
	assert.Equal(t, float32(0.5), adam.GetLR())
}

// TestSGD_CosineSchedule drives SGD's learning rate from a cosine decay
// on a quadratic bowl and checks both the schedule and convergence.
func TestSGD_CosineSchedule(t *testing.T) {
	w := param(t, "w", 4.0)
	sgd := optim.NewSGD([]*optim.Parameter{w}, optim.SGDConfig{LR: 0.1})

	cosine, err := schedule.NewCosineDecay(schedule.CosineConfig{CycleLength: 100, InitLR: 0.1, MinLR: 0.001})
	require.NoError(t, err)
	lr, err := schedule.NewLRScheduler(sgd, cosine, schedule.PerStep)
	require.NoError(t, err)

	for step := 0; step < 100; step++ {
		lr.OnBatchBegin(step)
		assert.InDelta(t, cosine.Value(step), sgd.GetLR(), 1e-7)

		// d/dw (w²) = 2w
		g := w.Value.Map(func(v float32) float32 { return 2 * v })
		require.NoError(t, sgd.Step(map[string]*tensor.Tensor{"w": g}))
	}

	assert.InDelta(t, 0, w.Value.Item(), 1e-3)
}

var (
	_ optim.Optimizer   = (*optim.SGD)(nil)
	_ optim.Optimizer   = (*optim.Adam)(nil)
	_ schedule.LRSetter = (*optim.SGD)(nil)
)
