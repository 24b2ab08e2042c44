package tensorop

import (
	"fmt"
	"slices"

	"github.com/fastestimator/fastestimator/internal/op"
	"github.com/fastestimator/fastestimator/internal/parallel"
	"github.com/fastestimator/fastestimator/internal/tensor"
)

// Resize modes.
const (
	ResizeNearest = "nearest"
	ResizeArea    = "area"
)

var resizeModes = []string{ResizeNearest, ResizeArea}

// Resize3DConfig configures a Resize3D op.
type Resize3DConfig struct {
	Inputs  []string
	Outputs []string
	Mode    []string
	DSID    []string

	// OutputShape is the target (depth, height, width).
	OutputShape [3]int

	// ResizeMode is "nearest" (default) or "area".
	ResizeMode string
}

// Resize3D resizes channel-last volumes of shape [batch, D, H, W, C] to
// [batch, D', H', W', C].
//
// "nearest" picks source voxel floor(o*in/out) on each axis. "area"
// averages the source window [floor(o*in/out), ceil((o+1)*in/out)),
// which is adaptive average pooling when downsampling.
type Resize3D struct {
	op.Base
	outputShape [3]int
	resizeMode  string
	parallel    parallel.Config
}

// NewResize3D validates cfg and creates the op.
func NewResize3D(cfg Resize3DConfig) (*Resize3D, error) {
	if cfg.ResizeMode == "" {
		cfg.ResizeMode = ResizeNearest
	}
	if !slices.Contains(resizeModes, cfg.ResizeMode) {
		return nil, op.NewConfigError("Resize3D", "resize_mode", "only following resize modes are supported: %q, got %q",
			resizeModes, cfg.ResizeMode)
	}
	for i, d := range cfg.OutputShape {
		if d <= 0 {
			return nil, op.NewConfigError("Resize3D", "output_shape", "dimension %d is %d (must be > 0)", i, d)
		}
	}
	if len(cfg.Inputs) != len(cfg.Outputs) {
		return nil, op.NewConfigError("Resize3D", "outputs", "got %d inputs but %d outputs", len(cfg.Inputs), len(cfg.Outputs))
	}
	base, err := op.NewBase("Resize3D", op.Config{
		Inputs:  cfg.Inputs,
		Outputs: cfg.Outputs,
		Mode:    cfg.Mode,
		DSID:    cfg.DSID,
	})
	if err != nil {
		return nil, err
	}
	return &Resize3D{
		Base:        base,
		outputShape: cfg.OutputShape,
		resizeMode:  cfg.ResizeMode,
		parallel:    parallel.DefaultConfig(),
	}, nil
}

// OutputShape returns the target (depth, height, width).
func (r *Resize3D) OutputShape() [3]int { return r.outputShape }

// ResizeMode returns "nearest" or "area".
func (r *Resize3D) ResizeMode() string { return r.resizeMode }

// Forward resizes every input tensor.
func (r *Resize3D) Forward(data []any, _ op.State) ([]any, error) {
	ts, err := op.Tensors("Resize3D", data)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(ts))
	for i, t := range ts {
		resized, err := r.resize(t)
		if err != nil {
			return nil, fmt.Errorf("Resize3D: input %d: %w", i, err)
		}
		out[i] = resized
	}
	return out, nil
}

func (r *Resize3D) resize(in *tensor.Tensor) (*tensor.Tensor, error) {
	if in.Rank() != 5 {
		return nil, fmt.Errorf("%w: expected [batch, D, H, W, C], got %v", tensor.ErrShapeMismatch, in.Shape())
	}
	s := in.Shape()
	batch, channels := s[0], s[4]
	od, oh, ow := r.outputShape[0], r.outputShape[1], r.outputShape[2]

	out := tensor.Zeros(tensor.Shape{batch, od, oh, ow, channels})

	var wd, wh, ww []window
	if r.resizeMode == ResizeArea {
		wd, wh, ww = areaWindows(s[1], od), areaWindows(s[2], oh), areaWindows(s[3], ow)
	} else {
		wd, wh, ww = nearestWindows(s[1], od), nearestWindows(s[2], oh), nearestWindows(s[3], ow)
	}

	err := parallel.ForBatch(batch, channels, func(b, c int) error {
		for z, dz := range wd {
			for y, dy := range wh {
				for x, dx := range ww {
					var sum float32
					for i := dz.start; i < dz.end; i++ {
						for j := dy.start; j < dy.end; j++ {
							for k := dx.start; k < dx.end; k++ {
								sum += in.At(b, i, j, k, c)
							}
						}
					}
					n := (dz.end - dz.start) * (dy.end - dy.start) * (dx.end - dx.start)
					out.Set(sum/float32(n), b, z, y, x, c)
				}
			}
		}
		return nil
	}, r.parallel)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// window is a half-open source index range feeding one output index.
type window struct{ start, end int }

func nearestWindows(in, out int) []window {
	w := make([]window, out)
	scale := float64(in) / float64(out)
	for o := range w {
		src := min(int(float64(o)*scale), in-1)
		w[o] = window{src, src + 1}
	}
	return w
}

func areaWindows(in, out int) []window {
	w := make([]window, out)
	for o := range w {
		start := o * in / out
		end := ((o+1)*in + out - 1) / out
		w[o] = window{start, max(end, start+1)}
	}
	return w
}

var _ op.Op = (*Resize3D)(nil)
