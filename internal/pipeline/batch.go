package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/fastestimator/fastestimator/internal/dataset"
	"github.com/fastestimator/fastestimator/internal/op"
	"github.com/fastestimator/fastestimator/internal/tensor"
)

// Collate stacks per-sample records into one batch record.
//
// Tensors of equal shape become a tensor with a leading batch
// dimension; numeric scalars become a [batch] tensor; anything else is
// gathered into a []any. Every record must carry the same keys.
func Collate(records []dataset.Record) (dataset.Record, error) {
	if len(records) == 0 {
		return dataset.Record{}, nil
	}

	keys := make([]string, 0, len(records[0]))
	for k := range records[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for i, r := range records {
		if len(r) != len(keys) {
			return nil, fmt.Errorf("collate record %d: %w: has %d keys, want %d", i, ErrKeyNotFound, len(r), len(keys))
		}
	}

	batch := make(dataset.Record, len(keys))
	for _, key := range keys {
		values := make([]any, len(records))
		for i, r := range records {
			v, ok := r[key]
			if !ok {
				return nil, fmt.Errorf("collate record %d: %w: %q", i, ErrKeyNotFound, key)
			}
			values[i] = v
		}
		stacked, err := stack(values)
		if err != nil {
			return nil, fmt.Errorf("collate %q: %w", key, err)
		}
		batch[key] = stacked
	}
	return batch, nil
}

func stack(values []any) (any, error) {
	switch first := values[0].(type) {
	case *tensor.Tensor:
		shape := first.Shape()
		out := tensor.Zeros(append(tensor.Shape{len(values)}, shape...))
		per := first.NumElements()
		for i, v := range values {
			t, ok := v.(*tensor.Tensor)
			if !ok || !t.Shape().Equal(shape) {
				return nil, fmt.Errorf("%w: element %d does not match %v", tensor.ErrShapeMismatch, i, shape)
			}
			copy(out.Data()[i*per:(i+1)*per], t.Data())
		}
		return out, nil
	case int, int64, float32, float64:
		out := tensor.Zeros(tensor.Shape{len(values)})
		for i, v := range values {
			f, ok := toFloat32(v)
			if !ok {
				return values, nil
			}
			out.Data()[i] = f
		}
		return out, nil
	default:
		return values, nil
	}
}

func toFloat32(v any) (float32, bool) {
	switch x := v.(type) {
	case int:
		return float32(x), true
	case int64:
		return float32(x), true
	case float32:
		return x, true
	case float64:
		return float32(x), true
	default:
		return 0, false
	}
}

// Batches transforms ds with the pipeline and collates the results into
// batches of batchSize. The final short batch is kept unless dropLast.
func (p *Pipeline) Batches(ctx context.Context, ds dataset.Dataset, state op.State, batchSize int, dropLast bool) ([]dataset.Record, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive, got %d", op.ErrConfig, batchSize)
	}
	records, err := p.Transform(ctx, ds, state)
	if err != nil {
		return nil, err
	}

	var batches []dataset.Record
	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		if dropLast && end-start < batchSize {
			break
		}
		b, err := Collate(records[start:end])
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", len(batches), err)
		}
		batches = append(batches, b)
	}
	return batches, nil
}
