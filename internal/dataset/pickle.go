package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"path/filepath"
	"slices"

	"github.com/nlpodyssey/gopickle/pickle"
	"github.com/nlpodyssey/gopickle/types"
)

// ErrUnsupportedPickle is returned when a pickle's top-level object is
// not a supported table layout.
var ErrUnsupportedPickle = errors.New("unsupported pickle layout")

// PickleDataset reads records from a pickled table. The directory of
// the file is available through ParentPath, which is useful when
// records hold paths relative to the pickle.
//
// The pickle must hold plain Python objects, as produced by pickling
// one of the pandas dict exports:
//
//	df.to_dict(orient="index")    # {index: {column: value}}
//	df.to_dict(orient="records")  # [{column: value}, ...]
//	df.to_dict(orient="list")     # {column: [values]}
//	df.to_dict(orient="dict")     # {column: {index: value}}
type PickleDataset struct {
	*InMemoryDataset
}

// NewPickleDataset loads the pickle at path.
func NewPickleDataset(path string) (*PickleDataset, error) {
	obj, err := pickle.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load pickle %s: %w", path, err)
	}
	records, err := tableRecords(obj)
	if err != nil {
		return nil, fmt.Errorf("load pickle %s: %w", path, err)
	}

	ds := NewInMemoryDataset(records)
	ds.parent = filepath.Dir(path)
	slog.Debug("loaded pickle dataset", "path", path, "records", len(records))
	return &PickleDataset{InMemoryDataset: ds}, nil
}

// Split moves subsets of records into new PickleDatasets sharing the
// parent path. See InMemoryDataset.Split.
func (p *PickleDataset) Split(splits ...[]int) ([]*PickleDataset, error) {
	frags, err := p.InMemoryDataset.Split(splits...)
	if err != nil {
		return nil, err
	}
	out := make([]*PickleDataset, len(frags))
	for i, f := range frags {
		out[i] = &PickleDataset{InMemoryDataset: f}
	}
	return out, nil
}

// tableRecords converts an unpickled object into records.
func tableRecords(obj any) ([]Record, error) {
	switch v := obj.(type) {
	case *types.List:
		return listRecords(v.Len(), v.Get)
	case *types.Tuple:
		return listRecords(v.Len(), v.Get)
	case *types.Dict:
		return dictRecords(v)
	default:
		return nil, fmt.Errorf("%w: top-level object is %T", ErrUnsupportedPickle, obj)
	}
}

func listRecords(n int, get func(int) interface{}) ([]Record, error) {
	records := make([]Record, n)
	for i := 0; i < n; i++ {
		row, ok := get(i).(*types.Dict)
		if !ok {
			return nil, fmt.Errorf("%w: row %d is %T, want dict", ErrUnsupportedPickle, i, get(i))
		}
		records[i] = dictToRecord(row)
	}
	return records, nil
}

// dictRecords handles the index-oriented and column-oriented layouts.
// Row dicts mean {index: row}; list or dict values mean {column: values}.
func dictRecords(d *types.Dict) ([]Record, error) {
	keys := d.Keys()
	if len(keys) == 0 {
		return nil, nil
	}
	first, _ := d.Get(keys[0])

	switch first.(type) {
	case *types.Dict:
		if isIndexKey(keys[0]) {
			return indexRecords(d, keys)
		}
		return columnDictRecords(d, keys)
	case *types.List, *types.Tuple:
		return columnListRecords(d, keys)
	default:
		return nil, fmt.Errorf("%w: dict values are %T", ErrUnsupportedPickle, first)
	}
}

func indexRecords(d *types.Dict, keys []interface{}) ([]Record, error) {
	keys = sortedIndexKeys(keys)
	records := make([]Record, len(keys))
	for i, k := range keys {
		v, _ := d.Get(k)
		row, ok := v.(*types.Dict)
		if !ok {
			return nil, fmt.Errorf("%w: row %v is %T, want dict", ErrUnsupportedPickle, k, v)
		}
		records[i] = dictToRecord(row)
	}
	return records, nil
}

func columnListRecords(d *types.Dict, keys []interface{}) ([]Record, error) {
	var records []Record
	for _, k := range keys {
		col := fmt.Sprint(k)
		v, _ := d.Get(k)
		values, ok := convert(v).([]any)
		if !ok {
			return nil, fmt.Errorf("%w: column %q is %T, want list", ErrUnsupportedPickle, col, v)
		}
		if records == nil {
			records = make([]Record, len(values))
			for i := range records {
				records[i] = Record{}
			}
		}
		if len(values) != len(records) {
			return nil, fmt.Errorf("%w: column %q has %d values, want %d", ErrUnsupportedPickle, col, len(values), len(records))
		}
		for i, val := range values {
			records[i][col] = val
		}
	}
	return records, nil
}

func columnDictRecords(d *types.Dict, keys []interface{}) ([]Record, error) {
	var rowKeys []interface{}
	var records []Record
	for _, k := range keys {
		col := fmt.Sprint(k)
		v, _ := d.Get(k)
		column, ok := v.(*types.Dict)
		if !ok {
			return nil, fmt.Errorf("%w: column %q is %T, want dict", ErrUnsupportedPickle, col, v)
		}
		if records == nil {
			rowKeys = sortedIndexKeys(column.Keys())
			records = make([]Record, len(rowKeys))
			for i := range records {
				records[i] = Record{}
			}
		}
		if column.Len() != len(records) {
			return nil, fmt.Errorf("%w: column %q has %d values, want %d", ErrUnsupportedPickle, col, column.Len(), len(records))
		}
		for i, rk := range rowKeys {
			val, found := column.Get(rk)
			if !found {
				return nil, fmt.Errorf("%w: column %q has no row %v", ErrUnsupportedPickle, col, rk)
			}
			records[i][col] = convert(val)
		}
	}
	return records, nil
}

func isIndexKey(k interface{}) bool {
	_, ok := indexValue(k)
	return ok
}

// indexValue returns k as an int when it is an integer that fits.
func indexValue(k interface{}) (int, bool) {
	switch x := k.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case *big.Int:
		if x.IsInt64() {
			return int(x.Int64()), true
		}
	}
	return 0, false
}

// sortedIndexKeys orders integer keys ascending and leaves any other
// key set in insertion order.
func sortedIndexKeys(keys []interface{}) []interface{} {
	ints := make([]int, len(keys))
	for i, k := range keys {
		n, ok := indexValue(k)
		if !ok {
			return keys
		}
		ints[i] = n
	}
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return ints[a] - ints[b] })

	sorted := make([]interface{}, len(keys))
	for i, o := range order {
		sorted[i] = keys[o]
	}
	if len(ints) > 0 && (slices.Min(ints) != 0 || slices.Max(ints) != len(ints)-1) {
		slog.Warn("pickle index is not contiguous, renumbering from 0", "min", slices.Min(ints), "max", slices.Max(ints))
	}
	return sorted
}

func dictToRecord(d *types.Dict) Record {
	r := make(Record, d.Len())
	for _, k := range d.Keys() {
		v, _ := d.Get(k)
		r[fmt.Sprint(k)] = convert(v)
	}
	return r
}

// convert maps unpickled values onto plain Go values.
func convert(v interface{}) any {
	switch x := v.(type) {
	case *types.Dict:
		m := make(map[string]any, x.Len())
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			m[fmt.Sprint(k)] = convert(val)
		}
		return m
	case *types.List:
		out := make([]any, x.Len())
		for i := range out {
			out[i] = convert(x.Get(i))
		}
		return out
	case *types.Tuple:
		out := make([]any, x.Len())
		for i := range out {
			out[i] = convert(x.Get(i))
		}
		return out
	case *big.Int:
		if x.IsInt64() {
			return int(x.Int64())
		}
		return x
	default:
		return x
	}
}
