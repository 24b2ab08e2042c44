// Package dataset provides indexable record collections and the split
// operation that carves disjoint fragments out of them.
package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/emirpasic/gods/v2/sets/hashset"
)

// Common errors.
var (
	ErrIndexNotFound = errors.New("index not found")
	ErrInvalidSplit  = errors.New("invalid split")
)

// Record maps field names to values. Keys are stable across the
// records of one dataset.
type Record map[string]any

// Dataset maps contiguous indices 0..Len()-1 to records.
type Dataset interface {
	Len() int
	Get(index int) (Record, error)
}

// InMemoryDataset owns its records in an arena addressed by handles.
// The index maps position i to the handle of the i-th record.
//
// Split mutates the dataset; it must not run concurrently with reads.
// InMemoryDataset serializes its own methods with a mutex, so callers
// only need to coordinate splits with other users of returned records.
type InMemoryDataset struct {
	mu     sync.RWMutex
	arena  []Record
	index  []int
	parent string
}

// NewInMemoryDataset takes ownership of records, indexed in order.
func NewInMemoryDataset(records []Record) *InMemoryDataset {
	index := make([]int, len(records))
	for i := range index {
		index[i] = i
	}
	return &InMemoryDataset{arena: records, index: index}
}

// Len returns the number of records.
func (d *InMemoryDataset) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.index)
}

// Get returns the record at index.
func (d *InMemoryDataset) Get(index int) (Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if index < 0 || index >= len(d.index) {
		return nil, fmt.Errorf("%w: %d (size %d)", ErrIndexNotFound, index, len(d.index))
	}
	return d.arena[d.index[index]], nil
}

// ParentPath returns the directory of the file the records came from,
// or "" for datasets built in memory.
func (d *InMemoryDataset) ParentPath() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.parent
}

// Split moves the records named by each subset into a new dataset.
//
// Subsets are processed in order; a fragment's record i is the source
// record at subset[i]. Afterwards the remaining source records are
// renumbered from 0 in their original relative order. Indices refer to
// the source as it was before the call. An index out of range or used
// twice (within or across subsets) fails with ErrIndexNotFound and the
// source is left untouched.
//
// Example:
//
//	ds has 5 records; ds.Split([]int{1, 3}) returns one fragment holding
//	old records 1, 3 and leaves ds with old records 0, 2, 4.
func (d *InMemoryDataset) Split(splits ...[]int) ([]*InMemoryDataset, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	moved := hashset.New[int]()
	handles := make([][]int, len(splits))
	for s, split := range splits {
		handles[s] = make([]int, len(split))
		for i, idx := range split {
			if idx < 0 || idx >= len(d.index) || moved.Contains(idx) {
				return nil, fmt.Errorf("%w: split %d references index %d (size %d)", ErrIndexNotFound, s, idx, len(d.index))
			}
			moved.Add(idx)
			handles[s][i] = d.index[idx]
		}
	}

	fragments := make([]*InMemoryDataset, len(splits))
	for s, hs := range handles {
		records := make([]Record, len(hs))
		for i, h := range hs {
			records[i] = d.arena[h]
		}
		frag := NewInMemoryDataset(records)
		frag.parent = d.parent
		fragments[s] = frag
	}

	remaining := make([]Record, 0, len(d.index)-moved.Size())
	for i, h := range d.index {
		if !moved.Contains(i) {
			remaining = append(remaining, d.arena[h])
		}
	}
	d.arena = remaining
	d.index = make([]int, len(remaining))
	for i := range d.index {
		d.index[i] = i
	}

	slog.Debug("dataset split", "fragments", len(fragments), "moved", moved.Size(), "remaining", len(remaining))
	return fragments, nil
}

// Records returns a snapshot of all records in index order.
func (d *InMemoryDataset) Records() []Record {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Record, len(d.index))
	for i, h := range d.index {
		out[i] = d.arena[h]
	}
	return out
}
