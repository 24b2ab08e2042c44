// Copyright 2025 The FastEstimator Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset provides record datasets and the split operation.
//
// # Overview
//
// A dataset maps indices 0..Len()-1 to records (map[string]any). Split
// moves records into new datasets; what remains in the source is
// renumbered from 0 in its original order:
//
//	ds := dataset.NewInMemoryDataset(records) // 5 records
//	frags, err := ds.Split([]int{1, 3})
//	// frags[0] holds old records 1 and 3; ds holds 0, 2, 4.
//
// Pickled tables (pandas to_dict output, lists of dicts, dicts of
// columns) load with NewPickleDataset.
package dataset

import (
	"github.com/fastestimator/fastestimator/internal/dataset"
)

// Record maps field names to values.
type Record = dataset.Record

// Dataset maps contiguous indices to records.
type Dataset = dataset.Dataset

// InMemoryDataset owns its records and supports Split.
type InMemoryDataset = dataset.InMemoryDataset

// PickleDataset is an InMemoryDataset loaded from a Python pickle.
type PickleDataset = dataset.PickleDataset

// Errors.
var (
	ErrIndexNotFound     = dataset.ErrIndexNotFound
	ErrInvalidSplit      = dataset.ErrInvalidSplit
	ErrUnsupportedPickle = dataset.ErrUnsupportedPickle
)

// NewInMemoryDataset takes ownership of records, indexed in order.
func NewInMemoryDataset(records []Record) *InMemoryDataset {
	return dataset.NewInMemoryDataset(records)
}

// NewPickleDataset loads the pickle at path.
func NewPickleDataset(path string) (*PickleDataset, error) {
	return dataset.NewPickleDataset(path)
}

// SplitFractions randomly splits ds into fragments holding the given
// fractions of its records.
func SplitFractions(ds *InMemoryDataset, seed uint64, fractions ...float64) ([]*InMemoryDataset, error) {
	return dataset.SplitFractions(ds, seed, fractions...)
}

// SplitCounts randomly splits ds into fragments of the given sizes.
func SplitCounts(ds *InMemoryDataset, seed uint64, counts ...int) ([]*InMemoryDataset, error) {
	return dataset.SplitCounts(ds, seed, counts...)
}
