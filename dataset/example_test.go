// Copyright 2025 The FastEstimator Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package dataset_test

import (
	"fmt"

	"github.com/fastestimator/fastestimator/dataset"
)

func ExampleInMemoryDataset_Split() {
	records := make([]dataset.Record, 5)
	for i := range records {
		records[i] = dataset.Record{"id": i}
	}
	ds := dataset.NewInMemoryDataset(records)

	frags, err := ds.Split([]int{1, 3})
	if err != nil {
		panic(err)
	}
	for _, d := range []*dataset.InMemoryDataset{frags[0], ds} {
		ids := make([]any, d.Len())
		for i := range ids {
			r, _ := d.Get(i)
			ids[i] = r["id"]
		}
		fmt.Println(ids...)
	}
	// Output:
	// 1 3
	// 0 2 4
}
