package dataset

import (
	"fmt"
	"math/rand/v2"
)

// SplitFractions splits ds into len(fractions) random fragments, each
// holding floor(fraction*Len()) records but at least one. Fractions must
// be in (0, 1) and sum to at most 1. The same seed yields the same split.
func SplitFractions(ds *InMemoryDataset, seed uint64, fractions ...float64) ([]*InMemoryDataset, error) {
	n := ds.Len()
	var total float64
	counts := make([]int, len(fractions))
	for i, f := range fractions {
		if f <= 0 || f >= 1 {
			return nil, fmt.Errorf("%w: fraction %g must be in (0, 1)", ErrInvalidSplit, f)
		}
		total += f
		// 1e-9 absorbs products such as 0.29*100 = 28.999999999999996.
		counts[i] = max(int(f*float64(n)+1e-9), 1)
	}
	if total > 1 {
		return nil, fmt.Errorf("%w: fractions sum to %g (> 1)", ErrInvalidSplit, total)
	}
	return SplitCounts(ds, seed, counts...)
}

// SplitCounts splits ds into random fragments of the given sizes.
func SplitCounts(ds *InMemoryDataset, seed uint64, counts ...int) ([]*InMemoryDataset, error) {
	n := ds.Len()
	total := 0
	for _, c := range counts {
		if c <= 0 {
			return nil, fmt.Errorf("%w: count %d must be positive", ErrInvalidSplit, c)
		}
		total += c
	}
	if total > n {
		return nil, fmt.Errorf("%w: requested %d records from a dataset of %d", ErrInvalidSplit, total, n)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	perm := rng.Perm(n)

	splits := make([][]int, len(counts))
	start := 0
	for i, c := range counts {
		splits[i] = perm[start : start+c]
		start += c
	}
	return ds.Split(splits...)
}
