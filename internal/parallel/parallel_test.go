package parallel

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	var counter int64
	n := 1000

	err := For(n, func(_ int) error {
		atomic.AddInt64(&counter, 1)
		return nil
	}, DefaultConfig())

	require.NoError(t, err)
	assert.Equal(t, int64(n), counter)
}

func TestFor_Sequential(t *testing.T) {
	var order []int
	err := For(5, func(i int) error {
		order = append(order, i)
		return nil
	}, Config{Enabled: false})

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestFor_Error(t *testing.T) {
	boom := errors.New("boom")
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}

	err := For(100, func(i int) error {
		if i == 42 {
			return boom
		}
		return nil
	}, cfg)

	assert.ErrorIs(t, err, boom)
}

func TestForBatch(t *testing.T) {
	batch, channels := 4, 8
	results := make([][]bool, batch)
	for b := range results {
		results[b] = make([]bool, channels)
	}

	err := ForBatch(batch, channels, func(b, c int) error {
		results[b][c] = true
		return nil
	}, Config{Enabled: true, NumWorkers: 3, MinChunkSize: 1})
	require.NoError(t, err)

	for b := 0; b < batch; b++ {
		for c := 0; c < channels; c++ {
			assert.True(t, results[b][c], "missing result at [%d][%d]", b, c)
		}
	}
}
