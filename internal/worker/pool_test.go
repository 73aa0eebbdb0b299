package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteKeepsInputOrder(t *testing.T) {
	var calls atomic.Int32
	pool := NewPool(4, func(_ context.Context, n int) (int, error) {
		calls.Add(1)
		if n == 3 {
			return 0, errors.New("three")
		}
		return n * n, nil
	})

	inputs := []int{1, 2, 3, 4, 5, 6, 7, 8}
	results := pool.Execute(context.Background(), inputs)

	require.Len(t, results, len(inputs))
	assert.EqualValues(t, len(inputs), calls.Load())
	for i, r := range results {
		assert.Equal(t, inputs[i], r.Input)
		if r.Input == 3 {
			assert.EqualError(t, r.Err, "three")
			continue
		}
		assert.NoError(t, r.Err)
		assert.Equal(t, r.Input*r.Input, r.Result)
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewPool(2, func(_ context.Context, n int) (int, error) { return n, nil })
	results := pool.Execute(ctx, []int{1, 2, 3})

	require.Len(t, results, 3)
	for _, r := range results {
		// Either processed before the cancellation was seen or marked.
		if r.Err != nil {
			assert.ErrorIs(t, r.Err, context.Canceled)
		} else {
			assert.Equal(t, r.Input, r.Result)
		}
	}
}

func TestExecuteEmpty(t *testing.T) {
	pool := NewPool(0, func(_ context.Context, n int) (int, error) { return n, nil })
	assert.Empty(t, pool.Execute(context.Background(), nil))
}

func TestBatch(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, Batch([]int{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, [][]int{{1}, {2}}, Batch([]int{1, 2}, 0))
	assert.Nil(t, Batch([]int{}, 3))
}
