package prefetch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessor_Process(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	t.Run("Batches", func(t *testing.T) {
		p, err := NewProcessor[int](10)
		require.NoError(t, err)

		var sizes []int
		var indexes []int
		err = p.Process(context.Background(), items, func(_ context.Context, batch []int, idx int) error {
			sizes = append(sizes, len(batch))
			indexes = append(indexes, idx)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []int{10, 10, 5}, sizes)
		assert.Equal(t, []int{0, 1, 2}, indexes)
		assert.Equal(t, 3, p.TotalBatches(len(items)))
		assert.Equal(t, 10, p.BatchSize())
	})

	t.Run("ErrorHandling", func(t *testing.T) {
		p, _ := NewProcessor[int](10)
		calls := 0
		err := p.Process(context.Background(), items, func(_ context.Context, _ []int, idx int) error {
			calls++
			if idx == 1 {
				return errors.New("fail")
			}
			return nil
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch 1 failed")
		assert.Equal(t, 2, calls)
	})

	t.Run("Cancelled", func(t *testing.T) {
		p, _ := NewProcessor[int](10)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := p.Process(ctx, items, func(context.Context, []int, int) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("EmptyItems", func(t *testing.T) {
		p, _ := NewProcessor[int](10)
		called := false
		err := p.Process(context.Background(), nil, func(context.Context, []int, int) error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.False(t, called)
	})

	t.Run("NilCallback", func(t *testing.T) {
		p, _ := NewProcessor[int](10)
		assert.ErrorIs(t, p.Process(context.Background(), items, nil), ErrNilCallback)
	})

	t.Run("InvalidBatchSize", func(t *testing.T) {
		_, err := NewProcessor[int](0)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
		_, err = NewProcessor[int](2000)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
	})
}

func TestSnapshot(t *testing.T) {
	p := NewProgress(4, 2)
	assert.InDelta(t, 0.0, p.Snapshot().PercentComplete, 1e-9)

	p.addFetched()
	p.addFailed()
	p.batchDone()
	snap := p.Snapshot()
	assert.Equal(t, 2, snap.Done())
	assert.InDelta(t, 50.0, snap.PercentComplete, 1e-9)
	assert.InDelta(t, 0.5, snap.Fraction(), 1e-9)
	assert.False(t, snap.IsComplete())
	assert.Equal(t, 1, snap.ProcessedBatches)

	p.addSkipped()
	p.addFetched()
	assert.True(t, p.Snapshot().IsComplete())

	assert.True(t, NewProgress(0, 0).Snapshot().IsComplete())
}
