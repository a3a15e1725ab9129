package prefetch

import (
	"context"
	"errors"
	"fmt"
)

// Batch size bounds.
const (
	DefaultBatchSize = 20
	MinBatchSize     = 1
	MaxBatchSize     = 1000
)

// Common processor errors.
var (
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 1000")
	ErrNilCallback      = errors.New("batch callback cannot be nil")
)

// BatchCallback handles one batch; batchIndex is 0-based.
//
//nolint:revive // BatchCallback reads better than Callback at call sites.
type BatchCallback[T any] func(ctx context.Context, batch []T, batchIndex int) error

// Processor splits a slice into fixed-size batches and feeds them to a
// callback in order.
type Processor[T any] struct {
	batchSize int
}

// NewProcessor creates a processor with the given batch size.
func NewProcessor[T any](batchSize int) (*Processor[T], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	return &Processor[T]{batchSize: batchSize}, nil
}

// BatchSize returns the configured batch size.
func (p *Processor[T]) BatchSize() int {
	return p.batchSize
}

// TotalBatches returns how many batches n items need.
func (p *Processor[T]) TotalBatches(n int) int {
	batches := n / p.batchSize
	if n%p.batchSize > 0 {
		batches++
	}
	return batches
}

// Process runs callback over each batch and stops at the first error or
// when ctx is done. An empty slice is a no-op.
func (p *Processor[T]) Process(ctx context.Context, items []T, callback BatchCallback[T]) error {
	if callback == nil {
		return ErrNilCallback
	}

	for batchIndex := range p.TotalBatches(len(items)) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		start := batchIndex * p.batchSize
		end := min(start+p.batchSize, len(items))

		if err := callback(ctx, items[start:end], batchIndex); err != nil {
			return fmt.Errorf("batch %d failed: %w", batchIndex, err)
		}
	}
	return nil
}
