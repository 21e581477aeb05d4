package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/batch"
)

// BatchRepository defines the persistence contract for batch aggregates.
type BatchRepository interface {
	// Get retrieves a batch aggregate by id without locking.
	Get(ctx context.Context, id int64) (*batch.Batch, error)

	// GetForUpdate retrieves a batch aggregate by id under a row lock.
	GetForUpdate(ctx context.Context, id int64) (*batch.Batch, error)

	// GetManyForUpdate retrieves the given batches under row locks,
	// acquiring them in ascending id order so concurrent transitions
	// over overlapping batches cannot deadlock on lock ordering.
	// Returns an ObjectNotFoundError naming the first missing id.
	GetManyForUpdate(ctx context.Context, ids []int64) (map[int64]*batch.Batch, error)

	// Update persists changes to an existing batch aggregate.
	Update(ctx context.Context, aggregate *batch.Batch) error
}
