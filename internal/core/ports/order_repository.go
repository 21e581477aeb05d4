// Package ports defines repository and gateway interfaces for the
// fulfillment domain. These interfaces establish contracts between the
// domain layer and infrastructure, enabling dependency inversion and
// testability.
package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate and assigns its generated id.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by id without locking.
	// Returns an ObjectNotFoundError when no row exists.
	Get(ctx context.Context, id int64) (*order.Order, error)

	// GetForUpdate retrieves an order aggregate by id under a row lock.
	// The lock is held until the enclosing transaction ends, so callers
	// must run inside a UnitOfWork.
	GetForUpdate(ctx context.Context, id int64) (*order.Order, error)

	// GetSalesPastDue retrieves confirmed sale orders whose due date
	// falls before the given moment and whose payment is still open.
	GetSalesPastDue(ctx context.Context, asOf time.Time) ([]*order.Order, error)
}
