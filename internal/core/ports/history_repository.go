package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// StatusHistoryRepository appends audit rows for order status changes.
// The history table is append-only.
type StatusHistoryRepository interface {
	Append(ctx context.Context, entry order.StatusHistory) error

	// GetByOrder returns an order's history, oldest first.
	GetByOrder(ctx context.Context, orderID int64) ([]order.StatusHistory, error)
}
