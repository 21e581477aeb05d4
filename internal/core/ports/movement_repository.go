package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/batch"
)

// MovementRepository appends rows to the inventory movement ledger.
// The ledger is append-only; corrections are recorded as new movements.
type MovementRepository interface {
	Append(ctx context.Context, movements []batch.Movement) error
	HasMovement(ctx context.Context, orderID int64, movementType batch.MovementType) (bool, error)
}
