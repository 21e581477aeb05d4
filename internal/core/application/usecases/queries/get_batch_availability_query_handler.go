package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetBatchAvailabilityQueryHandler retrieves batch availability read
// models from the database. Derivation of available/total and the
// consistency check run through the batch aggregate so the read side
// can never disagree with the write side about the arithmetic.
type GetBatchAvailabilityQueryHandler struct {
	db *gorm.DB
}

// NewGetBatchAvailabilityQueryHandler creates a handler for batch
// availability queries. Requires a GORM database connection.
func NewGetBatchAvailabilityQueryHandler(db *gorm.DB) GetBatchAvailabilityQueryHandler {
	return GetBatchAvailabilityQueryHandler{db: db}
}

// Handle executes the query.
func (h GetBatchAvailabilityQueryHandler) Handle(ctx context.Context, query GetBatchAvailabilityQuery) (GetBatchAvailabilityQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetBatchAvailabilityQueryResponse{}, err
	}

	var id int64
	var sku, status string
	var counters batch.Counters

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			sku,
			status,
			on_hand_qty,
			reserved_qty,
			quarantine_qty,
			hold_qty,
			sample_qty,
			defective_qty
		FROM batches
		WHERE id = ?
	`, query.BatchID()).Row()

	err := row.Scan(
		&id,
		&sku,
		&status,
		&counters.OnHand,
		&counters.Reserved,
		&counters.Quarantine,
		&counters.Hold,
		&counters.Sample,
		&counters.Defective,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetBatchAvailabilityQueryResponse{}, errs.NewObjectNotFoundError("batchID", query.BatchID())
	}
	if err != nil {
		return GetBatchAvailabilityQueryResponse{}, err
	}

	aggregate, err := batch.RestoreBatch(id, sku, 0, 0, batch.Status(status),
		counters, batch.CostData{}, false)
	if err != nil {
		return GetBatchAvailabilityQueryResponse{}, err
	}

	consistency := aggregate.ValidateConsistency()
	return GetBatchAvailabilityQueryResponse{
		BatchID:           id,
		SKU:               sku,
		Status:            status,
		IsSellable:        aggregate.Status().IsSellable(),
		OnHand:            aggregate.OnHand().String(),
		Reserved:          aggregate.Reserved().String(),
		Quarantine:        aggregate.Quarantine().String(),
		Hold:              aggregate.Hold().String(),
		Sample:            aggregate.Sample().String(),
		Defective:         aggregate.Defective().String(),
		Available:         aggregate.Available().String(),
		Total:             aggregate.Total().String(),
		ConsistencyValid:  consistency.Valid,
		ConsistencyErrors: consistency.Errors,
	}, nil
}
