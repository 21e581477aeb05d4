package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// StatusHistory is one append-only audit row recording who moved an order
// between statuses and why.
type StatusHistory struct {
	ID         kernel.UUID
	OrderID    int64
	StatusKind StatusKind
	FromStatus string
	ToStatus   string
	ChangedBy  int64
	Notes      string
	CreatedAt  time.Time
}

// NewStatusHistory records a status change for the audit trail.
func NewStatusHistory(orderID int64, kind StatusKind, from, to string, changedBy int64, notes string) StatusHistory {
	return StatusHistory{
		ID:         kernel.NewUUID(),
		OrderID:    orderID,
		StatusKind: kind,
		FromStatus: from,
		ToStatus:   to,
		ChangedBy:  changedBy,
		Notes:      notes,
		CreatedAt:  time.Now().UTC(),
	}
}
