// Package historyrepo persists the append-only order status history.
package historyrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// StatusHistoryDTO represents one audit row for an order status change.
type StatusHistoryDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    int64     `gorm:"index"`
	StatusKind string    `gorm:"size:16"`
	FromStatus string    `gorm:"size:32"`
	ToStatus   string    `gorm:"size:32"`
	ChangedBy  int64
	Notes      string
	CreatedAt  time.Time `gorm:"index"`
}

// TableName specifies the database table name for history entities.
func (StatusHistoryDTO) TableName() string {
	return "order_status_history"
}

func fromDomain(entry order.StatusHistory) StatusHistoryDTO {
	return StatusHistoryDTO{
		ID:         entry.ID.Bytes(),
		OrderID:    entry.OrderID,
		StatusKind: string(entry.StatusKind),
		FromStatus: entry.FromStatus,
		ToStatus:   entry.ToStatus,
		ChangedBy:  entry.ChangedBy,
		Notes:      entry.Notes,
		CreatedAt:  entry.CreatedAt,
	}
}

func toDomain(dto StatusHistoryDTO) (order.StatusHistory, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.StatusHistory{}, err
	}

	return order.StatusHistory{
		ID:         id,
		OrderID:    dto.OrderID,
		StatusKind: order.StatusKind(dto.StatusKind),
		FromStatus: dto.FromStatus,
		ToStatus:   dto.ToStatus,
		ChangedBy:  dto.ChangedBy,
		Notes:      dto.Notes,
		CreatedAt:  dto.CreatedAt,
	}, nil
}
