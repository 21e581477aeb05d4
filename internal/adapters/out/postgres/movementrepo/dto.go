// Package movementrepo persists the append-only inventory movement
// ledger.
package movementrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/batch"

	"github.com/shopspring/decimal"
)

// MovementDTO represents one inventory movement ledger row.
type MovementDTO struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	Type      string          `gorm:"size:32;index"`
	BatchID   int64           `gorm:"index"`
	OrderID   int64           `gorm:"index"`
	Quantity  decimal.Decimal `gorm:"type:numeric(18,4)"`
	ActorID   int64
	Notes     string
	CreatedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for movement entities.
func (MovementDTO) TableName() string {
	return "inventory_movements"
}

func fromDomain(movement batch.Movement) MovementDTO {
	return MovementDTO{
		Type:     string(movement.Type),
		BatchID:  movement.BatchID,
		OrderID:  movement.OrderID,
		Quantity: movement.Quantity.Decimal(),
		ActorID:  movement.ActorID,
		Notes:    movement.Notes,
	}
}
