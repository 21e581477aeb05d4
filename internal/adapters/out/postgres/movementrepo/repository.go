package movementrepo

import (
	"context"

	"fulfillment/internal/adapters/out/postgres/pgerrors"
	"fulfillment/internal/core/domain/model/batch"

	"gorm.io/gorm"
)

// GormMovementRepository implements MovementRepository using GORM.
// Corrections are recorded as new movements, never as updates.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GORM movement repository.
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Append writes the given movements in one batch insert.
func (r *GormMovementRepository) Append(ctx context.Context, movements []batch.Movement) error {
	if len(movements) == 0 {
		return nil
	}

	dtos := make([]MovementDTO, 0, len(movements))
	for _, movement := range movements {
		dtos = append(dtos, fromDomain(movement))
	}

	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return pgerrors.Classify(err)
	}
	return nil
}

// HasMovement reports whether the ledger already holds a movement of the
// given type for the order.
func (r *GormMovementRepository) HasMovement(ctx context.Context, orderID int64, movementType batch.MovementType) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&MovementDTO{}).
		Where("order_id = ? AND type = ?", orderID, string(movementType)).
		Count(&count).Error
	if err != nil {
		return false, pgerrors.Classify(err)
	}
	return count > 0, nil
}
