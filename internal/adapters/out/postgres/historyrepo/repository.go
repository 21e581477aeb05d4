package historyrepo

import (
	"context"

	"fulfillment/internal/adapters/out/postgres/pgerrors"
	"fulfillment/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GormStatusHistoryRepository implements StatusHistoryRepository using
// GORM. The table is append-only; there is no update path.
type GormStatusHistoryRepository struct {
	db *gorm.DB
}

// NewGormStatusHistoryRepository creates a new GORM history repository.
func NewGormStatusHistoryRepository(db *gorm.DB) *GormStatusHistoryRepository {
	return &GormStatusHistoryRepository{db: db}
}

// Append writes one audit row.
func (r *GormStatusHistoryRepository) Append(ctx context.Context, entry order.StatusHistory) error {
	dto := fromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerrors.Classify(err)
	}
	return nil
}

// GetByOrder returns an order's history, oldest first.
func (r *GormStatusHistoryRepository) GetByOrder(ctx context.Context, orderID int64) ([]order.StatusHistory, error) {
	var dtos []StatusHistoryDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, pgerrors.Classify(err)
	}

	entries := make([]order.StatusHistory, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
