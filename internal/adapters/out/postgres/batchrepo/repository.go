package batchrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/pgerrors"
	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBatchRepository implements BatchRepository using GORM.
type GormBatchRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id int64, aggregate any)
}

// NewGormBatchRepository creates a new GORM batch repository.
func NewGormBatchRepository(db *gorm.DB, tracker aggregateTracker) *GormBatchRepository {
	return &GormBatchRepository{
		db:      db,
		tracker: tracker,
	}
}

// Get retrieves a batch by id without locking.
func (r *GormBatchRepository) Get(ctx context.Context, id int64) (*batch.Batch, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves a batch by id under a row lock.
func (r *GormBatchRepository) GetForUpdate(ctx context.Context, id int64) (*batch.Batch, error) {
	return r.get(ctx, id, true)
}

func (r *GormBatchRepository) get(ctx context.Context, id int64, forUpdate bool) (*batch.Batch, error) {
	tx := r.db.WithContext(ctx)
	if forUpdate {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto BatchDTO
	if err := tx.First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("batchID", id)
		}
		return nil, pgerrors.Classify(err)
	}

	return toDomain(dto)
}

// GetManyForUpdate retrieves the given batches under row locks. Rows are
// read in ascending id order so two transactions over overlapping
// batches always acquire locks in the same sequence.
func (r *GormBatchRepository) GetManyForUpdate(ctx context.Context, ids []int64) (map[int64]*batch.Batch, error) {
	if len(ids) == 0 {
		return map[int64]*batch.Batch{}, nil
	}

	var dtos []BatchDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, pgerrors.Classify(err)
	}

	batches := make(map[int64]*batch.Batch, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		batches[aggregate.ID()] = aggregate
	}

	for _, id := range ids {
		if _, ok := batches[id]; !ok {
			return nil, errs.NewObjectNotFoundError("batchID", id)
		}
	}
	return batches, nil
}

// Update saves an existing batch to the database.
func (r *GormBatchRepository) Update(ctx context.Context, aggregate *batch.Batch) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&BatchDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return pgerrors.Classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("batchID", aggregate.ID())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}
