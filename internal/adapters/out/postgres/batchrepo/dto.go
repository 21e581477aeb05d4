// Package batchrepo provides data transfer objects and mapping functions
// for batch persistence.
package batchrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/batch"

	"github.com/shopspring/decimal"
)

// BatchDTO represents the database structure for persisting batch
// aggregates. The six quantity counters are numeric columns mapped to
// decimal strings; the aggregate parses them leniently so a bad value
// becomes zero instead of poisoning arithmetic.
type BatchDTO struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	SKU            string `gorm:"size:64;index"`
	LotID          int64  `gorm:"index"`
	VendorClientID int64  `gorm:"index"`
	Status         string `gorm:"size:32;index"`

	OnHandQty     string `gorm:"type:numeric(18,4);default:0"`
	ReservedQty   string `gorm:"type:numeric(18,4);default:0"`
	QuarantineQty string `gorm:"type:numeric(18,4);default:0"`
	HoldQty       string `gorm:"type:numeric(18,4);default:0"`
	SampleQty     string `gorm:"type:numeric(18,4);default:0"`
	DefectiveQty  string `gorm:"type:numeric(18,4);default:0"`

	CogsMode    string          `gorm:"size:16"`
	UnitCogs    decimal.Decimal `gorm:"type:numeric(18,4)"`
	UnitCogsMin decimal.Decimal `gorm:"type:numeric(18,4)"`
	UnitCogsMax decimal.Decimal `gorm:"type:numeric(18,4)"`
	IsConsigned bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for batch entities.
func (BatchDTO) TableName() string {
	return "batches"
}

// fromDomain converts a batch domain aggregate to its database
// representation.
func fromDomain(aggregate *batch.Batch) BatchDTO {
	return BatchDTO{
		ID:             aggregate.ID(),
		SKU:            aggregate.SKU(),
		LotID:          aggregate.LotID(),
		VendorClientID: aggregate.VendorClientID(),
		Status:         aggregate.Status().String(),
		OnHandQty:      aggregate.OnHand().String(),
		ReservedQty:    aggregate.Reserved().String(),
		QuarantineQty:  aggregate.Quarantine().String(),
		HoldQty:        aggregate.Hold().String(),
		SampleQty:      aggregate.Sample().String(),
		DefectiveQty:   aggregate.Defective().String(),
		CogsMode:       aggregate.CogsMode(),
		UnitCogs:       aggregate.UnitCogs(),
		UnitCogsMin:    aggregate.UnitCogsMin(),
		UnitCogsMax:    aggregate.UnitCogsMax(),
		IsConsigned:    aggregate.IsConsigned(),
	}
}

// toDomain converts a database DTO to a batch domain aggregate.
func toDomain(dto BatchDTO) (*batch.Batch, error) {
	return batch.RestoreBatch(
		dto.ID,
		dto.SKU,
		dto.LotID,
		dto.VendorClientID,
		batch.Status(dto.Status),
		batch.Counters{
			OnHand:     dto.OnHandQty,
			Reserved:   dto.ReservedQty,
			Quarantine: dto.QuarantineQty,
			Hold:       dto.HoldQty,
			Sample:     dto.SampleQty,
			Defective:  dto.DefectiveQty,
		},
		batch.CostData{
			CogsMode:    dto.CogsMode,
			UnitCogs:    dto.UnitCogs,
			UnitCogsMin: dto.UnitCogsMin,
			UnitCogsMax: dto.UnitCogsMax,
		},
		dto.IsConsigned,
	)
}
