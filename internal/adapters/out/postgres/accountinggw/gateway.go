package accountinggw

import (
	"context"
	"time"

	"fulfillment/internal/adapters/out/postgres/pgerrors"
	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccountingGateway implements the AccountingGateway against the
// invoices and client_balances tables. It runs on the caller's
// transaction handle so ledger writes commit or roll back together with
// the order update.
type GormAccountingGateway struct {
	db *gorm.DB
}

// NewGormAccountingGateway creates a new GORM accounting gateway.
func NewGormAccountingGateway(db *gorm.DB) *GormAccountingGateway {
	return &GormAccountingGateway{db: db}
}

// CreateInvoiceFromOrder creates one open invoice covering the order's
// non-sample line items. Samples are given away and never invoiced.
func (g *GormAccountingGateway) CreateInvoiceFromOrder(ctx context.Context, aggregate *order.Order) (int64, error) {
	amount := decimal.Zero
	for _, item := range aggregate.Items() {
		if item.IsSample {
			continue
		}
		amount = amount.Add(item.LineTotal)
	}

	dto := InvoiceDTO{
		OrderID:    aggregate.ID(),
		ClientID:   aggregate.ClientID(),
		Amount:     amount,
		AmountPaid: aggregate.AmountPaid(),
		Status:     invoiceStatusOpen,
	}
	if err := g.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return 0, pgerrors.Classify(err)
	}
	return dto.ID, nil
}

// ReverseEntries marks every open invoice for the order as reversed.
// Safe to call when no invoices exist.
func (g *GormAccountingGateway) ReverseEntries(ctx context.Context, orderID int64) error {
	now := time.Now().UTC()
	err := g.db.WithContext(ctx).Model(&InvoiceDTO{}).
		Where("order_id = ? AND status = ?", orderID, invoiceStatusOpen).
		Updates(map[string]any{
			"status":      invoiceStatusReversed,
			"reversed_at": now,
		}).Error
	if err != nil {
		return pgerrors.Classify(err)
	}
	return nil
}

// RecordCashPayment applies a payment to the order's invoice when one
// exists. Payments before invoicing only live on the order row.
func (g *GormAccountingGateway) RecordCashPayment(ctx context.Context, aggregate *order.Order, amount decimal.Decimal) error {
	err := g.db.WithContext(ctx).Model(&InvoiceDTO{}).
		Where("order_id = ? AND status = ?", aggregate.ID(), invoiceStatusOpen).
		Update("amount_paid", gorm.Expr("amount_paid + ?", amount)).Error
	if err != nil {
		return pgerrors.Classify(err)
	}
	return nil
}

// SyncClientBalance recomputes the client's outstanding balance from
// open invoices and upserts the cached row.
func (g *GormAccountingGateway) SyncClientBalance(ctx context.Context, clientID int64) error {
	var balance decimal.Decimal
	err := g.db.WithContext(ctx).Model(&InvoiceDTO{}).
		Select("COALESCE(SUM(amount - amount_paid), 0)").
		Where("client_id = ? AND status = ?", clientID, invoiceStatusOpen).
		Scan(&balance).Error
	if err != nil {
		return pgerrors.Classify(err)
	}

	dto := ClientBalanceDTO{
		ClientID:  clientID,
		Balance:   balance,
		UpdatedAt: time.Now().UTC(),
	}
	err = g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"balance", "updated_at"}),
		}).
		Create(&dto).Error
	if err != nil {
		return pgerrors.Classify(err)
	}
	return nil
}

// GormPayablesGateway implements the PayablesGateway against the
// vendor_payables table.
type GormPayablesGateway struct {
	db *gorm.DB
}

// NewGormPayablesGateway creates a new GORM payables gateway.
func NewGormPayablesGateway(db *gorm.DB) *GormPayablesGateway {
	return &GormPayablesGateway{db: db}
}

// CreatePayable records vendor exposure for one consigned batch on one
// order. The unique (order_id, batch_id) index makes repeat calls
// no-ops, so a replayed shipment cannot double the payable.
func (g *GormPayablesGateway) CreatePayable(ctx context.Context, orderID int64, aggregate *batch.Batch, item order.LineItem) error {
	dto := VendorPayableDTO{
		OrderID:        orderID,
		BatchID:        aggregate.ID(),
		LotID:          aggregate.LotID(),
		VendorClientID: aggregate.VendorClientID(),
		UnitCogs:       item.UnitCogs,
		Amount:         item.LineCogs,
	}
	err := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dto).Error
	if err != nil {
		return pgerrors.Classify(err)
	}
	return nil
}
