package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// AccountingGateway is the contract with the general-ledger side of the
// system. Implementations run inside the caller's transaction so ledger
// writes commit or roll back together with the order update.
type AccountingGateway interface {
	// CreateInvoiceFromOrder creates an invoice for the order's
	// non-sample line items and returns the invoice id. Callers guard
	// idempotency through the order's stored invoice id; a second call
	// for an already-invoiced order is a contract violation.
	CreateInvoiceFromOrder(ctx context.Context, aggregate *order.Order) (int64, error)

	// ReverseEntries reverses every ledger entry previously recorded
	// for the order. Safe to call when no entries exist.
	ReverseEntries(ctx context.Context, orderID int64) error

	// RecordCashPayment records a payment received against the order.
	RecordCashPayment(ctx context.Context, aggregate *order.Order, amount decimal.Decimal) error

	// SyncClientBalance recomputes the client's outstanding balance
	// from open invoices.
	SyncClientBalance(ctx context.Context, clientID int64) error
}

// PayablesGateway records vendor payable exposure for consigned
// inventory. CreatePayable is idempotent per order and batch: shipping
// the same consigned batch twice on one order records a single payable.
type PayablesGateway interface {
	CreatePayable(ctx context.Context, orderID int64, aggregate *batch.Batch, item order.LineItem) error
}
