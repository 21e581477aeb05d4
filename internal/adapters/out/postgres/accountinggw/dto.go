// Package accountinggw implements the accounting and payables gateways
// against the ledger tables, inside the caller's transaction.
package accountinggw

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	invoiceStatusOpen     = "OPEN"
	invoiceStatusReversed = "REVERSED"
)

// InvoiceDTO represents one invoice created from a shipped order.
type InvoiceDTO struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	OrderID    int64           `gorm:"uniqueIndex"`
	ClientID   int64           `gorm:"index"`
	Amount     decimal.Decimal `gorm:"type:numeric(18,4)"`
	AmountPaid decimal.Decimal `gorm:"type:numeric(18,4)"`
	Status     string          `gorm:"size:16;index"`
	CreatedAt  time.Time
	ReversedAt *time.Time
}

// TableName specifies the database table name for invoice entities.
func (InvoiceDTO) TableName() string {
	return "invoices"
}

// VendorPayableDTO represents vendor exposure recorded when consigned
// inventory ships. One row per order and batch.
type VendorPayableDTO struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	OrderID        int64           `gorm:"uniqueIndex:idx_payable_order_batch"`
	BatchID        int64           `gorm:"uniqueIndex:idx_payable_order_batch"`
	LotID          int64           `gorm:"index"`
	VendorClientID int64           `gorm:"index"`
	UnitCogs       decimal.Decimal `gorm:"type:numeric(18,4)"`
	Amount         decimal.Decimal `gorm:"type:numeric(18,4)"`
	CreatedAt      time.Time
}

// TableName specifies the database table name for payable entities.
func (VendorPayableDTO) TableName() string {
	return "vendor_payables"
}

// ClientBalanceDTO caches a client's outstanding balance, recomputed
// from open invoices on every payment.
type ClientBalanceDTO struct {
	ClientID  int64           `gorm:"primaryKey"`
	Balance   decimal.Decimal `gorm:"type:numeric(18,4)"`
	UpdatedAt time.Time
}

// TableName specifies the database table name for balance entities.
func (ClientBalanceDTO) TableName() string {
	return "client_balances"
}
