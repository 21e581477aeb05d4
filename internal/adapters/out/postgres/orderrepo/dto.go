// Package orderrepo provides data transfer objects and mapping functions
// for order persistence. This package implements the repository pattern
// for the order domain aggregate, handling the conversion between domain
// entities and database representations.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order
// aggregates. The line items live in a single jsonb column, exactly as
// the upstream schema stores them; the aggregate owns (de)serialization
// so a corrupt payload fails loudly on read.
type OrderDTO struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	OrderNumber string `gorm:"uniqueIndex;size:32"`
	OrderType   string `gorm:"size:16;index"`
	ClientID    int64  `gorm:"index"`
	Items       []byte `gorm:"type:jsonb"`

	Subtotal    decimal.Decimal `gorm:"type:numeric(18,4)"`
	TotalCogs   decimal.Decimal `gorm:"type:numeric(18,4)"`
	TotalMargin decimal.Decimal `gorm:"type:numeric(18,4)"`

	QuoteStatus       string `gorm:"size:32;index"`
	SaleStatus        string `gorm:"size:32;index"`
	FulfillmentStatus string `gorm:"size:32;index"`

	PaymentTerms string          `gorm:"size:32"`
	CashPayment  decimal.Decimal `gorm:"type:numeric(18,4)"`
	AmountPaid   decimal.Decimal `gorm:"type:numeric(18,4)"`
	DueDate      *time.Time      `gorm:"index"`
	InvoiceID    *int64

	IsDraft   bool
	Notes     string
	Version   int64
	CreatedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database
// representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	payload, err := order.MarshalLineItems(aggregate.Items())
	if err != nil {
		return OrderDTO{}, err
	}

	return OrderDTO{
		ID:                aggregate.ID(),
		OrderNumber:       aggregate.OrderNumber(),
		OrderType:         string(aggregate.OrderType()),
		ClientID:          aggregate.ClientID(),
		Items:             payload,
		Subtotal:          aggregate.Subtotal(),
		TotalCogs:         aggregate.TotalCogs(),
		TotalMargin:       aggregate.TotalMargin(),
		QuoteStatus:       aggregate.QuoteStatus().String(),
		SaleStatus:        aggregate.SaleStatus().String(),
		FulfillmentStatus: aggregate.FulfillmentStatus().String(),
		PaymentTerms:      string(aggregate.PaymentTerms()),
		CashPayment:       aggregate.CashPayment(),
		AmountPaid:        aggregate.AmountPaid(),
		DueDate:           aggregate.DueDate(),
		InvoiceID:         aggregate.InvoiceID(),
		IsDraft:           aggregate.IsDraft(),
		Notes:             aggregate.Notes(),
		Version:           aggregate.Version(),
		CreatedBy:         aggregate.CreatedBy(),
	}, nil
}

// toDomain converts a database DTO to an order domain aggregate.
// A payload that cannot be deserialized surfaces as a
// DataCorruptionError, never as an order with no items.
func toDomain(dto OrderDTO) (*order.Order, error) {
	items, err := order.UnmarshalLineItems(dto.ID, dto.Items)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:                dto.ID,
		OrderNumber:       dto.OrderNumber,
		OrderType:         order.OrderType(dto.OrderType),
		ClientID:          dto.ClientID,
		Items:             items,
		Subtotal:          dto.Subtotal,
		TotalCogs:         dto.TotalCogs,
		TotalMargin:       dto.TotalMargin,
		QuoteStatus:       order.QuoteStatus(dto.QuoteStatus),
		SaleStatus:        order.SaleStatus(dto.SaleStatus),
		FulfillmentStatus: order.FulfillmentStatus(dto.FulfillmentStatus),
		PaymentTerms:      order.PaymentTerms(dto.PaymentTerms),
		CashPayment:       dto.CashPayment,
		AmountPaid:        dto.AmountPaid,
		DueDate:           dto.DueDate,
		InvoiceID:         dto.InvoiceID,
		IsDraft:           dto.IsDraft,
		Notes:             dto.Notes,
		Version:           dto.Version,
		CreatedBy:         dto.CreatedBy,
	})
}
