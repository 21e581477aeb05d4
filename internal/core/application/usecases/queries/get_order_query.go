// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS
// architecture. Queries return optimized read models for specific use
// cases.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
	ErrQueryOrderIDIsRequired = errors.New("order id must be greater than 0")
)

// GetOrderQuery retrieves a single order with its line items and the
// statuses each of its machines can move to next.
type GetOrderQuery struct {
	orderID int64

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order.
func NewGetOrderQuery(orderID int64) (GetOrderQuery, error) {
	if orderID <= 0 {
		return GetOrderQuery{}, ErrQueryOrderIDIsRequired
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order identifier.
func (q GetOrderQuery) OrderID() int64 {
	return q.orderID
}

// GetOrderQueryResponse is the order read model.
type GetOrderQueryResponse struct {
	ID                int64
	OrderNumber       string
	OrderType         string
	ClientID          int64
	Items             []order.LineItem
	Subtotal          decimal.Decimal
	TotalCogs         decimal.Decimal
	TotalMargin       decimal.Decimal
	QuoteStatus       string
	SaleStatus        string
	FulfillmentStatus string
	PaymentTerms      string
	AmountPaid        decimal.Decimal
	DueDate           *time.Time
	InvoiceID         *int64
	IsDraft           bool
	Notes             string
	Version           int64

	// NextFulfillmentStatuses and NextSaleStatuses list the moves the
	// transition tables currently permit.
	NextFulfillmentStatuses []string
	NextSaleStatuses        []string
}
