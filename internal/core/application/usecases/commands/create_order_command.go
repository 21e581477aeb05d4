package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrClientIDIsRequired  = errors.New("client id must be greater than 0")
	ErrItemsAreRequired    = errors.New("at least one line item is required")
	ErrOrderTypeIsInvalid  = errors.New("order type must be quote or sale")
	ErrItemQuantityInvalid = errors.New("line item quantity must be positive")
)

// CreateOrderItem is one requested line on a new order. Costs and margins
// are derived by the handler from the batch's cost configuration.
type CreateOrderItem struct {
	BatchID     int64
	DisplayName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	IsSample    bool
}

// CreateOrderCommand represents a request to create a quote or sale
// order. Confirmed (non-draft) sales reserve inventory immediately.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	clientID     int64
	orderType    order.OrderType
	items        []CreateOrderItem
	paymentTerms order.PaymentTerms
	cashPayment  decimal.Decimal
	isDraft      bool
	createdBy    int64
	adjustment   services.ClientAdjustment

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates the client, order type, and that every item carries a
// positive quantity.
func NewCreateOrderCommand(clientID int64, orderType order.OrderType, items []CreateOrderItem, createdBy int64) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		paymentTerms: order.TermsNet30,
		adjustment:   services.ClientAdjustment{Type: services.AdjustmentNone},
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setClientID(clientID),
		cmd.setOrderType(orderType),
		cmd.setItems(items),
		cmd.setCreatedBy(createdBy),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// WithPaymentTerms overrides the default NET_30 terms.
func (c CreateOrderCommand) WithPaymentTerms(terms order.PaymentTerms) CreateOrderCommand {
	c.paymentTerms = terms
	return c
}

// WithCashPayment records a cash amount collected up front.
func (c CreateOrderCommand) WithCashPayment(amount decimal.Decimal) CreateOrderCommand {
	c.cashPayment = amount
	return c
}

// AsDraft marks the order as a draft. Drafts never reserve inventory.
func (c CreateOrderCommand) AsDraft() CreateOrderCommand {
	c.isDraft = true
	return c
}

// WithClientAdjustment applies the client's negotiated cost adjustment
// to every derived line cost.
func (c CreateOrderCommand) WithClientAdjustment(adj services.ClientAdjustment) CreateOrderCommand {
	c.adjustment = adj
	return c
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// ClientID returns the purchasing client's identifier.
func (c CreateOrderCommand) ClientID() int64 {
	return c.clientID
}

// OrderType returns whether a quote or a sale is being created.
func (c CreateOrderCommand) OrderType() order.OrderType {
	return c.orderType
}

// Items returns the requested line items.
func (c CreateOrderCommand) Items() []CreateOrderItem {
	return c.items
}

// PaymentTerms returns the payment terms for due-date calculation.
func (c CreateOrderCommand) PaymentTerms() order.PaymentTerms {
	return c.paymentTerms
}

// CashPayment returns the cash amount collected up front.
func (c CreateOrderCommand) CashPayment() decimal.Decimal {
	return c.cashPayment
}

// IsDraft reports whether the order is a draft.
func (c CreateOrderCommand) IsDraft() bool {
	return c.isDraft
}

// CreatedBy returns the creating actor.
func (c CreateOrderCommand) CreatedBy() int64 {
	return c.createdBy
}

// Adjustment returns the client's cost adjustment.
func (c CreateOrderCommand) Adjustment() services.ClientAdjustment {
	return c.adjustment
}

func (c *CreateOrderCommand) setClientID(clientID int64) error {
	if clientID <= 0 {
		return ErrClientIDIsRequired
	}

	c.clientID = clientID
	return nil
}

func (c *CreateOrderCommand) setOrderType(orderType order.OrderType) error {
	if orderType != order.TypeQuote && orderType != order.TypeSale {
		return ErrOrderTypeIsInvalid
	}

	c.orderType = orderType
	return nil
}

func (c *CreateOrderCommand) setItems(items []CreateOrderItem) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	for _, item := range items {
		if !item.Quantity.IsPositive() {
			return ErrItemQuantityInvalid
		}
	}

	c.items = items
	return nil
}

func (c *CreateOrderCommand) setCreatedBy(createdBy int64) error {
	if createdBy <= 0 {
		return ErrUserIDIsRequired
	}

	c.createdBy = createdBy
	return nil
}
