package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrRecordPaymentCommandIsNotConstructed = errors.New(
		"RecordPaymentCommand must be created via NewRecordPaymentCommand constructor",
	)
	ErrAmountIsInvalid = errors.New("payment amount must be greater than 0")
)

// RecordPaymentCommand represents a payment received against a sale
// order. A payment covering the outstanding subtotal moves the sale to
// PAID; anything less moves it to PARTIAL.
type RecordPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID int64
	amount  decimal.Decimal
	userID  int64
	notes   string

	guard guard.ConstructorGuard
}

// NewRecordPaymentCommand creates a command to record a payment.
func NewRecordPaymentCommand(orderID int64, amount decimal.Decimal, userID int64) (RecordPaymentCommand, error) {
	cmd := RecordPaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setAmount(amount),
		cmd.setUserID(userID),
	); err != nil {
		return RecordPaymentCommand{}, err
	}

	return cmd, nil
}

// WithNotes attaches free-text context recorded on the history row.
func (c RecordPaymentCommand) WithNotes(notes string) RecordPaymentCommand {
	c.notes = notes
	return c
}

// Validate ensures the command was created through the constructor.
func (c RecordPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaymentCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being paid.
func (c RecordPaymentCommand) OrderID() int64 {
	return c.orderID
}

// Amount returns the payment amount.
func (c RecordPaymentCommand) Amount() decimal.Decimal {
	return c.amount
}

// UserID returns the actor recording the payment.
func (c RecordPaymentCommand) UserID() int64 {
	return c.userID
}

// Notes returns the free-text context for the history row.
func (c RecordPaymentCommand) Notes() string {
	return c.notes
}

func (c *RecordPaymentCommand) setOrderID(orderID int64) error {
	if orderID <= 0 {
		return ErrOrderIDIsRequired
	}

	c.orderID = orderID
	return nil
}

func (c *RecordPaymentCommand) setAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrAmountIsInvalid
	}

	c.amount = amount
	return nil
}

func (c *RecordPaymentCommand) setUserID(userID int64) error {
	if userID <= 0 {
		return ErrUserIDIsRequired
	}

	c.userID = userID
	return nil
}
