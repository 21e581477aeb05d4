package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrConfirmOrderCommandIsNotConstructed = errors.New(
	"ConfirmOrderCommand must be created via NewConfirmOrderCommand constructor",
)

// ConfirmOrderCommand represents a request to promote a draft order to a
// confirmed one. Confirmation is the moment a sale starts holding
// inventory: reservations are taken and samples consumed here, never
// while the order is still a draft.
type ConfirmOrderCommand struct { //nolint:recvcheck //using for validation
	orderID int64
	userID  int64
	notes   string

	guard guard.ConstructorGuard
}

// NewConfirmOrderCommand creates a command to confirm a draft order.
func NewConfirmOrderCommand(orderID, userID int64) (ConfirmOrderCommand, error) {
	cmd := ConfirmOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setUserID(userID),
	); err != nil {
		return ConfirmOrderCommand{}, err
	}

	return cmd, nil
}

// WithNotes attaches free-text context recorded on the history row.
func (c ConfirmOrderCommand) WithNotes(notes string) ConfirmOrderCommand {
	c.notes = notes
	return c
}

// Validate ensures the command was created through the constructor.
func (c ConfirmOrderCommand) Validate() error {
	return c.guard.Validate(ErrConfirmOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the draft to confirm.
func (c ConfirmOrderCommand) OrderID() int64 {
	return c.orderID
}

// UserID returns the actor confirming the order.
func (c ConfirmOrderCommand) UserID() int64 {
	return c.userID
}

// Notes returns the free-text context for the history row.
func (c ConfirmOrderCommand) Notes() string {
	return c.notes
}

func (c *ConfirmOrderCommand) setOrderID(orderID int64) error {
	if orderID <= 0 {
		return ErrOrderIDIsRequired
	}

	c.orderID = orderID
	return nil
}

func (c *ConfirmOrderCommand) setUserID(userID int64) error {
	if userID <= 0 {
		return ErrUserIDIsRequired
	}

	c.userID = userID
	return nil
}
