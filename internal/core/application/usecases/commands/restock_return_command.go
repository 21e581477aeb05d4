package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrRestockReturnCommandIsNotConstructed = errors.New(
	"RestockReturnCommand must be created via NewRestockReturnCommand constructor",
)

// RestockReturnCommand represents a processed customer return whose
// quantities go back into physical stock. This is a stock correction, not
// a reservation release: on-hand counters increase, reservations are
// untouched.
type RestockReturnCommand struct { //nolint:recvcheck //using for validation
	orderID int64
	userID  int64
	notes   string

	guard guard.ConstructorGuard
}

// NewRestockReturnCommand creates a command to restock a returned order.
func NewRestockReturnCommand(orderID, userID int64) (RestockReturnCommand, error) {
	cmd := RestockReturnCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setUserID(userID),
	); err != nil {
		return RestockReturnCommand{}, err
	}

	return cmd, nil
}

// WithNotes attaches free-text context recorded on the history row.
func (c RestockReturnCommand) WithNotes(notes string) RestockReturnCommand {
	c.notes = notes
	return c
}

// Validate ensures the command was created through the constructor.
func (c RestockReturnCommand) Validate() error {
	return c.guard.Validate(ErrRestockReturnCommandIsNotConstructed)
}

// OrderID returns the identifier of the returned order.
func (c RestockReturnCommand) OrderID() int64 {
	return c.orderID
}

// UserID returns the actor processing the return.
func (c RestockReturnCommand) UserID() int64 {
	return c.userID
}

// Notes returns the free-text context for the history row.
func (c RestockReturnCommand) Notes() string {
	return c.notes
}

func (c *RestockReturnCommand) setOrderID(orderID int64) error {
	if orderID <= 0 {
		return ErrOrderIDIsRequired
	}

	c.orderID = orderID
	return nil
}

func (c *RestockReturnCommand) setUserID(userID int64) error {
	if userID <= 0 {
		return ErrUserIDIsRequired
	}

	c.userID = userID
	return nil
}
