package commands

import (
	"errors"
	"time"

	"fulfillment/internal/pkg/guard"
)

var ErrMarkOverdueSalesCommandIsNotConstructed = errors.New(
	"MarkOverdueSalesCommand must be created via NewMarkOverdueSalesCommand constructor",
)

// MarkOverdueSalesCommand flips confirmed sales past their due date from
// PENDING or PARTIAL to OVERDUE. Issued by the scheduler, not by users.
type MarkOverdueSalesCommand struct { //nolint:recvcheck //using for validation
	asOf time.Time

	guard guard.ConstructorGuard
}

// NewMarkOverdueSalesCommand creates a command to mark overdue sales as
// of the given moment.
func NewMarkOverdueSalesCommand(asOf time.Time) (MarkOverdueSalesCommand, error) {
	if asOf.IsZero() {
		return MarkOverdueSalesCommand{}, errors.New("asOf time is required")
	}

	return MarkOverdueSalesCommand{
		asOf:  asOf,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkOverdueSalesCommand) Validate() error {
	return c.guard.Validate(ErrMarkOverdueSalesCommandIsNotConstructed)
}

// AsOf returns the moment against which due dates are evaluated.
func (c MarkOverdueSalesCommand) AsOf() time.Time {
	return c.asOf
}
