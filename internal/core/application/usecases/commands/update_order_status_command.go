package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
		"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
	)
	ErrOrderIDIsRequired   = errors.New("order id must be greater than 0")
	ErrUserIDIsRequired    = errors.New("user id must be greater than 0")
	ErrStatusIsRequired    = errors.New("new status is required")
	ErrStatusKindIsInvalid = errors.New("status kind must be quote, sale, or fulfillment")
)

// UpdateOrderStatusCommand represents a request to move an order to a new
// status on one of its three state machines. Fulfillment transitions
// drive inventory; sale and quote transitions only touch the order row
// and its financial collaborators.
//
// Example:
//
//	cmd, err := NewUpdateOrderStatusCommand(42, order.KindFulfillment, "SHIPPED", 7)
//	if err != nil {
//	    return fmt.Errorf("invalid transition request: %w", err)
//	}
//	cmd = cmd.WithExpectedVersion(3)
//
//	handler := NewUpdateOrderStatusCommandHandler(uowFactory)
//	result, err := handler.Handle(ctx, cmd)
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID         int64
	kind            order.StatusKind
	newStatus       string
	userID          int64
	notes           string
	expectedVersion *int64

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand creates a command to transition an order.
// Validates that the order id and user id are positive, the status is not
// empty, and the kind names one of the three machines.
func NewUpdateOrderStatusCommand(orderID int64, kind order.StatusKind, newStatus string, userID int64) (UpdateOrderStatusCommand, error) {
	cmd := UpdateOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setKind(kind),
		cmd.setNewStatus(newStatus),
		cmd.setUserID(userID),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return cmd, nil
}

// WithExpectedVersion arms the optimistic concurrency check: the handler
// fails with an OptimisticLockConflictError when the stored version
// differs from the expected one.
func (c UpdateOrderStatusCommand) WithExpectedVersion(version int64) UpdateOrderStatusCommand {
	c.expectedVersion = &version
	return c
}

// WithNotes attaches free-text context recorded on the history row.
func (c UpdateOrderStatusCommand) WithNotes(notes string) UpdateOrderStatusCommand {
	c.notes = notes
	return c
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to transition.
func (c UpdateOrderStatusCommand) OrderID() int64 {
	return c.orderID
}

// Kind returns which of the three status machines the transition targets.
func (c UpdateOrderStatusCommand) Kind() order.StatusKind {
	return c.kind
}

// NewStatus returns the requested target status.
func (c UpdateOrderStatusCommand) NewStatus() string {
	return c.newStatus
}

// UserID returns the actor recorded on the history row.
func (c UpdateOrderStatusCommand) UserID() int64 {
	return c.userID
}

// Notes returns the free-text context for the history row.
func (c UpdateOrderStatusCommand) Notes() string {
	return c.notes
}

// ExpectedVersion returns the armed optimistic check value, or nil when
// the caller did not supply one.
func (c UpdateOrderStatusCommand) ExpectedVersion() *int64 {
	return c.expectedVersion
}

func (c *UpdateOrderStatusCommand) setOrderID(orderID int64) error {
	if orderID <= 0 {
		return ErrOrderIDIsRequired
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateOrderStatusCommand) setKind(kind order.StatusKind) error {
	switch kind {
	case order.KindQuote, order.KindSale, order.KindFulfillment:
		c.kind = kind
		return nil
	default:
		return ErrStatusKindIsInvalid
	}
}

func (c *UpdateOrderStatusCommand) setNewStatus(status string) error {
	if status == "" {
		return ErrStatusIsRequired
	}

	c.newStatus = status
	return nil
}

func (c *UpdateOrderStatusCommand) setUserID(userID int64) error {
	if userID <= 0 {
		return ErrUserIDIsRequired
	}

	c.userID = userID
	return nil
}
