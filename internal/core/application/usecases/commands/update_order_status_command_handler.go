package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

const (
	maxTransitionAttempts = 3
	initialRetryDelay     = 100 * time.Millisecond
)

// UpdateOrderStatusResult reports a completed transition.
type UpdateOrderStatusResult struct {
	OrderID   int64
	NewStatus string
	Version   int64
}

// UpdateOrderStatusCommandHandler orchestrates order status transitions.
// Each attempt runs as one transaction: the order row is locked, the
// transition validated against the status tables, inventory counters
// moved through the reservation engine against locked batch rows, and
// the history and movement ledgers appended. Any failure rolls the whole
// attempt back.
//
// Deadlocks and lock timeouts surface as retryable TransactionFailed
// errors; the handler retries up to three attempts with a doubling delay
// before giving up.
type UpdateOrderStatusCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	engine     services.ReservationEngine
}

// NewUpdateOrderStatusCommandHandler creates a handler for order status
// transitions. Requires a FulfillmentUoWFactory for transactional
// persistence.
func NewUpdateOrderStatusCommandHandler(uowFactory FulfillmentUoWFactory) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		engine:     services.NewReservationEngine(),
	}
}

// Handle processes the transition command, retrying retryable
// transaction failures with a doubling delay.
func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (UpdateOrderStatusResult, error) {
	if err := cmd.Validate(); err != nil {
		return UpdateOrderStatusResult{}, err
	}

	delay := initialRetryDelay
	var result UpdateOrderStatusResult
	var err error
	for attempt := 1; attempt <= maxTransitionAttempts; attempt++ {
		result, err = h.runTransition(ctx, cmd)
		if err == nil || !errs.IsRetryableTransactionError(err) || attempt == maxTransitionAttempts {
			return result, err
		}

		select {
		case <-ctx.Done():
			return UpdateOrderStatusResult{}, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return result, err
}

func (h UpdateOrderStatusCommandHandler) runTransition(ctx context.Context, cmd UpdateOrderStatusCommand) (UpdateOrderStatusResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return UpdateOrderStatusResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return UpdateOrderStatusResult{}, err
	}

	if expected := cmd.ExpectedVersion(); expected != nil {
		if err = aggregate.ExpectVersion(*expected); err != nil {
			return UpdateOrderStatusResult{}, err
		}
	}

	if err = order.ValidateLineItems(aggregate.ID(), aggregate.Items()); err != nil {
		return UpdateOrderStatusResult{}, err
	}

	fromStatus, changed, err := h.applyStatusChange(ctx, uow, aggregate, cmd)
	if err != nil {
		return UpdateOrderStatusResult{}, err
	}

	result := UpdateOrderStatusResult{
		OrderID:   aggregate.ID(),
		NewStatus: cmd.NewStatus(),
		Version:   aggregate.Version(),
	}
	if !changed {
		// Idempotent fulfillment no-op: nothing to persist.
		return result, uow.Commit(ctx)
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return UpdateOrderStatusResult{}, err
	}

	entry := order.NewStatusHistory(
		aggregate.ID(), cmd.Kind(), fromStatus, cmd.NewStatus(), cmd.UserID(), cmd.Notes())
	if err = uow.StatusHistoryRepository().Append(ctx, entry); err != nil {
		return UpdateOrderStatusResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return UpdateOrderStatusResult{}, err
	}

	result.Version = aggregate.Version()
	return result, nil
}

// applyStatusChange routes the transition to the right machine and runs
// the inventory and accounting side effects for fulfillment moves.
// Returns the prior status and whether anything changed.
func (h UpdateOrderStatusCommandHandler) applyStatusChange(ctx context.Context, uow FulfillmentUoW, aggregate *order.Order, cmd UpdateOrderStatusCommand) (string, bool, error) {
	switch cmd.Kind() {
	case order.KindQuote:
		from := aggregate.QuoteStatus().String()
		if err := aggregate.ChangeQuoteStatus(order.QuoteStatus(cmd.NewStatus())); err != nil {
			return "", false, err
		}
		return from, true, nil

	case order.KindSale:
		from := aggregate.SaleStatus().String()
		if err := aggregate.ChangeSaleStatus(order.SaleStatus(cmd.NewStatus())); err != nil {
			return "", false, err
		}
		if order.SaleStatus(cmd.NewStatus()) == order.SaleCancelled && aggregate.InvoiceID() != nil {
			if err := uow.AccountingGateway().ReverseEntries(ctx, aggregate.ID()); err != nil {
				return "", false, err
			}
		}
		return from, true, nil

	default:
		return h.applyFulfillmentChange(ctx, uow, aggregate, cmd)
	}
}

func (h UpdateOrderStatusCommandHandler) applyFulfillmentChange(ctx context.Context, uow FulfillmentUoW, aggregate *order.Order, cmd UpdateOrderStatusCommand) (string, bool, error) {
	from := aggregate.FulfillmentStatus().String()
	to := order.FulfillmentStatus(cmd.NewStatus())

	if aggregate.IsDraft() && to == order.FulfillmentShipped {
		return "", false, errs.NewInvalidTransitionError(string(order.KindFulfillment), from, string(to),
			fmt.Sprintf("order %d is a draft and must be confirmed before shipping", aggregate.ID()))
	}

	changed, err := aggregate.ChangeFulfillmentStatus(to)
	if err != nil {
		return "", false, err
	}
	if !changed {
		return from, false, nil
	}

	movements, err := h.moveInventory(ctx, uow, aggregate, to, cmd)
	if err != nil {
		return "", false, err
	}

	if len(movements) > 0 {
		for i := range movements {
			movements[i].OrderID = aggregate.ID()
			movements[i].ActorID = cmd.UserID()
		}
		if err = uow.MovementRepository().Append(ctx, movements); err != nil {
			return "", false, err
		}
	}

	if cmd.Notes() != "" {
		aggregate.AppendNote(noteTag(to), cmd.Notes())
	}

	switch to {
	case order.FulfillmentShipped:
		if err = h.settleShipment(ctx, uow, aggregate); err != nil {
			return "", false, err
		}
	case order.FulfillmentCancelled:
		if err = h.settleCancellation(ctx, uow, aggregate); err != nil {
			return "", false, err
		}
	}

	return from, true, nil
}

// moveInventory loads the order's batches under row locks in ascending
// id order and applies the counter deltas the transition requires.
func (h UpdateOrderStatusCommandHandler) moveInventory(ctx context.Context, uow FulfillmentUoW, aggregate *order.Order, to order.FulfillmentStatus, cmd UpdateOrderStatusCommand) ([]batch.Movement, error) {
	// Drafts never reserved, so cancellation has nothing to release.
	if aggregate.IsDraft() {
		return nil, nil
	}

	var apply func(map[int64]*batch.Batch, []order.LineItem) ([]batch.Movement, error)
	switch to {
	case order.FulfillmentShipped:
		apply = h.engine.Ship
	case order.FulfillmentCancelled:
		apply = h.engine.Release
	default:
		return nil, nil
	}

	items := aggregate.Items()
	ids := h.engine.BatchIDs(items)
	if len(ids) == 0 {
		return nil, nil
	}

	batchRepo := uow.BatchRepository()
	batches, err := batchRepo.GetManyForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}

	movements, err := apply(batches, items)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		if err = batchRepo.Update(ctx, batches[id]); err != nil {
			return nil, err
		}
	}
	return movements, nil
}

// settleShipment creates the invoice once and records payable exposure
// for consigned batches.
func (h UpdateOrderStatusCommandHandler) settleShipment(ctx context.Context, uow FulfillmentUoW, aggregate *order.Order) error {
	if aggregate.InvoiceID() == nil {
		invoiceID, err := uow.AccountingGateway().CreateInvoiceFromOrder(ctx, aggregate)
		if err != nil {
			return err
		}
		if err = aggregate.MarkInvoiced(invoiceID); err != nil {
			return err
		}
	}

	batchRepo := uow.BatchRepository()
	payables := uow.PayablesGateway()
	for _, item := range aggregate.Items() {
		if item.IsSample || item.BatchID <= 0 {
			continue
		}
		b, err := batchRepo.Get(ctx, item.BatchID)
		if err != nil {
			return err
		}
		if !b.IsConsigned() {
			continue
		}
		if err = payables.CreatePayable(ctx, aggregate.ID(), b, item); err != nil {
			return err
		}
	}
	return nil
}

// settleCancellation reverses ledger entries when an invoice exists and
// cascades the cancellation to the sale machine when it permits one.
func (h UpdateOrderStatusCommandHandler) settleCancellation(ctx context.Context, uow FulfillmentUoW, aggregate *order.Order) error {
	if aggregate.InvoiceID() != nil {
		if err := uow.AccountingGateway().ReverseEntries(ctx, aggregate.ID()); err != nil {
			return err
		}
	}

	if aggregate.SaleStatus().CanTransitionTo(order.SaleCancelled) {
		if err := aggregate.ChangeSaleStatus(order.SaleCancelled); err != nil {
			return err
		}
	}
	return nil
}

func noteTag(status order.FulfillmentStatus) string {
	switch status {
	case order.FulfillmentPacked:
		return "Packed"
	case order.FulfillmentShipped:
		return "Shipped"
	case order.FulfillmentCancelled:
		return "Cancelled"
	default:
		return "Pending"
	}
}
