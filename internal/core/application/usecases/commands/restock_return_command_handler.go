package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// RestockReturnCommandHandler puts a returned order's quantities back
// into stock, recording one RESTOCK movement per line item.
type RestockReturnCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	engine     services.ReservationEngine
}

// NewRestockReturnCommandHandler creates a handler for return
// restocking. Requires a FulfillmentUoWFactory for transactional
// persistence.
func NewRestockReturnCommandHandler(uowFactory FulfillmentUoWFactory) RestockReturnCommandHandler {
	return RestockReturnCommandHandler{
		uowFactory: uowFactory,
		engine:     services.NewReservationEngine(),
	}
}

// Handle processes the restock command inside one transaction.
func (h RestockReturnCommandHandler) Handle(ctx context.Context, cmd RestockReturnCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if aggregate.FulfillmentStatus() != order.FulfillmentShipped {
		return errs.NewInvalidTransitionError(string(order.KindFulfillment),
			aggregate.FulfillmentStatus().String(), string(order.FulfillmentShipped),
			"only shipped orders can be restocked")
	}
	if err = order.ValidateLineItems(aggregate.ID(), aggregate.Items()); err != nil {
		return err
	}

	// The ledger is the idempotency marker: one restock per order.
	restocked, err := uow.MovementRepository().HasMovement(ctx, aggregate.ID(), batch.MovementRestock)
	if err != nil {
		return err
	}
	if restocked {
		return errs.NewInvalidTransitionError(string(order.KindFulfillment),
			string(order.FulfillmentShipped), string(order.FulfillmentShipped),
			fmt.Sprintf("order %d has already been restocked", aggregate.ID()))
	}

	items := aggregate.Items()
	batchRepo := uow.BatchRepository()
	batches, err := batchRepo.GetManyForUpdate(ctx, h.engine.BatchIDs(items))
	if err != nil {
		return err
	}

	movements, err := h.engine.Restock(batches, items)
	if err != nil {
		return err
	}
	for i := range movements {
		movements[i].OrderID = aggregate.ID()
		movements[i].ActorID = cmd.UserID()
	}

	for _, id := range h.engine.BatchIDs(items) {
		if err = batchRepo.Update(ctx, batches[id]); err != nil {
			return err
		}
	}
	if err = uow.MovementRepository().Append(ctx, movements); err != nil {
		return err
	}

	notes := cmd.Notes()
	if notes == "" {
		notes = fmt.Sprintf("quantity restored for %d line items", len(movements))
	}
	aggregate.AppendNote("Restocked", notes)
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	status := aggregate.FulfillmentStatus().String()
	entry := order.NewStatusHistory(
		aggregate.ID(), order.KindFulfillment, status, status, cmd.UserID(), notes)
	if err = uow.StatusHistoryRepository().Append(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
