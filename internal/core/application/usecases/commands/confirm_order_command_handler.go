package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// ConfirmOrderResult reports a confirmed order.
type ConfirmOrderResult struct {
	OrderID int64
	Version int64
}

// ConfirmOrderCommandHandler promotes a draft order to a confirmed one
// inside a single transaction: the draft flag is cleared, the due date
// set from the payment terms, and for sales the reservation is taken
// against locked batch rows. A draft that is never confirmed never
// touches inventory.
type ConfirmOrderCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	engine     services.ReservationEngine
	now        func() time.Time
}

// NewConfirmOrderCommandHandler creates a handler for draft
// confirmation. Requires a FulfillmentUoWFactory for transactional
// persistence.
func NewConfirmOrderCommandHandler(uowFactory FulfillmentUoWFactory) ConfirmOrderCommandHandler {
	return ConfirmOrderCommandHandler{
		uowFactory: uowFactory,
		engine:     services.NewReservationEngine(),
		now:        time.Now,
	}
}

// Handle processes the confirmation command.
func (h ConfirmOrderCommandHandler) Handle(ctx context.Context, cmd ConfirmOrderCommand) (ConfirmOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return ConfirmOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ConfirmOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return ConfirmOrderResult{}, err
	}

	if err = order.ValidateLineItems(aggregate.ID(), aggregate.Items()); err != nil {
		return ConfirmOrderResult{}, err
	}

	var dueDate *time.Time
	if aggregate.OrderType() == order.TypeSale {
		due := services.CalculateDueDate(aggregate.PaymentTerms(), h.now().UTC())
		dueDate = &due
	}
	if err = aggregate.Confirm(dueDate); err != nil {
		return ConfirmOrderResult{}, err
	}

	if aggregate.OrderType() == order.TypeSale {
		if err = h.reserve(ctx, uow, aggregate, cmd.UserID()); err != nil {
			return ConfirmOrderResult{}, err
		}
	}

	notes := cmd.Notes()
	if notes == "" {
		notes = "order confirmed"
	}
	aggregate.AppendNote("Confirmed", notes)
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return ConfirmOrderResult{}, err
	}

	status := aggregate.FulfillmentStatus().String()
	entry := order.NewStatusHistory(
		aggregate.ID(), order.KindFulfillment, status, status, cmd.UserID(), notes)
	if err = uow.StatusHistoryRepository().Append(ctx, entry); err != nil {
		return ConfirmOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ConfirmOrderResult{}, err
	}

	return ConfirmOrderResult{OrderID: aggregate.ID(), Version: aggregate.Version()}, nil
}

// reserve locks the order's batches in ascending id order and takes the
// reservation the confirmed sale will hold until shipment.
func (h ConfirmOrderCommandHandler) reserve(ctx context.Context, uow FulfillmentUoW, aggregate *order.Order, actorID int64) error {
	items := aggregate.Items()
	ids := h.engine.BatchIDs(items)
	if len(ids) == 0 {
		return nil
	}

	batchRepo := uow.BatchRepository()
	batches, err := batchRepo.GetManyForUpdate(ctx, ids)
	if err != nil {
		return err
	}

	movements, err := h.engine.Reserve(batches, items)
	if err != nil {
		return err
	}

	sampleMovements, err := h.engine.ConsumeSamples(batches, items)
	if err != nil {
		return err
	}
	movements = append(movements, sampleMovements...)

	for _, id := range ids {
		if err = batchRepo.Update(ctx, batches[id]); err != nil {
			return err
		}
	}

	if len(movements) == 0 {
		return nil
	}
	for i := range movements {
		movements[i].OrderID = aggregate.ID()
		movements[i].ActorID = actorID
	}
	return uow.MovementRepository().Append(ctx, movements)
}
