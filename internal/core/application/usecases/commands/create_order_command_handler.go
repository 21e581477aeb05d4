package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// CreateOrderResult reports a created order.
type CreateOrderResult struct {
	OrderID     int64
	OrderNumber string
}

// CreateOrderCommandHandler handles the business logic for order
// creation: per-line cost derivation, totals, order numbering, due
// dates, and inventory reservation for confirmed sales.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	cmd, _ := NewCreateOrderCommand(clientID, order.TypeSale, items, userID)
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	calculator services.CogsCalculator
	engine     services.ReservationEngine
	now        func() time.Time
}

// NewCreateOrderCommandHandler creates a handler for order creation
// operations. Requires a FulfillmentUoWFactory for transactional
// persistence.
func NewCreateOrderCommandHandler(uowFactory FulfillmentUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		calculator: services.NewCogsCalculator(),
		engine:     services.NewReservationEngine(),
		now:        time.Now,
	}
}

// Handle processes the order creation command inside one transaction.
// Batches referenced by the items are locked for the duration so the
// derived costs and any reservation see a consistent view.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	batches, err := h.lockBatches(ctx, uow, cmd.Items())
	if err != nil {
		return CreateOrderResult{}, err
	}

	items, subtotal, totalCogs, totalMargin, err := h.buildLineItems(cmd, batches)
	if err != nil {
		return CreateOrderResult{}, err
	}

	now := h.now().UTC()
	params := order.NewOrderParams{
		OrderNumber:  h.orderNumber(cmd.OrderType(), now),
		OrderType:    cmd.OrderType(),
		ClientID:     cmd.ClientID(),
		Items:        items,
		Subtotal:     subtotal,
		TotalCogs:    totalCogs,
		TotalMargin:  totalMargin,
		PaymentTerms: cmd.PaymentTerms(),
		CashPayment:  cmd.CashPayment(),
		IsDraft:      cmd.IsDraft(),
		CreatedBy:    cmd.CreatedBy(),
	}
	if cmd.OrderType() == order.TypeSale && !cmd.IsDraft() {
		due := services.CalculateDueDate(cmd.PaymentTerms(), now)
		params.DueDate = &due
	}

	aggregate, err := order.NewOrder(params)
	if err != nil {
		return CreateOrderResult{}, err
	}

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return CreateOrderResult{}, err
	}

	// Confirmed sales hold their reservation from this moment on, not
	// from packing.
	if cmd.OrderType() == order.TypeSale && !cmd.IsDraft() {
		if err = h.reserve(ctx, uow, aggregate, batches, cmd.CreatedBy()); err != nil {
			return CreateOrderResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	return CreateOrderResult{OrderID: aggregate.ID(), OrderNumber: aggregate.OrderNumber()}, nil
}

func (h CreateOrderCommandHandler) lockBatches(ctx context.Context, uow FulfillmentUoW, items []CreateOrderItem) (map[int64]*batch.Batch, error) {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if item.BatchID <= 0 {
			continue
		}
		if _, ok := seen[item.BatchID]; ok {
			continue
		}
		seen[item.BatchID] = struct{}{}
		ids = append(ids, item.BatchID)
	}
	if len(ids) == 0 {
		return map[int64]*batch.Batch{}, nil
	}
	return uow.BatchRepository().GetManyForUpdate(ctx, ids)
}

// buildLineItems derives per-line cost, margin, and totals from the
// locked batches' cost configuration.
func (h CreateOrderCommandHandler) buildLineItems(cmd CreateOrderCommand, batches map[int64]*batch.Batch) ([]order.LineItem, decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	var subtotal, totalCogs, totalMargin decimal.Decimal

	items := make([]order.LineItem, 0, len(cmd.Items()))
	for _, requested := range cmd.Items() {
		item := order.LineItem{
			BatchID:      requested.BatchID,
			DisplayName:  requested.DisplayName,
			OriginalName: requested.DisplayName,
			Quantity:     requested.Quantity,
			UnitPrice:    requested.UnitPrice,
			IsSample:     requested.IsSample,
		}

		if !requested.IsSample {
			b, ok := batches[requested.BatchID]
			if !ok {
				return nil, decimal.Zero, decimal.Zero, decimal.Zero,
					errs.NewObjectNotFoundError("batchID", requested.BatchID)
			}
			if !b.Status().IsSellable() {
				return nil, decimal.Zero, decimal.Zero, decimal.Zero,
					errs.NewValueIsInvalidErrorWithCause("batchID",
						fmt.Errorf("batch %d is %s and cannot be sold", b.ID(), b.Status()))
			}

			cost := h.calculator.Calculate(batch.CostData{
				CogsMode:    b.CogsMode(),
				UnitCogs:    b.UnitCogs(),
				UnitCogsMin: b.UnitCogsMin(),
				UnitCogsMax: b.UnitCogsMax(),
			}, cmd.Adjustment(), requested.UnitPrice)

			item.UnitCogs = cost.UnitCogs
			item.CogsMode = order.CogsMode(b.CogsMode())
			item.CogsSource = cost.Source
			item.UnitMargin = cost.UnitMargin
			item.MarginPercent = cost.MarginPercent
		}

		item.LineTotal = item.UnitPrice.Mul(item.Quantity)
		item.LineCogs = item.UnitCogs.Mul(item.Quantity)
		item.LineMargin = item.LineTotal.Sub(item.LineCogs)

		// Samples are given away: they carry cost but no revenue.
		if !item.IsSample {
			subtotal = subtotal.Add(item.LineTotal)
			totalCogs = totalCogs.Add(item.LineCogs)
			totalMargin = totalMargin.Add(item.LineMargin)
		}

		items = append(items, item)
	}

	return items, subtotal, totalCogs, totalMargin, nil
}

func (h CreateOrderCommandHandler) reserve(ctx context.Context, uow FulfillmentUoW, aggregate *order.Order, batches map[int64]*batch.Batch, actorID int64) error {
	movements, err := h.engine.Reserve(batches, aggregate.Items())
	if err != nil {
		return err
	}

	sampleMovements, err := h.engine.ConsumeSamples(batches, aggregate.Items())
	if err != nil {
		return err
	}
	movements = append(movements, sampleMovements...)

	batchRepo := uow.BatchRepository()
	for _, id := range h.engine.BatchIDs(aggregate.Items()) {
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

// orderNumber builds the human-facing number: Q- for quotes, S- for
// sales, with a timestamp suffix.
func (h CreateOrderCommandHandler) orderNumber(orderType order.OrderType, now time.Time) string {
	prefix := "S"
	if orderType == order.TypeQuote {
		prefix = "Q"
	}
	return fmt.Sprintf("%s-%s", prefix, now.Format("20060102-150405"))
}
