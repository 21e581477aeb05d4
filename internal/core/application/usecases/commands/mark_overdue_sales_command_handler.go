package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// systemActorID marks history rows written by the scheduler rather than
// a user.
const systemActorID = 0

// MarkOverdueSalesCommandHandler moves sales past their due date to
// OVERDUE. Runs from the scheduler.
type MarkOverdueSalesCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewMarkOverdueSalesCommandHandler creates a handler for overdue
// marking. Requires an OrderUoWFactory for transactional persistence.
func NewMarkOverdueSalesCommandHandler(uowFactory OrderUoWFactory) MarkOverdueSalesCommandHandler {
	return MarkOverdueSalesCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle flips every past-due sale to OVERDUE in one transaction and
// returns how many orders changed.
func (h MarkOverdueSalesCommandHandler) Handle(ctx context.Context, cmd MarkOverdueSalesCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	pastDue, err := orderRepo.GetSalesPastDue(ctx, cmd.AsOf())
	if err != nil {
		return 0, err
	}

	historyRepo := uow.StatusHistoryRepository()
	marked := 0
	for _, aggregate := range pastDue {
		fromStatus := aggregate.SaleStatus().String()
		if err = aggregate.ChangeSaleStatus(order.SaleOverdue); err != nil {
			return 0, err
		}
		if err = orderRepo.Update(ctx, aggregate); err != nil {
			return 0, err
		}

		entry := order.NewStatusHistory(
			aggregate.ID(), order.KindSale, fromStatus, order.SaleOverdue.String(),
			systemActorID, "past due date")
		if err = historyRepo.Append(ctx, entry); err != nil {
			return 0, err
		}
		marked++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return marked, nil
}
