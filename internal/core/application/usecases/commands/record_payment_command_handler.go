package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// RecordPaymentCommandHandler applies a received payment to a sale order
// and keeps the ledger and client balance in sync. The order row is
// locked for the duration so concurrent payments serialize.
type RecordPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewRecordPaymentCommandHandler creates a handler for payment
// recording. Requires an OrderUoWFactory for transactional persistence.
func NewRecordPaymentCommandHandler(uowFactory OrderUoWFactory) RecordPaymentCommandHandler {
	return RecordPaymentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the payment command inside one transaction.
func (h RecordPaymentCommandHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) error {
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

	fromStatus := aggregate.SaleStatus().String()
	if err = aggregate.ApplyPayment(cmd.Amount()); err != nil {
		return err
	}

	accounting := uow.AccountingGateway()
	if err = accounting.RecordCashPayment(ctx, aggregate, cmd.Amount()); err != nil {
		return err
	}
	if err = accounting.SyncClientBalance(ctx, aggregate.ClientID()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	entry := order.NewStatusHistory(
		aggregate.ID(), order.KindSale, fromStatus, aggregate.SaleStatus().String(),
		cmd.UserID(), cmd.Notes())
	if err = uow.StatusHistoryRepository().Append(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
