package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMarkOverdueSalesCommandHandler_Handle_MarksPastDueSales(t *testing.T) {
	ctx := t.Context()
	asOf := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	first := saleOrder(t, 42, order.FulfillmentPacked, saleItems(3, "10"))
	second := saleOrder(t, 43, order.FulfillmentPacked, saleItems(4, "5"))

	uow := new(MockOrderUoW)
	orderRepo, historyRepo, _ := newOrderUoWMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetSalesPastDue", ctx, asOf).Return([]*order.Order{first, second}, nil).Once()
	orderRepo.On("Update", ctx, first).Return(nil).Once()
	orderRepo.On("Update", ctx, second).Return(nil).Once()
	historyRepo.On("Append", ctx, mock.AnythingOfType("order.StatusHistory")).Return(nil).Twice()

	handler := commands.NewMarkOverdueSalesCommandHandler(newOrderUoWFactory(uow))
	cmd, err := commands.NewMarkOverdueSalesCommand(asOf)
	require.NoError(t, err)

	marked, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 2, marked)
	assert.Equal(t, order.SaleOverdue, first.SaleStatus())
	assert.Equal(t, order.SaleOverdue, second.SaleStatus())
	uow.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestMarkOverdueSalesCommandHandler_Handle_NothingPastDue(t *testing.T) {
	ctx := t.Context()
	asOf := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

	uow := new(MockOrderUoW)
	orderRepo, historyRepo, _ := newOrderUoWMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetSalesPastDue", ctx, asOf).Return([]*order.Order{}, nil).Once()

	handler := commands.NewMarkOverdueSalesCommandHandler(newOrderUoWFactory(uow))
	cmd, err := commands.NewMarkOverdueSalesCommand(asOf)
	require.NoError(t, err)

	marked, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 0, marked)
	historyRepo.AssertNotCalled(t, "Append", ctx, mock.Anything)
}
