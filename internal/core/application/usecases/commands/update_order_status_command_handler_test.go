package commands_test

import (
	"context"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func saleOrder(t *testing.T, id int64, fulfillment order.FulfillmentStatus, items []order.LineItem) *order.Order {
	t.Helper()
	aggregate, err := order.RestoreOrder(order.RestoreOrderParams{
		ID:                id,
		OrderNumber:       "S-20250301-120000",
		OrderType:         order.TypeSale,
		ClientID:          11,
		Items:             items,
		Subtotal:          decimal.NewFromInt(150),
		SaleStatus:        order.SalePending,
		FulfillmentStatus: fulfillment,
		PaymentTerms:      order.TermsNet30,
		Version:           3,
		CreatedBy:         7,
	})
	require.NoError(t, err)
	return aggregate
}

func lockedBatch(t *testing.T, id int64, onHand, reserved string) *batch.Batch {
	t.Helper()
	b, err := batch.RestoreBatch(id, "SKU-1", 1, 21, batch.StatusLive,
		batch.Counters{OnHand: onHand, Reserved: reserved}, batch.CostData{}, false)
	require.NoError(t, err)
	return b
}

func saleItems(batchID int64, qty string) []order.LineItem {
	return []order.LineItem{{
		BatchID:     batchID,
		DisplayName: "Blue Dream 1oz",
		Quantity:    decimal.RequireFromString(qty),
		UnitPrice:   decimal.NewFromInt(15),
	}}
}

func newTransitionMocks(uow *MockFulfillmentUoW) (*MockOrderRepository, *MockBatchRepository, *MockStatusHistoryRepository, *MockMovementRepository, *MockAccountingGateway, *MockPayablesGateway) {
	orderRepo := new(MockOrderRepository)
	batchRepo := new(MockBatchRepository)
	historyRepo := new(MockStatusHistoryRepository)
	movementRepo := new(MockMovementRepository)
	accounting := new(MockAccountingGateway)
	payables := new(MockPayablesGateway)

	uow.On("OrderRepository").Return(orderRepo).Maybe()
	uow.On("BatchRepository").Return(batchRepo).Maybe()
	uow.On("StatusHistoryRepository").Return(historyRepo).Maybe()
	uow.On("MovementRepository").Return(movementRepo).Maybe()
	uow.On("AccountingGateway").Return(accounting).Maybe()
	uow.On("PayablesGateway").Return(payables).Maybe()

	return orderRepo, batchRepo, historyRepo, movementRepo, accounting, payables
}

func newTransitionFactory(uow *MockFulfillmentUoW) *MockFulfillmentUoWFactory {
	factory := new(MockFulfillmentUoWFactory)
	factory.On("Create").Return(uow)
	return factory
}

func TestUpdateOrderStatusCommandHandler_Handle_ShipSuccess(t *testing.T) {
	ctx := t.Context()
	testOrder := saleOrder(t, 42, order.FulfillmentPacked, saleItems(3, "10"))
	testBatch := lockedBatch(t, 3, "100", "10")

	uow := new(MockFulfillmentUoW)
	orderRepo, batchRepo, historyRepo, movementRepo, accounting, _ := newTransitionMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetForUpdate", ctx, int64(42)).Return(testOrder, nil).Once()
	batchRepo.On("GetManyForUpdate", ctx, []int64{3}).
		Return(map[int64]*batch.Batch{3: testBatch}, nil).Once()
	batchRepo.On("Update", ctx, testBatch).Return(nil).Once()
	batchRepo.On("Get", ctx, int64(3)).Return(testBatch, nil).Once()
	movementRepo.On("Append", ctx, mock.AnythingOfType("[]batch.Movement")).Return(nil).Once()
	accounting.On("CreateInvoiceFromOrder", ctx, testOrder).Return(int64(99), nil).Once()
	orderRepo.On("Update", ctx, testOrder).Return(nil).Once()
	historyRepo.On("Append", ctx, mock.AnythingOfType("order.StatusHistory")).Return(nil).Once()

	handler := commands.NewUpdateOrderStatusCommandHandler(newTransitionFactory(uow))
	cmd, err := commands.NewUpdateOrderStatusCommand(42, order.KindFulfillment, "SHIPPED", 7)
	require.NoError(t, err)

	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, int64(42), result.OrderID)
	assert.Equal(t, "SHIPPED", result.NewStatus)
	assert.Equal(t, "90", testBatch.OnHand().String())
	assert.Equal(t, "0", testBatch.Reserved().String())
	require.NotNil(t, testOrder.InvoiceID())
	assert.Equal(t, int64(99), *testOrder.InvoiceID())
	uow.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	batchRepo.AssertExpectations(t)
	accounting.AssertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_ShipConsignedCreatesPayable(t *testing.T) {
	ctx := t.Context()
	testOrder := saleOrder(t, 42, order.FulfillmentPacked, saleItems(3, "10"))
	consigned, err := batch.RestoreBatch(3, "SKU-1", 1, 21, batch.StatusLive,
		batch.Counters{OnHand: "100", Reserved: "10"}, batch.CostData{}, true)
	require.NoError(t, err)

	uow := new(MockFulfillmentUoW)
	orderRepo, batchRepo, historyRepo, movementRepo, accounting, payables := newTransitionMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetForUpdate", ctx, int64(42)).Return(testOrder, nil).Once()
	batchRepo.On("GetManyForUpdate", ctx, []int64{3}).
		Return(map[int64]*batch.Batch{3: consigned}, nil).Once()
	batchRepo.On("Update", ctx, consigned).Return(nil).Once()
	batchRepo.On("Get", ctx, int64(3)).Return(consigned, nil).Once()
	movementRepo.On("Append", ctx, mock.AnythingOfType("[]batch.Movement")).Return(nil).Once()
	accounting.On("CreateInvoiceFromOrder", ctx, testOrder).Return(int64(99), nil).Once()
	payables.On("CreatePayable", ctx, int64(42), consigned, mock.AnythingOfType("order.LineItem")).
		Return(nil).Once()
	orderRepo.On("Update", ctx, testOrder).Return(nil).Once()
	historyRepo.On("Append", ctx, mock.AnythingOfType("order.StatusHistory")).Return(nil).Once()

	handler := commands.NewUpdateOrderStatusCommandHandler(newTransitionFactory(uow))
	cmd, err := commands.NewUpdateOrderStatusCommand(42, order.KindFulfillment, "SHIPPED", 7)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	payables.AssertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_InsufficientInventoryAborts(t *testing.T) {
	ctx := t.Context()
	testOrder := saleOrder(t, 42, order.FulfillmentPacked, saleItems(3, "10"))
	testBatch := lockedBatch(t, 3, "5", "10")

	uow := new(MockFulfillmentUoW)
	orderRepo, batchRepo, _, _, _, _ := newTransitionMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetForUpdate", ctx, int64(42)).Return(testOrder, nil).Once()
	batchRepo.On("GetManyForUpdate", ctx, []int64{3}).
		Return(map[int64]*batch.Batch{3: testBatch}, nil).Once()

	handler := commands.NewUpdateOrderStatusCommandHandler(newTransitionFactory(uow))
	cmd, err := commands.NewUpdateOrderStatusCommand(42, order.KindFulfillment, "SHIPPED", 7)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrInsufficientInventory)
	assert.Equal(t, "5", testBatch.OnHand().String())
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestUpdateOrderStatusCommandHandler_Handle_InvalidTransition(t *testing.T) {
	ctx := t.Context()
	testOrder := saleOrder(t, 42, order.FulfillmentPending, saleItems(3, "10"))

	uow := new(MockFulfillmentUoW)
	orderRepo, _, _, _, _, _ := newTransitionMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetForUpdate", ctx, int64(42)).Return(testOrder, nil).Once()

	handler := commands.NewUpdateOrderStatusCommandHandler(newTransitionFactory(uow))
	cmd, err := commands.NewUpdateOrderStatusCommand(42, order.KindFulfillment, "SHIPPED", 7)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestUpdateOrderStatusCommandHandler_Handle_SameFulfillmentStatusIsNoOp(t *testing.T) {
	ctx := t.Context()
	testOrder := saleOrder(t, 42, order.FulfillmentPacked, saleItems(3, "10"))
	versionBefore := testOrder.Version()

	uow := new(MockFulfillmentUoW)
	orderRepo, batchRepo, historyRepo, movementRepo, _, _ := newTransitionMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetForUpdate", ctx, int64(42)).Return(testOrder, nil).Once()

	handler := commands.NewUpdateOrderStatusCommandHandler(newTransitionFactory(uow))
	cmd, err := commands.NewUpdateOrderStatusCommand(42, order.KindFulfillment, "PACKED", 7)
	require.NoError(t, err)

	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, versionBefore, testOrder.Version())
	assert.Equal(t, versionBefore, result.Version)
	orderRepo.AssertNotCalled(t, "Update", ctx, testOrder)
	batchRepo.AssertNotCalled(t, "GetManyForUpdate", ctx, mock.Anything)
	historyRepo.AssertNotCalled(t, "Append", ctx, mock.Anything)
	movementRepo.AssertNotCalled(t, "Append", ctx, mock.Anything)
}

func TestUpdateOrderStatusCommandHandler_Handle_SameSaleStatusIsRejected(t *testing.T) {
	ctx := t.Context()
	testOrder := saleOrder(t, 42, order.FulfillmentPending, saleItems(3, "10"))

	uow := new(MockFulfillmentUoW)
	orderRepo, _, _, _, _, _ := newTransitionMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetForUpdate", ctx, int64(42)).Return(testOrder, nil).Once()

	handler := commands.NewUpdateOrderStatusCommandHandler(newTransitionFactory(uow))
	cmd, err := commands.NewUpdateOrderStatusCommand(42, order.KindSale, "PENDING", 7)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestUpdateOrderStatusCommandHandler_Handle_VersionMismatch(t *testing.T) {
	ctx := t.Context()
	testOrder := saleOrder(t, 42, order.FulfillmentPacked, saleItems(3, "10"))

	uow := new(MockFulfillmentUoW)
	orderRepo, batchRepo, _, _, _, _ := newTransitionMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetForUpdate", ctx, int64(42)).Return(testOrder, nil).Once()

	handler := commands.NewUpdateOrderStatusCommandHandler(newTransitionFactory(uow))
	cmd, err := commands.NewUpdateOrderStatusCommand(42, order.KindFulfillment, "SHIPPED", 7)
	require.NoError(t, err)
	cmd = cmd.WithExpectedVersion(1)

	_, err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrOptimisticLockConflict)
	batchRepo.AssertNotCalled(t, "GetManyForUpdate", ctx, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestUpdateOrderStatusCommandHandler_Handle_MissingBatchID(t *testing.T) {
	ctx := t.Context()
	items := []order.LineItem{{
		DisplayName: "Blue Dream 1oz",
		Quantity:    decimal.NewFromInt(10),
		UnitPrice:   decimal.NewFromInt(15),
	}}
	testOrder := saleOrder(t, 42, order.FulfillmentPending, items)

	uow := new(MockFulfillmentUoW)
	orderRepo, _, _, _, _, _ := newTransitionMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetForUpdate", ctx, int64(42)).Return(testOrder, nil).Once()

	handler := commands.NewUpdateOrderStatusCommandHandler(newTransitionFactory(uow))
	cmd, err := commands.NewUpdateOrderStatusCommand(42, order.KindFulfillment, "PACKED", 7)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrMissingBatchID)
}

func TestUpdateOrderStatusCommandHandler_Handle_CancelReleasesReservation(t *testing.T) {
	ctx := t.Context()
	testOrder := saleOrder(t, 42, order.FulfillmentPending, saleItems(3, "10"))
	testBatch := lockedBatch(t, 3, "100", "10")

	uow := new(MockFulfillmentUoW)
	orderRepo, batchRepo, historyRepo, movementRepo, accounting, _ := newTransitionMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetForUpdate", ctx, int64(42)).Return(testOrder, nil).Once()
	batchRepo.On("GetManyForUpdate", ctx, []int64{3}).
		Return(map[int64]*batch.Batch{3: testBatch}, nil).Once()
	batchRepo.On("Update", ctx, testBatch).Return(nil).Once()
	movementRepo.On("Append", ctx, mock.AnythingOfType("[]batch.Movement")).Return(nil).Once()
	orderRepo.On("Update", ctx, testOrder).Return(nil).Once()
	historyRepo.On("Append", ctx, mock.AnythingOfType("order.StatusHistory")).Return(nil).Once()

	handler := commands.NewUpdateOrderStatusCommandHandler(newTransitionFactory(uow))
	cmd, err := commands.NewUpdateOrderStatusCommand(42, order.KindFulfillment, "CANCELLED", 7)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "100", testBatch.OnHand().String())
	assert.Equal(t, "0", testBatch.Reserved().String())
	assert.Equal(t, order.SaleCancelled, testOrder.SaleStatus())
	accounting.AssertNotCalled(t, "ReverseEntries", ctx, mock.Anything)
}

func draftSaleOrder(t *testing.T, id int64, fulfillment order.FulfillmentStatus, items []order.LineItem) *order.Order {
	t.Helper()
	aggregate, err := order.RestoreOrder(order.RestoreOrderParams{
		ID:                id,
		OrderNumber:       "S-20250301-120000",
		OrderType:         order.TypeSale,
		ClientID:          11,
		Items:             items,
		Subtotal:          decimal.NewFromInt(75),
		SaleStatus:        order.SalePending,
		FulfillmentStatus: fulfillment,
		PaymentTerms:      order.TermsNet30,
		IsDraft:           true,
		Version:           3,
		CreatedBy:         7,
	})
	require.NoError(t, err)
	return aggregate
}

func TestUpdateOrderStatusCommandHandler_Handle_CancelDraftLeavesReservationsUntouched(t *testing.T) {
	ctx := t.Context()
	testOrder := draftSaleOrder(t, 42, order.FulfillmentPending, saleItems(3, "5"))
	// The batch's reservation belongs to other, confirmed orders. The
	// draft never reserved, so cancelling it must not release anything.
	testBatch := lockedBatch(t, 3, "100", "10")

	uow := new(MockFulfillmentUoW)
	orderRepo, batchRepo, historyRepo, movementRepo, _, _ := newTransitionMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetForUpdate", ctx, int64(42)).Return(testOrder, nil).Once()
	orderRepo.On("Update", ctx, testOrder).Return(nil).Once()
	historyRepo.On("Append", ctx, mock.AnythingOfType("order.StatusHistory")).Return(nil).Once()

	handler := commands.NewUpdateOrderStatusCommandHandler(newTransitionFactory(uow))
	cmd, err := commands.NewUpdateOrderStatusCommand(42, order.KindFulfillment, "CANCELLED", 7)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "10", testBatch.Reserved().String())
	batchRepo.AssertNotCalled(t, "GetManyForUpdate", ctx, mock.Anything)
	movementRepo.AssertNotCalled(t, "Append", ctx, mock.Anything)
}

func TestUpdateOrderStatusCommandHandler_Handle_ShipDraftIsRejected(t *testing.T) {
	ctx := t.Context()
	testOrder := draftSaleOrder(t, 42, order.FulfillmentPacked, saleItems(3, "5"))

	uow := new(MockFulfillmentUoW)
	orderRepo, batchRepo, _, _, accounting, _ := newTransitionMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetForUpdate", ctx, int64(42)).Return(testOrder, nil).Once()

	handler := commands.NewUpdateOrderStatusCommandHandler(newTransitionFactory(uow))
	cmd, err := commands.NewUpdateOrderStatusCommand(42, order.KindFulfillment, "SHIPPED", 7)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Equal(t, order.FulfillmentPacked, testOrder.FulfillmentStatus())
	batchRepo.AssertNotCalled(t, "GetManyForUpdate", ctx, mock.Anything)
	accounting.AssertNotCalled(t, "CreateInvoiceFromOrder", ctx, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestUpdateOrderStatusCommandHandler_Handle_RetriesRetryableFailures(t *testing.T) {
	ctx := t.Context()
	testOrder := saleOrder(t, 42, order.FulfillmentPending, saleItems(3, "10"))
	deadlock := errs.NewTransactionFailedError(true, context.DeadlineExceeded)

	uow := new(MockFulfillmentUoW)
	orderRepo, batchRepo, historyRepo, movementRepo, _, _ := newTransitionMocks(uow)

	uow.On("Begin", ctx).Return(nil).Twice()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Twice()
	orderRepo.On("GetForUpdate", ctx, int64(42)).Return(nil, deadlock).Once()
	orderRepo.On("GetForUpdate", ctx, int64(42)).Return(testOrder, nil).Once()
	orderRepo.On("Update", ctx, testOrder).Return(nil).Once()
	historyRepo.On("Append", ctx, mock.AnythingOfType("order.StatusHistory")).Return(nil).Once()
	movementRepo.On("Append", ctx, mock.Anything).Return(nil).Maybe()
	batchRepo.On("GetManyForUpdate", ctx, mock.Anything).Return(map[int64]*batch.Batch{}, nil).Maybe()

	factory := new(MockFulfillmentUoWFactory)
	factory.On("Create").Return(uow).Twice()

	handler := commands.NewUpdateOrderStatusCommandHandler(factory)
	cmd, err := commands.NewUpdateOrderStatusCommand(42, order.KindFulfillment, "PACKED", 7)
	require.NoError(t, err)

	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "PACKED", result.NewStatus)
	factory.AssertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_NonRetryableFailureIsNotRetried(t *testing.T) {
	ctx := t.Context()
	failure := errs.NewTransactionFailedError(false, context.DeadlineExceeded)

	uow := new(MockFulfillmentUoW)
	orderRepo, _, _, _, _, _ := newTransitionMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetForUpdate", ctx, int64(42)).Return(nil, failure).Once()

	factory := new(MockFulfillmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdateOrderStatusCommandHandler(factory)
	cmd, err := commands.NewUpdateOrderStatusCommand(42, order.KindFulfillment, "PACKED", 7)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrTransactionFailed)
	factory.AssertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()

	uow := new(MockFulfillmentUoW)
	orderRepo, _, _, _, _, _ := newTransitionMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetForUpdate", ctx, int64(42)).
		Return(nil, errs.NewObjectNotFoundError("orderID", int64(42))).Once()

	handler := commands.NewUpdateOrderStatusCommandHandler(newTransitionFactory(uow))
	cmd, err := commands.NewUpdateOrderStatusCommand(42, order.KindFulfillment, "PACKED", 7)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestUpdateOrderStatusCommandHandler_Handle_UnconstructedCommand(t *testing.T) {
	handler := commands.NewUpdateOrderStatusCommandHandler(new(MockFulfillmentUoWFactory))

	_, err := handler.Handle(t.Context(), commands.UpdateOrderStatusCommand{})

	assert.ErrorIs(t, err, commands.ErrUpdateOrderStatusCommandIsNotConstructed)
}
