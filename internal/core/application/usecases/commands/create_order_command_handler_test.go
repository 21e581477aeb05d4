package commands_test

import (
	"strings"
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

func sellableBatch(t *testing.T, id int64) *batch.Batch {
	t.Helper()
	b, err := batch.RestoreBatch(id, "SKU-1", 1, 21, batch.StatusLive,
		batch.Counters{OnHand: "100", Sample: "5"},
		batch.CostData{CogsMode: string(order.CogsModeFixed), UnitCogs: decimal.NewFromInt(10)},
		false)
	require.NoError(t, err)
	return b
}

func expectAddAssignsID(orderRepo *MockOrderRepository, ctx any, id int64) {
	orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*order.Order).SetID(id)
		}).Return(nil).Once()
}

func TestCreateOrderCommandHandler_Handle_ConfirmedSaleReserves(t *testing.T) {
	ctx := t.Context()
	testBatch := sellableBatch(t, 3)

	uow := new(MockFulfillmentUoW)
	orderRepo, batchRepo, _, movementRepo, _, _ := newTransitionMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	batchRepo.On("GetManyForUpdate", ctx, []int64{3}).
		Return(map[int64]*batch.Batch{3: testBatch}, nil).Once()
	expectAddAssignsID(orderRepo, ctx, 42)
	batchRepo.On("Update", ctx, testBatch).Return(nil).Once()
	movementRepo.On("Append", ctx, mock.AnythingOfType("[]batch.Movement")).Return(nil).Once()

	handler := commands.NewCreateOrderCommandHandler(newTransitionFactory(uow))
	cmd, err := commands.NewCreateOrderCommand(11, order.TypeSale, requestedItems(), 7)
	require.NoError(t, err)

	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, int64(42), result.OrderID)
	assert.True(t, strings.HasPrefix(result.OrderNumber, "S-"))
	assert.Equal(t, "10", testBatch.Reserved().String())
	assert.Equal(t, "100", testBatch.OnHand().String())
	uow.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	batchRepo.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_DraftDoesNotReserve(t *testing.T) {
	ctx := t.Context()
	testBatch := sellableBatch(t, 3)

	uow := new(MockFulfillmentUoW)
	orderRepo, batchRepo, _, movementRepo, _, _ := newTransitionMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	batchRepo.On("GetManyForUpdate", ctx, []int64{3}).
		Return(map[int64]*batch.Batch{3: testBatch}, nil).Once()
	expectAddAssignsID(orderRepo, ctx, 42)

	handler := commands.NewCreateOrderCommandHandler(newTransitionFactory(uow))
	cmd, err := commands.NewCreateOrderCommand(11, order.TypeSale, requestedItems(), 7)
	require.NoError(t, err)
	cmd = cmd.AsDraft()

	_, err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, testBatch.Reserved().IsZero())
	batchRepo.AssertNotCalled(t, "Update", ctx, mock.Anything)
	movementRepo.AssertNotCalled(t, "Append", ctx, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_QuoteStartsAsDraftQuote(t *testing.T) {
	ctx := t.Context()
	testBatch := sellableBatch(t, 3)

	uow := new(MockFulfillmentUoW)
	orderRepo, batchRepo, _, _, _, _ := newTransitionMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	batchRepo.On("GetManyForUpdate", ctx, []int64{3}).
		Return(map[int64]*batch.Batch{3: testBatch}, nil).Once()

	var created *order.Order
	orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*order.Order)
			created.SetID(42)
		}).Return(nil).Once()

	handler := commands.NewCreateOrderCommandHandler(newTransitionFactory(uow))
	cmd, err := commands.NewCreateOrderCommand(11, order.TypeQuote, requestedItems(), 7)
	require.NoError(t, err)

	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.OrderNumber, "Q-"))
	require.NotNil(t, created)
	assert.Equal(t, order.QuoteDraft, created.QuoteStatus())
	assert.True(t, testBatch.Reserved().IsZero())
}

func TestCreateOrderCommandHandler_Handle_DerivesCostsAndTotals(t *testing.T) {
	ctx := t.Context()
	testBatch := sellableBatch(t, 3)

	uow := new(MockFulfillmentUoW)
	orderRepo, batchRepo, _, movementRepo, _, _ := newTransitionMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	batchRepo.On("GetManyForUpdate", ctx, []int64{3}).
		Return(map[int64]*batch.Batch{3: testBatch}, nil).Once()
	batchRepo.On("Update", ctx, testBatch).Return(nil).Once()
	movementRepo.On("Append", ctx, mock.Anything).Return(nil).Once()

	var created *order.Order
	orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*order.Order)
			created.SetID(42)
		}).Return(nil).Once()

	handler := commands.NewCreateOrderCommandHandler(newTransitionFactory(uow))
	cmd, err := commands.NewCreateOrderCommand(11, order.TypeSale, requestedItems(), 7)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, created)
	require.Len(t, created.Items(), 1)
	item := created.Items()[0]
	assert.True(t, decimal.NewFromInt(10).Equal(item.UnitCogs))
	assert.Equal(t, order.CogsSourceFixed, item.CogsSource)
	assert.True(t, decimal.NewFromInt(150).Equal(created.Subtotal()))
	assert.True(t, decimal.NewFromInt(100).Equal(created.TotalCogs()))
	assert.True(t, decimal.NewFromInt(50).Equal(created.TotalMargin()))
	require.NotNil(t, created.DueDate())
}

func TestCreateOrderCommandHandler_Handle_SampleConsumesSamplePool(t *testing.T) {
	ctx := t.Context()
	testBatch := sellableBatch(t, 3)

	uow := new(MockFulfillmentUoW)
	orderRepo, batchRepo, _, movementRepo, _, _ := newTransitionMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	batchRepo.On("GetManyForUpdate", ctx, []int64{3}).
		Return(map[int64]*batch.Batch{3: testBatch}, nil).Once()
	expectAddAssignsID(orderRepo, ctx, 42)
	batchRepo.On("Update", ctx, testBatch).Return(nil).Once()
	movementRepo.On("Append", ctx, mock.AnythingOfType("[]batch.Movement")).Return(nil).Once()

	items := []commands.CreateOrderItem{{
		BatchID:     3,
		DisplayName: "Blue Dream sample",
		Quantity:    decimal.NewFromInt(2),
		IsSample:    true,
	}}

	handler := commands.NewCreateOrderCommandHandler(newTransitionFactory(uow))
	cmd, err := commands.NewCreateOrderCommand(11, order.TypeSale, items, 7)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "3", testBatch.Sample().String())
	assert.True(t, testBatch.Reserved().IsZero())
}

func TestCreateOrderCommandHandler_Handle_UnsellableBatchIsRejected(t *testing.T) {
	ctx := t.Context()
	quarantined, err := batch.RestoreBatch(3, "SKU-1", 1, 21, batch.StatusQuarantined,
		batch.Counters{OnHand: "100"}, batch.CostData{}, false)
	require.NoError(t, err)

	uow := new(MockFulfillmentUoW)
	orderRepo, batchRepo, _, _, _, _ := newTransitionMocks(uow)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	batchRepo.On("GetManyForUpdate", ctx, []int64{3}).
		Return(map[int64]*batch.Batch{3: quarantined}, nil).Once()

	handler := commands.NewCreateOrderCommandHandler(newTransitionFactory(uow))
	cmd, err := commands.NewCreateOrderCommand(11, order.TypeSale, requestedItems(), 7)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	orderRepo.AssertNotCalled(t, "Add", ctx, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
}
