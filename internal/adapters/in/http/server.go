// Package http exposes the order fulfillment use cases over a REST API.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler       commands.CreateOrderCommandHandler
	confirmOrderHandler      commands.ConfirmOrderCommandHandler
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler
	recordPaymentHandler     commands.RecordPaymentCommandHandler
	restockReturnHandler     commands.RestockReturnCommandHandler

	// Query handlers
	getOrderHandler             queries.GetOrderQueryHandler
	getBatchAvailabilityHandler queries.GetBatchAvailabilityQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	confirmOrderHandler commands.ConfirmOrderCommandHandler,
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler,
	recordPaymentHandler commands.RecordPaymentCommandHandler,
	restockReturnHandler commands.RestockReturnCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getBatchAvailabilityHandler queries.GetBatchAvailabilityQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:          createOrderHandler,
		confirmOrderHandler:         confirmOrderHandler,
		updateOrderStatusHandler:    updateOrderStatusHandler,
		recordPaymentHandler:        recordPaymentHandler,
		restockReturnHandler:        restockReturnHandler,
		getOrderHandler:             getOrderHandler,
		getBatchAvailabilityHandler: getBatchAvailabilityHandler,
	}
}

// RegisterRoutes attaches all API routes to the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/confirm", s.ConfirmOrder)
	api.POST("/orders/:id/status", s.UpdateOrderStatus)
	api.POST("/orders/:id/payments", s.RecordPayment)
	api.POST("/orders/:id/restock", s.RestockReturn)
	api.GET("/batches/:id/availability", s.GetBatchAvailability)
	api.GET("/orders/statuses/next", s.GetNextStatuses)
}

// Error is the JSON error payload returned by every endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusForError maps application errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrInsufficientInventory),
		errors.Is(err, errs.ErrOptimisticLockConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrDataCorruption),
		errors.Is(err, errs.ErrMissingBatchID):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorResponse(ctx echo.Context, err error) error {
	code := statusForError(err)
	return ctx.JSON(code, Error{Code: code, Message: err.Error()})
}

// pathID parses the numeric :id path parameter.
func pathID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("id",
			errors.New("path id must be a positive integer"))
	}
	return id, nil
}

// clientAdjustment builds a cost adjustment from request fields. An empty
// or NONE type means no adjustment.
func clientAdjustment(adjType string, value decimal.Decimal) (services.ClientAdjustment, bool) {
	switch services.AdjustmentType(adjType) {
	case services.AdjustmentPercentage, services.AdjustmentFixedAmount:
		return services.ClientAdjustment{
			Type:  services.AdjustmentType(adjType),
			Value: value,
		}, true
	default:
		return services.ClientAdjustment{}, false
	}
}

// NewOrderItem is one requested line in an order creation request.
type NewOrderItem struct {
	BatchID     int64           `json:"batchId"`
	DisplayName string          `json:"displayName"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	IsSample    bool            `json:"isSample"`
}

// NewOrder is the order creation request body.
type NewOrder struct {
	ClientID        int64            `json:"clientId"`
	OrderType       string           `json:"orderType"`
	Items           []NewOrderItem   `json:"items"`
	PaymentTerms    string           `json:"paymentTerms"`
	CashPayment     *decimal.Decimal `json:"cashPayment"`
	IsDraft         bool             `json:"isDraft"`
	AdjustmentType  string           `json:"adjustmentType"`
	AdjustmentValue decimal.Decimal  `json:"adjustmentValue"`
	CreatedBy       int64            `json:"createdBy"`
}

// CreatedOrder is the order creation response body.
type CreatedOrder struct {
	OrderID     int64  `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}

// CreateOrder handles POST /api/v1/orders - creates a new quote or sale.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	items := make([]commands.CreateOrderItem, 0, len(body.Items))
	for _, item := range body.Items {
		items = append(items, commands.CreateOrderItem{
			BatchID:     item.BatchID,
			DisplayName: item.DisplayName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			IsSample:    item.IsSample,
		})
	}

	cmd, err := commands.NewCreateOrderCommand(
		body.ClientID, order.OrderType(body.OrderType), items, body.CreatedBy)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order data: " + err.Error(),
		})
	}

	if body.PaymentTerms != "" {
		cmd = cmd.WithPaymentTerms(order.PaymentTerms(body.PaymentTerms))
	}
	if body.CashPayment != nil {
		cmd = cmd.WithCashPayment(*body.CashPayment)
	}
	if body.IsDraft {
		cmd = cmd.AsDraft()
	}
	if adj, ok := clientAdjustment(body.AdjustmentType, body.AdjustmentValue); ok {
		cmd = cmd.WithClientAdjustment(adj)
	}

	result, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedOrder{
		OrderID:     result.OrderID,
		OrderNumber: result.OrderNumber,
	})
}

// Confirmation is the draft confirmation request body.
type Confirmation struct {
	UserID int64  `json:"userId"`
	Notes  string `json:"notes"`
}

// ConfirmedOrder is the draft confirmation response body.
type ConfirmedOrder struct {
	OrderID int64 `json:"orderId"`
	Version int64 `json:"version"`
}

// ConfirmOrder handles POST /api/v1/orders/:id/confirm - promotes a
// draft to a confirmed order, taking its inventory reservation.
func (s *Server) ConfirmOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	var body Confirmation
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewConfirmOrderCommand(orderID, body.UserID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid confirmation request: " + err.Error(),
		})
	}
	if body.Notes != "" {
		cmd = cmd.WithNotes(body.Notes)
	}

	result, err := s.confirmOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ConfirmedOrder{
		OrderID: result.OrderID,
		Version: result.Version,
	})
}

// StatusChange is the status transition request body.
type StatusChange struct {
	Kind            string `json:"kind"`
	Status          string `json:"status"`
	UserID          int64  `json:"userId"`
	Notes           string `json:"notes"`
	ExpectedVersion *int64 `json:"expectedVersion"`
}

// StatusChanged is the status transition response body.
type StatusChanged struct {
	OrderID int64  `json:"orderId"`
	Status  string `json:"status"`
	Version int64  `json:"version"`
}

// UpdateOrderStatus handles POST /api/v1/orders/:id/status - applies one
// transition on one of the order's status machines.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	orderID, err := pathID(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	var body StatusChange
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(
		orderID, order.StatusKind(body.Kind), body.Status, body.UserID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid status change: " + err.Error(),
		})
	}
	if body.Notes != "" {
		cmd = cmd.WithNotes(body.Notes)
	}
	if body.ExpectedVersion != nil {
		cmd = cmd.WithExpectedVersion(*body.ExpectedVersion)
	}

	result, err := s.updateOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, StatusChanged{
		OrderID: result.OrderID,
		Status:  result.NewStatus,
		Version: result.Version,
	})
}

// Payment is the payment recording request body.
type Payment struct {
	Amount decimal.Decimal `json:"amount"`
	UserID int64           `json:"userId"`
	Notes  string          `json:"notes"`
}

// RecordPayment handles POST /api/v1/orders/:id/payments - records a
// received payment against a sale.
func (s *Server) RecordPayment(ctx echo.Context) error {
	orderID, err := pathID(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	var body Payment
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewRecordPaymentCommand(orderID, body.Amount, body.UserID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid payment: " + err.Error(),
		})
	}
	if body.Notes != "" {
		cmd = cmd.WithNotes(body.Notes)
	}

	if err := s.recordPaymentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// Restock is the return restocking request body.
type Restock struct {
	UserID int64  `json:"userId"`
	Notes  string `json:"notes"`
}

// RestockReturn handles POST /api/v1/orders/:id/restock - returns a
// shipped order's quantities to stock.
func (s *Server) RestockReturn(ctx echo.Context) error {
	orderID, err := pathID(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	var body Restock
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewRestockReturnCommand(orderID, body.UserID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid restock request: " + err.Error(),
		})
	}
	if body.Notes != "" {
		cmd = cmd.WithNotes(body.Notes)
	}

	if err := s.restockReturnHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOrder handles GET /api/v1/orders/:id - retrieves one order with its
// line items and valid next statuses.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	response, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// NextStatuses is the response body for a transition-table lookup.
type NextStatuses struct {
	Kind     string   `json:"kind"`
	From     string   `json:"from"`
	Next     []string `json:"next"`
	Terminal bool     `json:"terminal"`
}

// GetNextStatuses handles GET /api/v1/orders/statuses/next - looks up
// the statuses reachable from a given status. Pure transition-table
// lookup, no database access.
func (s *Server) GetNextStatuses(ctx echo.Context) error {
	kind := order.StatusKind(ctx.QueryParam("kind"))
	from := ctx.QueryParam("from")

	if kind != order.KindQuote && kind != order.KindSale && kind != order.KindFulfillment {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "kind must be one of quote, sale, fulfillment",
		})
	}
	if from == "" {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "from status is required",
		})
	}

	return ctx.JSON(http.StatusOK, NextStatuses{
		Kind:     string(kind),
		From:     from,
		Next:     order.ValidNextStatuses(kind, from),
		Terminal: order.IsTerminalStatus(kind, from),
	})
}

// GetBatchAvailability handles GET /api/v1/batches/:id/availability -
// retrieves a batch's counters with derived quantities.
func (s *Server) GetBatchAvailability(ctx echo.Context) error {
	batchID, err := pathID(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	query, err := queries.NewGetBatchAvailabilityQuery(batchID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	response, err := s.getBatchAvailabilityHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}
