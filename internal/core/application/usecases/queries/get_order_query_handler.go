package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler retrieves order read models from the database.
// Uses direct SQL queries for optimal read performance in the CQRS
// pattern.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order retrieval queries.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. A corrupted item payload surfaces as a
// DataCorruptionError rather than an empty item list.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var response GetOrderQueryResponse
	var itemsPayload []byte
	var dueDate sql.NullTime
	var invoiceID sql.NullInt64

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			order_type,
			client_id,
			items,
			subtotal,
			total_cogs,
			total_margin,
			quote_status,
			sale_status,
			fulfillment_status,
			payment_terms,
			amount_paid,
			due_date,
			invoice_id,
			is_draft,
			notes,
			version
		FROM orders
		WHERE id = ?
	`, query.OrderID()).Row()

	err := row.Scan(
		&response.ID,
		&response.OrderNumber,
		&response.OrderType,
		&response.ClientID,
		&itemsPayload,
		&response.Subtotal,
		&response.TotalCogs,
		&response.TotalMargin,
		&response.QuoteStatus,
		&response.SaleStatus,
		&response.FulfillmentStatus,
		&response.PaymentTerms,
		&response.AmountPaid,
		&dueDate,
		&invoiceID,
		&response.IsDraft,
		&response.Notes,
		&response.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderID", query.OrderID())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if dueDate.Valid {
		response.DueDate = &dueDate.Time
	}
	if invoiceID.Valid {
		response.InvoiceID = &invoiceID.Int64
	}

	items, err := order.UnmarshalLineItems(response.ID, itemsPayload)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	response.Items = items

	if response.FulfillmentStatus != "" {
		response.NextFulfillmentStatuses = order.ValidNextStatuses(
			order.KindFulfillment, response.FulfillmentStatus)
	}
	if response.SaleStatus != "" {
		response.NextSaleStatuses = order.ValidNextStatuses(
			order.KindSale, response.SaleStatus)
	}

	return response, nil
}
