package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not
// created through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// OrderType distinguishes quotes from sales. The two share one table and
// one aggregate; the type decides which status machines apply.
type OrderType string

const (
	TypeQuote OrderType = "QUOTE"
	TypeSale  OrderType = "SALE"
)

// PaymentTerms drive due-date calculation and sale-status handling.
type PaymentTerms string

const (
	TermsNet7        PaymentTerms = "NET_7"
	TermsNet15       PaymentTerms = "NET_15"
	TermsNet30       PaymentTerms = "NET_30"
	TermsCOD         PaymentTerms = "COD"
	TermsPartial     PaymentTerms = "PARTIAL"
	TermsConsignment PaymentTerms = "CONSIGNMENT"
)

// Order is the aggregate root for the unified quote/sale order. It owns
// the three status machines and the serialized line-item list, and it is
// the only place where status transitions are applied.
//
// Invariants:
//   - status changes go through the transition tables in status.go
//   - version increments on every successful mutation, supporting the
//     optimistic check layered on top of the row lock
//   - a non-draft sale order holds reservations for its non-sample items
//     from the moment it is confirmed (not only once packed)
type Order struct {
	id          int64
	orderNumber string
	orderType   OrderType
	clientID    int64
	items       []LineItem

	subtotal    decimal.Decimal
	totalCogs   decimal.Decimal
	totalMargin decimal.Decimal

	quoteStatus       QuoteStatus
	saleStatus        SaleStatus
	fulfillmentStatus FulfillmentStatus

	paymentTerms PaymentTerms
	cashPayment  decimal.Decimal
	amountPaid   decimal.Decimal
	dueDate      *time.Time
	invoiceID    *int64

	isDraft   bool
	notes     string
	version   int64
	createdBy int64

	isConstructed bool
}

// NewOrderParams carries the inputs for creating a new order aggregate.
type NewOrderParams struct {
	OrderNumber  string
	OrderType    OrderType
	ClientID     int64
	Items        []LineItem
	Subtotal     decimal.Decimal
	TotalCogs    decimal.Decimal
	TotalMargin  decimal.Decimal
	PaymentTerms PaymentTerms
	CashPayment  decimal.Decimal
	DueDate      *time.Time
	IsDraft      bool
	Notes        string
	CreatedBy    int64
}

// NewOrder creates a new order in its initial state: quotes start as
// DRAFT, sales as PENDING/PENDING (sale and fulfillment machines).
func NewOrder(params NewOrderParams) (*Order, error) {
	if params.OrderNumber == "" {
		return nil, errs.NewValueIsRequiredError("orderNumber")
	}
	if params.OrderType != TypeQuote && params.OrderType != TypeSale {
		return nil, errs.NewValueIsInvalidErrorWithCause("orderType",
			fmt.Errorf("%q is not a valid order type", params.OrderType))
	}
	if params.ClientID <= 0 {
		return nil, errs.NewValueIsRequiredError("clientId")
	}
	if len(params.Items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	o := &Order{
		orderNumber:   params.OrderNumber,
		orderType:     params.OrderType,
		clientID:      params.ClientID,
		items:         params.Items,
		subtotal:      params.Subtotal,
		totalCogs:     params.TotalCogs,
		totalMargin:   params.TotalMargin,
		paymentTerms:  params.PaymentTerms,
		cashPayment:   params.CashPayment,
		dueDate:       params.DueDate,
		isDraft:       params.IsDraft,
		notes:         params.Notes,
		version:       1,
		createdBy:     params.CreatedBy,
		isConstructed: true,
	}

	if params.OrderType == TypeQuote {
		o.quoteStatus = QuoteDraft
	} else {
		o.saleStatus = SalePending
		o.fulfillmentStatus = FulfillmentPending
	}

	return o, nil
}

// RestoreOrderParams carries the full persisted state of an order.
type RestoreOrderParams struct {
	ID                int64
	OrderNumber       string
	OrderType         OrderType
	ClientID          int64
	Items             []LineItem
	Subtotal          decimal.Decimal
	TotalCogs         decimal.Decimal
	TotalMargin       decimal.Decimal
	QuoteStatus       QuoteStatus
	SaleStatus        SaleStatus
	FulfillmentStatus FulfillmentStatus
	PaymentTerms      PaymentTerms
	CashPayment       decimal.Decimal
	AmountPaid        decimal.Decimal
	DueDate           *time.Time
	InvoiceID         *int64
	IsDraft           bool
	Notes             string
	Version           int64
	CreatedBy         int64
}

// RestoreOrder reconstructs an order aggregate from persistence without
// re-running creation rules.
func RestoreOrder(params RestoreOrderParams) (*Order, error) {
	if params.ID <= 0 {
		return nil, errs.NewValueIsRequiredError("id")
	}

	return &Order{
		id:                params.ID,
		orderNumber:       params.OrderNumber,
		orderType:         params.OrderType,
		clientID:          params.ClientID,
		items:             params.Items,
		subtotal:          params.Subtotal,
		totalCogs:         params.TotalCogs,
		totalMargin:       params.TotalMargin,
		quoteStatus:       params.QuoteStatus,
		saleStatus:        params.SaleStatus,
		fulfillmentStatus: params.FulfillmentStatus,
		paymentTerms:      params.PaymentTerms,
		cashPayment:       params.CashPayment,
		amountPaid:        params.AmountPaid,
		dueDate:           params.DueDate,
		invoiceID:         params.InvoiceID,
		isDraft:           params.IsDraft,
		notes:             params.Notes,
		version:           params.Version,
		createdBy:         params.CreatedBy,
		isConstructed:     true,
	}, nil
}

// Validate ensures the aggregate was built through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() int64                            { return o.id }
func (o *Order) OrderNumber() string                  { return o.orderNumber }
func (o *Order) OrderType() OrderType                 { return o.orderType }
func (o *Order) ClientID() int64                      { return o.clientID }
func (o *Order) Items() []LineItem                    { return o.items }
func (o *Order) Subtotal() decimal.Decimal            { return o.subtotal }
func (o *Order) TotalCogs() decimal.Decimal           { return o.totalCogs }
func (o *Order) TotalMargin() decimal.Decimal         { return o.totalMargin }
func (o *Order) QuoteStatus() QuoteStatus             { return o.quoteStatus }
func (o *Order) SaleStatus() SaleStatus               { return o.saleStatus }
func (o *Order) FulfillmentStatus() FulfillmentStatus { return o.fulfillmentStatus }
func (o *Order) PaymentTerms() PaymentTerms           { return o.paymentTerms }
func (o *Order) CashPayment() decimal.Decimal         { return o.cashPayment }
func (o *Order) AmountPaid() decimal.Decimal          { return o.amountPaid }
func (o *Order) DueDate() *time.Time                  { return o.dueDate }
func (o *Order) InvoiceID() *int64                    { return o.invoiceID }
func (o *Order) IsDraft() bool                        { return o.isDraft }
func (o *Order) Notes() string                        { return o.notes }
func (o *Order) Version() int64                       { return o.version }
func (o *Order) CreatedBy() int64                     { return o.createdBy }

// SetID assigns the generated identity after the initial insert.
func (o *Order) SetID(id int64) {
	o.id = id
}

// ExpectVersion compares a caller-supplied version against the stored
// version under the row lock. Mismatch means the caller read stale data;
// the transition must fail before any mutation.
func (o *Order) ExpectVersion(expected int64) error {
	if expected != o.version {
		return errs.NewOptimisticLockConflictError(o.id, expected, o.version)
	}
	return nil
}

// ChangeFulfillmentStatus applies a fulfillment transition. A same-status
// request is a valid no-op and returns changed=false without bumping the
// version, so re-applying PACKED to a packed order touches nothing.
func (o *Order) ChangeFulfillmentStatus(to FulfillmentStatus) (changed bool, err error) {
	if o.fulfillmentStatus == to {
		if !o.fulfillmentStatus.CanTransitionTo(to) {
			return false, errs.NewInvalidTransitionError(string(KindFulfillment),
				string(o.fulfillmentStatus), string(to),
				TransitionError(KindFulfillment, string(o.fulfillmentStatus), string(to)))
		}
		return false, nil
	}

	if !o.fulfillmentStatus.CanTransitionTo(to) {
		return false, errs.NewInvalidTransitionError(string(KindFulfillment),
			string(o.fulfillmentStatus), string(to),
			TransitionError(KindFulfillment, string(o.fulfillmentStatus), string(to)))
	}

	o.fulfillmentStatus = to
	o.version++
	return true, nil
}

// ChangeSaleStatus applies a sale transition. Same-status requests are
// rejected by the sale machine.
func (o *Order) ChangeSaleStatus(to SaleStatus) error {
	if !o.saleStatus.CanTransitionTo(to) {
		return errs.NewInvalidTransitionError(string(KindSale),
			string(o.saleStatus), string(to),
			TransitionError(KindSale, string(o.saleStatus), string(to)))
	}

	o.saleStatus = to
	o.version++
	return nil
}

// ChangeQuoteStatus applies a quote transition.
func (o *Order) ChangeQuoteStatus(to QuoteStatus) error {
	if !o.quoteStatus.CanTransitionTo(to) {
		return errs.NewInvalidTransitionError(string(KindQuote),
			string(o.quoteStatus), string(to),
			TransitionError(KindQuote, string(o.quoteStatus), string(to)))
	}

	o.quoteStatus = to
	o.version++
	return nil
}

// MarkInvoiced records the invoice created for this order. Recording a
// second invoice is rejected so a repeated SHIPPED transition cannot
// double-invoice.
func (o *Order) MarkInvoiced(invoiceID int64) error {
	if o.invoiceID != nil {
		return errs.NewValueIsInvalidErrorWithCause("invoiceId",
			fmt.Errorf("order %d already has invoice %d", o.id, *o.invoiceID))
	}
	o.invoiceID = &invoiceID
	return nil
}

// Confirm promotes a draft to a confirmed order. The caller reserves
// inventory in the same transaction; payment terms start counting from
// confirmation, so the due date is set here rather than at creation.
func (o *Order) Confirm(dueDate *time.Time) error {
	if !o.isDraft {
		return errs.NewInvalidTransitionError(string(KindFulfillment),
			string(o.fulfillmentStatus), string(o.fulfillmentStatus),
			fmt.Sprintf("order %d is already confirmed", o.id))
	}

	o.isDraft = false
	o.dueDate = dueDate
	o.version++
	return nil
}

// ApplyPayment records a received payment amount and advances the sale
// machine: a payment covering the outstanding total moves to PAID,
// anything less moves to PARTIAL.
func (o *Order) ApplyPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("payment amount must be positive, got %s", amount))
	}

	newPaid := o.amountPaid.Add(amount)
	target := SalePartial
	if newPaid.GreaterThanOrEqual(o.subtotal) {
		target = SalePaid
	}

	if err := o.ChangeSaleStatus(target); err != nil {
		return err
	}

	o.amountPaid = newPaid
	return nil
}

// AppendNote appends a tagged free-text note to the order's notes in the
// "[Tag]: text" format used throughout the order history.
func (o *Order) AppendNote(tag, text string) {
	if text == "" {
		return
	}
	o.notes = strings.TrimSpace(o.notes + "\n[" + tag + "]: " + text)
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id == other.id
}
