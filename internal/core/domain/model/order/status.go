package order

import (
	"fmt"
	"strings"
)

// The order aggregate carries three independent state machines tracking
// different lifecycles of the same order:
//
//	quote:       DRAFT ──> SENT ──> ACCEPTED ──> CONVERTED
//	                 └──────┴──> REJECTED / EXPIRED
//	sale:        PENDING <─> OVERDUE ──> PAID
//	                 └──> PARTIAL ──┴──> CANCELLED
//	fulfillment: PENDING ──> PACKED ──> SHIPPED
//	                 └─────────┴──> CANCELLED
//
// Each machine is expressed as an adjacency map. A state present in the
// map with no outgoing edges is terminal; a state absent from the map is
// unknown and every transition from it is rejected (fail closed).
//
// The fulfillment machine permits same-status transitions as idempotent
// no-ops (re-packing an already packed order is harmless). The sale and
// quote machines reject them. This asymmetry is intentional: a repeated
// "still pending" sale event is meaningless and almost always a caller
// bug, while fulfillment re-application is safe by construction.

// StatusKind selects which of the order's state machines a transition
// query refers to.
type StatusKind string

const (
	KindQuote       StatusKind = "quote"
	KindSale        StatusKind = "sale"
	KindFulfillment StatusKind = "fulfillment"
)

// FulfillmentStatus tracks the physical fulfillment lifecycle.
type FulfillmentStatus string

const (
	FulfillmentPending   FulfillmentStatus = "PENDING"
	FulfillmentPacked    FulfillmentStatus = "PACKED"
	FulfillmentShipped   FulfillmentStatus = "SHIPPED"
	FulfillmentCancelled FulfillmentStatus = "CANCELLED"
)

// SaleStatus tracks the payment lifecycle of a sale order.
type SaleStatus string

const (
	SalePending   SaleStatus = "PENDING"
	SalePartial   SaleStatus = "PARTIAL"
	SalePaid      SaleStatus = "PAID"
	SaleOverdue   SaleStatus = "OVERDUE"
	SaleCancelled SaleStatus = "CANCELLED"
)

// QuoteStatus tracks the lifecycle of a quote order.
type QuoteStatus string

const (
	QuoteDraft     QuoteStatus = "DRAFT"
	QuoteSent      QuoteStatus = "SENT"
	QuoteAccepted  QuoteStatus = "ACCEPTED"
	QuoteRejected  QuoteStatus = "REJECTED"
	QuoteExpired   QuoteStatus = "EXPIRED"
	QuoteConverted QuoteStatus = "CONVERTED"
)

// Terminal states are entries with an empty edge set; states missing
// entirely are unknown and fail closed.
var quoteTransitions = map[string][]string{
	string(QuoteDraft):     {string(QuoteSent), string(QuoteAccepted), string(QuoteRejected), string(QuoteExpired)},
	string(QuoteSent):      {string(QuoteAccepted), string(QuoteRejected), string(QuoteExpired)},
	string(QuoteAccepted):  {string(QuoteConverted)},
	string(QuoteRejected):  {},
	string(QuoteExpired):   {},
	string(QuoteConverted): {},
}

var saleTransitions = map[string][]string{
	string(SalePending):   {string(SalePartial), string(SalePaid), string(SaleOverdue), string(SaleCancelled)},
	string(SalePartial):   {string(SalePaid), string(SaleOverdue), string(SaleCancelled)},
	string(SaleOverdue):   {string(SalePartial), string(SalePaid), string(SaleCancelled)},
	string(SalePaid):      {},
	string(SaleCancelled): {},
}

var fulfillmentTransitions = map[string][]string{
	string(FulfillmentPending):   {string(FulfillmentPacked), string(FulfillmentCancelled)},
	string(FulfillmentPacked):    {string(FulfillmentShipped), string(FulfillmentCancelled)},
	string(FulfillmentShipped):   {},
	string(FulfillmentCancelled): {},
}

// transitionTable returns the adjacency map for a status kind together
// with whether same-status transitions are treated as valid no-ops.
func transitionTable(kind StatusKind) (edges map[string][]string, allowSame bool) {
	switch kind {
	case KindQuote:
		return quoteTransitions, false
	case KindSale:
		return saleTransitions, false
	case KindFulfillment:
		return fulfillmentTransitions, true
	default:
		return nil, false
	}
}

// IsValidStatusTransition reports whether the machine identified by kind
// permits moving from one status to another. Unknown kinds and unknown
// source statuses yield false rather than an error.
func IsValidStatusTransition(kind StatusKind, from, to string) bool {
	edges, allowSame := transitionTable(kind)
	next, known := edges[from]
	if !known {
		return false
	}
	if from == to {
		return allowSame
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// ValidNextStatuses returns the statuses reachable from the given status.
// Unknown kinds and statuses yield an empty slice.
func ValidNextStatuses(kind StatusKind, from string) []string {
	edges, _ := transitionTable(kind)
	next, known := edges[from]
	if !known {
		return []string{}
	}
	return append([]string{}, next...)
}

// IsTerminalStatus reports whether the status is known and has no
// outgoing transitions.
func IsTerminalStatus(kind StatusKind, status string) bool {
	edges, _ := transitionTable(kind)
	next, known := edges[status]
	return known && len(next) == 0
}

// TransitionError produces a human-readable explanation for a rejected
// transition, distinguishing terminal states from ordinary invalid moves.
func TransitionError(kind StatusKind, from, to string) string {
	edges, allowSame := transitionTable(kind)
	next, known := edges[from]
	switch {
	case !known:
		return fmt.Sprintf("%s is not a recognized %s status", from, kind)
	case len(next) == 0:
		return fmt.Sprintf("%s is a terminal state, no transitions allowed", from)
	case from == to && !allowSame:
		return fmt.Sprintf("%s status is already %s, repeating it is not a valid transition", kind, from)
	default:
		return fmt.Sprintf("cannot transition from %s to %s, valid next statuses are: %s",
			from, to, strings.Join(next, ", "))
	}
}

// CanTransitionTo reports whether the fulfillment machine permits moving
// to the given status, including the idempotent same-status case.
func (s FulfillmentStatus) CanTransitionTo(to FulfillmentStatus) bool {
	return IsValidStatusTransition(KindFulfillment, string(s), string(to))
}

// IsTerminal reports whether the fulfillment status has no outgoing
// transitions.
func (s FulfillmentStatus) IsTerminal() bool {
	return IsTerminalStatus(KindFulfillment, string(s))
}

func (s FulfillmentStatus) String() string { return string(s) }

// CanTransitionTo reports whether the sale machine permits moving to the
// given status. Same-status transitions are always rejected.
func (s SaleStatus) CanTransitionTo(to SaleStatus) bool {
	return IsValidStatusTransition(KindSale, string(s), string(to))
}

// IsTerminal reports whether the sale status has no outgoing transitions.
func (s SaleStatus) IsTerminal() bool {
	return IsTerminalStatus(KindSale, string(s))
}

func (s SaleStatus) String() string { return string(s) }

// CanTransitionTo reports whether the quote machine permits moving to the
// given status.
func (s QuoteStatus) CanTransitionTo(to QuoteStatus) bool {
	return IsValidStatusTransition(KindQuote, string(s), string(to))
}

// IsTerminal reports whether the quote status has no outgoing transitions.
func (s QuoteStatus) IsTerminal() bool {
	return IsTerminalStatus(KindQuote, string(s))
}

func (s QuoteStatus) String() string { return string(s) }
