package batch

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a batch, independent of any order's
// status. The machine:
//
//	AWAITING_INTAKE ──> LIVE / QUARANTINED
//	LIVE <─> PHOTOGRAPHY_COMPLETE, both ──> ON_HOLD / QUARANTINED / SOLD_OUT
//	ON_HOLD ──> LIVE / QUARANTINED
//	QUARANTINED ──> LIVE / ON_HOLD / CLOSED
//	SOLD_OUT ──> CLOSED
//	CLOSED is terminal
//
// Unlike the order's sale machine, same-status transitions are always
// valid here: batch status updates arrive from intake tooling that
// re-submits freely.
type Status string

const (
	StatusAwaitingIntake      Status = "AWAITING_INTAKE"
	StatusLive                Status = "LIVE"
	StatusPhotographyComplete Status = "PHOTOGRAPHY_COMPLETE"
	StatusOnHold              Status = "ON_HOLD"
	StatusQuarantined         Status = "QUARANTINED"
	StatusSoldOut             Status = "SOLD_OUT"
	StatusClosed              Status = "CLOSED"
)

// SellableStatuses are the lifecycle states in which a batch may appear
// on sales surfaces. Collaborators import this instead of duplicating
// status literals.
var SellableStatuses = []Status{StatusLive, StatusPhotographyComplete}

var statusTransitions = map[Status][]Status{
	StatusAwaitingIntake:      {StatusLive, StatusQuarantined},
	StatusLive:                {StatusPhotographyComplete, StatusOnHold, StatusQuarantined, StatusSoldOut},
	StatusPhotographyComplete: {StatusLive, StatusOnHold, StatusQuarantined, StatusSoldOut},
	StatusOnHold:              {StatusLive, StatusQuarantined},
	StatusQuarantined:         {StatusLive, StatusOnHold, StatusClosed},
	StatusSoldOut:             {StatusClosed},
	StatusClosed:              {},
}

// IsSellable reports whether the status allows the batch to be sold.
func (s Status) IsSellable() bool {
	for _, sellable := range SellableStatuses {
		if s == sellable {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the lifecycle machine permits moving to
// the given status. Same-status transitions are always valid; unknown
// source statuses fail closed.
func (s Status) CanTransitionTo(to Status) bool {
	next, known := statusTransitions[s]
	if !known {
		return false
	}
	if s == to {
		return true
	}
	for _, n := range next {
		if n == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	next, known := statusTransitions[s]
	return known && len(next) == 0
}

// ValidNextStatuses returns the statuses reachable from s.
func (s Status) ValidNextStatuses() []Status {
	next, known := statusTransitions[s]
	if !known {
		return []Status{}
	}
	return append([]Status{}, next...)
}

// TransitionError explains why a lifecycle transition was rejected.
func (s Status) TransitionError(to Status) string {
	next, known := statusTransitions[s]
	switch {
	case !known:
		return fmt.Sprintf("%s is not a recognized batch status", s)
	case len(next) == 0:
		return fmt.Sprintf("%s is a terminal state, no transitions allowed", s)
	default:
		names := make([]string, len(next))
		for i, n := range next {
			names[i] = string(n)
		}
		return fmt.Sprintf("cannot transition from %s to %s, valid next statuses are: %s",
			s, to, strings.Join(names, ", "))
	}
}

func (s Status) String() string { return string(s) }
