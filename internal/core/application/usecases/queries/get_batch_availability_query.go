package queries

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetBatchAvailabilityQueryIsNotConstructed = errors.New(
		"GetBatchAvailabilityQuery must be created via NewGetBatchAvailabilityQuery constructor",
	)
	ErrQueryBatchIDIsRequired = errors.New("batch id must be greater than 0")
)

// GetBatchAvailabilityQuery retrieves a batch's quantity counters with
// the derived available and total quantities and a counter consistency
// report.
type GetBatchAvailabilityQuery struct {
	batchID int64

	guard guard.ConstructorGuard
}

// NewGetBatchAvailabilityQuery creates a query for one batch's
// availability.
func NewGetBatchAvailabilityQuery(batchID int64) (GetBatchAvailabilityQuery, error) {
	if batchID <= 0 {
		return GetBatchAvailabilityQuery{}, ErrQueryBatchIDIsRequired
	}

	return GetBatchAvailabilityQuery{
		batchID: batchID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetBatchAvailabilityQuery) Validate() error {
	return q.guard.Validate(ErrGetBatchAvailabilityQueryIsNotConstructed)
}

// BatchID returns the requested batch identifier.
func (q GetBatchAvailabilityQuery) BatchID() int64 {
	return q.batchID
}

// GetBatchAvailabilityQueryResponse is the batch availability read
// model. Quantities are decimal strings, as stored.
type GetBatchAvailabilityQueryResponse struct {
	BatchID    int64
	SKU        string
	Status     string
	IsSellable bool

	OnHand     string
	Reserved   string
	Quarantine string
	Hold       string
	Sample     string
	Defective  string

	Available string
	Total     string

	ConsistencyValid  bool
	ConsistencyErrors []string
}
