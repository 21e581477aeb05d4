package batch

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrBatchIsNotConstructed is returned when a Batch instance was not
// created through NewBatch or RestoreBatch.
var ErrBatchIsNotConstructed = errors.New("Batch must be created via NewBatch or RestoreBatch")

// Batch is the aggregate root for a physical inventory batch. It owns six
// quantity counters and the arithmetic relating them:
//
//	available = onHand − reserved − quarantine − hold   (floored at 0)
//	total     = onHand + sample + defective
//
// reserved, quarantine, and hold are sub-buckets *within* onHand, never
// additional pools. Adding them to onHand again is the classic
// double-counting bug this model exists to prevent. sample and defective
// sit outside the sellable on-hand pool and only contribute to total.
//
// Counter mutations happen only through the mutator methods below, and
// callers must hold a row lock on the batch for the duration of the
// enclosing transaction.
type Batch struct {
	id             int64
	sku            string
	lotID          int64
	vendorClientID int64
	status         Status

	onHand     kernel.Quantity
	reserved   kernel.Quantity
	quarantine kernel.Quantity
	hold       kernel.Quantity
	sample     kernel.Quantity
	defective  kernel.Quantity

	cogsMode    string
	unitCogs    decimal.Decimal
	unitCogsMin decimal.Decimal
	unitCogsMax decimal.Decimal
	isConsigned bool

	isConstructed bool
}

// Counters carries the six stored quantity counters as decimal strings,
// exactly as the batches table stores them. Lenient parsing applies:
// missing or non-numeric values become zero and are reported by
// ValidateConsistency rather than poisoning arithmetic.
type Counters struct {
	OnHand     string
	Reserved   string
	Quarantine string
	Hold       string
	Sample     string
	Defective  string
}

// CostData carries a batch's stored cost configuration.
type CostData struct {
	CogsMode    string
	UnitCogs    decimal.Decimal
	UnitCogsMin decimal.Decimal
	UnitCogsMax decimal.Decimal
}

// NewBatch creates a batch entering the intake pipeline.
func NewBatch(sku string, lotID, vendorClientID int64, counters Counters, cost CostData, isConsigned bool) (*Batch, error) {
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}

	b := &Batch{
		sku:            sku,
		lotID:          lotID,
		vendorClientID: vendorClientID,
		status:         StatusAwaitingIntake,
		isConsigned:    isConsigned,
		isConstructed:  true,
	}
	b.setCounters(counters)
	b.setCost(cost)
	return b, nil
}

// RestoreBatch reconstructs a batch aggregate from persistence.
func RestoreBatch(id int64, sku string, lotID, vendorClientID int64, status Status,
	counters Counters, cost CostData, isConsigned bool,
) (*Batch, error) {
	if id <= 0 {
		return nil, errs.NewValueIsRequiredError("id")
	}

	b := &Batch{
		id:             id,
		sku:            sku,
		lotID:          lotID,
		vendorClientID: vendorClientID,
		status:         status,
		isConsigned:    isConsigned,
		isConstructed:  true,
	}
	b.setCounters(counters)
	b.setCost(cost)
	return b, nil
}

func (b *Batch) setCounters(c Counters) {
	b.onHand = kernel.ParseQuantity(c.OnHand)
	b.reserved = kernel.ParseQuantity(c.Reserved)
	b.quarantine = kernel.ParseQuantity(c.Quarantine)
	b.hold = kernel.ParseQuantity(c.Hold)
	b.sample = kernel.ParseQuantity(c.Sample)
	b.defective = kernel.ParseQuantity(c.Defective)
}

func (b *Batch) setCost(c CostData) {
	b.cogsMode = c.CogsMode
	b.unitCogs = c.UnitCogs
	b.unitCogsMin = c.UnitCogsMin
	b.unitCogsMax = c.UnitCogsMax
}

// Validate ensures the aggregate was built through a constructor.
func (b *Batch) Validate() error {
	if b == nil || !b.isConstructed {
		return ErrBatchIsNotConstructed
	}
	return nil
}

func (b *Batch) ID() int64                       { return b.id }
func (b *Batch) SKU() string                     { return b.sku }
func (b *Batch) LotID() int64                    { return b.lotID }
func (b *Batch) VendorClientID() int64           { return b.vendorClientID }
func (b *Batch) Status() Status                  { return b.status }
func (b *Batch) OnHand() kernel.Quantity         { return b.onHand }
func (b *Batch) Reserved() kernel.Quantity       { return b.reserved }
func (b *Batch) Quarantine() kernel.Quantity     { return b.quarantine }
func (b *Batch) Hold() kernel.Quantity           { return b.hold }
func (b *Batch) Sample() kernel.Quantity         { return b.sample }
func (b *Batch) Defective() kernel.Quantity      { return b.defective }
func (b *Batch) CogsMode() string                { return b.cogsMode }
func (b *Batch) UnitCogs() decimal.Decimal       { return b.unitCogs }
func (b *Batch) UnitCogsMin() decimal.Decimal    { return b.unitCogsMin }
func (b *Batch) UnitCogsMax() decimal.Decimal    { return b.unitCogsMax }
func (b *Batch) IsConsigned() bool               { return b.isConsigned }

// SetID assigns the generated identity after the initial insert.
func (b *Batch) SetID(id int64) {
	b.id = id
}

// Available returns the sellable quantity:
// max(0, onHand − reserved − quarantine − hold). The defensive floor
// keeps a temporarily inconsistent row from reporting negative
// availability to sales surfaces.
func (b *Batch) Available() kernel.Quantity {
	return b.onHand.Sub(b.reserved).Sub(b.quarantine).SubFloored(b.hold)
}

// Total returns the full physical quantity:
// onHand + sample + defective. The on-hand sub-buckets are already
// inside onHand and must not be added again.
func (b *Batch) Total() kernel.Quantity {
	return b.onHand.Add(b.sample).Add(b.defective)
}

// ConsistencyResult reports the outcome of counter validation.
type ConsistencyResult struct {
	Valid  bool
	Errors []string
}

// ValidateConsistency checks the counter invariants: no counter negative
// and the sub-buckets not exceeding onHand. It is used defensively before
// committing a transition, not as a hard gate on every read.
func (b *Batch) ValidateConsistency() ConsistencyResult {
	var problems []string

	counters := []struct {
		name  string
		value kernel.Quantity
	}{
		{"onHandQty", b.onHand},
		{"reservedQty", b.reserved},
		{"quarantineQty", b.quarantine},
		{"holdQty", b.hold},
		{"sampleQty", b.sample},
		{"defectiveQty", b.defective},
	}
	for _, c := range counters {
		if c.value.IsNegative() {
			problems = append(problems, fmt.Sprintf("%s is negative: %s", c.name, c.value))
		}
	}

	subBuckets := b.reserved.Add(b.quarantine).Add(b.hold)
	if b.onHand.LessThan(subBuckets) {
		problems = append(problems, fmt.Sprintf(
			"reserved+quarantine+hold (%s) exceeds onHandQty (%s)", subBuckets, b.onHand))
	}

	return ConsistencyResult{Valid: len(problems) == 0, Errors: problems}
}

// Reserve marks quantity as reserved within the on-hand pool. Called when
// a non-draft order is confirmed; draft orders never reserve.
func (b *Batch) Reserve(qty kernel.Quantity) error {
	if !qty.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("reserve quantity must be positive, got %s", qty))
	}

	b.reserved = b.reserved.Add(qty)
	return nil
}

// ReleaseReservation removes a reservation without touching on-hand
// stock: nothing physical ever left the warehouse. The result is floored
// at zero to tolerate prior inconsistency rather than going negative.
func (b *Batch) ReleaseReservation(qty kernel.Quantity) {
	b.reserved = b.reserved.SubFloored(qty)
}

// Ship removes quantity from physical stock and clears the matching
// reservation. The caller must have verified availability beforehand via
// CanShip; Ship re-checks and fails without mutating anything so a missed
// pre-check cannot drive onHand negative.
func (b *Batch) Ship(qty kernel.Quantity) error {
	if err := b.CanShip(qty); err != nil {
		return err
	}

	b.onHand = b.onHand.Sub(qty)
	b.reserved = b.reserved.SubFloored(qty)
	return nil
}

// CanShip verifies that on-hand stock covers the requested quantity.
func (b *Batch) CanShip(qty kernel.Quantity) error {
	if !qty.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("ship quantity must be positive, got %s", qty))
	}
	if b.onHand.LessThan(qty) {
		return errs.NewInsufficientInventoryError(b.id, qty.String(), b.onHand.String())
	}
	return nil
}

// Restock adds returned quantity back to physical stock. This is a
// correction path for processed returns, not a reservation release.
func (b *Batch) Restock(qty kernel.Quantity) error {
	if !qty.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("restock quantity must be positive, got %s", qty))
	}

	b.onHand = b.onHand.Add(qty)
	return nil
}

// ConsumeSample deducts from the sample pool, which sits outside the
// sellable on-hand quantity.
func (b *Batch) ConsumeSample(qty kernel.Quantity) error {
	if !qty.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("sample quantity must be positive, got %s", qty))
	}
	if b.sample.LessThan(qty) {
		return errs.NewInsufficientInventoryError(b.id, qty.String(), b.sample.String())
	}

	b.sample = b.sample.Sub(qty)
	return nil
}

// ChangeStatus applies a lifecycle transition. Same-status transitions
// are valid no-ops.
func (b *Batch) ChangeStatus(to Status) error {
	if !b.status.CanTransitionTo(to) {
		return errs.NewInvalidTransitionError("batch", string(b.status), string(to),
			b.status.TransitionError(to))
	}

	b.status = to
	return nil
}

// IsEqual compares two batches by identity.
func (b *Batch) IsEqual(other *Batch) bool {
	return other != nil && b.id == other.id
}
