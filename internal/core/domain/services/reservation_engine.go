package services

import (
	"fmt"
	"slices"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// ReservationEngine applies the batch counter deltas a fulfillment
// transition requires. It works against aggregates the caller has already
// loaded under row locks within the enclosing transaction; the engine
// mutates them in memory and returns the movements to record, leaving the
// writes to the caller.
//
// Transition mapping:
//   - confirmation of a non-draft order: Reserve (plus ConsumeSamples)
//   - PACKED to SHIPPED: Ship, all-or-nothing
//   - PENDING/PACKED to CANCELLED: Release
//   - processed return: Restock
type ReservationEngine struct{}

// NewReservationEngine creates a new ReservationEngine instance.
func NewReservationEngine() ReservationEngine {
	return ReservationEngine{}
}

// Reserve increments each non-sample line item's reservation within its
// batch. Called once when a non-draft order is confirmed; draft orders
// never reserve.
func (e ReservationEngine) Reserve(batches map[int64]*batch.Batch, items []order.LineItem) ([]batch.Movement, error) {
	movements := make([]batch.Movement, 0, len(items))
	for _, item := range items {
		if item.IsSample {
			continue
		}

		b, err := e.batchFor(batches, item)
		if err != nil {
			return nil, err
		}
		qty := kernel.NewQuantityFromDecimal(item.Quantity)
		if err = b.Reserve(qty); err != nil {
			return nil, err
		}

		movements = append(movements, batch.Movement{
			Type:     batch.MovementReserve,
			BatchID:  b.ID(),
			Quantity: qty,
		})
	}
	return movements, nil
}

// Ship deducts each non-sample line item from physical stock and clears
// the matching reservation. The whole call is all-or-nothing: every item
// is checked against on-hand stock before any counter moves, so an
// under-stocked item leaves all batches untouched.
func (e ReservationEngine) Ship(batches map[int64]*batch.Batch, items []order.LineItem) ([]batch.Movement, error) {
	for _, item := range items {
		if item.IsSample {
			continue
		}

		b, err := e.batchFor(batches, item)
		if err != nil {
			return nil, err
		}
		if err = b.CanShip(kernel.NewQuantityFromDecimal(item.Quantity)); err != nil {
			return nil, err
		}
	}

	movements := make([]batch.Movement, 0, len(items))
	for _, item := range items {
		if item.IsSample {
			continue
		}

		b := batches[item.BatchID]
		qty := kernel.NewQuantityFromDecimal(item.Quantity)
		if err := b.Ship(qty); err != nil {
			return nil, err
		}

		movements = append(movements, batch.Movement{
			Type:     batch.MovementShip,
			BatchID:  b.ID(),
			Quantity: qty,
		})
	}
	return movements, nil
}

// Release removes each non-sample line item's reservation without
// touching on-hand stock. Reservations are floored at zero so a prior
// inconsistency cannot drive the counter negative.
func (e ReservationEngine) Release(batches map[int64]*batch.Batch, items []order.LineItem) ([]batch.Movement, error) {
	movements := make([]batch.Movement, 0, len(items))
	for _, item := range items {
		if item.IsSample {
			continue
		}

		b, err := e.batchFor(batches, item)
		if err != nil {
			return nil, err
		}
		qty := kernel.NewQuantityFromDecimal(item.Quantity)
		b.ReleaseReservation(qty)

		movements = append(movements, batch.Movement{
			Type:     batch.MovementRelease,
			BatchID:  b.ID(),
			Quantity: qty,
		})
	}
	return movements, nil
}

// Restock returns quantity to physical stock for each non-sample line
// item. This is the correction path for processed returns, not a
// reservation release.
func (e ReservationEngine) Restock(batches map[int64]*batch.Batch, items []order.LineItem) ([]batch.Movement, error) {
	movements := make([]batch.Movement, 0, len(items))
	for _, item := range items {
		if item.IsSample {
			continue
		}

		b, err := e.batchFor(batches, item)
		if err != nil {
			return nil, err
		}
		qty := kernel.NewQuantityFromDecimal(item.Quantity)
		if err = b.Restock(qty); err != nil {
			return nil, err
		}

		movements = append(movements, batch.Movement{
			Type:     batch.MovementRestock,
			BatchID:  b.ID(),
			Quantity: qty,
			Notes:    fmt.Sprintf("restocked %s of %s", qty, item.DisplayName),
		})
	}
	return movements, nil
}

// ConsumeSamples deducts sample line items from their batches' sample
// pools. Sample items carry a batch id like any other line but draw from
// the sample counter rather than sellable stock.
func (e ReservationEngine) ConsumeSamples(batches map[int64]*batch.Batch, items []order.LineItem) ([]batch.Movement, error) {
	movements := make([]batch.Movement, 0)
	for _, item := range items {
		if !item.IsSample || item.BatchID <= 0 {
			continue
		}

		b, err := e.batchFor(batches, item)
		if err != nil {
			return nil, err
		}
		qty := kernel.NewQuantityFromDecimal(item.Quantity)
		if err = b.ConsumeSample(qty); err != nil {
			return nil, err
		}

		movements = append(movements, batch.Movement{
			Type:     batch.MovementSampleConsume,
			BatchID:  b.ID(),
			Quantity: qty,
		})
	}
	return movements, nil
}

// BatchIDs returns the distinct batch ids the given items reference, in
// ascending order. Callers lock batch rows in this order so concurrent
// transitions over overlapping batches acquire locks consistently.
func (e ReservationEngine) BatchIDs(items []order.LineItem) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if item.BatchID <= 0 {
			continue
		}
		if _, ok := seen[item.BatchID]; ok {
			continue
		}
		seen[item.BatchID] = struct{}{}
		ids = append(ids, item.BatchID)
	}
	slices.Sort(ids)
	return ids
}

func (e ReservationEngine) batchFor(batches map[int64]*batch.Batch, item order.LineItem) (*batch.Batch, error) {
	b, ok := batches[item.BatchID]
	if !ok || b == nil {
		return nil, errs.NewObjectNotFoundError("batchID", item.BatchID)
	}
	return b, nil
}
