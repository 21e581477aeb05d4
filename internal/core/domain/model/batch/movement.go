package batch

import "fulfillment/internal/core/domain/model/kernel"

// MovementType classifies one row of the inventory movement ledger.
type MovementType string

const (
	MovementReserve       MovementType = "RESERVE"
	MovementRelease       MovementType = "RELEASE"
	MovementShip          MovementType = "SHIP"
	MovementRestock       MovementType = "RESTOCK"
	MovementSampleConsume MovementType = "SAMPLE_CONSUME"
)

// Movement records one physical or reservation quantity change for the
// audit ledger. The reservation engine fills Type, BatchID, and Quantity;
// the orchestrator attributes the movement to an order and an actor
// before it is appended.
type Movement struct {
	Type     MovementType
	BatchID  int64
	OrderID  int64
	Quantity kernel.Quantity
	ActorID  int64
	Notes    string
}
