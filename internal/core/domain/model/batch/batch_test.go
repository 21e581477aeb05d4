package batch_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qty(v int64) kernel.Quantity {
	return kernel.QuantityFromInt(v)
}

func liveBatch(t *testing.T, counters batch.Counters) *batch.Batch {
	t.Helper()
	b, err := batch.RestoreBatch(1, "SKU-BD-1OZ", 4, 21, batch.StatusLive, counters,
		batch.CostData{CogsMode: "FIXED", UnitCogs: decimal.NewFromInt(10)}, false)
	require.NoError(t, err)
	return b
}

func TestNewBatch(t *testing.T) {
	t.Run("should start awaiting intake", func(t *testing.T) {
		b, err := batch.NewBatch("SKU-BD-1OZ", 4, 21, batch.Counters{OnHand: "100"},
			batch.CostData{}, false)

		require.NoError(t, err)
		require.NoError(t, b.Validate())
		assert.Equal(t, batch.StatusAwaitingIntake, b.Status())
		assert.Equal(t, "100", b.OnHand().String())
	})

	t.Run("should fail without SKU", func(t *testing.T) {
		_, err := batch.NewBatch("", 4, 21, batch.Counters{}, batch.CostData{}, false)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should zero unparseable counters", func(t *testing.T) {
		b, err := batch.NewBatch("SKU-BD-1OZ", 4, 21,
			batch.Counters{OnHand: "not-a-number", Reserved: ""}, batch.CostData{}, false)

		require.NoError(t, err)
		assert.True(t, b.OnHand().IsZero())
		assert.True(t, b.Reserved().IsZero())
	})
}

func TestBatchAvailable(t *testing.T) {
	t.Run("should subtract sub-buckets from on-hand", func(t *testing.T) {
		b := liveBatch(t, batch.Counters{
			OnHand: "100", Reserved: "20", Quarantine: "5", Hold: "5",
		})

		assert.Equal(t, "70", b.Available().String())
	})

	t.Run("should not count sample and defective pools", func(t *testing.T) {
		b := liveBatch(t, batch.Counters{
			OnHand: "100", Sample: "10", Defective: "3",
		})

		assert.Equal(t, "100", b.Available().String())
	})

	t.Run("should floor at zero when sub-buckets exceed on-hand", func(t *testing.T) {
		b := liveBatch(t, batch.Counters{OnHand: "10", Reserved: "15"})

		assert.True(t, b.Available().IsZero())
	})
}

func TestBatchTotal(t *testing.T) {
	t.Run("should add sample and defective to on-hand", func(t *testing.T) {
		b := liveBatch(t, batch.Counters{
			OnHand: "100", Reserved: "20", Sample: "10", Defective: "3",
		})

		// reserved lives inside onHand and must not be added again
		assert.Equal(t, "113", b.Total().String())
	})
}

func TestBatchValidateConsistency(t *testing.T) {
	t.Run("should pass for a coherent counter set", func(t *testing.T) {
		b := liveBatch(t, batch.Counters{OnHand: "100", Reserved: "20"})

		result := b.ValidateConsistency()

		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
	})

	t.Run("should flag negative counters", func(t *testing.T) {
		b := liveBatch(t, batch.Counters{OnHand: "100", Reserved: "-5"})

		result := b.ValidateConsistency()

		require.False(t, result.Valid)
		assert.Contains(t, result.Errors[0], "reservedQty is negative")
	})

	t.Run("should flag sub-buckets exceeding on-hand", func(t *testing.T) {
		b := liveBatch(t, batch.Counters{OnHand: "10", Reserved: "8", Hold: "5"})

		result := b.ValidateConsistency()

		require.False(t, result.Valid)
		assert.Contains(t, result.Errors[0], "exceeds onHandQty")
	})
}

func TestBatchReserve(t *testing.T) {
	t.Run("should grow the reserved bucket", func(t *testing.T) {
		b := liveBatch(t, batch.Counters{OnHand: "100"})

		require.NoError(t, b.Reserve(qty(30)))

		assert.Equal(t, "30", b.Reserved().String())
		assert.Equal(t, "100", b.OnHand().String())
		assert.Equal(t, "70", b.Available().String())
	})

	t.Run("should reject non-positive quantity", func(t *testing.T) {
		b := liveBatch(t, batch.Counters{OnHand: "100"})

		err := b.Reserve(qty(0))

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestBatchReleaseReservation(t *testing.T) {
	t.Run("should shrink the reserved bucket without touching on-hand", func(t *testing.T) {
		b := liveBatch(t, batch.Counters{OnHand: "100", Reserved: "30"})

		b.ReleaseReservation(qty(10))

		assert.Equal(t, "20", b.Reserved().String())
		assert.Equal(t, "100", b.OnHand().String())
	})

	t.Run("should floor at zero on over-release", func(t *testing.T) {
		b := liveBatch(t, batch.Counters{OnHand: "100", Reserved: "5"})

		b.ReleaseReservation(qty(10))

		assert.True(t, b.Reserved().IsZero())
	})
}

func TestBatchShip(t *testing.T) {
	t.Run("should deduct on-hand and clear the reservation", func(t *testing.T) {
		b := liveBatch(t, batch.Counters{OnHand: "100", Reserved: "10"})

		require.NoError(t, b.Ship(qty(10)))

		assert.Equal(t, "90", b.OnHand().String())
		assert.True(t, b.Reserved().IsZero())
	})

	t.Run("should fail without mutating when stock is short", func(t *testing.T) {
		b := liveBatch(t, batch.Counters{OnHand: "5", Reserved: "5"})

		err := b.Ship(qty(10))

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInsufficientInventory)
		assert.Equal(t, "5", b.OnHand().String())
		assert.Equal(t, "5", b.Reserved().String())
	})

	t.Run("should floor reservation when shipping more than reserved", func(t *testing.T) {
		b := liveBatch(t, batch.Counters{OnHand: "100", Reserved: "5"})

		require.NoError(t, b.Ship(qty(10)))

		assert.Equal(t, "90", b.OnHand().String())
		assert.True(t, b.Reserved().IsZero())
	})
}

func TestBatchRestock(t *testing.T) {
	t.Run("should add returned quantity to on-hand", func(t *testing.T) {
		b := liveBatch(t, batch.Counters{OnHand: "90"})

		require.NoError(t, b.Restock(qty(10)))

		assert.Equal(t, "100", b.OnHand().String())
	})

	t.Run("should reject non-positive quantity", func(t *testing.T) {
		b := liveBatch(t, batch.Counters{OnHand: "90"})

		err := b.Restock(qty(-1))

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestBatchConsumeSample(t *testing.T) {
	t.Run("should deduct from the sample pool only", func(t *testing.T) {
		b := liveBatch(t, batch.Counters{OnHand: "100", Sample: "5"})

		require.NoError(t, b.ConsumeSample(qty(2)))

		assert.Equal(t, "3", b.Sample().String())
		assert.Equal(t, "100", b.OnHand().String())
	})

	t.Run("should fail when the sample pool is short", func(t *testing.T) {
		b := liveBatch(t, batch.Counters{OnHand: "100", Sample: "1"})

		err := b.ConsumeSample(qty(2))

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInsufficientInventory)
		assert.Equal(t, "1", b.Sample().String())
	})
}

func TestBatchChangeStatus(t *testing.T) {
	t.Run("should follow the lifecycle machine", func(t *testing.T) {
		b, err := batch.NewBatch("SKU-BD-1OZ", 4, 21, batch.Counters{}, batch.CostData{}, false)
		require.NoError(t, err)

		require.NoError(t, b.ChangeStatus(batch.StatusLive))
		require.NoError(t, b.ChangeStatus(batch.StatusSoldOut))
		require.NoError(t, b.ChangeStatus(batch.StatusClosed))
	})

	t.Run("should reject invalid lifecycle moves", func(t *testing.T) {
		b := liveBatch(t, batch.Counters{})

		err := b.ChangeStatus(batch.StatusClosed)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, batch.StatusLive, b.Status())
	})

	t.Run("should allow same-status resubmission", func(t *testing.T) {
		b := liveBatch(t, batch.Counters{})

		assert.NoError(t, b.ChangeStatus(batch.StatusLive))
	})
}
