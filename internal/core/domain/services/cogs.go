package services

import (
	"time"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// AdjustmentType describes how a client-specific cost adjustment is applied.
type AdjustmentType string

const (
	AdjustmentNone        AdjustmentType = "NONE"
	AdjustmentPercentage  AdjustmentType = "PERCENTAGE"
	AdjustmentFixedAmount AdjustmentType = "FIXED_AMOUNT"
)

// ClientAdjustment is a per-client cost concession negotiated with sales.
// PERCENTAGE reduces the base cost by Value percent; FIXED_AMOUNT subtracts
// Value outright.
type ClientAdjustment struct {
	Type  AdjustmentType
	Value decimal.Decimal
}

// CogsResult is the derived cost and margin for one line item.
type CogsResult struct {
	UnitCogs      decimal.Decimal
	Source        order.CogsSource
	UnitMargin    decimal.Decimal
	MarginPercent decimal.Decimal
}

// MarginCategory buckets a margin percentage for sales reporting.
type MarginCategory string

const (
	MarginExcellent MarginCategory = "excellent"
	MarginGood      MarginCategory = "good"
	MarginFair      MarginCategory = "fair"
	MarginLow       MarginCategory = "low"
	MarginNegative  MarginCategory = "negative"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// CogsCalculator derives unit cost, source, and margin figures for line
// items. It is a pure calculation with no persistence concerns.
type CogsCalculator struct{}

// NewCogsCalculator creates a new CogsCalculator instance.
func NewCogsCalculator() CogsCalculator {
	return CogsCalculator{}
}

// Calculate resolves the unit cost for a sale against the given batch cost
// configuration.
//
// Cost resolution:
//   - FIXED mode uses the batch's stored unit cost.
//   - RANGE mode uses the midpoint of [min, max].
//   - A client adjustment, when present, reduces the base cost and retags
//     the source as CLIENT_ADJUSTMENT. In RANGE mode the adjusted cost is
//     clamped so it never falls below the range minimum.
func (c CogsCalculator) Calculate(cost batch.CostData, adjustment ClientAdjustment, salePrice decimal.Decimal) CogsResult {
	unitCogs, source := c.baseCost(cost)

	if adjustment.Type == AdjustmentPercentage || adjustment.Type == AdjustmentFixedAmount {
		adjusted := c.applyAdjustment(unitCogs, adjustment)
		if order.CogsMode(cost.CogsMode) == order.CogsModeRange && adjusted.LessThan(cost.UnitCogsMin) {
			adjusted = cost.UnitCogsMin
		}
		unitCogs = adjusted
		source = order.CogsSourceClientAdjustment
	}

	unitMargin := salePrice.Sub(unitCogs)
	marginPercent := decimal.Zero
	if !salePrice.IsZero() {
		marginPercent = unitMargin.Div(salePrice).Mul(hundred)
	}

	return CogsResult{
		UnitCogs:      unitCogs,
		Source:        source,
		UnitMargin:    unitMargin,
		MarginPercent: marginPercent,
	}
}

func (c CogsCalculator) baseCost(cost batch.CostData) (decimal.Decimal, order.CogsSource) {
	if order.CogsMode(cost.CogsMode) == order.CogsModeRange {
		return cost.UnitCogsMin.Add(cost.UnitCogsMax).Div(two), order.CogsSourceMidpoint
	}
	return cost.UnitCogs, order.CogsSourceFixed
}

func (c CogsCalculator) applyAdjustment(base decimal.Decimal, adj ClientAdjustment) decimal.Decimal {
	switch adj.Type {
	case AdjustmentPercentage:
		factor := decimal.NewFromInt(1).Sub(adj.Value.Div(hundred))
		return base.Mul(factor)
	case AdjustmentFixedAmount:
		return base.Sub(adj.Value)
	default:
		return base
	}
}

// GetMarginCategory buckets a margin percentage. Band lower bounds are
// inclusive: 70 is excellent, 50 is good, 30 is fair, 15 is low.
func GetMarginCategory(marginPercent decimal.Decimal) MarginCategory {
	switch {
	case marginPercent.GreaterThanOrEqual(decimal.NewFromInt(70)):
		return MarginExcellent
	case marginPercent.GreaterThanOrEqual(decimal.NewFromInt(50)):
		return MarginGood
	case marginPercent.GreaterThanOrEqual(decimal.NewFromInt(30)):
		return MarginFair
	case marginPercent.GreaterThanOrEqual(decimal.NewFromInt(15)):
		return MarginLow
	default:
		return MarginNegative
	}
}

// CalculateDueDate resolves a payment due date from the terms. COD is due
// immediately; NET_N terms add N days; PARTIAL and anything unrecognized
// default to 30 days.
func CalculateDueDate(terms order.PaymentTerms, from time.Time) time.Time {
	switch terms {
	case order.TermsCOD:
		return from
	case order.TermsNet7:
		return from.AddDate(0, 0, 7)
	case order.TermsNet15:
		return from.AddDate(0, 0, 15)
	case order.TermsNet30:
		return from.AddDate(0, 0, 30)
	default:
		return from.AddDate(0, 0, 30)
	}
}
