package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Quantity is an immutable decimal value object used for inventory
// counters and monetary amounts. The upstream schema stores these values
// as decimal strings, so Quantity offers both a strict constructor for
// caller input and a lenient parser for stored data.
//
// The zero value is a valid zero quantity; unlike UUID, Quantity does not
// require construction through a factory function.
//
// Example:
//
//	onHand := kernel.ParseQuantity("100.5")
//	reserved := kernel.QuantityFromInt(10)
//	available := onHand.Sub(reserved)
type Quantity struct {
	value decimal.Decimal
}

// ZeroQuantity returns a zero quantity.
func ZeroQuantity() Quantity {
	return Quantity{value: decimal.Zero}
}

// NewQuantityFromDecimal wraps a decimal.Decimal in a Quantity.
func NewQuantityFromDecimal(d decimal.Decimal) Quantity {
	return Quantity{value: d}
}

// QuantityFromInt creates a Quantity from an integer count.
func QuantityFromInt(n int64) Quantity {
	return Quantity{value: decimal.NewFromInt(n)}
}

// NewQuantityFromString parses a decimal string strictly.
// Use this for caller-supplied input where a malformed value is an error.
//
// Returns a ValueIsInvalidError if the string is not a valid decimal.
func NewQuantityFromString(s string) (Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, errs.NewValueIsInvalidErrorWithCause(
			"quantity",
			fmt.Errorf("%q is not a valid decimal: %w", s, err),
		)
	}
	return Quantity{value: d}, nil
}

// ParseQuantity parses a stored decimal string leniently: empty or
// non-numeric values become zero. Stored counters must never surface as
// an undefined value to arithmetic downstream, so corruption degrades to
// zero here and is reported separately by consistency validation.
func ParseQuantity(s string) Quantity {
	if s == "" {
		return ZeroQuantity()
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ZeroQuantity()
	}
	return Quantity{value: d}
}

// Add returns q + other.
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value.Add(other.value)}
}

// Sub returns q - other.
func (q Quantity) Sub(other Quantity) Quantity {
	return Quantity{value: q.value.Sub(other.value)}
}

// SubFloored returns max(0, q - other). Release paths use this so a
// counter never goes negative even when prior data was inconsistent.
func (q Quantity) SubFloored(other Quantity) Quantity {
	result := q.value.Sub(other.value)
	if result.IsNegative() {
		return ZeroQuantity()
	}
	return Quantity{value: result}
}

// Mul returns q * other.
func (q Quantity) Mul(other Quantity) Quantity {
	return Quantity{value: q.value.Mul(other.value)}
}

// LessThan reports whether q < other.
func (q Quantity) LessThan(other Quantity) bool {
	return q.value.LessThan(other.value)
}

// IsNegative reports whether q < 0.
func (q Quantity) IsNegative() bool {
	return q.value.IsNegative()
}

// IsZero reports whether q == 0.
func (q Quantity) IsZero() bool {
	return q.value.IsZero()
}

// IsPositive reports whether q > 0.
func (q Quantity) IsPositive() bool {
	return q.value.IsPositive()
}

// IsEqual reports whether two quantities represent the same value.
func (q Quantity) IsEqual(other Quantity) bool {
	return q.value.Equal(other.value)
}

// Decimal returns the underlying decimal value.
func (q Quantity) Decimal() decimal.Decimal {
	return q.value
}

// String returns the decimal string representation.
func (q Quantity) String() string {
	return q.value.String()
}
