package payments

import (
	"github.com/shopspring/decimal"
	"math"
)

var (
	hundred   = decimal.NewFromInt(100)
	maxAmount = decimal.NewFromInt(math.MaxInt64)
)

// Normalize derives the charge amount in minor currency units.
// A raw amount (already in öre) always wins over a decimal price.
func Normalize(amount, price Numeric) (int64, error) {
	var minor decimal.Decimal
	switch {
	case amount.usable():
		minor = amount.value.Truncate(0)
	case price.usable():
		minor = price.value.Mul(hundred).Round(0)
	default:
		return 0, ErrInvalidAmount
	}

	if !minor.IsPositive() || minor.GreaterThan(maxAmount) {
		return 0, ErrInvalidAmount
	}
	return minor.IntPart(), nil
}
