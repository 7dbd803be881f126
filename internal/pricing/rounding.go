// Package pricing holds the price calculators used by the admin service: the retail
// rounding rule, the waste (near-expiry markdown) engine and the competitor index engine.
//
// Everything in this package is a pure function of its arguments. Money is handled with
// decimal arithmetic internally and exposed as float64 with at most two decimals.
package pricing

import (
	"github.com/shopspring/decimal"
)

var (
	one        = decimal.NewFromInt(1)
	hundred    = decimal.NewFromInt(100)
	half       = decimal.RequireFromString("0.5")
	ninetyNine = decimal.RequireFromString("0.99")
)

// NormalizePrice converts a price into a retail price ending in .00, .50 or .99.
//
// Whole prices are returned unchanged, a fraction below .50 becomes .50 and a fraction of
// .50 or more becomes .99 (so 10.50 maps to 10.99, not 10.50).
func NormalizePrice(price float64) (float64, error) {
	if err := checkAmount("price", price, false); err != nil {
		return 0, err
	}
	return normalize(decimal.NewFromFloat(price)).InexactFloat64(), nil
}

func normalize(price decimal.Decimal) decimal.Decimal {
	whole := price.Floor()
	frac := price.Sub(whole)

	switch {
	case frac.IsZero():
		return price
	case frac.LessThan(half):
		return whole.Add(half)
	default:
		return whole.Add(ninetyNine)
	}
}

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
