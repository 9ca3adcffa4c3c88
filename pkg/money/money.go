// Package money holds the decimal helpers shared by every pricing component.
package money

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Sale records are aggregated downstream as numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Places is the number of decimal places used for currency values.
const Places = 2

var (
	Zero    = decimal.Zero
	Hundred = decimal.NewFromInt(100)
)

// Round2 rounds to currency precision, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// NonNegative clamps negative amounts to zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return Zero
	}
	return d
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// LineTotal computes unitPrice × quantity rounded to currency precision.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return Round2(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}

// Percent returns pct percent of amount, unrounded.
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(Hundred)
}

// AtLeast compares two currency values at two decimal places.
func AtLeast(tendered, due decimal.Decimal) bool {
	return Round2(tendered).GreaterThanOrEqual(Round2(due))
}

// Sum adds the provided amounts.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
