// Package money provides fixed-point rounding helpers for rupee amounts.
// All monetary values in this project are shopspring decimals with two
// fractional digits; binary floats are never used for money.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Round2 rounds an amount to two decimal places using half-up rounding,
// the currency convention. Banker's rounding is not used.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent computes amount*rate/100 rounded to two decimal places.
// A negative rate counts as zero; rates come from operator-entered
// records where an absent value may surface as a negative sentinel.
func Percent(amount, rate decimal.Decimal) decimal.Decimal {
	if rate.IsNegative() {
		return decimal.Zero
	}
	return amount.Mul(rate).Div(hundred).Round(2)
}

// RoundToNearest rounds an amount to the nearest multiple of increment,
// e.g. an increment of 5 turns 1013.40 into 1015.00. A zero or negative
// increment leaves the amount unchanged.
func RoundToNearest(amount, increment decimal.Decimal) decimal.Decimal {
	if increment.LessThanOrEqual(decimal.Zero) {
		return amount
	}
	return amount.Div(increment).Round(0).Mul(increment)
}

// Sum adds amounts without intermediate rounding.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
