// Package money formats peso amounts for display and log output.
// Amounts are stored as arbitrary-precision decimals; this package only
// renders them.
package money

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// CurrencyCode is the only currency the tracker handles.
const CurrencyCode = gomoney.PHP

var centsPerUnit = decimal.NewFromInt(100)

// ToCents converts a decimal amount to minor units, rounding half up to
// the nearest centavo.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(centsPerUnit).Round(0).IntPart()
}

// FromCents converts minor units back to a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(centsPerUnit)
}

// Display renders an amount as a localized peso string, e.g. "₱1,234.50".
func Display(amount decimal.Decimal) string {
	return gomoney.New(ToCents(amount), CurrencyCode).Display()
}
