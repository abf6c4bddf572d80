package report

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// GBP formats a decimal pound amount with the currency symbol and
// thousands separators.
func GBP(d decimal.Decimal) string {
	return money.New(d.Shift(2).Round(0).IntPart(), money.GBP).Display()
}

// Paren formats expense-style amounts: positive values in parentheses, the
// accounting convention for deductions.
func Paren(d decimal.Decimal) string {
	if d.IsZero() {
		return GBP(d)
	}
	return "(" + GBP(d.Abs()) + ")"
}
