package hmrc

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Converter turns foreign amounts into sterling using the monthly rate in
// force on the transaction date.
type Converter struct {
	source Source
}

// NewConverter returns a converter over the given rate source.
func NewConverter(source Source) *Converter {
	return &Converter{source: source}
}

// Rate returns the currency-units-per-pound rate for the month of on.
// Sterling is always 1.
func (c *Converter) Rate(ctx context.Context, currency string, on time.Time) (decimal.Decimal, error) {
	if currency == "GBP" || currency == "" {
		return one, nil
	}
	rate, err := c.source.Rate(ctx, currency, on.Year(), on.Month())
	if err != nil {
		return decimal.Zero, err
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("non-positive %s rate for %s", currency, on.Format("2006-01"))
	}
	return rate, nil
}

// ToGBP converts amount to sterling, rounded to pence. The sign of the
// amount is preserved.
func (c *Converter) ToGBP(ctx context.Context, amount decimal.Decimal, currency string, on time.Time) (decimal.Decimal, error) {
	rate, err := c.Rate(ctx, currency, on)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Div(rate).Round(2), nil
}
