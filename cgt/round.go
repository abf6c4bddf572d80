package cgt

import (
	"time"

	"github.com/shopspring/decimal"
)

// Monetary quanta. Totals (costs, proceeds, gains) carry two decimal places,
// per-unit costs four. Rounding is half away from zero, applied at each match
// rather than on accumulated figures.
const (
	totalPlaces = 2
	unitPlaces  = 4
)

// matchWindow is the bed-and-breakfast window: acquisitions up to 30 days
// after a disposal are matched against it before the pool.
const matchWindow = 30 * 24 * time.Hour

func roundTotal(d decimal.Decimal) decimal.Decimal { return d.Round(totalPlaces) }
func roundUnit(d decimal.Decimal) decimal.Decimal  { return d.Round(unitPlaces) }

// minOf returns the smaller of two decimals.
func minOf(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
