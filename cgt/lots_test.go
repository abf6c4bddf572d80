package cgt

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func day(n int) time.Time {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestLedgerFIFOOrder(t *testing.T) {
	l := NewLedger()
	assert.NoError(t, l.Acquire(day(0), "AAPL", dec(10), dec(1000)))
	assert.NoError(t, l.Acquire(day(1), "AAPL", dec(10), dec(2000)))

	// 15 units: the whole first lot plus half of the second.
	cost, shortfall, err := l.Dispose("AAPL", dec(15))
	assert.NoError(t, err)
	assert.True(t, shortfall.IsZero())
	assert.Equal(t, "2000", cost.String())

	// Residual lot keeps the un-consumed half of the second lot's cost.
	lots := l.Lots("AAPL")
	assert.Equal(t, 1, len(lots))
	assert.Equal(t, "5", lots[0].Quantity.String())
	assert.Equal(t, "1000", lots[0].Cost.String())
}

func TestLedgerPartialLotProRata(t *testing.T) {
	l := NewLedger()
	// 3 units for 100: a unit cost that does not divide evenly.
	assert.NoError(t, l.Acquire(day(0), "XYZ", dec(3), dec(100)))

	cost, _, err := l.Dispose("XYZ", dec(1))
	assert.NoError(t, err)
	assert.Equal(t, "33.33", cost.String())

	// Cost conservation: consumed + residual equals the original lot cost.
	lots := l.Lots("XYZ")
	assert.Equal(t, "66.67", lots[0].Cost.String())
	assert.Equal(t, "100", cost.Add(lots[0].Cost).String())
}

func TestLedgerShortfall(t *testing.T) {
	l := NewLedger()
	assert.NoError(t, l.Acquire(day(0), "ABC", dec(10), dec(500)))

	cost, shortfall, err := l.Dispose("ABC", dec(25))
	assert.NoError(t, err)
	assert.Equal(t, "500", cost.String())
	assert.Equal(t, "15", shortfall.String())
	assert.True(t, l.Held("ABC").IsZero())
}

func TestLedgerRejectsNonPositiveQuantity(t *testing.T) {
	l := NewLedger()
	assert.Error(t, l.Acquire(day(0), "ABC", dec(0), dec(100)))
	assert.Error(t, l.Acquire(day(0), "ABC", dec(-5), dec(100)))
	_, _, err := l.Dispose("ABC", dec(-1))
	assert.Error(t, err)
}

func TestLedgerHoldings(t *testing.T) {
	l := NewLedger()
	assert.NoError(t, l.Acquire(day(0), "MSFT", dec(10), dec(3000)))
	assert.NoError(t, l.Acquire(day(1), "AAPL", dec(4), dec(600)))

	holdings := l.Holdings()
	assert.Equal(t, 2, len(holdings))
	assert.Equal(t, "AAPL", holdings[0].Symbol)
	assert.Equal(t, "150", holdings[0].AvgCost().String())
	assert.Equal(t, "MSFT", holdings[1].Symbol)
	assert.Equal(t, "300", holdings[1].AvgCost().String())
}

func TestLedgerConservation(t *testing.T) {
	l := NewLedger()
	assert.NoError(t, l.Acquire(day(0), "VOD", dec(100), dec(15000)))
	assert.NoError(t, l.Acquire(day(5), "VOD", dec(50), dec(8000)))

	cost, shortfall, err := l.Dispose("VOD", dec(75))
	assert.NoError(t, err)
	assert.True(t, shortfall.IsZero())

	// Acquired minus disposed equals held; cost in equals cost out plus
	// cost remaining.
	assert.Equal(t, "75", l.Held("VOD").String())
	remaining := decimal.Zero
	for _, lot := range l.Lots("VOD") {
		remaining = remaining.Add(lot.Cost)
	}
	assert.Equal(t, "23000", cost.Add(remaining).String())
}
