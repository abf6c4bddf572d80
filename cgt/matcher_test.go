package cgt

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestMatcherSameDayPriority(t *testing.T) {
	m := NewMatcher()
	// Disposal arrives first; the same-day acquisition identifies it.
	assert.NoError(t, m.Dispose(day(10), "XYZ", dec(100), dec(11000)))
	assert.NoError(t, m.Acquire(day(10), "XYZ", dec(100), dec(9000)))
	m.Flush()

	disposals := m.Disposals()
	assert.Equal(t, 1, len(disposals))
	assert.Equal(t, SameDay, disposals[0].Rule)
	assert.Equal(t, "9000", disposals[0].Cost.String())
	assert.Equal(t, "2000", disposals[0].GainLoss.String())

	// Nothing reaches the pool.
	assert.Equal(t, 0, len(m.Pool().Summary()))
}

func TestMatcherThirtyDayWindow(t *testing.T) {
	m := NewMatcher()
	assert.NoError(t, m.Dispose(day(0), "ABC", dec(50), dec(6000)))
	assert.NoError(t, m.Acquire(day(15), "ABC", dec(50), dec(4000)))
	m.Flush()

	disposals := m.Disposals()
	assert.Equal(t, 1, len(disposals))
	assert.Equal(t, ThirtyDay, disposals[0].Rule)
	assert.Equal(t, "4000", disposals[0].Cost.String())
	assert.Equal(t, "6000", disposals[0].Proceeds.String())
	assert.Equal(t, "2000", disposals[0].GainLoss.String())
	assert.Equal(t, 0, len(m.Pool().Summary()))
}

func TestMatcherWindowClosesAfterThirtyDays(t *testing.T) {
	m := NewMatcher()
	assert.NoError(t, m.Dispose(day(0), "ABC", dec(50), dec(6000)))
	// Day 31 is outside the window: the acquisition must not match and the
	// disposal is flushed from the (empty) pool instead.
	assert.NoError(t, m.Acquire(day(31), "ABC", dec(50), dec(4000)))
	m.Flush()

	disposals := m.Disposals()
	assert.Equal(t, 1, len(disposals))
	assert.Equal(t, Section104, disposals[0].Rule)

	// The acquisition independently credits the pool.
	qty, cost := m.Pool().Position("ABC")
	assert.Equal(t, "50", qty.String())
	assert.Equal(t, "4000", cost.String())
}

func TestMatcherPoolScenario(t *testing.T) {
	// Acquire 100 for 15000, acquire 50 for 8000, dispose 75 for 13500
	// with no timing match: average cost applies.
	m := NewMatcher()
	assert.NoError(t, m.Acquire(day(0), "AAPL", dec(100), dec(15000)))
	assert.NoError(t, m.Acquire(day(14), "AAPL", dec(50), dec(8000)))
	assert.NoError(t, m.Dispose(day(30), "AAPL", dec(75), dec(13500)))
	m.Flush()

	disposals := m.Disposals()
	assert.Equal(t, 1, len(disposals))
	assert.Equal(t, Section104, disposals[0].Rule)
	assert.Equal(t, "11500", disposals[0].Cost.String())
	assert.Equal(t, "13500", disposals[0].Proceeds.String())
	assert.Equal(t, "2000", disposals[0].GainLoss.String())
	assert.Equal(t, "2000", m.NetGain().String())

	summary := m.Pool().Summary()
	assert.Equal(t, 1, len(summary))
	assert.Equal(t, "75", summary[0].Quantity.String())
	assert.Equal(t, "11500", summary[0].Cost.String())
}

func TestMatcherPartialMatchesProRateFromOriginal(t *testing.T) {
	// One disposal of 90 identified by three acquisitions of 30. Proceeds
	// are pro-rated from the original 90 each time, so the three slices
	// recompose the total without drift.
	m := NewMatcher()
	assert.NoError(t, m.Dispose(day(0), "VOD", dec(90), decimal.NewFromFloat(10000.01)))
	assert.NoError(t, m.Acquire(day(0), "VOD", dec(30), dec(3000)))
	assert.NoError(t, m.Acquire(day(10), "VOD", dec(30), dec(3100)))
	assert.NoError(t, m.Acquire(day(20), "VOD", dec(30), dec(3200)))
	m.Flush()

	disposals := m.Disposals()
	assert.Equal(t, 3, len(disposals))
	assert.Equal(t, SameDay, disposals[0].Rule)
	assert.Equal(t, ThirtyDay, disposals[1].Rule)
	assert.Equal(t, ThirtyDay, disposals[2].Rule)

	total := decimal.Zero
	for _, d := range disposals {
		total = total.Add(d.Proceeds)
	}
	// 3333.34 + 3333.34 + 3333.34 != 10000.01 exactly, but each slice is
	// within half a quantum of its exact pro-rata share.
	assert.True(t, total.Sub(decimal.NewFromFloat(10000.01)).Abs().LessThanOrEqual(decimal.NewFromFloat(0.02)))
	assert.Equal(t, 0, m.Pending())
}

func TestMatcherSameDayBeforeThirtyDay(t *testing.T) {
	// Two pending disposals: one same-day, one 10 days old. The acquisition
	// must consume the same-day disposal first.
	m := NewMatcher()
	assert.NoError(t, m.Dispose(day(0), "ABC", dec(40), dec(4400)))
	assert.NoError(t, m.Dispose(day(10), "ABC", dec(40), dec(4800)))
	assert.NoError(t, m.Acquire(day(10), "ABC", dec(40), dec(4000)))
	m.Flush()

	disposals := m.Disposals()
	assert.Equal(t, 2, len(disposals))
	assert.Equal(t, SameDay, disposals[0].Rule)
	assert.Equal(t, day(10), disposals[0].Date)
	// The older disposal is left for the pool at end of stream.
	assert.Equal(t, Section104, disposals[1].Rule)
	assert.Equal(t, day(0), disposals[1].Date)
}

func TestMatcherThirtyDayOldestFirst(t *testing.T) {
	m := NewMatcher()
	assert.NoError(t, m.Dispose(day(5), "ABC", dec(20), dec(2000)))
	assert.NoError(t, m.Dispose(day(1), "ABC", dec(20), dec(2200)))
	// Only 20 units acquired: the day-1 disposal wins despite arriving later.
	assert.NoError(t, m.Acquire(day(15), "ABC", dec(20), dec(1800)))
	m.Flush()

	disposals := m.Disposals()
	assert.Equal(t, ThirtyDay, disposals[0].Rule)
	assert.Equal(t, day(1), disposals[0].Date)
}

func TestMatcherExpiredPendingFlushedOnNewDisposal(t *testing.T) {
	m := NewMatcher()
	assert.NoError(t, m.Acquire(day(0), "ABC", dec(100), dec(10000)))
	assert.NoError(t, m.Dispose(day(1), "ABC", dec(40), dec(5000)))
	// 40 days later: the first disposal's window has closed, so it is
	// flushed from the pool before the new disposal is queued.
	assert.NoError(t, m.Dispose(day(41), "ABC", dec(10), dec(1300)))

	disposals := m.Disposals()
	assert.Equal(t, 1, len(disposals))
	assert.Equal(t, Section104, disposals[0].Rule)
	assert.Equal(t, "4000", disposals[0].Cost.String())
	assert.Equal(t, 1, m.Pending())

	m.Flush()
	assert.Equal(t, 0, m.Pending())
}

func TestMatcherFlushIdempotent(t *testing.T) {
	m := NewMatcher()
	assert.NoError(t, m.Acquire(day(0), "AAPL", dec(100), dec(15000)))
	assert.NoError(t, m.Dispose(day(1), "AAPL", dec(100), dec(18000)))
	m.Flush()
	before := len(m.Disposals())

	m.Flush()
	assert.Equal(t, before, len(m.Disposals()))
	assert.Equal(t, "3000", m.NetGain().String())
}

func TestMatcherPhantomGainWarning(t *testing.T) {
	// Disposal with no acquisition history: flushed at zero cost with a
	// pool underflow warning, never an error.
	m := NewMatcher()
	assert.NoError(t, m.Dispose(day(0), "GHOST", dec(10), dec(1000)))
	m.Flush()

	disposals := m.Disposals()
	assert.Equal(t, 1, len(disposals))
	assert.True(t, disposals[0].Cost.IsZero())
	assert.Equal(t, "1000", disposals[0].GainLoss.String())

	warnings := m.Warnings()
	assert.Equal(t, 1, len(warnings))
	assert.Equal(t, PoolUnderflow, warnings[0].Code)
}

func TestMatcherRejectsContractViolations(t *testing.T) {
	m := NewMatcher()
	assert.Error(t, m.Acquire(day(0), "ABC", dec(0), dec(100)))
	assert.Error(t, m.Acquire(day(0), "ABC", dec(10), dec(-100)))
	assert.Error(t, m.Dispose(day(0), "ABC", dec(-10), dec(100)))
}

func TestMatcherConservation(t *testing.T) {
	// Acquired minus matched equals what remains pooled.
	m := NewMatcher()
	assert.NoError(t, m.Acquire(day(0), "ABC", dec(100), dec(15000)))
	assert.NoError(t, m.Dispose(day(5), "ABC", dec(30), dec(5000)))
	assert.NoError(t, m.Acquire(day(10), "ABC", dec(10), dec(1600)))
	m.Flush()

	matched := decimal.Zero
	for _, d := range m.Disposals() {
		matched = matched.Add(d.Quantity)
	}
	qty, _ := m.Pool().Position("ABC")
	assert.Equal(t, "110", matched.Add(qty).String())
}
