package cgt

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// MatchRule identifies which share identification rule produced a matched
// disposal.
type MatchRule int

const (
	// SameDay matches a disposal against an acquisition on the same date.
	SameDay MatchRule = iota
	// ThirtyDay matches a disposal against an acquisition within the 30
	// days following it (the bed-and-breakfast rule).
	ThirtyDay
	// Section104 sources the disposal from the average-cost pool.
	Section104
)

func (r MatchRule) String() string {
	switch r {
	case SameDay:
		return "same_day"
	case ThirtyDay:
		return "thirty_day"
	case Section104:
		return "section_104"
	default:
		return "unknown"
	}
}

// MatchedDisposal is one immutable row of the audit trail: a disposal (or a
// partial slice of one) with the cost identified for it and the resulting
// gain or loss. The append-only sequence of these records is the sole input
// to the capital gains figures.
type MatchedDisposal struct {
	Date     time.Time
	Symbol   string
	Quantity decimal.Decimal
	Proceeds decimal.Decimal
	Cost     decimal.Decimal
	GainLoss decimal.Decimal
	Rule     MatchRule
}

// pendingDisposal is a disposal awaiting identification. Proceeds are kept
// for the original quantity so every partial match pro-rates from the same
// base and rounding cannot drift across matches.
type pendingDisposal struct {
	date        time.Time
	symbol      string
	remaining   decimal.Decimal
	originalQty decimal.Decimal
	proceeds    decimal.Decimal
}

// prorated returns the slice of the disposal's total proceeds attributable
// to a matched quantity.
func (d *pendingDisposal) prorated(quantity decimal.Decimal) decimal.Decimal {
	return roundTotal(d.proceeds.Mul(quantity).Div(d.originalQty))
}

// Matcher applies the share identification rules. It observes every pooled
// acquisition and disposal in event order (acquisitions first on date ties)
// and owns the queue of disposals not yet fully identified.
//
// Matching is driven by the acquisition side: a new acquisition consumes
// pending disposals (same-day first, then 30-day oldest-first) and credits
// any remainder to the pool. A new disposal first flushes pending disposals
// whose window has closed, then joins the queue. Flush drains the queue at
// end of stream.
type Matcher struct {
	pool    *Pool
	pending []*pendingDisposal
	matched []MatchedDisposal
}

// NewMatcher creates a Matcher with an empty pool and queue.
func NewMatcher() *Matcher {
	return &Matcher{pool: NewPool()}
}

// Acquire records an acquisition: it is matched against pending disposals of
// the symbol (same-day first, then within the 30-day window, oldest
// disposal first), and whatever quantity and cost remain are credited to the
// Section 104 pool.
func (m *Matcher) Acquire(on time.Time, symbol string, quantity, cost decimal.Decimal) error {
	if !quantity.IsPositive() {
		return fmt.Errorf("acquire %s: quantity must be positive, got %s", symbol, quantity)
	}
	if cost.IsNegative() {
		return fmt.Errorf("acquire %s: cost must not be negative, got %s", symbol, cost)
	}

	unitCost := roundUnit(cost.Div(quantity))
	remaining := quantity
	remainingCost := cost

	for _, disp := range m.candidates(symbol, on) {
		if remaining.IsZero() {
			break
		}
		matchQty := minOf(remaining, disp.remaining)
		matchCost := roundTotal(unitCost.Mul(matchQty))
		matchProceeds := disp.prorated(matchQty)

		rule := ThirtyDay
		if disp.date.Equal(on) {
			rule = SameDay
		}
		m.matched = append(m.matched, MatchedDisposal{
			Date:     disp.date,
			Symbol:   symbol,
			Quantity: matchQty,
			Proceeds: matchProceeds,
			Cost:     matchCost,
			GainLoss: matchProceeds.Sub(matchCost),
			Rule:     rule,
		})

		disp.remaining = disp.remaining.Sub(matchQty)
		remaining = remaining.Sub(matchQty)
		remainingCost = remainingCost.Sub(matchCost)
	}

	m.compactPending()

	if remaining.IsPositive() {
		m.pool.Credit(symbol, remaining, remainingCost)
	}
	return nil
}

// candidates returns the pending disposals an acquisition on the given date
// may match, in priority order: same-day disposals in insertion order, then
// earlier disposals within the 30-day window sorted oldest first.
func (m *Matcher) candidates(symbol string, on time.Time) []*pendingDisposal {
	var sameDay, window []*pendingDisposal
	for _, disp := range m.pending {
		if disp.symbol != symbol || !disp.remaining.IsPositive() {
			continue
		}
		switch {
		case disp.date.Equal(on):
			sameDay = append(sameDay, disp)
		case disp.date.Before(on) && on.Sub(disp.date) <= matchWindow:
			window = append(window, disp)
		}
	}
	slices.SortStableFunc(window, func(a, b *pendingDisposal) int {
		return a.date.Compare(b.date)
	})
	return append(sameDay, window...)
}

// Dispose records a disposal. Pending disposals of the symbol whose 30-day
// window closed before this date are flushed to the pool first; the new
// disposal then joins the pending queue, to be consumed by later
// acquisitions or by Flush.
//
// A disposal never matches acquisitions that arrived before it: same-day
// pairs therefore require acquisitions to be fed before disposals on date
// ties.
func (m *Matcher) Dispose(on time.Time, symbol string, quantity, proceeds decimal.Decimal) error {
	if !quantity.IsPositive() {
		return fmt.Errorf("dispose %s: quantity must be positive, got %s", symbol, quantity)
	}
	if proceeds.IsNegative() {
		return fmt.Errorf("dispose %s: proceeds must not be negative, got %s", symbol, proceeds)
	}

	m.flushExpired(symbol, on)

	m.pending = append(m.pending, &pendingDisposal{
		date:        on,
		symbol:      symbol,
		remaining:   quantity,
		originalQty: quantity,
		proceeds:    proceeds,
	})
	return nil
}

// flushExpired sends pending disposals of the symbol whose window closed
// strictly before the given date to the pool.
func (m *Matcher) flushExpired(symbol string, before time.Time) {
	var kept []*pendingDisposal
	for _, disp := range m.pending {
		if disp.symbol != symbol || !disp.remaining.IsPositive() {
			kept = append(kept, disp)
			continue
		}
		if !disp.date.Add(matchWindow).Before(before) {
			kept = append(kept, disp)
			continue
		}
		m.flushToPool(disp)
	}
	m.pending = kept
}

// flushToPool debits the disposal's remaining quantity from the pool and
// records the Section 104 audit row.
func (m *Matcher) flushToPool(disp *pendingDisposal) {
	qty := disp.remaining
	cost := m.pool.Debit(disp.symbol, qty)
	proceeds := disp.prorated(qty)

	m.matched = append(m.matched, MatchedDisposal{
		Date:     disp.date,
		Symbol:   disp.symbol,
		Quantity: qty,
		Proceeds: proceeds,
		Cost:     cost,
		GainLoss: proceeds.Sub(cost),
		Rule:     Section104,
	})
	disp.remaining = decimal.Zero
}

// Flush drains every remaining pending disposal against the pool, regardless
// of window closure. It must be called once after the last event; calling it
// again is a no-op since the queue is then empty.
func (m *Matcher) Flush() {
	for _, disp := range m.pending {
		if disp.remaining.IsPositive() {
			m.flushToPool(disp)
		}
	}
	m.pending = nil
}

// compactPending drops fully identified disposals from the queue.
func (m *Matcher) compactPending() {
	kept := m.pending[:0]
	for _, disp := range m.pending {
		if disp.remaining.IsPositive() {
			kept = append(kept, disp)
		}
	}
	m.pending = kept
}

// Disposals returns the audit trail of matched disposals, in the order they
// were identified.
func (m *Matcher) Disposals() []MatchedDisposal {
	return slices.Clone(m.matched)
}

// NetGain returns the sum of gains and losses over all matched disposals,
// rounded to the monetary quantum.
func (m *Matcher) NetGain() decimal.Decimal {
	total := decimal.Zero
	for _, d := range m.matched {
		total = total.Add(d.GainLoss)
	}
	return roundTotal(total)
}

// Pool exposes the Section 104 pool for reporting.
func (m *Matcher) Pool() *Pool {
	return m.pool
}

// Pending reports how many disposals are still awaiting identification.
func (m *Matcher) Pending() int {
	count := 0
	for _, disp := range m.pending {
		if disp.remaining.IsPositive() {
			count++
		}
	}
	return count
}

// Warnings returns pool underflow warnings recorded during matching.
func (m *Matcher) Warnings() []Warning {
	return m.pool.Warnings()
}
