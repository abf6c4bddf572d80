package cgt

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Lot is a single acquisition held in the FIFO ledger: the remaining
// quantity from one purchase and the cost still attached to it.
type Lot struct {
	Date     time.Time
	Symbol   string
	Quantity decimal.Decimal
	Cost     decimal.Decimal
}

// UnitCost returns the cost per unit of the lot, or zero for an empty lot.
func (l Lot) UnitCost() decimal.Decimal {
	if l.Quantity.IsZero() {
		return decimal.Zero
	}
	return roundUnit(l.Cost.Div(l.Quantity))
}

// Holding is a per-symbol snapshot of the ledger.
type Holding struct {
	Symbol   string
	Quantity decimal.Decimal
	Cost     decimal.Decimal
}

// AvgCost returns the blended cost per unit of the holding.
func (h Holding) AvgCost() decimal.Decimal {
	if h.Quantity.IsZero() {
		return decimal.Zero
	}
	return roundUnit(h.Cost.Div(h.Quantity))
}

// Ledger is a first-in-first-out cost ledger, one lot queue per symbol. It is
// the historical-cost record used for the statutory accounts; the tax-side
// average-cost discipline lives in Pool and Matcher.
//
// The ledger is a best-effort record: disposing more than is held consumes
// everything available and reports the shortfall rather than failing.
type Ledger struct {
	lots map[string][]Lot
}

// NewLedger creates an empty FIFO ledger.
func NewLedger() *Ledger {
	return &Ledger{lots: make(map[string][]Lot)}
}

// Acquire appends a new lot to the symbol's queue.
func (l *Ledger) Acquire(on time.Time, symbol string, quantity, cost decimal.Decimal) error {
	if !quantity.IsPositive() {
		return fmt.Errorf("acquire %s: quantity must be positive, got %s", symbol, quantity)
	}
	if cost.IsNegative() {
		return fmt.Errorf("acquire %s: cost must not be negative, got %s", symbol, cost)
	}
	l.lots[symbol] = append(l.lots[symbol], Lot{
		Date:     on,
		Symbol:   symbol,
		Quantity: quantity,
		Cost:     cost,
	})
	return nil
}

// Dispose consumes lots oldest-first and returns the total cost consumed,
// plus any quantity that could not be filled because the ledger held less
// than requested. A non-zero shortfall is a data-quality signal for the
// caller, not an error.
//
// A partially consumed lot is replaced by its residual: the consumed cost is
// the exact pro-rata fraction of the lot's cost, rounded to the monetary
// quantum, and the residual keeps the remainder so the lot's cost is
// conserved.
func (l *Ledger) Dispose(symbol string, quantity decimal.Decimal) (cost, shortfall decimal.Decimal, err error) {
	if !quantity.IsPositive() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("dispose %s: quantity must be positive, got %s", symbol, quantity)
	}

	remaining := quantity
	total := decimal.Zero
	var kept []Lot

	for _, lot := range l.lots[symbol] {
		if remaining.IsZero() {
			kept = append(kept, lot)
			continue
		}

		if lot.Quantity.LessThanOrEqual(remaining) {
			// Whole lot consumed.
			total = total.Add(lot.Cost)
			remaining = remaining.Sub(lot.Quantity)
			continue
		}

		// Partial consumption: split the lot, pro-rata on the original cost.
		consumed := roundTotal(lot.Cost.Mul(remaining).Div(lot.Quantity))
		total = total.Add(consumed)
		kept = append(kept, Lot{
			Date:     lot.Date,
			Symbol:   lot.Symbol,
			Quantity: lot.Quantity.Sub(remaining),
			Cost:     lot.Cost.Sub(consumed),
		})
		remaining = decimal.Zero
	}

	if len(kept) == 0 {
		delete(l.lots, symbol)
	} else {
		l.lots[symbol] = kept
	}
	return total, remaining, nil
}

// Lots returns the remaining lots for a symbol, oldest first.
func (l *Ledger) Lots(symbol string) []Lot {
	return slices.Clone(l.lots[symbol])
}

// Held returns the total quantity currently held for a symbol.
func (l *Ledger) Held(symbol string) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.lots[symbol] {
		total = total.Add(lot.Quantity)
	}
	return total
}

// Holdings returns a snapshot of every symbol with a positive remaining
// quantity, sorted by symbol.
func (l *Ledger) Holdings() []Holding {
	var out []Holding
	for symbol, lots := range l.lots {
		h := Holding{Symbol: symbol, Quantity: decimal.Zero, Cost: decimal.Zero}
		for _, lot := range lots {
			h.Quantity = h.Quantity.Add(lot.Quantity)
			h.Cost = h.Cost.Add(lot.Cost)
		}
		if h.Quantity.IsPositive() {
			out = append(out, h)
		}
	}
	slices.SortFunc(out, func(a, b Holding) int {
		switch {
		case a.Symbol < b.Symbol:
			return -1
		case a.Symbol > b.Symbol:
			return 1
		}
		return 0
	})
	return out
}
