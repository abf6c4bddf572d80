package cgt

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// position is a Section 104 pool entry: a single running quantity and total
// cost per symbol. Unmatched acquisitions blend into it; pool-sourced
// disposals consume it at average cost.
type position struct {
	quantity decimal.Decimal
	cost     decimal.Decimal
}

// PoolEntry is a reporting snapshot of one symbol's pool position.
type PoolEntry struct {
	Symbol   string
	Quantity decimal.Decimal
	Cost     decimal.Decimal
}

// AvgCost returns the pool's average cost per unit for the entry.
func (e PoolEntry) AvgCost() decimal.Decimal {
	if e.Quantity.IsZero() {
		return decimal.Zero
	}
	return roundUnit(e.Cost.Div(e.Quantity))
}

// Pool holds the Section 104 average-cost positions, one per symbol.
// Quantity and cost never go negative: a debit that would underflow is
// clamped to zero and recorded as a warning, and the missing portion is
// treated as zero cost.
type Pool struct {
	positions map[string]*position
	warnings  []Warning
}

// NewPool creates an empty Section 104 pool.
func NewPool() *Pool {
	return &Pool{positions: make(map[string]*position)}
}

// Credit adds an unmatched acquisition to the symbol's pool.
func (p *Pool) Credit(symbol string, quantity, cost decimal.Decimal) {
	pos := p.positions[symbol]
	if pos == nil {
		pos = &position{quantity: decimal.Zero, cost: decimal.Zero}
		p.positions[symbol] = pos
	}
	pos.quantity = pos.quantity.Add(quantity)
	pos.cost = pos.cost.Add(cost)
}

// Debit removes a quantity from the symbol's pool at average cost and
// returns the cost removed, rounded to the monetary quantum.
//
// An empty pool yields zero cost and a PoolUnderflow warning; a debit larger
// than the position clamps quantity and cost to zero with the same warning.
// Processing never halts on underflow.
func (p *Pool) Debit(symbol string, quantity decimal.Decimal) decimal.Decimal {
	pos := p.positions[symbol]
	if pos == nil || !pos.quantity.IsPositive() {
		p.warnings = append(p.warnings, Warning{
			Code:    PoolUnderflow,
			Symbol:  symbol,
			Message: fmt.Sprintf("debit of %s units from empty pool, using zero cost", quantity),
		})
		return decimal.Zero
	}

	avg := pos.cost.Div(pos.quantity)
	removed := roundTotal(avg.Mul(quantity))

	pos.quantity = pos.quantity.Sub(quantity)
	pos.cost = pos.cost.Sub(removed)

	if pos.quantity.IsNegative() || pos.cost.IsNegative() {
		if pos.quantity.IsNegative() {
			p.warnings = append(p.warnings, Warning{
				Code:    PoolUnderflow,
				Symbol:  symbol,
				Message: fmt.Sprintf("debit of %s units exceeded pool, clamped to zero", quantity),
			})
		}
		pos.quantity = decimal.Max(pos.quantity, decimal.Zero)
		pos.cost = decimal.Max(pos.cost, decimal.Zero)
	}
	return removed
}

// Position returns the current quantity and cost pooled for a symbol.
func (p *Pool) Position(symbol string) (quantity, cost decimal.Decimal) {
	pos := p.positions[symbol]
	if pos == nil {
		return decimal.Zero, decimal.Zero
	}
	return pos.quantity, pos.cost
}

// Summary returns every symbol with a positive pooled quantity, sorted by
// symbol.
func (p *Pool) Summary() []PoolEntry {
	var out []PoolEntry
	for symbol, pos := range p.positions {
		if pos.quantity.IsPositive() {
			out = append(out, PoolEntry{Symbol: symbol, Quantity: pos.quantity, Cost: pos.cost})
		}
	}
	slices.SortFunc(out, func(a, b PoolEntry) int {
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

// Warnings returns the underflow warnings recorded so far.
func (p *Pool) Warnings() []Warning {
	return slices.Clone(p.warnings)
}
