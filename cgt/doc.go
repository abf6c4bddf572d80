// Package cgt implements UK capital gains cost-basis tracking for share
// disposals. It maintains two independent disciplines over the same trade
// stream:
//
//   - A FIFO lot ledger (Ledger) used for the statutory accounts, matching
//     disposals against the oldest remaining acquisition lots.
//   - A Section 104 average-cost pool (Pool) with share identification rules
//     (Matcher): disposals are matched first against same-day acquisitions,
//     then against acquisitions within the following 30 days, and only then
//     against the pool at average cost.
//
// All arithmetic uses decimal values. Monetary totals are rounded to two
// decimal places and unit costs to four, at each match rather than on
// accumulated figures, so repeated partial matches of one disposal cannot
// drift.
//
// The package never aborts on degraded input. Conditions such as a disposal
// exceeding the held quantity or a pool debit that would go negative are
// clamped and recorded as Warnings on the result; only contract violations
// (non-positive quantities, negative amounts) return errors.
//
// Example usage:
//
//	m := cgt.NewMatcher()
//	m.Acquire(day1, "AAPL", decimal.NewFromInt(100), decimal.NewFromInt(15000))
//	m.Dispose(day30, "AAPL", decimal.NewFromInt(75), decimal.NewFromInt(13500))
//	m.Flush()
//	for _, d := range m.Disposals() {
//	    fmt.Println(d.Rule, d.GainLoss)
//	}
package cgt
