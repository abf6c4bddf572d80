// Package report renders the period-end report: a self-contained HTML
// document with the trial balance, tax schedules and reconciliation, and a
// styled terminal summary.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"flexbalance/books"
	"flexbalance/cgt"
	"flexbalance/qbo"
	"flexbalance/tax"
)

// Data is everything the renderers need, assembled once per run.
type Data struct {
	Company   string
	PeriodEnd time.Time
	Generated time.Time

	TrialBalance []books.Account
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
	Balanced     bool
	Profit       decimal.Decimal

	Holdings []cgt.Holding

	Disposals []cgt.MatchedDisposal
	Pool      []cgt.PoolEntry
	NetGain   decimal.Decimal

	// Variance between the accounts' realized result and the tax figure;
	// the two disciplines match different lots so they legitimately differ.
	AccountsGain decimal.Decimal
	Variance     decimal.Decimal

	Tax           *tax.Result
	Return        tax.Return
	EffectiveRate decimal.Decimal

	Reconciliation *qbo.Reconciliation

	Warnings []cgt.Warning
}

// Build assembles the report data from the processed books. taxResult and
// reconciliation may be nil when those stages were skipped.
func Build(company string, periodEnd time.Time, b *books.Books, taxResult *tax.Result, reconciliation *qbo.Reconciliation) *Data {
	d := &Data{
		Company:        company,
		PeriodEnd:      periodEnd,
		Generated:      time.Now(),
		TrialBalance:   b.TrialBalance(),
		Profit:         b.Profit(),
		Holdings:       b.Holdings(),
		Disposals:      b.Matcher().Disposals(),
		Pool:           b.Matcher().Pool().Summary(),
		NetGain:        b.Matcher().NetGain(),
		Tax:            taxResult,
		Reconciliation: reconciliation,
		Warnings:       b.Warnings(),
	}

	for _, row := range d.TrialBalance {
		d.TotalDebits = d.TotalDebits.Add(row.Debit)
		d.TotalCredits = d.TotalCredits.Add(row.Credit)
	}
	d.Balanced = d.TotalDebits.Sub(d.TotalCredits).Abs().LessThan(decimal.NewFromFloat(0.01))

	gains := b.Account(books.RealizedGains)
	losses := b.Account(books.RealizedLosses)
	d.AccountsGain = gains.Credit.Sub(gains.Debit).Sub(losses.Debit.Sub(losses.Credit))
	d.Variance = d.AccountsGain.Sub(d.NetGain)

	if taxResult != nil {
		d.Return = taxResult.Return()
		if rate, ok := taxResult.EffectiveRate(); ok {
			d.EffectiveRate = rate.Shift(2)
		}
	}
	return d
}
