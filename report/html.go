package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

var funcs = template.FuncMap{
	"gbp":   GBP,
	"paren": Paren,
	"date":  func(t time.Time) string { return t.Format("2 January 2006") },
	"num":   func(d decimal.Decimal) string { return d.String() },
}

var htmlTemplate = template.Must(template.New("report").Funcs(funcs).Parse(reportHTML))

// RenderHTML writes the full report document.
func RenderHTML(w io.Writer, data *Data) error {
	return htmlTemplate.Execute(w, data)
}

// WriteHTML renders the report to a file.
func WriteHTML(path string, data *Data) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := RenderHTML(f, data); err != nil {
		f.Close()
		return fmt.Errorf("render report: %w", err)
	}
	return f.Close()
}

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Company}} — Trial Balance</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 960px; color: #1a202c; }
h1 { font-size: 1.5rem; margin-bottom: 0; }
.subtitle { color: #718096; margin-top: 0.25rem; }
.card { border: 1px solid #e2e8f0; border-radius: 8px; padding: 1rem 1.25rem; margin: 1.25rem 0; }
.section-title { font-weight: 600; margin-bottom: 0.75rem; }
table { width: 100%; border-collapse: collapse; font-size: 0.9rem; }
th, td { padding: 0.4rem 0.6rem; border-bottom: 1px solid #edf2f7; text-align: left; }
td.number, th.number { text-align: right; font-variant-numeric: tabular-nums; }
tr.total-row td { border-top: 2px solid #cbd5e0; font-weight: 600; }
.ok { color: #276749; }
.warn { color: #975a16; }
.badge { font-size: 0.8rem; padding: 0.1rem 0.5rem; border-radius: 9999px; background: #f0fff4; }
</style>
</head>
<body>
<h1>{{.Company}}</h1>
<p class="subtitle">Trial balance and tax computation for the period ended {{date .PeriodEnd}}<br>
Generated {{date .Generated}}</p>

<div class="card">
<div class="section-title">Trial Balance</div>
<table>
<thead><tr><th>Code</th><th>Account</th><th class="number">Debit (£)</th><th class="number">Credit (£)</th></tr></thead>
<tbody>
{{range .TrialBalance}}<tr><td>{{.Code}}</td><td>{{.Name}}</td><td class="number">{{gbp .Debit}}</td><td class="number">{{gbp .Credit}}</td></tr>
{{end}}<tr class="total-row"><td></td><td>Total</td><td class="number">{{gbp .TotalDebits}}</td><td class="number">{{gbp .TotalCredits}}</td></tr>
</tbody>
</table>
<p class="{{if .Balanced}}ok{{else}}warn{{end}}">
{{if .Balanced}}Trial balance balanced{{else}}Out of balance by {{gbp (.TotalDebits.Sub .TotalCredits)}}{{end}}
&middot; Profit/(loss) for period: {{gbp .Profit}}</p>
</div>

{{if .Holdings}}<div class="card">
<div class="section-title">Investment Holdings at Cost</div>
<table>
<thead><tr><th>Symbol</th><th class="number">Quantity</th><th class="number">Cost (£)</th><th class="number">Avg Cost (£)</th></tr></thead>
<tbody>
{{range .Holdings}}<tr><td>{{.Symbol}}</td><td class="number">{{num .Quantity}}</td><td class="number">{{gbp .Cost}}</td><td class="number">{{num .AvgCost}}</td></tr>
{{end}}</tbody>
</table>
</div>{{end}}

{{if .Disposals}}<div class="card">
<div class="section-title">Capital Gains — Disposal Schedule (Section 104)</div>
<table>
<thead><tr><th>Date</th><th>Symbol</th><th class="number">Quantity</th><th class="number">Proceeds (£)</th><th class="number">Cost (£)</th><th class="number">Gain/(Loss) (£)</th><th>Matching</th></tr></thead>
<tbody>
{{range .Disposals}}<tr><td>{{date .Date}}</td><td>{{.Symbol}}</td><td class="number">{{num .Quantity}}</td><td class="number">{{gbp .Proceeds}}</td><td class="number">{{gbp .Cost}}</td><td class="number">{{gbp .GainLoss}}</td><td><span class="badge">{{.Rule}}</span></td></tr>
{{end}}<tr class="total-row"><td colspan="5">Net chargeable gain</td><td class="number">{{gbp .NetGain}}</td><td></td></tr>
</tbody>
</table>
</div>{{end}}

{{if .Pool}}<div class="card">
<div class="section-title">Section 104 Pool at Period End</div>
<table>
<thead><tr><th>Symbol</th><th class="number">Pooled Quantity</th><th class="number">Pooled Cost (£)</th><th class="number">Avg Cost (£)</th></tr></thead>
<tbody>
{{range .Pool}}<tr><td>{{.Symbol}}</td><td class="number">{{num .Quantity}}</td><td class="number">{{gbp .Cost}}</td><td class="number">{{num .AvgCost}}</td></tr>
{{end}}</tbody>
</table>
</div>{{end}}

{{if .Tax}}<div class="card">
<div class="section-title">Tax Computation Schedule</div>
<table>
<thead><tr><th>Description</th><th class="number">Amount (£)</th></tr></thead>
<tbody>
<tr><td>Dividend income (exempt)</td><td class="number">{{gbp .Tax.Inputs.DividendIncome}}</td></tr>
<tr><td>Interest received (taxable)</td><td class="number">{{gbp .Tax.Inputs.InterestIncome}}</td></tr>
{{range .Tax.Adjustments}}{{if eq .Kind "deduction"}}<tr><td>Less: {{.Description}}</td><td class="number">{{paren .Amount}}</td></tr>
{{end}}{{end}}<tr><td><strong>Taxable non-trading profit</strong></td><td class="number"><strong>{{gbp .Tax.NonTrading}}</strong></td></tr>
<tr><td>Capital gains (Section 104)</td><td class="number">{{gbp .Tax.ChargeableGains}}</td></tr>
<tr class="total-row"><td>Total taxable profit</td><td class="number">{{gbp .Tax.TaxableProfit}}</td></tr>
<tr class="total-row"><td>Corporation tax @ effective rate {{num .EffectiveRate}}%</td><td class="number">{{gbp .Tax.Liability}}</td></tr>
</tbody>
</table>
</div>

{{if .Tax.Relief.Applicable}}<div class="card">
<div class="section-title">Interest Deduction Restriction</div>
<table>
<tbody>
<tr><td>Interest paid</td><td class="number">{{gbp .Tax.Relief.InterestPaid}}</td></tr>
<tr><td>Taxable earnings proxy</td><td class="number">{{gbp .Tax.Relief.TaxableEarnings}}</td></tr>
<tr><td>Deduction limit</td><td class="number">{{gbp .Tax.Relief.Limit}}</td></tr>
<tr><td>Allowable interest</td><td class="number">{{gbp .Tax.Relief.Allowable}}</td></tr>
<tr><td>Disallowed interest</td><td class="number">{{gbp .Tax.Relief.Disallowed}}</td></tr>
</tbody>
</table>
{{if .Tax.Relief.Warning}}<p class="warn">{{.Tax.Relief.Warning}}</p>{{end}}
</div>{{end}}

<div class="card">
<div class="section-title">CT600 Summary</div>
<table>
<tbody>
<tr><td>Box 13 — Non-trading profits</td><td class="number">{{gbp .Return.Box13NonTradingProfits}}</td></tr>
<tr><td>Box 16 — Chargeable gains</td><td class="number">{{gbp .Return.Box16ChargeableGains}}</td></tr>
<tr><td>Box 46 — Taxable total profit</td><td class="number">{{gbp .Return.Box46TaxableTotalProfit}}</td></tr>
<tr><td>Box 500 — Corporation tax</td><td class="number">{{gbp .Return.Box500CorporationTax}}</td></tr>
</tbody>
</table>
</div>

<div class="card">
<div class="section-title">Accounts vs Tax Basis</div>
<table>
<tbody>
<tr><td>Realized result per accounts (FIFO)</td><td class="number">{{gbp .AccountsGain}}</td></tr>
<tr><td>Chargeable gain per Section 104</td><td class="number">{{gbp .NetGain}}</td></tr>
<tr class="total-row"><td>Variance</td><td class="number">{{gbp .Variance}}</td></tr>
</tbody>
</table>
<p class="subtitle">The accounts identify disposals first-in-first-out; the tax computation matches
same-day, then thirty-day acquisitions, then the pooled average. A variance between the two bases is expected.</p>
</div>{{end}}

{{if .Reconciliation}}<div class="card">
<div class="section-title">QuickBooks Reconciliation</div>
<table>
<tbody>
{{with .Reconciliation}}
{{if .HasBankExport}}<tr><td>Book cash</td><td class="number">{{gbp .BookCash}}</td></tr>
<tr><td>QuickBooks bank balance</td><td class="number">{{gbp .QBOBankBalance}}</td></tr>
<tr><td class="{{if .BankReconciled}}ok{{else}}warn{{end}}">Bank difference</td><td class="number">{{gbp .BankDiff}}</td></tr>
{{end}}{{if .HasExpenseExport}}<tr><td>Book expenses</td><td class="number">{{gbp .BookExpenses}}</td></tr>
<tr><td>QuickBooks expenses</td><td class="number">{{gbp .QBOExpenses.Abs}}</td></tr>
<tr><td class="{{if .ExpensesAligned}}ok{{else}}warn{{end}}">Expense difference</td><td class="number">{{gbp .ExpenseDiff}}</td></tr>
{{end}}{{end}}
</tbody>
</table>
</div>{{end}}

{{if .Warnings}}<div class="card">
<div class="section-title warn">Warnings</div>
<ul>
{{range .Warnings}}<li class="warn">{{.}}</li>
{{end}}</ul>
</div>{{end}}

</body>
</html>
`
