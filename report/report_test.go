package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"flexbalance/books"
	"flexbalance/qbo"
	"flexbalance/tax"
)

func builtData(t *testing.T) *Data {
	t.Helper()

	day := func(n int) time.Time { return time.Date(2025, 6, n, 0, 0, 0, 0, time.UTC) }
	amt := func(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

	b := books.New()
	err := b.Process([]books.TradeEvent{
		{Date: day(2), Symbol: "VUSA", AssetClass: "STK", Acquisition: true, Quantity: amt(100), Amount: amt(15000)},
		{Date: day(3), Symbol: "VUSA", AssetClass: "STK", Acquisition: true, Quantity: amt(50), Amount: amt(8000)},
		{Date: day(20), Symbol: "VUSA", AssetClass: "STK", Quantity: amt(75), Amount: amt(13500)},
	}, []books.CashEvent{
		{Date: day(10), Type: "Dividends", Symbol: "VUSA", Amount: amt(780.13)},
		{Date: day(11), Type: "Broker Interest Received", Amount: amt(1604.52)},
		{Date: day(12), Type: "Other Fees", Amount: amt(-1120.26)},
	})
	assert.NoError(t, err)

	taxResult := tax.Compute(b.TaxInputs(decimal.Zero), tax.DefaultRates())
	recon := &qbo.Reconciliation{
		BookCash:       b.BookCash(),
		QBOBankBalance: b.BookCash(),
		BankReconciled: true,
		HasBankExport:  true,
	}
	return Build("Example Holdings Ltd", day(30), b, taxResult, recon)
}

func TestBuild(t *testing.T) {
	d := builtData(t)

	assert.True(t, d.Balanced)
	assert.Equal(t, d.TotalDebits.String(), d.TotalCredits.String())

	// Pool: 150 units at 23000, disposal of 75 carries cost 11500.
	assert.Equal(t, "2000", d.NetGain.String())
	assert.Equal(t, 1, len(d.Disposals))

	// FIFO: 75 of the first lot, cost 11250, accounts gain 2250.
	assert.Equal(t, "2250", d.AccountsGain.String())
	assert.Equal(t, "250", d.Variance.String())

	assert.Equal(t, 1, len(d.Holdings))
	assert.Equal(t, "VUSA", d.Holdings[0].Symbol)

	assert.Equal(t, d.Tax.Liability.String(), d.Return.Box500CorporationTax.String())
}

func TestRenderHTML(t *testing.T) {
	d := builtData(t)

	var buf bytes.Buffer
	assert.NoError(t, RenderHTML(&buf, d))
	out := buf.String()

	assert.True(t, strings.Contains(out, "Example Holdings Ltd"))
	assert.True(t, strings.Contains(out, "Trial Balance"))
	assert.True(t, strings.Contains(out, "Disposal Schedule"))
	assert.True(t, strings.Contains(out, "CT600 Summary"))
	assert.True(t, strings.Contains(out, "QuickBooks Reconciliation"))
	assert.True(t, strings.Contains(out, "section_104"))
	assert.True(t, strings.Contains(out, "Trial balance balanced"))
}

func TestRenderHTMLWithoutTaxOrRecon(t *testing.T) {
	d := builtData(t)
	d.Tax = nil
	d.Reconciliation = nil

	var buf bytes.Buffer
	assert.NoError(t, RenderHTML(&buf, d))
	out := buf.String()

	assert.False(t, strings.Contains(out, "CT600 Summary"))
	assert.False(t, strings.Contains(out, "QuickBooks"))
}

func TestTerminalSummary(t *testing.T) {
	d := builtData(t)

	var buf bytes.Buffer
	Terminal(&buf, d)
	out := buf.String()

	assert.True(t, strings.Contains(out, "Example Holdings Ltd"))
	assert.True(t, strings.Contains(out, "Net gain"))
	assert.True(t, strings.Contains(out, "Taxable profit"))
}

func TestMoneyFormatting(t *testing.T) {
	assert.Equal(t, "£1,234.56", GBP(decimal.NewFromFloat(1234.56)))
	assert.Equal(t, "-£0.50", GBP(decimal.NewFromFloat(-0.5)))
	assert.Equal(t, "(£25.00)", Paren(decimal.NewFromInt(25)))
}
