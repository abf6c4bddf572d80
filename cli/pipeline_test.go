package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"flexbalance/tax"
	"flexbalance/telemetry"
)

const fixtureStatement = `"HEADER","TRNT","TradeDate","Symbol","Buy/Sell","Quantity","TradePrice","Proceeds","IBCommission","CurrencyPrimary","AssetClass"
"DATA","TRNT","2025-06-02","VUSA","BUY","100","149.99","-14999.00","-1.00","GBP","STK"
"DATA","TRNT","2025-06-03","VUSA","BUY","50","159.98","-7999.00","-1.00","GBP","STK"
"DATA","TRNT","2025-06-20","VUSA","SELL","75","180.01","13501.00","-1.00","GBP","STK"
"HEADER","CTRN","Date","Type","Symbol","Description","Amount","CurrencyPrimary"
"DATA","CTRN","2025-06-10","Dividends","VUSA","VUSA DIVIDEND","120.00","GBP"
"DATA","CTRN","2025-06-11","Other Fees","","MONTHLY FEE","-10.00","GBP"
`

func fixtureOptions(t *testing.T) pipelineOptions {
	t.Helper()

	path := filepath.Join(t.TempDir(), "statement.csv")
	assert.NoError(t, os.WriteFile(path, []byte(fixtureStatement), 0o644))

	return pipelineOptions{
		Statement: path,
		Company:   "Example Holdings Ltd",
		PeriodEnd: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Rates:     tax.DefaultRates(),
		Logger:    zap.NewNop(),
	}
}

func TestRunPipeline(t *testing.T) {
	data, err := runPipeline(context.Background(), fixtureOptions(t))
	assert.NoError(t, err)

	assert.True(t, data.Balanced)
	assert.Equal(t, "Example Holdings Ltd", data.Company)

	// Buys 15000 and 8000, disposal of 75 at 13500 net: pool cost 11500.
	assert.Equal(t, "2000", data.NetGain.String())
	assert.Equal(t, 1, len(data.Disposals))
	assert.Equal(t, 1, len(data.Holdings))
	assert.Equal(t, "75", data.Holdings[0].Quantity.String())

	// Dividends stay out of the taxable profit.
	assert.Equal(t, "-10", data.Tax.NonTrading.String())
	assert.Equal(t, "1990", data.Tax.TaxableProfit.String())
	assert.Equal(t, 0, len(data.Warnings))
}

func TestRunPipelineWithTelemetry(t *testing.T) {
	collector := telemetry.NewTimingCollector()
	ctx := telemetry.WithCollector(context.Background(), collector)

	run := collector.Start("report")
	_, err := runPipeline(ctx, fixtureOptions(t))
	run.End()
	assert.NoError(t, err)

	var buf bytes.Buffer
	collector.Report(&buf)
	assert.True(t, bytes.Contains(buf.Bytes(), []byte("parse statement")))
	assert.True(t, bytes.Contains(buf.Bytes(), []byte("post books")))
	assert.True(t, bytes.Contains(buf.Bytes(), []byte("tax computation")))
}

func TestRunPipelineMissingStatement(t *testing.T) {
	opts := fixtureOptions(t)
	opts.Statement = filepath.Join(t.TempDir(), "missing.csv")

	_, err := runPipeline(context.Background(), opts)
	assert.Error(t, err)
}

func TestRunPipelineExpensesCSV(t *testing.T) {
	opts := fixtureOptions(t)
	opts.ExpensesCSV = filepath.Join(t.TempDir(), "expenses.csv")
	assert.NoError(t, os.WriteFile(opts.ExpensesCSV, []byte("description,amount\nAccountancy,5.50\n"), 0o644))

	data, err := runPipeline(context.Background(), opts)
	assert.NoError(t, err)
	assert.Equal(t, "-15.5", data.Tax.NonTrading.String())
}

func TestRunPipelineManagementExpenses(t *testing.T) {
	opts := fixtureOptions(t)
	opts.ManagementExpenses = decimal.NewFromInt(5)

	data, err := runPipeline(context.Background(), opts)
	assert.NoError(t, err)
	assert.Equal(t, "-15", data.Tax.NonTrading.String())
}
