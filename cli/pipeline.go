package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"flexbalance/books"
	"flexbalance/flex"
	"flexbalance/hmrc"
	"flexbalance/loans"
	"flexbalance/qbo"
	"flexbalance/report"
	"flexbalance/tax"
	"flexbalance/telemetry"
)

// pipelineOptions carries everything one report run needs, merged from
// flags and config.
type pipelineOptions struct {
	Statement          string
	Company            string
	PeriodEnd          time.Time
	RatesDir           string
	ManagementExpenses decimal.Decimal
	ExpensesCSV        string
	OwnersLoan         string
	QBOAccounts        string
	QBODate            string
	SkipAccounts       []string
	Rates              tax.Rates
	Logger             *zap.Logger
}

func (o *pipelineOptions) rateSource() hmrc.Source {
	if o.RatesDir != "" {
		return hmrc.NewDirSource(o.RatesDir)
	}
	return hmrc.NewHTTPSource(nil, o.Logger)
}

// runPipeline executes a full report run: parse, convert, post, compute tax
// and reconcile. Stage timings land on the context's telemetry collector.
func runPipeline(ctx context.Context, opts pipelineOptions) (*report.Data, error) {
	collector := telemetry.FromContext(ctx)
	log := opts.Logger

	stage := collector.Start("parse statement")
	stmt, err := flex.ParseFile(opts.Statement)
	stage.End()
	if err != nil {
		return nil, err
	}
	log.Debug("statement parsed",
		zap.Int("trades", len(stmt.Trades)),
		zap.Int("cash", len(stmt.Cash)),
		zap.Int("positions", len(stmt.Positions)),
		zap.Int("skipped", len(stmt.Skipped)))
	for _, row := range stmt.Skipped {
		log.Warn("skipped statement row",
			zap.Int("line", row.Line),
			zap.String("section", row.Section),
			zap.String("reason", row.Reason))
	}

	stage = collector.Start("convert to GBP")
	converter := hmrc.NewConverter(opts.rateSource())
	trades, cash, err := books.FromStatement(ctx, stmt, converter)
	stage.End()
	if err != nil {
		return nil, err
	}

	stage = collector.Start("post books")
	b := books.New()
	if err := b.Process(trades, cash); err != nil {
		stage.End()
		return nil, err
	}
	stage.End()

	if opts.OwnersLoan != "" {
		stage = collector.Start("owner's loan")
		movements, err := loans.Read(opts.OwnersLoan, opts.PeriodEnd, opts.SkipAccounts...)
		if err != nil {
			stage.End()
			return nil, err
		}
		loans.Apply(b, movements)
		stage.End()
		log.Debug("loan movements posted", zap.Int("count", len(movements)))
	}

	otherExpenses := opts.ManagementExpenses
	if opts.ExpensesCSV != "" {
		extra, err := tax.ReadExpenses(opts.ExpensesCSV)
		if err != nil {
			return nil, err
		}
		otherExpenses = otherExpenses.Add(extra)
		log.Debug("additional expenses loaded", zap.String("total", extra.String()))
	}

	stage = collector.Start("tax computation")
	taxResult := tax.Compute(b.TaxInputs(otherExpenses), opts.Rates)
	stage.End()

	var reconciliation *qbo.Reconciliation
	if opts.QBOAccounts != "" || opts.QBODate != "" {
		stage = collector.Start("QuickBooks reconciliation")
		reconciliation, err = qbo.Reconcile(b.BookCash(), b.BookExpenses(), opts.QBOAccounts, opts.QBODate)
		stage.End()
		if err != nil {
			return nil, err
		}
	}

	data := report.Build(opts.Company, opts.PeriodEnd, b, taxResult, reconciliation)
	for _, warning := range data.Warnings {
		log.Warn("processing warning", zap.String("warning", warning.String()))
	}
	return data, nil
}

// parsePeriodEnd resolves the period end from the flag or config value,
// defaulting to today.
func parsePeriodEnd(value string) (time.Time, error) {
	if value == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid period end %q: expected YYYY-MM-DD", value)
	}
	return t, nil
}
