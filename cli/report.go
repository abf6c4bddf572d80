package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"

	"flexbalance/report"
	"flexbalance/telemetry"
)

type ReportCmd struct {
	Statement string `arg:"" help:"Flex Query CSV export." type:"existingfile"`

	Output             string   `help:"HTML report output path." short:"o" default:"report.html"`
	Company            string   `help:"Company name for the report header."`
	PeriodEnd          string   `help:"Period end date (YYYY-MM-DD); defaults to today." name:"period-end"`
	ManagementExpenses float64  `help:"Deductible management expenses outside the brokerage, in pounds."`
	ExpensesCSV        string   `help:"CSV of additional deductible expenses (description, amount)." type:"existingfile" optional:""`
	OwnersLoan         string   `help:"Owner's loan workbook (.xlsx)." type:"existingfile" optional:""`
	QBOAccounts        string   `help:"QuickBooks Transaction Detail by Account export (.xlsx)." type:"existingfile" optional:""`
	QBODate            string   `help:"QuickBooks Transaction List by Date export (.xlsx)." type:"existingfile" optional:""`
	RatesDir           string   `help:"Directory of monthly exchange-rate CSV files; fetched over HTTP when unset." type:"existingdir" optional:""`
	SkipAccount        []string `help:"Loan accounts whose inbound transfers already appear in the statement."`
	Force              bool     `help:"Overwrite the output file without asking." short:"f"`
}

func (cmd *ReportCmd) Run(kctx *kong.Context, globals *Globals) error {
	opts, err := cmd.options(globals)
	if err != nil {
		return err
	}
	defer func() { _ = opts.Logger.Sync() }()

	if _, err := os.Stat(cmd.Output); err == nil && !cmd.Force {
		overwrite, err := promptYesNo(fmt.Sprintf("Overwrite %s?", cmd.Output))
		if err != nil {
			return err
		}
		if !overwrite {
			printInfof(kctx.Stdout, "keeping existing %s", pathStyle.Render(cmd.Output))
			return nil
		}
	}

	runCtx := context.Background()
	var collector telemetry.Collector
	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)
	}

	var run telemetry.Timer
	if collector != nil {
		run = collector.Start("report " + filepath.Base(cmd.Statement))
	}

	data, err := runPipeline(runCtx, opts)

	if run != nil {
		run.End()
	}
	if collector != nil {
		_, _ = fmt.Fprintln(kctx.Stderr)
		collector.Report(kctx.Stderr)
	}
	if err != nil {
		return err
	}

	if err := report.WriteHTML(cmd.Output, data); err != nil {
		return err
	}

	report.Terminal(kctx.Stdout, data)
	printSuccess(kctx.Stdout, "report written to "+pathStyle.Render(cmd.Output))
	return nil
}

// options merges flags over the config file; flags win.
func (cmd *ReportCmd) options(globals *Globals) (pipelineOptions, error) {
	cfg, err := LoadConfig(globals.Config)
	if err != nil {
		return pipelineOptions{}, err
	}

	company := cmd.Company
	if company == "" {
		company = cfg.Company
	}
	if company == "" {
		company = "Investment Holdings"
	}

	periodEndValue := cmd.PeriodEnd
	if periodEndValue == "" {
		periodEndValue = cfg.PeriodEnd
	}
	periodEnd, err := parsePeriodEnd(periodEndValue)
	if err != nil {
		return pipelineOptions{}, err
	}

	expenses := cmd.ManagementExpenses
	if expenses == 0 {
		expenses = cfg.ManagementExpenses
	}

	expensesCSV := cmd.ExpensesCSV
	if expensesCSV == "" {
		expensesCSV = cfg.ExpensesCSV
	}

	skip := cmd.SkipAccount
	if len(skip) == 0 {
		skip = cfg.SkipAccounts
	}

	logger, err := newLogger(globals.Verbose)
	if err != nil {
		return pipelineOptions{}, err
	}

	return pipelineOptions{
		Statement:          cmd.Statement,
		Company:            company,
		PeriodEnd:          periodEnd,
		RatesDir:           cmd.RatesDir,
		ManagementExpenses: decimal.NewFromFloat(expenses),
		ExpensesCSV:        expensesCSV,
		OwnersLoan:         cmd.OwnersLoan,
		QBOAccounts:        cmd.QBOAccounts,
		QBODate:            cmd.QBODate,
		SkipAccounts:       skip,
		Rates:              cfg.Rates(),
		Logger:             logger,
	}, nil
}
