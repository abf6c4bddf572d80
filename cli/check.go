package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"

	"flexbalance/tax"
)

type CheckCmd struct {
	Statement string `arg:"" help:"Flex Query CSV export." type:"existingfile"`

	PeriodEnd string `help:"Period end date (YYYY-MM-DD); defaults to today." name:"period-end"`
	RatesDir  string `help:"Directory of monthly exchange-rate CSV files." type:"existingdir" optional:""`
}

// Run processes the statement and verifies the books tally: balanced trial
// balance, no pending tax-side disposals, and no processing warnings. Any
// violation is an error so scripted runs exit non-zero.
func (cmd *CheckCmd) Run(kctx *kong.Context, globals *Globals) error {
	cfg, err := LoadConfig(globals.Config)
	if err != nil {
		return err
	}
	periodEnd, err := parsePeriodEnd(cmd.PeriodEnd)
	if err != nil {
		return err
	}
	logger, err := newLogger(globals.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	data, err := runPipeline(context.Background(), pipelineOptions{
		Statement: cmd.Statement,
		Company:   cfg.Company,
		PeriodEnd: periodEnd,
		RatesDir:  cmd.RatesDir,
		Rates:     cfg.Rates(),
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	problems := 0

	if data.Balanced {
		printSuccess(kctx.Stdout, fmt.Sprintf("trial balance tallies at %s", data.TotalDebits.Round(2)))
	} else {
		diff := data.TotalDebits.Sub(data.TotalCredits)
		printError(kctx.Stdout, fmt.Sprintf("trial balance out of balance by %s", diff.Round(2)))
		problems++
	}

	// Every pooled holding must carry a non-negative cost; a clamped pool
	// already surfaced as a warning.
	for _, entry := range data.Pool {
		if entry.Cost.LessThan(decimal.Zero) {
			printError(kctx.Stdout, fmt.Sprintf("pool cost negative for %s", entry.Symbol))
			problems++
		}
	}

	for _, warning := range data.Warnings {
		printError(kctx.Stdout, warning.String())
		problems++
	}

	if relief := reliefNote(data.Tax); relief != "" {
		printInfof(kctx.Stdout, "%s", relief)
	}

	if problems > 0 {
		return fmt.Errorf("%d problem(s) found", problems)
	}
	printSuccess(kctx.Stdout, fmt.Sprintf("%d disposals, net gain %s, tax %s",
		len(data.Disposals), data.NetGain, data.Tax.Liability))
	return nil
}

func reliefNote(result *tax.Result) string {
	if result == nil || !result.Relief.Applicable || result.Relief.Warning == "" {
		return ""
	}
	return result.Relief.Warning
}
