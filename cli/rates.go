package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"flexbalance/hmrc"
)

type RatesCmd struct {
	Month    string `arg:"" help:"Month to fetch (YYYY-MM)."`
	RatesDir string `help:"Read from a local directory instead of fetching." type:"existingdir" optional:""`
}

func (cmd *RatesCmd) Run(kctx *kong.Context, globals *Globals) error {
	month, err := time.ParseInLocation("2006-01", cmd.Month, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid month %q: expected YYYY-MM", cmd.Month)
	}

	logger, err := newLogger(globals.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var table map[string]decimal.Decimal
	if cmd.RatesDir != "" {
		table, err = hmrc.NewDirSource(cmd.RatesDir).Table(context.Background(), month.Year(), month.Month())
	} else {
		table, err = hmrc.NewHTTPSource(nil, logger).Table(context.Background(), month.Year(), month.Month())
	}
	if err != nil {
		return err
	}

	codes := make([]string, 0, len(table))
	for code := range table {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	printInfof(kctx.Stdout, "%d currencies for %s (units per £1)", len(codes), cmd.Month)
	for _, code := range codes {
		fmt.Fprintf(kctx.Stdout, "  %s  %s\n", code, table[code])
	}
	return nil
}
