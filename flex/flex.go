// Package flex parses IBKR Activity Flex Query CSV exports into normalized
// statement records.
//
// A Flex export is a sectioned CSV: every line starts with a row type and a
// section code, HEADER lines carry the column names for their section, and
// DATA lines carry values. Sections, column names and date formats vary
// between query configurations, so fields are resolved through an explicit
// priority list of synonymous column names rather than fixed offsets.
//
// Rows that cannot be parsed are skipped and recorded on the statement; a
// malformed row never aborts the import.
package flex

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is a single execution from the Trades section. Proceeds are the net
// amount as reported (positive for sells, negative for buys), in the trade
// currency; commission is reported as a magnitude.
type Trade struct {
	Date        time.Time
	Symbol      string
	Description string
	Side        string
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	Proceeds    decimal.Decimal
	Commission  decimal.Decimal
	Currency    string
	AssetClass  string
}

// IsBuy reports whether the trade is an acquisition. IBKR uses both
// BUY/SELL and BOT/SLD depending on the query configuration.
func (t Trade) IsBuy() bool {
	switch t.Side {
	case "BUY", "BOT", "buy", "Buy":
		return true
	}
	return false
}

// IsSell reports whether the trade is a disposal.
func (t Trade) IsSell() bool {
	switch t.Side {
	case "SELL", "SLD", "sell", "Sell":
		return true
	}
	return false
}

// CashTransaction is a row from the cash transactions section: dividends,
// withholding tax, broker interest, fees, deposits and withdrawals.
type CashTransaction struct {
	Date        time.Time
	Type        string
	Symbol      string
	Description string
	Amount      decimal.Decimal
	Currency    string
}

// Position is an open position at period end, used for reporting only.
type Position struct {
	Symbol      string
	Description string
	Quantity    decimal.Decimal
	CostBasis   decimal.Decimal
	MarketValue decimal.Decimal
	Currency    string
}

// SkippedRow records a DATA row that could not be parsed.
type SkippedRow struct {
	Line    int
	Section string
	Reason  string
}

// Statement is the parsed content of one Flex export.
type Statement struct {
	Trades    []Trade
	Cash      []CashTransaction
	Positions []Position
	Skipped   []SkippedRow
}
