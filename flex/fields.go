package flex

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Synonymous column names in priority order. Flex query configurations name
// the same field differently; the first populated synonym wins.
var (
	tradeDateFields = []string{"TradeDate", "Trade Date", "DateTime", "Date/Time", "Date"}
	cashDateFields  = []string{"Date", "DateTime", "Date/Time", "SettleDate", "ReportDate"}
	symbolFields    = []string{"Symbol", "symbol"}
	descFields      = []string{"Description", "description"}
	sideFields      = []string{"Buy/Sell", "BuySell", "Side"}
	quantityFields  = []string{"Quantity", "quantity", "Position"}
	priceFields     = []string{"TradePrice", "OrigTradePrice", "Price", "price"}
	proceedsFields  = []string{"Proceeds", "proceeds"}
	commissionField = []string{"IBCommission", "Commission", "commission"}
	currencyFields  = []string{"CurrencyPrimary", "Currency", "currency"}
	assetClassField = []string{"AssetClass", "assetClass", "Asset Category"}
	cashTypeFields  = []string{"Type", "type"}
	amountFields    = []string{"Amount", "amount"}
	costBasisFields = []string{"CostBasisMoney", "CostBasis"}
	valueFields     = []string{"PositionValue", "MarkToMarketValue", "MarketValue"}
)

var dateFormats = []string{"2006-01-02", "20060102", "02-01-2006", "01/02/2006"}

// field returns the first non-empty value among the synonyms.
func field(row map[string]string, synonyms []string) string {
	for _, name := range synonyms {
		if v, ok := row[name]; ok && v != "" {
			return v
		}
	}
	return ""
}

// dateField extracts and parses a date. Datetime values carry a time part
// after ';' or ' ' which is discarded.
func dateField(row map[string]string, synonyms []string) (time.Time, error) {
	raw := field(row, synonyms)
	if raw == "" {
		return time.Time{}, fmt.Errorf("no date column found")
	}
	raw, _, _ = strings.Cut(raw, ";")
	raw, _, _ = strings.Cut(raw, " ")
	return parseDate(raw)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}

// decimalField parses a numeric value, tolerating thousands separators and
// the '--' placeholder IBKR emits for absent numbers.
func decimalField(row map[string]string, synonyms []string) (decimal.Decimal, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(field(row, synonyms)), ",", "")
	if raw == "" || raw == "--" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cannot parse amount %q: %w", raw, err)
	}
	return d, nil
}
