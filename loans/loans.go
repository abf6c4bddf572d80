// Package loans reads director's loan movements from the company's loan
// workbook and posts them to the books.
//
// The workbook carries a single sheet with Date, Account and Amount columns,
// split into two blocks by section header rows: "Director -> Business" for
// money lent to the company and "Business -> Director" for repayments. Rows
// before the first section header are ignored.
package loans

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"flexbalance/books"
)

// SheetName is the sheet the movements live on.
const SheetName = "owners loan"

// Movement is one loan transaction. In means money moved from the director
// to the company. Amount is always a positive magnitude.
type Movement struct {
	Date    time.Time
	Account string
	Amount  decimal.Decimal
	In      bool
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "02-01-2006", "01-02-06", "2006-01-02 15:04:05"}

// Read loads movements dated on or before periodEnd. Transfers from the
// listed accounts are skipped in the inbound section; those already appear
// in the brokerage statement as deposits and would double-count.
func Read(path string, periodEnd time.Time, skipAccounts ...string) ([]Movement, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open loan workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", SheetName, err)
	}

	skip := make(map[string]bool, len(skipAccounts))
	for _, acc := range skipAccounts {
		skip[strings.ToUpper(acc)] = true
	}

	var (
		movements []Movement
		inSection bool
		active    bool
	)
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}

		if in, ok := sectionHeader(row[0]); ok {
			inSection, active = in, true
			continue
		}
		if !active {
			continue
		}
		if len(row) < 3 {
			continue
		}

		date, err := parseDate(row[0])
		if err != nil {
			continue
		}
		if date.After(periodEnd) {
			continue
		}

		amount, err := parseAmount(row[2])
		if err != nil || amount.IsZero() {
			continue
		}

		account := strings.ToUpper(strings.TrimSpace(row[1]))
		if inSection && skip[account] {
			continue
		}

		movements = append(movements, Movement{
			Date:    date,
			Account: account,
			Amount:  amount.Abs(),
			In:      inSection,
		})
	}
	return movements, nil
}

// Apply posts the movements to the bank and director's loan accounts.
func Apply(b *books.Books, movements []Movement) {
	for _, m := range movements {
		direction := "out"
		if m.In {
			direction = "in"
		}
		b.PostLoan(m.In, m.Amount, fmt.Sprintf("Owner's loan %s (%s)", direction, m.Account))
	}
}

// sectionHeader recognizes the block delimiters; word order decides the
// direction.
func sectionHeader(cell string) (in, ok bool) {
	s := strings.TrimSpace(cell)
	if !strings.Contains(s, "->") {
		return false, false
	}
	director := strings.Index(s, "Director")
	business := strings.Index(s, "Business")
	if director < 0 || business < 0 {
		return false, false
	}
	return director < business, true
}

func parseDate(cell string) (time.Time, error) {
	s := strings.TrimSpace(cell)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}

func parseAmount(cell string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Round(2), nil
}
