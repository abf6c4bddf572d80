package flex

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Parse reads a Flex Query CSV export. File-level problems (unreadable
// input, no CSV structure) return an error; malformed individual rows are
// skipped and recorded on the statement.
func Parse(r io.Reader) (*Statement, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // sections have different widths
	reader.LazyQuotes = true

	stmt := &Statement{}
	headers := make(map[string][]string)
	line := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			stmt.skip(line, "", fmt.Sprintf("unreadable CSV line: %v", err))
			continue
		}
		if len(record) < 3 {
			continue
		}

		rowType := strings.TrimSpace(record[0])
		section := strings.TrimSpace(record[1])

		switch rowType {
		case "HEADER":
			headers[section] = record
		case "DATA":
			header, ok := headers[section]
			if !ok {
				stmt.skip(line, section, "data row before section header")
				continue
			}
			stmt.parseRow(line, section, header, record)
		}
	}
	return stmt, nil
}

// ParseFile parses a Flex export from disk.
func ParseFile(path string) (*Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open flex statement: %w", err)
	}
	defer f.Close()

	stmt, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return stmt, nil
}

// parseRow zips a DATA row with its section header and routes it by section
// name. Unknown sections are ignored.
func (s *Statement) parseRow(line int, section string, header, record []string) {
	row := make(map[string]string, len(record))
	for i, name := range header {
		if i < len(record) {
			row[strings.TrimSpace(name)] = strings.TrimSpace(record[i])
		}
	}

	name := strings.ToLower(section)
	switch {
	case strings.Contains(name, "trade") || section == "TRNT":
		s.parseTrade(line, section, row)
	case strings.Contains(name, "cash") || strings.Contains(name, "dividend") ||
		section == "STCI" || section == "CTRN":
		s.parseCash(line, section, row)
	case strings.Contains(name, "position") || strings.Contains(name, "open") ||
		section == "POST":
		s.parsePosition(line, section, row)
	}
}

func (s *Statement) parseTrade(line int, section string, row map[string]string) {
	date, err := dateField(row, tradeDateFields)
	if err != nil {
		s.skip(line, section, err.Error())
		return
	}
	symbol := field(row, symbolFields)
	if symbol == "" {
		return
	}

	trade := Trade{
		Date:        date,
		Symbol:      symbol,
		Description: field(row, descFields),
		Side:        field(row, sideFields),
		Currency:    currencyOrDefault(row),
		AssetClass:  assetClassOrDefault(row),
	}

	var parseErr error
	if trade.Quantity, parseErr = decimalField(row, quantityFields); parseErr == nil {
		trade.Quantity = trade.Quantity.Abs()
		if trade.Price, parseErr = decimalField(row, priceFields); parseErr == nil {
			if trade.Proceeds, parseErr = decimalField(row, proceedsFields); parseErr == nil {
				trade.Commission, parseErr = decimalField(row, commissionField)
				trade.Commission = trade.Commission.Abs()
			}
		}
	}
	if parseErr != nil {
		s.skip(line, section, parseErr.Error())
		return
	}

	s.Trades = append(s.Trades, trade)
}

func (s *Statement) parseCash(line int, section string, row map[string]string) {
	date, err := dateField(row, cashDateFields)
	if err != nil {
		s.skip(line, section, err.Error())
		return
	}
	amount, err := decimalField(row, amountFields)
	if err != nil {
		s.skip(line, section, err.Error())
		return
	}
	if amount.IsZero() {
		return
	}

	s.Cash = append(s.Cash, CashTransaction{
		Date:        date,
		Type:        field(row, cashTypeFields),
		Symbol:      field(row, symbolFields),
		Description: field(row, descFields),
		Amount:      amount,
		Currency:    currencyOrDefault(row),
	})
}

func (s *Statement) parsePosition(line int, section string, row map[string]string) {
	symbol := field(row, symbolFields)
	if symbol == "" {
		return
	}

	pos := Position{
		Symbol:      symbol,
		Description: field(row, descFields),
		Currency:    currencyOrDefault(row),
	}

	var parseErr error
	if pos.Quantity, parseErr = decimalField(row, quantityFields); parseErr == nil {
		if pos.CostBasis, parseErr = decimalField(row, costBasisFields); parseErr == nil {
			pos.MarketValue, parseErr = decimalField(row, valueFields)
		}
	}
	if parseErr != nil {
		s.skip(line, section, parseErr.Error())
		return
	}
	if pos.Quantity.IsZero() {
		return
	}

	s.Positions = append(s.Positions, pos)
}

func (s *Statement) skip(line int, section, reason string) {
	s.Skipped = append(s.Skipped, SkippedRow{Line: line, Section: section, Reason: reason})
}

func currencyOrDefault(row map[string]string) string {
	if c := field(row, currencyFields); c != "" {
		return c
	}
	return "USD"
}

func assetClassOrDefault(row map[string]string) string {
	if c := field(row, assetClassField); c != "" {
		return c
	}
	return "STK"
}
