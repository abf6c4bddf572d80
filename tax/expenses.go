package tax

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// ReadExpenses sums the amounts in a CSV of deductible expenses kept outside
// the brokerage statement. The file carries a header row; the amount column
// is named "amount_gbp" or "amount" and may use comma grouping. The total is
// rounded to whole pence.
func ReadExpenses(path string) (decimal.Decimal, error) {
	f, err := os.Open(path)
	if err != nil {
		return decimal.Zero, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return decimal.Zero, fmt.Errorf("expenses %s: %w", path, err)
	}
	if len(records) == 0 {
		return decimal.Zero, nil
	}

	col := -1
	for i, name := range records[0] {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "amount_gbp", "amount":
			col = i
		}
	}
	if col < 0 {
		return decimal.Zero, fmt.Errorf("expenses %s: no amount column", path)
	}

	total := decimal.Zero
	for _, record := range records[1:] {
		if col >= len(record) {
			continue
		}
		value := strings.ReplaceAll(strings.TrimSpace(record[col]), ",", "")
		if value == "" {
			continue
		}
		amount, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, fmt.Errorf("expenses %s: bad amount %q", path, record[col])
		}
		total = total.Add(amount)
	}
	return total.Round(2), nil
}
