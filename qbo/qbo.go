// Package qbo reconciles the book figures against QuickBooks Online
// exports: the bank balance against the Transaction Detail by Account
// report and total expenses against the Transaction List by Date report.
//
// Both exports carry a title block; the column headers sit on row 5. Rows
// without a transaction date are subtotals and are ignored.
package qbo

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// headerRow is the 0-based index of the column header row in the exports.
const headerRow = 4

var (
	bankTolerance    = decimal.NewFromFloat(0.01)
	expenseTolerance = decimal.NewFromInt(1)
)

// Reconciliation compares the books with the QuickBooks exports. Differences
// are book minus QuickBooks.
type Reconciliation struct {
	BookCash     decimal.Decimal
	BookExpenses decimal.Decimal

	QBOBankBalance decimal.Decimal
	QBOExpenses    decimal.Decimal

	BankDiff    decimal.Decimal
	ExpenseDiff decimal.Decimal

	BankReconciled  bool
	ExpensesAligned bool

	HasBankExport    bool
	HasExpenseExport bool
}

// Reconcile loads whichever exports are present and computes the diffs. An
// empty path skips that side of the reconciliation; expenses are compared
// as magnitudes since QuickBooks reports them as negative amounts.
func Reconcile(bookCash, bookExpenses decimal.Decimal, accountsPath, datePath string) (*Reconciliation, error) {
	r := &Reconciliation{BookCash: bookCash, BookExpenses: bookExpenses}

	if accountsPath != "" {
		balance, err := BankBalance(accountsPath)
		if err != nil {
			return nil, err
		}
		r.QBOBankBalance = balance
		r.HasBankExport = true
	}
	if datePath != "" {
		expenses, err := ExpenseTotal(datePath)
		if err != nil {
			return nil, err
		}
		r.QBOExpenses = expenses
		r.HasExpenseExport = true
	}

	r.BankDiff = bookCash.Sub(r.QBOBankBalance)
	r.ExpenseDiff = bookExpenses.Sub(r.QBOExpenses.Abs())
	r.BankReconciled = r.BankDiff.Abs().LessThan(bankTolerance)
	r.ExpensesAligned = r.ExpenseDiff.Abs().LessThan(expenseTolerance)
	return r, nil
}

// BankBalance returns the ending balance from a Transaction Detail by
// Account export: the last non-empty Balance value among dated rows.
func BankBalance(path string) (decimal.Decimal, error) {
	rows, header, err := readExport(path)
	if err != nil {
		return decimal.Zero, err
	}

	dateCol := columnIndex(header, "transaction date", "date")
	balanceCol := columnIndex(header, "balance")
	amountCol := columnIndex(header, "amount")

	balance := decimal.Zero
	haveBalance := false
	amountSum := decimal.Zero
	for _, row := range rows {
		if !hasValue(row, dateCol) {
			continue
		}
		if v, ok := cellDecimal(row, balanceCol); ok {
			balance = v
			haveBalance = true
		}
		if v, ok := cellDecimal(row, amountCol); ok {
			amountSum = amountSum.Add(v)
		}
	}

	// Exports without a running balance column fall back to the amount sum.
	if !haveBalance {
		balance = amountSum
	}
	return balance.Round(2), nil
}

// ExpenseTotal sums the negative amounts from a Transaction List by Date
// export. The result is negative or zero.
func ExpenseTotal(path string) (decimal.Decimal, error) {
	rows, header, err := readExport(path)
	if err != nil {
		return decimal.Zero, err
	}

	dateCol := columnIndex(header, "date")
	amountCol := columnIndex(header, "amount")

	total := decimal.Zero
	for _, row := range rows {
		if !hasValue(row, dateCol) {
			continue
		}
		if v, ok := cellDecimal(row, amountCol); ok && v.IsNegative() {
			total = total.Add(v)
		}
	}
	return total.Round(2), nil
}

// readExport opens the first sheet and splits it at the header row.
func readExport(path string) (rows [][]string, header []string, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open QuickBooks export: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%s has no sheets", path)
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) <= headerRow {
		return nil, nil, fmt.Errorf("%s has no header row", path)
	}
	return all[headerRow+1:], all[headerRow], nil
}

// columnIndex matches a header by substring, first name that hits wins.
func columnIndex(header []string, names ...string) int {
	for _, name := range names {
		for i, h := range header {
			if strings.Contains(strings.ToLower(strings.TrimSpace(h)), name) {
				return i
			}
		}
	}
	return -1
}

func hasValue(row []string, col int) bool {
	return col >= 0 && col < len(row) && strings.TrimSpace(row[col]) != ""
}

func cellDecimal(row []string, col int) (decimal.Decimal, bool) {
	if !hasValue(row, col) {
		return decimal.Zero, false
	}
	s := strings.ReplaceAll(strings.TrimSpace(row[col]), ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
