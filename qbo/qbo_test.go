package qbo

import (
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func writeExport(t *testing.T, name string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		assert.NoError(t, err)
		assert.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, f.SaveAs(path))
	return path
}

func accountsExport(t *testing.T) string {
	return writeExport(t, "qbo_accounts.xlsx", [][]any{
		{"Company Ltd"},
		{"Transaction Detail by Account"},
		{"January - June 2025"},
		{},
		{"Transaction date", "Transaction type", "Amount", "Balance"},
		{"01/02/2025", "Deposit", "5000.00", "5000.00"},
		{"15/03/2025", "Expense", "-120.50", "4879.50"},
		{"", "Subtotal", "4879.50", ""},
		{"20/04/2025", "Deposit", "1,000.00", "5879.50"},
	})
}

func dateExport(t *testing.T) string {
	return writeExport(t, "qbo_date.xlsx", [][]any{
		{"Company Ltd"},
		{"Transaction List by Date"},
		{"January - June 2025"},
		{},
		{"Date", "Type", "Amount"},
		{"01/02/2025", "Deposit", "5000.00"},
		{"15/03/2025", "Expense", "-120.50"},
		{"18/03/2025", "Expense", "-30.25"},
		{"", "Subtotal", "-150.75"},
	})
}

func TestBankBalance(t *testing.T) {
	balance, err := BankBalance(accountsExport(t))
	assert.NoError(t, err)

	// Last dated row's running balance; the subtotal row has no date.
	assert.Equal(t, "5879.5", balance.String())
}

func TestExpenseTotal(t *testing.T) {
	total, err := ExpenseTotal(dateExport(t))
	assert.NoError(t, err)
	assert.Equal(t, "-150.75", total.String())
}

func TestReconcile(t *testing.T) {
	r, err := Reconcile(decimal.NewFromFloat(5879.50), decimal.NewFromFloat(151.20),
		accountsExport(t), dateExport(t))
	assert.NoError(t, err)

	assert.True(t, r.HasBankExport)
	assert.True(t, r.HasExpenseExport)
	assert.True(t, r.BankReconciled)
	assert.True(t, r.BankDiff.IsZero())

	// 151.20 - 150.75 is inside the £1 expense tolerance.
	assert.True(t, r.ExpensesAligned)
	assert.Equal(t, "0.45", r.ExpenseDiff.String())
}

func TestReconcileOutOfTolerance(t *testing.T) {
	r, err := Reconcile(decimal.NewFromInt(100), decimal.NewFromInt(500),
		accountsExport(t), dateExport(t))
	assert.NoError(t, err)
	assert.False(t, r.BankReconciled)
	assert.False(t, r.ExpensesAligned)
}

func TestReconcileWithoutExports(t *testing.T) {
	r, err := Reconcile(decimal.NewFromInt(100), decimal.NewFromInt(50), "", "")
	assert.NoError(t, err)
	assert.False(t, r.HasBankExport)
	assert.False(t, r.HasExpenseExport)
}

func TestBankBalanceMissingFile(t *testing.T) {
	_, err := BankBalance(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
