package books

import "github.com/shopspring/decimal"

// Account codes for the FRS 105 chart of accounts.
const (
	CashGBP          = "1100"
	CashUSD          = "1101"
	CashOtherCCY     = "1102"
	CashBank         = "1103"
	Investments      = "1200"
	Accruals         = "2100"
	OwnersLoan       = "2101"
	ShareCapital     = "3000"
	RetainedEarnings = "3100"
	ProfitForPeriod  = "3200"
	DividendIncome   = "4000"
	InterestIncome   = "4100"
	RealizedGains    = "4200"
	FXGains          = "4300"
	WithholdingTax   = "5000"
	Commissions      = "5100"
	BrokerFees       = "5200"
	BankCharges      = "5300"
	RealizedLosses   = "5400"
	FXLosses         = "5500"
	InterestPaid     = "5600"
)

var accountNames = map[string]string{
	CashGBP:          "Cash at Bank - GBP",
	CashUSD:          "Cash at Bank - USD",
	CashOtherCCY:     "Cash at Bank - Other CCY",
	CashBank:         "Cash at Bank - Other",
	Investments:      "Listed Investments at Cost",
	Accruals:         "Accruals and Deferred Income",
	OwnersLoan:       "Director's / Owner's Loan",
	ShareCapital:     "Share Capital",
	RetainedEarnings: "Retained Earnings B/F",
	ProfitForPeriod:  "Profit/(Loss) for Period",
	DividendIncome:   "Dividend Income (Gross)",
	InterestIncome:   "Bank Interest Received",
	RealizedGains:    "Realized Gains on Investments",
	FXGains:          "Foreign Exchange Gains",
	WithholdingTax:   "Foreign Withholding Tax",
	Commissions:      "Broker Commissions",
	BrokerFees:       "Broker Fees",
	BankCharges:      "Bank Charges",
	RealizedLosses:   "Realized Losses on Investments",
	FXLosses:         "Foreign Exchange Losses",
	InterestPaid:     "Interest Paid",
}

var incomeAccounts = []string{DividendIncome, InterestIncome, RealizedGains, FXGains}

var expenseAccounts = []string{
	WithholdingTax, Commissions, BrokerFees, BankCharges,
	RealizedLosses, FXLosses, InterestPaid,
}

// Account accumulates the debit and credit sides of one ledger account.
type Account struct {
	Code   string
	Name   string
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Balance is the debit balance; negative for credit-balance accounts.
func (a *Account) Balance() decimal.Decimal {
	return a.Debit.Sub(a.Credit)
}

// JournalEntry is one side of a posting, kept for the audit trail.
type JournalEntry struct {
	Account string
	Debit   decimal.Decimal
	Credit  decimal.Decimal
	Memo    string
}
