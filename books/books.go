// Package books keeps the double-entry company books for one reporting
// period: an FRS 105 chart of accounts, a journal, an FIFO cost ledger for
// the statutory accounts, and a Section 104 matcher for the tax computation.
// Both disciplines consume the same event stream in the same order.
package books

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"flexbalance/cgt"
	"flexbalance/tax"
)

// PooledAssetClasses are the asset classes fed to the Section 104 matcher.
// Everything else still flows through the FIFO ledger for the accounts.
var PooledAssetClasses = map[string]bool{"STK": true, "OPT": true}

// Books accumulates postings for one reporting period.
type Books struct {
	accounts map[string]*Account
	journal  []JournalEntry

	ledger  *cgt.Ledger
	matcher *cgt.Matcher

	assetClass map[string]string
	warnings   []cgt.Warning
}

// New returns an empty set of books with the full chart of accounts.
func New() *Books {
	accounts := make(map[string]*Account, len(accountNames))
	for code, name := range accountNames {
		accounts[code] = &Account{Code: code, Name: name}
	}
	return &Books{
		accounts:   accounts,
		ledger:     cgt.NewLedger(),
		matcher:    cgt.NewMatcher(),
		assetClass: make(map[string]string),
	}
}

// debit posts a debit, flipping to a credit when the amount is negative.
func (b *Books) debit(code string, amount decimal.Decimal, memo string) {
	if amount.IsNegative() {
		b.credit(code, amount.Neg(), memo)
		return
	}
	acc := b.accounts[code]
	acc.Debit = acc.Debit.Add(amount)
	b.journal = append(b.journal, JournalEntry{Account: code, Debit: amount, Memo: memo})
}

func (b *Books) credit(code string, amount decimal.Decimal, memo string) {
	if amount.IsNegative() {
		b.debit(code, amount.Neg(), memo)
		return
	}
	acc := b.accounts[code]
	acc.Credit = acc.Credit.Add(amount)
	b.journal = append(b.journal, JournalEntry{Account: code, Credit: amount, Memo: memo})
}

// Process posts the whole period. Trades are sorted by date with
// acquisitions before disposals on ties; a same-day disposal processed
// first would find no lots and record zero cost, inflating realized gains.
func (b *Books) Process(trades []TradeEvent, cash []CashEvent) error {
	sorted := slices.Clone(trades)
	slices.SortStableFunc(sorted, func(a, b TradeEvent) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		if a.Acquisition == b.Acquisition {
			return 0
		}
		if a.Acquisition {
			return -1
		}
		return 1
	})

	for _, t := range sorted {
		if err := b.postTrade(t); err != nil {
			return err
		}
		if PooledAssetClasses[t.AssetClass] {
			if err := b.feedMatcher(t); err != nil {
				return err
			}
		}
	}
	b.matcher.Flush()

	for _, c := range cash {
		b.postCash(c)
	}
	return nil
}

func (b *Books) postTrade(t TradeEvent) error {
	b.assetClass[t.Symbol] = t.AssetClass

	// FX conversions route to the FX gain/loss accounts, investments to
	// the realized gain/loss accounts.
	gainAcc, lossAcc := RealizedGains, RealizedLosses
	if t.AssetClass == "CASH" {
		gainAcc, lossAcc = FXGains, FXLosses
	}

	if t.Acquisition {
		if err := b.ledger.Acquire(t.Date, t.Symbol, t.Quantity, t.Amount); err != nil {
			return fmt.Errorf("post buy %s: %w", t.Symbol, err)
		}
		memo := fmt.Sprintf("Buy %s %s", t.Quantity, t.Symbol)
		b.debit(Investments, t.Amount, memo)
		b.credit(CashUSD, t.Amount, memo)
		return nil
	}

	costOfSold, shortfall, err := b.ledger.Dispose(t.Symbol, t.Quantity)
	if err != nil {
		return fmt.Errorf("post sell %s: %w", t.Symbol, err)
	}
	if shortfall.IsPositive() {
		b.warnings = append(b.warnings, cgt.Warning{
			Code:   cgt.LedgerShortfall,
			Symbol: t.Symbol,
			Message: fmt.Sprintf("sold %s with only %s held, cost of sale understated",
				t.Quantity, t.Quantity.Sub(shortfall)),
		})
	}

	b.debit(CashUSD, t.Amount, fmt.Sprintf("Sell %s %s", t.Quantity, t.Symbol))
	b.credit(Investments, costOfSold, fmt.Sprintf("Cost of %s %s sold", t.Quantity, t.Symbol))

	gainLoss := t.Amount.Sub(costOfSold)
	switch {
	case gainLoss.IsPositive():
		b.credit(gainAcc, gainLoss, fmt.Sprintf("Gain on %s", t.Symbol))
	case gainLoss.IsNegative():
		b.debit(lossAcc, gainLoss.Neg(), fmt.Sprintf("Loss on %s", t.Symbol))
	}
	return nil
}

func (b *Books) feedMatcher(t TradeEvent) error {
	if t.Acquisition {
		return b.matcher.Acquire(t.Date, t.Symbol, t.Quantity, t.Amount)
	}
	return b.matcher.Dispose(t.Date, t.Symbol, t.Quantity, t.Amount)
}

// postCash classifies a cash transaction by its reported type and posts it.
func (b *Books) postCash(c CashEvent) {
	amount := c.Amount.Abs()
	isCredit := c.Amount.IsPositive()
	kind := normalizeType(c.Type)

	switch {
	case kind == cashDividend:
		b.debit(CashUSD, amount, fmt.Sprintf("Dividend %s", c.Symbol))
		b.credit(DividendIncome, amount, fmt.Sprintf("Dividend income %s", c.Symbol))

	case kind == cashWithholding:
		b.debit(WithholdingTax, amount, fmt.Sprintf("WHT %s", c.Symbol))
		b.credit(CashUSD, amount, fmt.Sprintf("WHT deducted %s", c.Symbol))

	case kind == cashInterest && isCredit:
		b.debit(CashUSD, amount, "Interest received")
		b.credit(InterestIncome, amount, "Interest income")

	case kind == cashInterest:
		b.debit(InterestPaid, amount, "Interest paid")
		b.credit(CashUSD, amount, "Interest expense")

	case kind == cashFee:
		b.debit(BrokerFees, amount, fmt.Sprintf("Fee: %s", c.Description))
		b.credit(CashUSD, amount, "Fee paid")

	case kind == cashTransfer && isCredit:
		// Deposits from the shareholder are treated as capital.
		b.debit(CashUSD, amount, fmt.Sprintf("Deposit: %s", c.Description))
		b.credit(ShareCapital, amount, "Capital contribution")

	case kind == cashTransfer:
		b.debit(ShareCapital, amount, "Capital distribution")
		b.credit(CashUSD, amount, fmt.Sprintf("Withdrawal: %s", c.Description))

	case isCredit:
		b.debit(CashUSD, amount, fmt.Sprintf("Other: %s", c.Description))
		b.credit(InterestIncome, amount, "Other income")

	default:
		b.debit(BrokerFees, amount, fmt.Sprintf("Other: %s", c.Description))
		b.credit(CashUSD, amount, "Other expense")
	}
}

// Profit is the period's profit or loss, derived from the income and
// expense accounts. It is reported rather than posted: the journal holds
// balanced pairs only, so the trial balance tallies without a closing entry.
func (b *Books) Profit() decimal.Decimal {
	return b.income().Sub(b.expenses())
}

func (b *Books) income() decimal.Decimal {
	total := decimal.Zero
	for _, code := range incomeAccounts {
		acc := b.accounts[code]
		total = total.Add(acc.Credit.Sub(acc.Debit))
	}
	return total
}

func (b *Books) expenses() decimal.Decimal {
	total := decimal.Zero
	for _, code := range expenseAccounts {
		acc := b.accounts[code]
		total = total.Add(acc.Debit.Sub(acc.Credit))
	}
	return total
}

// TrialBalance returns the non-empty accounts in code order.
func (b *Books) TrialBalance() []Account {
	var rows []Account
	for _, acc := range b.accounts {
		if !acc.Debit.IsZero() || !acc.Credit.IsZero() {
			rows = append(rows, *acc)
		}
	}
	slices.SortFunc(rows, func(a, b Account) int {
		if a.Code < b.Code {
			return -1
		}
		if a.Code > b.Code {
			return 1
		}
		return 0
	})
	return rows
}

// Account returns one account by code, or nil for an unknown code.
func (b *Books) Account(code string) *Account {
	return b.accounts[code]
}

// Journal returns the posting audit trail in posting order.
func (b *Books) Journal() []JournalEntry {
	return b.journal
}

// Holdings returns the period-end investment holdings at cost, excluding
// FX conversions and custodied crypto which are not genuine holdings.
func (b *Books) Holdings() []cgt.Holding {
	var held []cgt.Holding
	for _, h := range b.ledger.Holdings() {
		switch b.assetClass[h.Symbol] {
		case "CASH", "CRYPTO":
			continue
		}
		held = append(held, h)
	}
	return held
}

// Matcher exposes the Section 104 state for the tax schedules.
func (b *Books) Matcher() *cgt.Matcher {
	return b.matcher
}

// Warnings returns ledger shortfalls followed by pool warnings.
func (b *Books) Warnings() []cgt.Warning {
	return append(slices.Clone(b.warnings), b.matcher.Warnings()...)
}

// TaxInputs assembles the tax computation inputs from the account balances.
// otherExpenses covers management expenses incurred outside the brokerage.
func (b *Books) TaxInputs(otherExpenses decimal.Decimal) tax.Inputs {
	credit := func(code string) decimal.Decimal {
		acc := b.accounts[code]
		return acc.Credit.Sub(acc.Debit)
	}
	debit := func(code string) decimal.Decimal {
		acc := b.accounts[code]
		return acc.Debit.Sub(acc.Credit)
	}
	return tax.Inputs{
		DividendIncome: credit(DividendIncome),
		InterestIncome: credit(InterestIncome),
		BrokerFees:     debit(BrokerFees),
		OtherExpenses:  otherExpenses,
		InterestPaid:   debit(InterestPaid),
		NetCapitalGain: b.matcher.NetGain(),
	}
}

// BookCash is the total of the cash accounts, for bank reconciliation.
func (b *Books) BookCash() decimal.Decimal {
	total := decimal.Zero
	for _, code := range []string{CashGBP, CashUSD, CashOtherCCY, CashBank} {
		total = total.Add(b.accounts[code].Balance())
	}
	return total
}

// BookExpenses is the total of the expense accounts a bookkeeping export
// would also carry, for expense reconciliation.
func (b *Books) BookExpenses() decimal.Decimal {
	total := decimal.Zero
	for _, code := range []string{BrokerFees, BankCharges, InterestPaid} {
		total = total.Add(b.accounts[code].Balance())
	}
	return total
}

// PostLoan posts one owner's loan movement between the bank account and the
// director's loan account. Positive in means money lent to the company.
func (b *Books) PostLoan(in bool, amount decimal.Decimal, memo string) {
	if in {
		b.debit(CashBank, amount, memo)
		b.credit(OwnersLoan, amount, memo)
		return
	}
	b.debit(OwnersLoan, amount, memo)
	b.credit(CashBank, amount, memo)
}
