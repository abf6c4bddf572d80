// Package tax computes the corporation-tax position of an investment holding
// company from the Section 104 capital gains figure and a small set of income
// and expense totals. The computation is stateless: Compute takes its inputs
// and rate parameters and returns a fully populated result, including the
// interest-restriction schedule, the adjustment rows for the computation
// schedule, and the tax-return box mapping.
package tax

import (
	"github.com/shopspring/decimal"
)

// Rates holds the rate parameters of the tiered liability calculation and
// the interest restriction. Defaults are the 2025-26 figures; they can be
// overridden from the config file.
type Rates struct {
	// SmallProfitsRate applies to profits up to LowerThreshold.
	SmallProfitsRate decimal.Decimal
	// MainRate applies to profits of UpperThreshold and above.
	MainRate decimal.Decimal
	// LowerThreshold and UpperThreshold bound the marginal relief band.
	LowerThreshold decimal.Decimal
	UpperThreshold decimal.Decimal
	// MarginalReliefFraction smooths the band transition (3/200).
	MarginalReliefFraction decimal.Decimal
	// InterestAllowanceRatio caps deductible interest at this fraction of
	// taxable earnings (30%).
	InterestAllowanceRatio decimal.Decimal
}

// DefaultRates returns the 2025-26 corporation tax parameters.
func DefaultRates() Rates {
	return Rates{
		SmallProfitsRate:       decimal.NewFromFloat(0.19),
		MainRate:               decimal.NewFromFloat(0.25),
		LowerThreshold:         decimal.NewFromInt(50000),
		UpperThreshold:         decimal.NewFromInt(250000),
		MarginalReliefFraction: decimal.NewFromInt(3).Div(decimal.NewFromInt(200)),
		InterestAllowanceRatio: decimal.NewFromFloat(0.30),
	}
}

// Inputs are the totals the computation consumes, all in the reporting
// currency. They come from the trial balance accounts, the management
// expenses file and the Section 104 disposal summary.
type Inputs struct {
	DividendIncome decimal.Decimal
	InterestIncome decimal.Decimal
	BrokerFees     decimal.Decimal
	OtherExpenses  decimal.Decimal
	InterestPaid   decimal.Decimal
	NetCapitalGain decimal.Decimal
}

// deductibleExpenses is the management-expense total used both as a
// deduction and as the earnings proxy of the interest restriction.
func (in Inputs) deductibleExpenses() decimal.Decimal {
	return in.BrokerFees.Add(in.OtherExpenses)
}

// AdjustmentKind categorizes a schedule row.
type AdjustmentKind string

const (
	Exempt          AdjustmentKind = "exempt"
	ChargeableGains AdjustmentKind = "chargeable_gains"
	Deduction       AdjustmentKind = "deduction"
)

// Adjustment is a labeled row of the tax computation schedule.
type Adjustment struct {
	Description string
	Amount      decimal.Decimal
	Kind        AdjustmentKind
}

// InterestRelief is the result of the interest deduction restriction:
// allowable interest is capped at a fraction of taxable earnings.
type InterestRelief struct {
	InterestPaid    decimal.Decimal
	Allowable       decimal.Decimal
	Disallowed      decimal.Decimal
	Limit           decimal.Decimal
	TaxableEarnings decimal.Decimal
	Applicable      bool
	// Warning flags the low confidence of applying the restriction to an
	// investment company; whether it applies cannot be determined from the
	// data alone.
	Warning string
}

const reliefWarning = "interest restriction may not apply to investment companies; seek professional tax advice"

// Result is the complete tax position.
type Result struct {
	Inputs      Inputs
	Rates       Rates
	Relief      InterestRelief
	Adjustments []Adjustment

	NonTrading      decimal.Decimal
	ChargeableGains decimal.Decimal
	TaxableProfit   decimal.Decimal
	Liability       decimal.Decimal
}

// Compute runs the full computation. It never fails: the inputs are plain
// totals and every edge (zero interest, negative earnings, zero profit) has
// a defined outcome.
func Compute(in Inputs, rates Rates) *Result {
	relief := interestRelief(in, rates)

	nonTrading := round2(in.InterestIncome.Sub(in.deductibleExpenses()).Sub(relief.Allowable))
	taxable := round2(nonTrading.Add(in.NetCapitalGain))

	r := &Result{
		Inputs:          in,
		Rates:           rates,
		Relief:          relief,
		NonTrading:      nonTrading,
		ChargeableGains: in.NetCapitalGain,
		TaxableProfit:   taxable,
		Liability:       Liability(taxable, rates),
		Adjustments: []Adjustment{
			{Description: "Dividend income (exempt)", Amount: in.DividendIncome, Kind: Exempt},
			{Description: "Management expenses", Amount: in.deductibleExpenses(), Kind: Deduction},
			{Description: "Interest paid (allowable)", Amount: relief.Allowable, Kind: Deduction},
			{Description: "Capital gains (Section 104)", Amount: in.NetCapitalGain, Kind: ChargeableGains},
		},
	}
	return r
}

// interestRelief applies the deduction restriction: the earnings proxy is
// interest income less management expenses, and allowable interest is capped
// at InterestAllowanceRatio of it.
func interestRelief(in Inputs, rates Rates) InterestRelief {
	if in.InterestPaid.IsZero() {
		return InterestRelief{
			InterestPaid: decimal.Zero,
			Allowable:    decimal.Zero,
			Disallowed:   decimal.Zero,
		}
	}

	earnings := in.InterestIncome.Sub(in.deductibleExpenses())
	if !earnings.IsPositive() {
		return InterestRelief{
			InterestPaid:    in.InterestPaid,
			Allowable:       decimal.Zero,
			Disallowed:      in.InterestPaid,
			TaxableEarnings: earnings,
			Applicable:      true,
			Warning:         reliefWarning,
		}
	}

	limit := round2(earnings.Mul(rates.InterestAllowanceRatio))
	allowable := decimal.Min(in.InterestPaid, limit)
	return InterestRelief{
		InterestPaid:    in.InterestPaid,
		Allowable:       allowable,
		Disallowed:      in.InterestPaid.Sub(allowable),
		Limit:           limit,
		TaxableEarnings: earnings,
		Applicable:      true,
		Warning:         reliefWarning,
	}
}

// Liability computes the tiered corporation tax charge on a taxable profit.
// The marginal relief term makes the function continuous at both thresholds:
// at the lower threshold the relieved main-rate charge equals the small
// profits charge, and the relief vanishes at the upper threshold.
func Liability(profit decimal.Decimal, rates Rates) decimal.Decimal {
	if !profit.IsPositive() {
		return decimal.Zero
	}
	if profit.LessThanOrEqual(rates.LowerThreshold) {
		return round2(profit.Mul(rates.SmallProfitsRate))
	}
	if profit.GreaterThanOrEqual(rates.UpperThreshold) {
		return round2(profit.Mul(rates.MainRate))
	}
	relief := rates.UpperThreshold.Sub(profit).Mul(rates.MarginalReliefFraction)
	return round2(profit.Mul(rates.MainRate).Sub(relief))
}

// EffectiveRate returns liability / taxable profit, to four decimal places.
// The second return is false when the profit is not positive.
func (r *Result) EffectiveRate() (decimal.Decimal, bool) {
	if !r.TaxableProfit.IsPositive() {
		return decimal.Zero, false
	}
	return r.Liability.Div(r.TaxableProfit).Round(4), true
}

func round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }
