package tax

import "github.com/shopspring/decimal"

// Return maps the computed figures onto the statutory tax-return boxes.
type Return struct {
	Box13NonTradingProfits  decimal.Decimal
	Box16ChargeableGains    decimal.Decimal
	Box46TaxableTotalProfit decimal.Decimal
	Box500CorporationTax    decimal.Decimal
}

// Return maps the result onto the CT600 boxes: 13 non-trading profits,
// 16 chargeable gains, 46 taxable total profit, 500 corporation tax.
func (r *Result) Return() Return {
	return Return{
		Box13NonTradingProfits:  r.NonTrading,
		Box16ChargeableGains:    r.ChargeableGains,
		Box46TaxableTotalProfit: r.TaxableProfit,
		Box500CorporationTax:    r.Liability,
	}
}
