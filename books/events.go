package books

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"flexbalance/flex"
	"flexbalance/hmrc"
)

// TradeEvent is a trade normalized to the reporting currency. Amount is the
// full acquisition cost (including capitalised commission) for acquisitions,
// and the net proceeds (after sell commission) for disposals.
type TradeEvent struct {
	Date        time.Time
	Symbol      string
	AssetClass  string
	Acquisition bool
	Quantity    decimal.Decimal
	Amount      decimal.Decimal
}

// CashEvent is a cash transaction normalized to the reporting currency,
// amount signed as reported.
type CashEvent struct {
	Date        time.Time
	Type        string
	Symbol      string
	Description string
	Amount      decimal.Decimal
}

// FromStatement converts a parsed statement into reporting-currency events.
// Trades with a side that is neither buy nor sell are rejected; a missing
// exchange rate is fatal for the whole conversion.
func FromStatement(ctx context.Context, stmt *flex.Statement, conv *hmrc.Converter) ([]TradeEvent, []CashEvent, error) {
	trades := make([]TradeEvent, 0, len(stmt.Trades))
	for _, t := range stmt.Trades {
		var ev TradeEvent
		switch {
		case t.IsBuy():
			// Commission capitalised into cost under FRS 105.
			ev.Acquisition = true
			ev.Amount = t.Proceeds.Abs().Add(t.Commission)
		case t.IsSell():
			ev.Amount = t.Proceeds.Abs().Sub(t.Commission)
		default:
			return nil, nil, fmt.Errorf("trade %s %s: unknown side %q", t.Date.Format("2006-01-02"), t.Symbol, t.Side)
		}

		amount, err := conv.ToGBP(ctx, ev.Amount, t.Currency, t.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("convert trade %s %s: %w", t.Date.Format("2006-01-02"), t.Symbol, err)
		}
		ev.Date = t.Date
		ev.Symbol = t.Symbol
		ev.AssetClass = t.AssetClass
		ev.Quantity = t.Quantity
		ev.Amount = amount
		trades = append(trades, ev)
	}

	cash := make([]CashEvent, 0, len(stmt.Cash))
	for _, c := range stmt.Cash {
		amount, err := conv.ToGBP(ctx, c.Amount, c.Currency, c.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("convert cash %s %q: %w", c.Date.Format("2006-01-02"), c.Type, err)
		}
		cash = append(cash, CashEvent{
			Date:        c.Date,
			Type:        c.Type,
			Symbol:      c.Symbol,
			Description: c.Description,
			Amount:      amount,
		})
	}

	return trades, cash, nil
}
