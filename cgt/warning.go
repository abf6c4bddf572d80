package cgt

import "fmt"

// WarningCode classifies a non-fatal degradation recorded during processing.
type WarningCode string

const (
	// PoolUnderflow marks a pool debit that exceeded the held quantity or
	// cost. The missing portion is treated as zero cost (a phantom gain),
	// usually caused by acquisition history missing from the statement.
	PoolUnderflow WarningCode = "pool_underflow"

	// LedgerShortfall marks a FIFO disposal that exceeded the total held
	// quantity. The ledger consumes what it holds and reports the rest.
	LedgerShortfall WarningCode = "ledger_shortfall"
)

// Warning records a degraded computation step. Warnings are data attached to
// the result, not errors: processing always continues and the caller decides
// how to surface them.
type Warning struct {
	Code    WarningCode
	Symbol  string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s [%s]: %s", w.Code, w.Symbol, w.Message)
}
