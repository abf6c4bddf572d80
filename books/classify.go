package books

import "strings"

type cashKind int

const (
	cashOther cashKind = iota
	cashDividend
	cashWithholding
	cashInterest
	cashFee
	cashTransfer
)

// normalizeType maps the free-text transaction type onto a posting rule.
// Withholding is checked before dividends so "Payment in Lieu of Dividends
// - Withholding" style types land on the tax account.
func normalizeType(t string) cashKind {
	s := strings.ToLower(t)
	switch {
	case strings.Contains(s, "withhold") || strings.Contains(s, "tax"):
		return cashWithholding
	case strings.Contains(s, "dividend"):
		return cashDividend
	case strings.Contains(s, "interest"):
		return cashInterest
	case strings.Contains(s, "fee") || strings.Contains(s, "commission"):
		return cashFee
	case strings.Contains(s, "deposit") || strings.Contains(s, "transfer"):
		return cashTransfer
	}
	return cashOther
}
