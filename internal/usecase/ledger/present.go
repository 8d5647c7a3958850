package ledger

import "github.com/shopspring/decimal"

// LowFundThreshold is the remaining percentage below which a fund is shown as a warning
const LowFundThreshold = 20

// ClampPercentage bounds a percentage to [0,100] for progress indicators.
// Stored and computed values are never clamped; only what gets drawn is.
func ClampPercentage(p int64) int64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// FormatAmount renders a currency amount with exactly two decimals
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(centPlaces)
}

// IsLowFund reports whether the remaining percentage should be highlighted
func IsLowFund(p int64) bool {
	return p < LowFundThreshold
}
