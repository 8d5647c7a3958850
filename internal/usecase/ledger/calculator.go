// Package ledger holds the pure monthly meal-fund arithmetic.
//
// Nothing here performs I/O or keeps state: every function is deterministic
// for its inputs and safe to call from any number of goroutines.
package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roomsync/roomsync-backend/internal/domain"
)

// ErrNegativeWindow is returned when a month window size is negative
var ErrNegativeWindow = errors.New("month window sizes must be non-negative")

var hundred = decimal.NewFromInt(100)

// Remaining is the household fund left over for a period
type Remaining struct {
	Remaining  decimal.Decimal // May be negative (deficit)
	Percentage int64           // Not clamped
}

// MonthOption is one entry of a month selector
type MonthOption struct {
	Label string // "March 2025"
	Value string // "2025-03"
}

// ComputeAdjustedAmount returns the first contribution of a month with the previous month's dues folded in.
// Returns nil when the entry is not the member's first of the month, when there is no previous balance
// on record, or when amount is zero. No rounding is applied.
func ComputeAdjustedAmount(amount decimal.Decimal, previousMonthDues *decimal.Decimal, isFirstEntry bool) *decimal.Decimal {
	if !isFirstEntry || previousMonthDues == nil || amount.IsZero() {
		return nil
	}
	adjusted := amount.Add(*previousMonthDues)
	return &adjusted
}

// ComputeRemaining returns totalFund - totalSpend and that remainder as a whole percentage of totalFund.
// The percentage is rounded half away from zero and is 0 when totalFund is not positive.
func ComputeRemaining(totalFund, totalSpend decimal.Decimal) Remaining {
	remaining := totalFund.Sub(totalSpend)
	if !totalFund.IsPositive() {
		return Remaining{Remaining: remaining, Percentage: 0}
	}
	return Remaining{Remaining: remaining, Percentage: roundedPercent(remaining, totalFund)}
}

// roundedPercent computes round(part / whole * 100) exactly, without an intermediate division precision.
// whole must be positive.
func roundedPercent(part, whole decimal.Decimal) int64 {
	scaled := part.Mul(hundred)
	quotient, remainder := scaled.QuoRem(whole, 0)
	if remainder.Abs().Mul(decimal.NewFromInt(2)).GreaterThanOrEqual(whole) {
		if scaled.IsNegative() {
			quotient = quotient.Sub(decimal.NewFromInt(1))
		} else {
			quotient = quotient.Add(decimal.NewFromInt(1))
		}
	}
	return quotient.IntPart()
}

// GenerateMonthOptions lists every month from monthsBack before anchor's month through monthsForward after it,
// inclusive and in chronological order.
func GenerateMonthOptions(anchor time.Time, monthsBack, monthsForward int) ([]MonthOption, error) {
	if monthsBack < 0 || monthsForward < 0 {
		return nil, ErrNegativeWindow
	}

	start := domain.PeriodOf(anchor).AddMonths(-monthsBack)
	options := make([]MonthOption, 0, monthsBack+monthsForward+1)
	for i := 0; i <= monthsBack+monthsForward; i++ {
		p := start.AddMonths(i)
		options = append(options, MonthOption{Label: p.Label(), Value: p.String()})
	}

	return options, nil
}
