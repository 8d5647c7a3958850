package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the precision amounts are stored with
const AmountPlaces = 2

// IsWholeCents reports whether d has no digits beyond AmountPlaces
func IsWholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(AmountPlaces))
}

// ParseAmount parses a currency amount such as "12.34", "-5" or "12,34".
// Anything that is not a finite decimal number with at most two decimals is rejected with ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	s = strings.ReplaceAll(s, ",", ".")
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !IsWholeCents(amount) {
		return decimal.Zero, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, AmountPlaces)
	}
	return amount, nil
}

// ParseOptionalAmount parses s, returning nil for an empty string
func ParseOptionalAmount(s string) (*decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	amount, err := ParseAmount(s)
	if err != nil {
		return nil, err
	}
	return &amount, nil
}

// FormatOptionalAmount renders a nullable amount, empty when nil
func FormatOptionalAmount(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
