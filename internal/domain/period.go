package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidPeriod is returned when a year-month key cannot be parsed
var ErrInvalidPeriod = errors.New("invalid period: expected YYYY-MM")

// Period identifies one calendar month of the household ledger
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod builds a Period, normalising month overflow (month 13 is January of the next year)
func NewPeriod(year int, month time.Month) Period {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Year: t.Year(), Month: t.Month()}
}

// PeriodOf returns the period containing t
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses a zero-padded "YYYY-MM" key
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if len(s) != 7 || s[4] != '-' {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	for i, r := range s {
		if i != 4 && (r < '0' || r > '9') {
			return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
		}
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	month, err := strconv.Atoi(s[5:])
	if err != nil || year < 1 || month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// String returns the "YYYY-MM" key
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Label returns the long-form name, e.g. "March 2025"
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.Month.String(), p.Year)
}

// IsZero reports whether the period was never set
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// Validate ensures the period is a real calendar month
func (p Period) Validate() error {
	if p.Year < 1 || p.Year > 9999 || p.Month < time.January || p.Month > time.December {
		return ErrInvalidPeriod
	}
	return nil
}

// AddMonths returns the period n months after p (n may be negative)
func (p Period) AddMonths(n int) Period {
	return NewPeriod(p.Year, p.Month+time.Month(n))
}

// Prev returns the month before p
func (p Period) Prev() Period {
	return p.AddMonths(-1)
}

// Before reports whether p is earlier than other
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// Start returns the first instant of the period in UTC
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant of the following period
func (p Period) End() time.Time {
	return p.AddMonths(1).Start()
}
