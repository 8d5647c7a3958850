package ledger

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestComputeAdjustedAmount(t *testing.T) {
	tests := []struct {
		name         string
		amount       decimal.Decimal
		previous     *decimal.Decimal
		isFirstEntry bool
		want         *decimal.Decimal
	}{
		{name: "surplus carried forward", amount: dec("100"), previous: decPtr("50"), isFirstEntry: true, want: decPtr("150")},
		{name: "deficit carried forward", amount: dec("100"), previous: decPtr("-50"), isFirstEntry: true, want: decPtr("50")},
		{name: "fractional amounts keep cents", amount: dec("100.10"), previous: decPtr("0.20"), isFirstEntry: true, want: decPtr("100.30")},
		{name: "later entries never adjust", amount: dec("100"), previous: decPtr("50"), isFirstEntry: false},
		{name: "zero amount suppresses adjustment", amount: decimal.Zero, previous: decPtr("50"), isFirstEntry: true},
		{name: "no previous balance on record", amount: dec("100"), previous: nil, isFirstEntry: true},
		{name: "negative correction still adjusts", amount: dec("-10"), previous: decPtr("25"), isFirstEntry: true, want: decPtr("15")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeAdjustedAmount(tt.amount, tt.previous, tt.isFirstEntry)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Equal(*tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestComputeAdjustedAmount_NoDriftAcrossRepeats(t *testing.T) {
	previous := dec("0.10")
	amount := dec("0.20")

	first := ComputeAdjustedAmount(amount, &previous, true)
	require.NotNil(t, first)
	for i := 0; i < 1000; i++ {
		again := ComputeAdjustedAmount(amount, &previous, true)
		require.NotNil(t, again)
		assert.True(t, again.Equal(*first))
	}
	assert.Equal(t, "0.30", FormatAmount(*first))
}

func TestComputeRemaining(t *testing.T) {
	tests := []struct {
		name          string
		fund          string
		spend         string
		wantRemaining string
		wantPercent   int64
	}{
		{name: "healthy fund", fund: "1000", spend: "300", wantRemaining: "700", wantPercent: 70},
		{name: "empty fund guards division", fund: "0", spend: "0", wantRemaining: "0", wantPercent: 0},
		{name: "deficit is unclamped", fund: "1000", spend: "1200", wantRemaining: "-200", wantPercent: -20},
		{name: "spend without fund", fund: "0", spend: "35", wantRemaining: "-35", wantPercent: 0},
		{name: "half rounds up", fund: "200", spend: "199", wantRemaining: "1", wantPercent: 1},
		{name: "below half rounds down", fund: "3", spend: "2", wantRemaining: "1", wantPercent: 33},
		{name: "two thirds rounds up", fund: "3", spend: "1", wantRemaining: "2", wantPercent: 67},
		{name: "negative half rounds away from zero", fund: "200", spend: "201", wantRemaining: "-1", wantPercent: -1},
		{name: "nothing spent", fund: "450.75", spend: "0", wantRemaining: "450.75", wantPercent: 100},
		{name: "cents", fund: "1234.56", spend: "1000.01", wantRemaining: "234.55", wantPercent: 19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRemaining(dec(tt.fund), dec(tt.spend))
			assert.True(t, got.Remaining.Equal(dec(tt.wantRemaining)), "remaining %s", got.Remaining)
			assert.Equal(t, tt.wantPercent, got.Percentage)
		})
	}
}

func TestComputeRemaining_MatchesRoundedRatio(t *testing.T) {
	funds := []string{"1", "3", "7", "99.99", "1000", "2500.50"}
	spends := []string{"0", "0.01", "1", "2.5", "333.33", "1000", "4000"}

	for _, f := range funds {
		for _, s := range spends {
			fund, spend := dec(f), dec(s)
			got := ComputeRemaining(fund, spend)

			ratio := fund.Sub(spend).Div(fund).Mul(decimal.NewFromInt(100))
			assert.Equal(t, ratio.Round(0).IntPart(), got.Percentage, "fund=%s spend=%s", f, s)

			// Recomputation is idempotent
			assert.Equal(t, got, ComputeRemaining(fund, spend))
		}
	}
}

func TestComputeRemaining_TwoDecimalRoundTrip(t *testing.T) {
	cases := [][2]string{{"1000", "300.004"}, {"10", "10.006"}, {"0.01", "0.02"}, {"5", "5"}}
	tolerance := dec("0.005")

	for _, c := range cases {
		got := ComputeRemaining(dec(c[0]), dec(c[1]))

		parsed, err := decimal.NewFromString(FormatAmount(got.Remaining))
		require.NoError(t, err)
		assert.True(t, parsed.Sub(got.Remaining).Abs().LessThanOrEqual(tolerance))
		if !parsed.IsZero() {
			assert.Equal(t, got.Remaining.Sign(), parsed.Sign())
		}
	}
}

func TestGenerateMonthOptions(t *testing.T) {
	anchor := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	options, err := GenerateMonthOptions(anchor, 5, 6)
	require.NoError(t, err)
	require.Len(t, options, 12)

	assert.Equal(t, MonthOption{Label: "October 2024", Value: "2024-10"}, options[0])
	assert.Equal(t, MonthOption{Label: "March 2025", Value: "2025-03"}, options[5])
	assert.Equal(t, MonthOption{Label: "September 2025", Value: "2025-09"}, options[11])

	keyPattern := regexp.MustCompile(`^\d{4}-\d{2}$`)
	for i, opt := range options {
		assert.Regexp(t, keyPattern, opt.Value)
		if i > 0 {
			assert.Less(t, options[i-1].Value, opt.Value, "options must be chronological")
		}
	}
}

func TestGenerateMonthOptions_Deterministic(t *testing.T) {
	anchor := time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)

	first, err := GenerateMonthOptions(anchor, 0, 1)
	require.NoError(t, err)
	second, err := GenerateMonthOptions(anchor, 0, 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []MonthOption{
		{Label: "December 2024", Value: "2024-12"},
		{Label: "January 2025", Value: "2025-01"},
	}, first)
}

func TestGenerateMonthOptions_EmptyWindow(t *testing.T) {
	options, err := GenerateMonthOptions(time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []MonthOption{{Label: "June 2025", Value: "2025-06"}}, options)
}

func TestGenerateMonthOptions_NegativeWindow(t *testing.T) {
	_, err := GenerateMonthOptions(time.Now(), -1, 0)
	assert.ErrorIs(t, err, ErrNegativeWindow)

	_, err = GenerateMonthOptions(time.Now(), 0, -1)
	assert.ErrorIs(t, err, ErrNegativeWindow)
}
