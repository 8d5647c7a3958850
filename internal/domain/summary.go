package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlySummary is the household-wide aggregate for one month
type MonthlySummary struct {
	Period         Period
	TotalMealFund  decimal.Decimal // Sum of contributions recorded for the month
	TotalSpendings decimal.Decimal // Sum of approved expenses for the month
}

// MemberBill is what a member owes for a month against what they paid in.
// ClosingBalance becomes the member's PreviousBalance for the following month.
type MemberBill struct {
	MemberID        uuid.UUID
	Period          Period
	Meals           int
	MealRate        decimal.Decimal // Spend per meal for the household
	Payable         decimal.Decimal // Member's share of the month's spend
	Contributed     decimal.Decimal
	PreviousBalance decimal.Decimal
	ClosingBalance  decimal.Decimal // PreviousBalance + Contributed - Payable
}
