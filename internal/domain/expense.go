package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseStatus represents where an expense is in the approval flow
type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "PENDING"
	ExpenseStatusApproved ExpenseStatus = "APPROVED"
	ExpenseStatusRejected ExpenseStatus = "REJECTED"
)

// MaxDescriptionLength bounds free-text descriptions
const MaxDescriptionLength = 200

// Expense represents a grocery or shared purchase paid out of the meal fund
type Expense struct {
	ID          uuid.UUID
	Description string
	Amount      decimal.Decimal // Always positive
	Date        time.Time
	Period      Period
	SubmittedBy uuid.UUID
	Status      ExpenseStatus
	ReviewedBy  *uuid.UUID // NULL while pending
	ReviewedAt  *time.Time
}

// Validate ensures the expense adheres to domain rules
func (e *Expense) Validate() error {
	if e.Description == "" {
		return errors.New("expense description cannot be empty")
	}

	if len(e.Description) > MaxDescriptionLength {
		return fmt.Errorf("expense description too long (max %d characters)", MaxDescriptionLength)
	}

	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("expense amount must be positive")
	}

	if !IsWholeCents(e.Amount) {
		return fmt.Errorf("%w: expense amount has more than %d decimals", ErrInvalidAmount, AmountPlaces)
	}

	if e.Date.IsZero() {
		return errors.New("expense date cannot be zero")
	}

	if e.Period != PeriodOf(e.Date) {
		return errors.New("expense period must match its date")
	}

	if e.SubmittedBy == uuid.Nil {
		return errors.New("expense must reference the submitting member")
	}

	switch e.Status {
	case ExpenseStatusPending, ExpenseStatusApproved, ExpenseStatusRejected:
	default:
		return errors.New("expense status must be PENDING, APPROVED or REJECTED")
	}

	return nil
}

// Approve moves a pending expense to APPROVED
func (e *Expense) Approve(reviewer uuid.UUID, at time.Time) error {
	return e.review(ExpenseStatusApproved, reviewer, at)
}

// Reject moves a pending expense to REJECTED
func (e *Expense) Reject(reviewer uuid.UUID, at time.Time) error {
	return e.review(ExpenseStatusRejected, reviewer, at)
}

func (e *Expense) review(to ExpenseStatus, reviewer uuid.UUID, at time.Time) error {
	if e.Status != ExpenseStatusPending {
		return fmt.Errorf("%w: expense is %s", ErrInvalidTransition, e.Status)
	}
	e.Status = to
	e.ReviewedBy = &reviewer
	e.ReviewedAt = &at
	return nil
}
