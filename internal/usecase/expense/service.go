package expense

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roomsync/roomsync-backend/internal/domain"
	"github.com/roomsync/roomsync-backend/internal/usecase/member"
)

// SubmitExpenseInput represents the input for submitting an expense
type SubmitExpenseInput struct {
	ActorID     uuid.UUID // Member who paid
	Description string
	Amount      decimal.Decimal
	Date        time.Time // Optional: defaults to today
}

// ReviewExpenseInput represents a manager's decision on a pending expense
type ReviewExpenseInput struct {
	ActorID   uuid.UUID
	ExpenseID uuid.UUID
	Approve   bool
}

// ExpenseService handles expense submission and approval
type ExpenseService struct {
	MemberRepo  domain.MemberRepository
	ExpenseRepo domain.ExpenseRepository
	Events      domain.EventPublisher // Optional
}

// NewExpenseService creates a new ExpenseService instance
func NewExpenseService(memberRepo domain.MemberRepository, expenseRepo domain.ExpenseRepository, events domain.EventPublisher) *ExpenseService {
	return &ExpenseService{
		MemberRepo:  memberRepo,
		ExpenseRepo: expenseRepo,
		Events:      events,
	}
}

// SubmitExpense records a purchase paid out of the meal fund
// Logic:
//  1. Any member may submit; the submitter must exist
//  2. Expenses from managers are approved immediately, others wait for review
//  3. Validate, save and announce
func (s *ExpenseService) SubmitExpense(ctx context.Context, input SubmitExpenseInput) (*domain.Expense, error) {
	if input.ActorID == uuid.Nil {
		return nil, domain.ErrForbidden
	}

	submitter, err := s.MemberRepo.GetByID(ctx, input.ActorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}

	now := time.Now().UTC()
	date := input.Date
	if date.IsZero() {
		date = now
	}
	date = truncateDay(date)

	expense := &domain.Expense{
		ID:          uuid.New(),
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount,
		Date:        date,
		Period:      domain.PeriodOf(date),
		SubmittedBy: submitter.ID,
		Status:      domain.ExpenseStatusPending,
	}

	if submitter.IsManager() {
		if err := expense.Approve(submitter.ID, now); err != nil {
			return nil, err
		}
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}

	if err := s.ExpenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}

	eventType := domain.EventExpenseSubmitted
	if expense.Status == domain.ExpenseStatusApproved {
		eventType = domain.EventExpenseApproved
	}
	s.publish(ctx, expense, eventType, now)

	return expense, nil
}

// ReviewExpense approves or rejects a pending expense (manager only)
func (s *ExpenseService) ReviewExpense(ctx context.Context, input ReviewExpenseInput) (*domain.Expense, error) {
	if err := member.RequireManager(ctx, s.MemberRepo, input.ActorID); err != nil {
		return nil, err
	}

	expense, err := s.ExpenseRepo.GetByID(ctx, input.ExpenseID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	eventType := domain.EventExpenseApproved
	if input.Approve {
		err = expense.Approve(input.ActorID, now)
	} else {
		eventType = domain.EventExpenseRejected
		err = expense.Reject(input.ActorID, now)
	}
	if err != nil {
		return nil, err
	}

	if err := s.ExpenseRepo.UpdateReview(ctx, expense); err != nil {
		return nil, err
	}

	s.publish(ctx, expense, eventType, now)

	return expense, nil
}

// ListExpenses returns a month's expenses, optionally filtered by status
func (s *ExpenseService) ListExpenses(ctx context.Context, period domain.Period, status domain.ExpenseStatus) ([]*domain.Expense, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	switch status {
	case "", domain.ExpenseStatusPending, domain.ExpenseStatusApproved, domain.ExpenseStatusRejected:
	default:
		return nil, errors.New("unknown expense status filter")
	}

	return s.ExpenseRepo.List(ctx, period, status)
}

func (s *ExpenseService) publish(ctx context.Context, expense *domain.Expense, eventType domain.EventType, at time.Time) {
	if s.Events == nil {
		return
	}
	event := domain.LedgerEvent{
		Type:       eventType,
		EntityID:   expense.ID,
		MemberID:   expense.SubmittedBy,
		Period:     expense.Period.String(),
		Amount:     expense.Amount,
		OccurredAt: at,
	}
	if err := s.Events.Publish(ctx, event); err != nil && !errors.Is(err, context.Canceled) {
		slog.WarnContext(ctx, "Failed to publish ledger event", "type", event.Type, "entity_id", event.EntityID, "error", err)
	}
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
