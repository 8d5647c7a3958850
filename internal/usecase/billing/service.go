package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roomsync/roomsync-backend/internal/domain"
	"github.com/roomsync/roomsync-backend/internal/usecase/ledger"
)

// BillingService derives per-member payables and carry-forward balances
type BillingService struct {
	MemberRepo       domain.MemberRepository
	ContributionRepo domain.ContributionRepository
	ExpenseRepo      domain.ExpenseRepository
	MealRepo         domain.MealRepository
}

// NewBillingService creates a new BillingService instance
func NewBillingService(
	memberRepo domain.MemberRepository,
	contributionRepo domain.ContributionRepository,
	expenseRepo domain.ExpenseRepository,
	mealRepo domain.MealRepository,
) *BillingService {
	return &BillingService{
		MemberRepo:       memberRepo,
		ContributionRepo: contributionRepo,
		ExpenseRepo:      expenseRepo,
		MealRepo:         mealRepo,
	}
}

// ledgerState is each member's running balance after a walk
type ledgerState struct {
	closing map[uuid.UUID]decimal.Decimal
	seen    map[uuid.UUID]bool // Member had activity or a balance by the end of the walk
	bills   []domain.MemberBill
}

// GenerateBills computes every member's bill for a month
// Logic:
//  1. Start at the household's earliest month with any activity
//  2. For each month up to period: split approved spend by meal count
//     (equal split across active members when nobody logged meals)
//  3. closing = previous + contributed - payable, carried into the next month
func (s *BillingService) GenerateBills(ctx context.Context, period domain.Period) ([]domain.MemberBill, error) {
	state, err := s.walk(ctx, period)
	if err != nil {
		return nil, err
	}
	return state.bills, nil
}

// PreviousBalance returns a member's closing balance for the month before period.
// Returns nil when the member has no history before period.
func (s *BillingService) PreviousBalance(ctx context.Context, memberID uuid.UUID, period domain.Period) (*decimal.Decimal, error) {
	start, err := s.earliestActivity(ctx)
	if err != nil {
		return nil, err
	}

	prev := period.Prev()
	if start == nil || prev.Before(*start) {
		return nil, nil
	}

	state, err := s.walk(ctx, prev)
	if err != nil {
		return nil, err
	}

	if !state.seen[memberID] {
		return nil, nil
	}
	balance := state.closing[memberID]
	return &balance, nil
}

func (s *BillingService) walk(ctx context.Context, through domain.Period) (*ledgerState, error) {
	if err := through.Validate(); err != nil {
		return nil, err
	}

	members, err := s.MemberRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	start, err := s.earliestActivity(ctx)
	if err != nil {
		return nil, err
	}
	if start == nil || through.Before(*start) {
		start = &through
	}

	state := &ledgerState{
		closing: make(map[uuid.UUID]decimal.Decimal, len(members)),
		seen:    make(map[uuid.UUID]bool, len(members)),
	}

	for p := *start; !through.Before(p); p = p.AddMonths(1) {
		bills, err := s.billMonth(ctx, p, members, state)
		if err != nil {
			return nil, err
		}
		state.bills = bills
	}

	return state, nil
}

// billMonth computes one month's bills and advances state to that month's closing balances
func (s *BillingService) billMonth(
	ctx context.Context,
	period domain.Period,
	members []*domain.Member,
	state *ledgerState,
) ([]domain.MemberBill, error) {
	entries, err := s.ContributionRepo.ListByPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions for %s: %w", period, err)
	}
	contributed := make(map[uuid.UUID]decimal.Decimal)
	for _, entry := range entries {
		contributed[entry.MemberID] = contributed[entry.MemberID].Add(entry.Amount)
	}

	meals, err := s.MealRepo.TotalsByMember(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to total meals for %s: %w", period, err)
	}

	spend, err := s.ExpenseRepo.SumApproved(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses for %s: %w", period, err)
	}

	totalMeals := 0
	for _, m := range members {
		totalMeals += meals[m.ID]
	}

	weights := make(map[uuid.UUID]int, len(members))
	for _, m := range members {
		if totalMeals > 0 {
			weights[m.ID] = meals[m.ID]
			continue
		}
		if isActive(m, period, contributed, meals) {
			weights[m.ID] = 1
		}
	}
	// Spend dated before anyone was active is still owed by the household
	if len(weights) == 0 && spend.IsPositive() {
		for _, m := range members {
			weights[m.ID] = 1
		}
	}

	payables := make(map[uuid.UUID]decimal.Decimal, len(weights))
	if spend.IsPositive() && len(weights) > 0 {
		payables, err = ledger.AllocateSpend(spend, weights)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate spend for %s: %w", period, err)
		}
	}

	rate := ledger.MealRate(spend, totalMeals)
	bills := make([]domain.MemberBill, 0, len(members))
	for _, m := range members {
		previous := state.closing[m.ID]
		bill := domain.MemberBill{
			MemberID:        m.ID,
			Period:          period,
			Meals:           meals[m.ID],
			MealRate:        rate,
			Payable:         payables[m.ID],
			Contributed:     contributed[m.ID],
			PreviousBalance: previous,
		}
		bill.ClosingBalance = previous.Add(bill.Contributed).Sub(bill.Payable)

		state.closing[m.ID] = bill.ClosingBalance
		_, hasContribution := contributed[m.ID]
		if hasContribution || bill.Meals > 0 || !bill.Payable.IsZero() {
			state.seen[m.ID] = true
		}
		bills = append(bills, bill)
	}

	return bills, nil
}

// isActive reports whether a member takes part in an equal split for period
func isActive(m *domain.Member, period domain.Period, contributed map[uuid.UUID]decimal.Decimal, meals map[uuid.UUID]int) bool {
	if _, ok := contributed[m.ID]; ok {
		return true
	}
	if meals[m.ID] > 0 {
		return true
	}
	return !m.JoinedAt.IsZero() && m.JoinedAt.Before(period.End())
}

// earliestActivity returns the first month any ledger record exists, or nil for an empty household
func (s *BillingService) earliestActivity(ctx context.Context) (*domain.Period, error) {
	candidates := make([]*domain.Period, 0, 3)

	p, err := s.ContributionRepo.EarliestPeriod(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find earliest contribution: %w", err)
	}
	candidates = append(candidates, p)

	p, err = s.ExpenseRepo.EarliestPeriod(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find earliest expense: %w", err)
	}
	candidates = append(candidates, p)

	p, err = s.MealRepo.EarliestPeriod(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find earliest meal record: %w", err)
	}
	candidates = append(candidates, p)

	var earliest *domain.Period
	for _, c := range candidates {
		if c != nil && (earliest == nil || c.Before(*earliest)) {
			earliest = c
		}
	}
	return earliest, nil
}
