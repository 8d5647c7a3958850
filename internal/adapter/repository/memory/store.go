// Package memory keeps the household ledger in process memory.
// It backs DATA_BACKEND=memory and the transport tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roomsync/roomsync-backend/internal/domain"
)

type mealKey struct {
	memberID uuid.UUID
	date     time.Time
}

// Store holds every record behind a single lock. The repositories it hands out share it.
type Store struct {
	mu            sync.RWMutex
	members       map[uuid.UUID]domain.Member
	contributions []domain.ContributionEntry
	expenses      map[uuid.UUID]domain.Expense
	meals         map[mealKey]domain.MealRecord
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		members:  make(map[uuid.UUID]domain.Member),
		expenses: make(map[uuid.UUID]domain.Expense),
		meals:    make(map[mealKey]domain.MealRecord),
	}
}

// Members returns the member repository view of the store
func (s *Store) Members() domain.MemberRepository { return memberRepository{s} }

// Contributions returns the contribution repository view of the store
func (s *Store) Contributions() domain.ContributionRepository { return contributionRepository{s} }

// Expenses returns the expense repository view of the store
func (s *Store) Expenses() domain.ExpenseRepository { return expenseRepository{s} }

// Meals returns the meal repository view of the store
func (s *Store) Meals() domain.MealRepository { return mealRepository{s} }

func minPeriod(current *domain.Period, p domain.Period) *domain.Period {
	if current == nil || p.Before(*current) {
		return &p
	}
	return current
}

type memberRepository struct{ s *Store }

func (r memberRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.members[id]
	if !ok {
		return nil, fmt.Errorf("member %s: %w", id, domain.ErrNotFound)
	}
	return &m, nil
}

func (r memberRepository) Create(_ context.Context, member *domain.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.members[member.ID]; exists {
		return fmt.Errorf("member %s already exists", member.ID)
	}
	r.s.members[member.ID] = *member
	return nil
}

func (r memberRepository) List(_ context.Context) ([]*domain.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	members := make([]*domain.Member, 0, len(r.s.members))
	for _, m := range r.s.members {
		m := m
		members = append(members, &m)
	}
	sort.Slice(members, func(i, j int) bool {
		if !members[i].JoinedAt.Equal(members[j].JoinedAt) {
			return members[i].JoinedAt.Before(members[j].JoinedAt)
		}
		return members[i].ID.String() < members[j].ID.String()
	})
	return members, nil
}

type contributionRepository struct{ s *Store }

func (r contributionRepository) Create(_ context.Context, entry *domain.ContributionEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if entry.IsFirstEntry {
		for _, e := range r.s.contributions {
			if e.IsFirstEntry && e.MemberID == entry.MemberID && e.Period == entry.Period {
				return domain.ErrFirstEntryTaken
			}
		}
	}

	r.s.contributions = append(r.s.contributions, *entry)
	return nil
}

func (r contributionRepository) ListByPeriod(_ context.Context, period domain.Period) ([]*domain.ContributionEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var entries []*domain.ContributionEntry
	for _, e := range r.s.contributions {
		if e.Period == period {
			e := e
			entries = append(entries, &e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].RecordedAt.Before(entries[j].RecordedAt)
	})
	return entries, nil
}

func (r contributionRepository) CountForMember(_ context.Context, memberID uuid.UUID, period domain.Period) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, e := range r.s.contributions {
		if e.MemberID == memberID && e.Period == period {
			count++
		}
	}
	return count, nil
}

func (r contributionRepository) SumByPeriod(_ context.Context, period domain.Period) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	total := decimal.Zero
	for _, e := range r.s.contributions {
		if e.Period == period {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (r contributionRepository) EarliestPeriod(_ context.Context) (*domain.Period, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var earliest *domain.Period
	for _, e := range r.s.contributions {
		earliest = minPeriod(earliest, e.Period)
	}
	return earliest, nil
}

type expenseRepository struct{ s *Store }

func (r expenseRepository) Create(_ context.Context, expense *domain.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.expenses[expense.ID]; exists {
		return fmt.Errorf("expense %s already exists", expense.ID)
	}
	r.s.expenses[expense.ID] = *expense
	return nil
}

func (r expenseRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.expenses[id]
	if !ok {
		return nil, fmt.Errorf("expense %s: %w", id, domain.ErrNotFound)
	}
	return &e, nil
}

func (r expenseRepository) UpdateReview(_ context.Context, expense *domain.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.expenses[expense.ID]
	if !ok {
		return fmt.Errorf("expense %s: %w", expense.ID, domain.ErrNotFound)
	}
	if stored.Status != domain.ExpenseStatusPending {
		return fmt.Errorf("%w: expense %s is no longer pending", domain.ErrInvalidTransition, expense.ID)
	}
	stored.Status = expense.Status
	stored.ReviewedBy = expense.ReviewedBy
	stored.ReviewedAt = expense.ReviewedAt
	r.s.expenses[expense.ID] = stored
	return nil
}

func (r expenseRepository) List(_ context.Context, period domain.Period, statusFilter domain.ExpenseStatus) ([]*domain.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var expenses []*domain.Expense
	for _, e := range r.s.expenses {
		if e.Period != period || (statusFilter != "" && e.Status != statusFilter) {
			continue
		}
		e := e
		expenses = append(expenses, &e)
	}
	sort.Slice(expenses, func(i, j int) bool {
		if !expenses[i].Date.Equal(expenses[j].Date) {
			return expenses[i].Date.Before(expenses[j].Date)
		}
		return expenses[i].ID.String() < expenses[j].ID.String()
	})
	return expenses, nil
}

func (r expenseRepository) SumApproved(_ context.Context, period domain.Period) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	total := decimal.Zero
	for _, e := range r.s.expenses {
		if e.Period == period && e.Status == domain.ExpenseStatusApproved {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (r expenseRepository) EarliestPeriod(_ context.Context) (*domain.Period, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var earliest *domain.Period
	for _, e := range r.s.expenses {
		if e.Status == domain.ExpenseStatusApproved {
			earliest = minPeriod(earliest, e.Period)
		}
	}
	return earliest, nil
}

type mealRepository struct{ s *Store }

func (r mealRepository) Upsert(_ context.Context, record *domain.MealRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.meals[mealKey{memberID: record.MemberID, date: record.Date.UTC()}] = *record
	return nil
}

func (r mealRepository) ListByPeriod(_ context.Context, period domain.Period) ([]*domain.MealRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var records []*domain.MealRecord
	for _, rec := range r.s.meals {
		if rec.Period == period {
			rec := rec
			records = append(records, &rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].MemberID.String() < records[j].MemberID.String()
	})
	return records, nil
}

func (r mealRepository) TotalsByMember(_ context.Context, period domain.Period) (map[uuid.UUID]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	totals := make(map[uuid.UUID]int)
	for _, rec := range r.s.meals {
		if rec.Period == period {
			totals[rec.MemberID] += rec.Count
		}
	}
	return totals, nil
}

func (r mealRepository) EarliestPeriod(_ context.Context) (*domain.Period, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var earliest *domain.Period
	for _, rec := range r.s.meals {
		earliest = minPeriod(earliest, rec.Period)
	}
	return earliest, nil
}
