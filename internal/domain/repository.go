package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemberRepository defines the interface for member persistence operations
type MemberRepository interface {
	// GetByID retrieves a member by its ID, wrapping ErrNotFound when missing
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)

	// Create creates a new member
	Create(ctx context.Context, member *Member) error

	// List retrieves all members ordered by join date
	List(ctx context.Context) ([]*Member, error)
}

// ContributionRepository defines the interface for contribution persistence operations
type ContributionRepository interface {
	// Create persists a new, immutable contribution entry.
	// A first entry for a (member, month) that already has one fails with ErrFirstEntryTaken.
	Create(ctx context.Context, entry *ContributionEntry) error

	// ListByPeriod retrieves all entries for a month ordered by recording time
	ListByPeriod(ctx context.Context, period Period) ([]*ContributionEntry, error)

	// CountForMember returns how many entries a member already has for a month
	CountForMember(ctx context.Context, memberID uuid.UUID, period Period) (int, error)

	// SumByPeriod returns the total of all entry amounts for a month
	SumByPeriod(ctx context.Context, period Period) (decimal.Decimal, error)

	// EarliestPeriod returns the first month with any entry, or nil if there are none
	EarliestPeriod(ctx context.Context) (*Period, error)
}

// ExpenseRepository defines the interface for expense persistence operations
type ExpenseRepository interface {
	// Create persists a new expense
	Create(ctx context.Context, expense *Expense) error

	// GetByID retrieves an expense by its ID, wrapping ErrNotFound when missing
	GetByID(ctx context.Context, id uuid.UUID) (*Expense, error)

	// UpdateReview stores the status and reviewer of an expense
	UpdateReview(ctx context.Context, expense *Expense) error

	// List retrieves expenses for a month ordered by date.
	// If statusFilter is empty, returns expenses in every status
	List(ctx context.Context, period Period, statusFilter ExpenseStatus) ([]*Expense, error)

	// SumApproved returns the total of approved expenses for a month
	SumApproved(ctx context.Context, period Period) (decimal.Decimal, error)

	// EarliestPeriod returns the first month with an approved expense, or nil if there are none
	EarliestPeriod(ctx context.Context) (*Period, error)
}

// MealRepository defines the interface for meal record persistence operations
type MealRepository interface {
	// Upsert creates or replaces the record for (MemberID, Date)
	Upsert(ctx context.Context, record *MealRecord) error

	// ListByPeriod retrieves all records for a month ordered by date
	ListByPeriod(ctx context.Context, period Period) ([]*MealRecord, error)

	// TotalsByMember returns each member's meal count for a month
	TotalsByMember(ctx context.Context, period Period) (map[uuid.UUID]int, error)

	// EarliestPeriod returns the first month with a meal record, or nil if there are none
	EarliestPeriod(ctx context.Context) (*Period, error)
}

// EventPublisher announces persisted ledger changes
type EventPublisher interface {
	Publish(ctx context.Context, event LedgerEvent) error
}
