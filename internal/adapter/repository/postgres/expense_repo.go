package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roomsync/roomsync-backend/internal/domain"
)

// expenseRepository implements domain.ExpenseRepository
type expenseRepository struct {
	db *DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *DB) domain.ExpenseRepository {
	return &expenseRepository{db: db}
}

const expenseColumns = `id, description, amount, date, period, submitted_by, status, reviewed_by, reviewed_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExpense(row rowScanner) (*domain.Expense, error) {
	var expense domain.Expense
	var amountStr, periodStr string
	var reviewedBy uuid.NullUUID
	var reviewedAt sql.NullTime

	err := row.Scan(
		&expense.ID,
		&expense.Description,
		&amountStr,
		&expense.Date,
		&periodStr,
		&expense.SubmittedBy,
		&expense.Status,
		&reviewedBy,
		&reviewedAt,
	)
	if err != nil {
		return nil, err
	}

	if expense.Amount, err = parseNumeric("amount", amountStr); err != nil {
		return nil, err
	}
	if expense.Period, err = domain.ParsePeriod(periodStr); err != nil {
		return nil, err
	}
	expense.Date = expense.Date.UTC()
	if reviewedBy.Valid {
		id := reviewedBy.UUID
		expense.ReviewedBy = &id
	}
	if reviewedAt.Valid {
		at := reviewedAt.Time
		expense.ReviewedAt = &at
	}

	return &expense, nil
}

// Create inserts a new expense
func (r *expenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		expense.ID,
		expense.Description,
		expense.Amount.String(),
		expense.Date,
		expense.Period.String(),
		expense.SubmittedBy,
		string(expense.Status),
		nullUUID(expense.ReviewedBy),
		nullTime(expense.ReviewedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	return nil
}

// GetByID retrieves an expense by its ID
func (r *expenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`

	expense, err := scanExpense(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("expense %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get expense by ID: %w", err)
	}

	return expense, nil
}

// UpdateReview stores the review outcome, guarding against a concurrent review
func (r *expenseRepository) UpdateReview(ctx context.Context, expense *domain.Expense) error {
	query := `
		UPDATE expenses
		SET status = $2, reviewed_by = $3, reviewed_at = $4
		WHERE id = $1 AND status = 'PENDING'
	`

	result, err := r.db.ExecContext(ctx, query,
		expense.ID,
		string(expense.Status),
		nullUUID(expense.ReviewedBy),
		nullTime(expense.ReviewedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to update expense review: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: expense %s is no longer pending", domain.ErrInvalidTransition, expense.ID)
	}

	return nil
}

// List retrieves expenses for a month ordered by date
func (r *expenseRepository) List(ctx context.Context, period domain.Period, statusFilter domain.ExpenseStatus) ([]*domain.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE period = $1 AND ($2 = '' OR status = $2)
		ORDER BY date ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, period.String(), string(statusFilter))
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

// SumApproved returns the total of approved expenses for a month
func (r *expenseRepository) SumApproved(ctx context.Context, period domain.Period) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0)::TEXT FROM expenses WHERE period = $1 AND status = 'APPROVED'`

	var totalStr string
	if err := r.db.QueryRowContext(ctx, query, period.String()).Scan(&totalStr); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum approved expenses: %w", err)
	}

	return parseNumeric("expense total", totalStr)
}

// EarliestPeriod returns the first month with an approved expense
func (r *expenseRepository) EarliestPeriod(ctx context.Context) (*domain.Period, error) {
	var earliest sql.NullString
	if err := r.db.QueryRowContext(ctx, `SELECT MIN(period) FROM expenses WHERE status = 'APPROVED'`).Scan(&earliest); err != nil {
		return nil, fmt.Errorf("failed to find earliest expense: %w", err)
	}

	return earliestPeriod(earliest)
}

func nullUUID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
