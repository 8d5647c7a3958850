package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roomsync/roomsync-backend/internal/domain"
)

// firstEntryIndex allows one first entry per member and month
const firstEntryIndex = "uq_contributions_first_entry"

// contributionRepository implements domain.ContributionRepository
type contributionRepository struct {
	db *DB
}

// NewContributionRepository creates a new contribution repository
func NewContributionRepository(db *DB) domain.ContributionRepository {
	return &contributionRepository{db: db}
}

// Create inserts a new contribution entry
func (r *contributionRepository) Create(ctx context.Context, entry *domain.ContributionEntry) error {
	query := `
		INSERT INTO contributions (id, member_id, period, amount, is_first_entry, previous_balance, adjusted_amount, recorded_by, recorded_at, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.MemberID,
		entry.Period.String(),
		entry.Amount.String(),
		entry.IsFirstEntry,
		nullNumeric(entry.PreviousBalance),
		nullNumeric(entry.AdjustedAmount),
		entry.RecordedBy,
		entry.RecordedAt,
		entry.Note,
	)
	if isUniqueViolation(err, firstEntryIndex) {
		return domain.ErrFirstEntryTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert contribution: %w", err)
	}

	return nil
}

// ListByPeriod retrieves all entries for a month ordered by recording time
func (r *contributionRepository) ListByPeriod(ctx context.Context, period domain.Period) ([]*domain.ContributionEntry, error) {
	query := `
		SELECT id, member_id, period, amount, is_first_entry, previous_balance, adjusted_amount, recorded_by, recorded_at, note
		FROM contributions
		WHERE period = $1
		ORDER BY recorded_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, period.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query contributions: %w", err)
	}
	defer rows.Close()

	var entries []*domain.ContributionEntry
	for rows.Next() {
		var entry domain.ContributionEntry
		var periodStr, amountStr string
		var previousStr, adjustedStr sql.NullString

		err := rows.Scan(
			&entry.ID,
			&entry.MemberID,
			&periodStr,
			&amountStr,
			&entry.IsFirstEntry,
			&previousStr,
			&adjustedStr,
			&entry.RecordedBy,
			&entry.RecordedAt,
			&entry.Note,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}

		if entry.Period, err = domain.ParsePeriod(periodStr); err != nil {
			return nil, err
		}
		if entry.Amount, err = parseNumeric("amount", amountStr); err != nil {
			return nil, err
		}
		if entry.PreviousBalance, err = parseNullNumeric("previous_balance", previousStr); err != nil {
			return nil, err
		}
		if entry.AdjustedAmount, err = parseNullNumeric("adjusted_amount", adjustedStr); err != nil {
			return nil, err
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contributions: %w", err)
	}

	return entries, nil
}

// CountForMember returns how many entries a member already has for a month
func (r *contributionRepository) CountForMember(ctx context.Context, memberID uuid.UUID, period domain.Period) (int, error) {
	query := `SELECT COUNT(*) FROM contributions WHERE member_id = $1 AND period = $2`

	var count int
	if err := r.db.QueryRowContext(ctx, query, memberID, period.String()).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count contributions: %w", err)
	}

	return count, nil
}

// SumByPeriod returns the total of all entry amounts for a month
func (r *contributionRepository) SumByPeriod(ctx context.Context, period domain.Period) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0)::TEXT FROM contributions WHERE period = $1`

	var totalStr string
	if err := r.db.QueryRowContext(ctx, query, period.String()).Scan(&totalStr); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum contributions: %w", err)
	}

	return parseNumeric("contribution total", totalStr)
}

// EarliestPeriod returns the first month with any entry
func (r *contributionRepository) EarliestPeriod(ctx context.Context) (*domain.Period, error) {
	var earliest sql.NullString
	if err := r.db.QueryRowContext(ctx, `SELECT MIN(period) FROM contributions`).Scan(&earliest); err != nil {
		return nil, fmt.Errorf("failed to find earliest contribution: %w", err)
	}

	return earliestPeriod(earliest)
}
