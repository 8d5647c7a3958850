package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/roomsync/roomsync-backend/internal/domain"
)

// mealRepository implements domain.MealRepository
type mealRepository struct {
	db *DB
}

// NewMealRepository creates a new meal record repository
func NewMealRepository(db *DB) domain.MealRepository {
	return &mealRepository{db: db}
}

// Upsert creates or replaces the record for (member, date)
func (r *mealRepository) Upsert(ctx context.Context, record *domain.MealRecord) error {
	query := `
		INSERT INTO meal_records (member_id, date, period, count, recorded_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (member_id, date)
		DO UPDATE SET count = EXCLUDED.count, recorded_by = EXCLUDED.recorded_by
	`

	_, err := r.db.ExecContext(ctx, query,
		record.MemberID,
		record.Date,
		record.Period.String(),
		record.Count,
		record.RecordedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert meal record: %w", err)
	}

	return nil
}

// ListByPeriod retrieves all records for a month ordered by date
func (r *mealRepository) ListByPeriod(ctx context.Context, period domain.Period) ([]*domain.MealRecord, error) {
	query := `
		SELECT member_id, date, count, recorded_by
		FROM meal_records
		WHERE period = $1
		ORDER BY date ASC, member_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, period.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query meal records: %w", err)
	}
	defer rows.Close()

	var records []*domain.MealRecord
	for rows.Next() {
		record := domain.MealRecord{Period: period}
		if err := rows.Scan(&record.MemberID, &record.Date, &record.Count, &record.RecordedBy); err != nil {
			return nil, fmt.Errorf("failed to scan meal record: %w", err)
		}
		record.Date = record.Date.UTC()
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meal records: %w", err)
	}

	return records, nil
}

// TotalsByMember returns each member's meal count for a month
func (r *mealRepository) TotalsByMember(ctx context.Context, period domain.Period) (map[uuid.UUID]int, error) {
	query := `
		SELECT member_id, SUM(count)
		FROM meal_records
		WHERE period = $1
		GROUP BY member_id
	`

	rows, err := r.db.QueryContext(ctx, query, period.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query meal totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[uuid.UUID]int)
	for rows.Next() {
		var memberID uuid.UUID
		var total int
		if err := rows.Scan(&memberID, &total); err != nil {
			return nil, fmt.Errorf("failed to scan meal total: %w", err)
		}
		totals[memberID] = total
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meal totals: %w", err)
	}

	return totals, nil
}

// EarliestPeriod returns the first month with a meal record
func (r *mealRepository) EarliestPeriod(ctx context.Context) (*domain.Period, error) {
	var earliest sql.NullString
	if err := r.db.QueryRowContext(ctx, `SELECT MIN(period) FROM meal_records`).Scan(&earliest); err != nil {
		return nil, fmt.Errorf("failed to find earliest meal record: %w", err)
	}

	return earliestPeriod(earliest)
}
