package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/roomsync/roomsync-backend/internal/domain"
)

// parseNumeric converts a NUMERIC column read as text
func parseNumeric(column, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return d, nil
}

// parseNullNumeric converts a nullable NUMERIC column, nil when NULL
func parseNullNumeric(column string, s sql.NullString) (*decimal.Decimal, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := parseNumeric(column, s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// nullNumeric is the query argument for a nullable NUMERIC column
func nullNumeric(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

// earliestPeriod parses the result of a MIN(period) query
func earliestPeriod(s sql.NullString) (*domain.Period, error) {
	if !s.Valid {
		return nil, nil
	}
	p, err := domain.ParsePeriod(s.String)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// uniqueViolation is the SQLSTATE Postgres reports for a duplicate key
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a duplicate key on the named constraint or index
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == uniqueViolation && pqErr.Constraint == constraint
}
