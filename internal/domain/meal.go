package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MaxMealsPerDay caps the meal count a member can log for a single day
const MaxMealsPerDay = 10

// MealRecord is the number of meals a member ate on one day.
// There is at most one record per (member, date); recording again replaces it.
type MealRecord struct {
	MemberID   uuid.UUID
	Date       time.Time // Truncated to the day, UTC
	Period     Period
	Count      int
	RecordedBy uuid.UUID
}

// Validate ensures the meal record adheres to domain rules
func (r *MealRecord) Validate() error {
	if r.MemberID == uuid.Nil {
		return errors.New("meal record must reference a member")
	}

	if r.Date.IsZero() {
		return errors.New("meal record date cannot be zero")
	}

	if r.Period != PeriodOf(r.Date) {
		return errors.New("meal record period must match its date")
	}

	if r.Count < 0 || r.Count > MaxMealsPerDay {
		return fmt.Errorf("meal count must be between 0 and %d", MaxMealsPerDay)
	}

	return nil
}
