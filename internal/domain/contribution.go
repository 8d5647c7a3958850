package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContributionEntry represents one payment a member made into the meal fund for a month.
// Entries are immutable once persisted; corrections are recorded as new (possibly negative) entries.
type ContributionEntry struct {
	ID           uuid.UUID
	MemberID     uuid.UUID
	Period       Period
	Amount       decimal.Decimal // Signed: negative amounts are corrections
	IsFirstEntry bool            // First entry of this member within Period

	// PreviousBalance is the carry-forward from the prior month when the entry was recorded.
	// NULL when the member had no history before Period.
	PreviousBalance *decimal.Decimal

	// AdjustedAmount is Amount + PreviousBalance, set only on first entries.
	AdjustedAmount *decimal.Decimal

	RecordedBy uuid.UUID
	RecordedAt time.Time
	Note       string
}

// Validate ensures the contribution entry adheres to domain rules
func (c *ContributionEntry) Validate() error {
	if c.MemberID == uuid.Nil {
		return errors.New("contribution must reference a member")
	}

	if c.RecordedBy == uuid.Nil {
		return errors.New("contribution must reference the recording manager")
	}

	if err := c.Period.Validate(); err != nil {
		return err
	}

	if !IsWholeCents(c.Amount) {
		return fmt.Errorf("%w: contribution amount has more than %d decimals", ErrInvalidAmount, AmountPlaces)
	}

	// The carry-forward adjustment only ever applies to the first entry of a month
	if c.AdjustedAmount != nil && !c.IsFirstEntry {
		return errors.New("adjusted amount is only valid on a first entry")
	}

	if c.AdjustedAmount != nil && c.PreviousBalance == nil {
		return errors.New("adjusted amount must have a previous balance")
	}

	return nil
}

// PreviousBalance is the closing carry-forward balance of a member for the month before Period.
// It is derived from the chain of prior contributions and spend allocations, never authored.
type PreviousBalance struct {
	MemberID uuid.UUID
	Period   Period
	Value    decimal.Decimal
}
