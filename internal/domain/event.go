package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType names a ledger change other systems may react to
type EventType string

const (
	EventContributionRecorded EventType = "contribution.recorded"
	EventExpenseSubmitted     EventType = "expense.submitted"
	EventExpenseApproved      EventType = "expense.approved"
	EventExpenseRejected      EventType = "expense.rejected"
	EventMealsRecorded        EventType = "meals.recorded"
)

// LedgerEvent is published after a ledger write is persisted
type LedgerEvent struct {
	Type       EventType       `json:"type"`
	EntityID   uuid.UUID       `json:"entity_id"`
	MemberID   uuid.UUID       `json:"member_id"`
	Period     string          `json:"period"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
}
