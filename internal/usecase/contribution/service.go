package contribution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roomsync/roomsync-backend/internal/domain"
	"github.com/roomsync/roomsync-backend/internal/usecase/ledger"
	"github.com/roomsync/roomsync-backend/internal/usecase/member"
)

// BalanceProvider supplies a member's carry-forward balance for the month before period.
// A nil balance means the member has no history yet.
type BalanceProvider interface {
	PreviousBalance(ctx context.Context, memberID uuid.UUID, period domain.Period) (*decimal.Decimal, error)
}

// RecordContributionInput represents the input for recording a meal-fund payment
type RecordContributionInput struct {
	ActorID  uuid.UUID // Manager recording the payment
	MemberID uuid.UUID
	Period   domain.Period
	Amount   decimal.Decimal
	Note     string
}

// ContributionService handles meal-fund contribution operations
type ContributionService struct {
	MemberRepo       domain.MemberRepository
	ContributionRepo domain.ContributionRepository
	Balances         BalanceProvider
	Events           domain.EventPublisher // Optional
}

// NewContributionService creates a new ContributionService instance
func NewContributionService(
	memberRepo domain.MemberRepository,
	contributionRepo domain.ContributionRepository,
	balances BalanceProvider,
	events domain.EventPublisher,
) *ContributionService {
	return &ContributionService{
		MemberRepo:       memberRepo,
		ContributionRepo: contributionRepo,
		Balances:         balances,
		Events:           events,
	}
}

// RecordContribution stores a member's payment for a month
// Logic:
//  1. Only managers may record payments
//  2. The member's first entry of the month carries the previous month's closing balance
//  3. Save the immutable entry and announce it; losing a race for the first entry saves it as a follow-up
func (s *ContributionService) RecordContribution(ctx context.Context, input RecordContributionInput) (*domain.ContributionEntry, error) {
	if err := input.Period.Validate(); err != nil {
		return nil, err
	}

	if err := member.RequireManager(ctx, s.MemberRepo, input.ActorID); err != nil {
		return nil, err
	}

	if _, err := s.MemberRepo.GetByID(ctx, input.MemberID); err != nil {
		return nil, err
	}

	existing, err := s.ContributionRepo.CountForMember(ctx, input.MemberID, input.Period)
	if err != nil {
		return nil, fmt.Errorf("failed to count contributions: %w", err)
	}
	isFirst := existing == 0

	var previous *decimal.Decimal
	if isFirst {
		previous, err = s.Balances.PreviousBalance(ctx, input.MemberID, input.Period)
		if err != nil {
			return nil, fmt.Errorf("failed to derive previous balance: %w", err)
		}
	}

	entry := &domain.ContributionEntry{
		ID:              uuid.New(),
		MemberID:        input.MemberID,
		Period:          input.Period,
		Amount:          input.Amount,
		IsFirstEntry:    isFirst,
		PreviousBalance: previous,
		AdjustedAmount:  ledger.ComputeAdjustedAmount(input.Amount, previous, isFirst),
		RecordedBy:      input.ActorID,
		RecordedAt:      time.Now().UTC(),
		Note:            strings.TrimSpace(input.Note),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	err = s.ContributionRepo.Create(ctx, entry)
	if errors.Is(err, domain.ErrFirstEntryTaken) {
		// A concurrent call recorded the first entry; this one is a follow-up
		entry.IsFirstEntry = false
		entry.PreviousBalance = nil
		entry.AdjustedAmount = nil
		err = s.ContributionRepo.Create(ctx, entry)
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.LedgerEvent{
		Type:       domain.EventContributionRecorded,
		EntityID:   entry.ID,
		MemberID:   entry.MemberID,
		Period:     entry.Period.String(),
		Amount:     entry.Amount,
		OccurredAt: entry.RecordedAt,
	})

	return entry, nil
}

// ListContributions returns all entries recorded for a month
func (s *ContributionService) ListContributions(ctx context.Context, period domain.Period) ([]*domain.ContributionEntry, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return s.ContributionRepo.ListByPeriod(ctx, period)
}

// publish is best effort: the entry is already persisted, so a broker failure is only logged
func (s *ContributionService) publish(ctx context.Context, event domain.LedgerEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, event); err != nil && !errors.Is(err, context.Canceled) {
		slog.WarnContext(ctx, "Failed to publish ledger event", "type", event.Type, "entity_id", event.EntityID, "error", err)
	}
}
