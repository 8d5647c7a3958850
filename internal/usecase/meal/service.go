package meal

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roomsync/roomsync-backend/internal/domain"
	"github.com/roomsync/roomsync-backend/internal/usecase/member"
)

// RecordMealsInput represents a manager logging a member's meals for one day
type RecordMealsInput struct {
	ActorID  uuid.UUID
	MemberID uuid.UUID
	Date     time.Time
	Count    int
}

// MealService handles daily meal counts
type MealService struct {
	MemberRepo domain.MemberRepository
	MealRepo   domain.MealRepository
	Events     domain.EventPublisher // Optional
}

// NewMealService creates a new MealService instance
func NewMealService(memberRepo domain.MemberRepository, mealRepo domain.MealRepository, events domain.EventPublisher) *MealService {
	return &MealService{
		MemberRepo: memberRepo,
		MealRepo:   mealRepo,
		Events:     events,
	}
}

// RecordMeals stores the meal count for (member, day)
// Logic: Upsert, so logging the same day again replaces the previous count
func (s *MealService) RecordMeals(ctx context.Context, input RecordMealsInput) (*domain.MealRecord, error) {
	if err := member.RequireManager(ctx, s.MemberRepo, input.ActorID); err != nil {
		return nil, err
	}

	if _, err := s.MemberRepo.GetByID(ctx, input.MemberID); err != nil {
		return nil, err
	}

	if input.Date.IsZero() {
		return nil, errors.New("meal date is required")
	}

	date := input.Date.UTC()
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	record := &domain.MealRecord{
		MemberID:   input.MemberID,
		Date:       date,
		Period:     domain.PeriodOf(date),
		Count:      input.Count,
		RecordedBy: input.ActorID,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := s.MealRepo.Upsert(ctx, record); err != nil {
		return nil, err
	}

	if s.Events != nil {
		event := domain.LedgerEvent{
			Type:       domain.EventMealsRecorded,
			MemberID:   record.MemberID,
			Period:     record.Period.String(),
			Amount:     decimal.NewFromInt(int64(record.Count)),
			OccurredAt: time.Now().UTC(),
		}
		if err := s.Events.Publish(ctx, event); err != nil && !errors.Is(err, context.Canceled) {
			slog.WarnContext(ctx, "Failed to publish ledger event", "type", event.Type, "member_id", event.MemberID, "error", err)
		}
	}

	return record, nil
}

// ListMeals returns every meal record of a month
func (s *MealService) ListMeals(ctx context.Context, period domain.Period) ([]*domain.MealRecord, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return s.MealRepo.ListByPeriod(ctx, period)
}
