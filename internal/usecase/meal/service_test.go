package meal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roomsync/roomsync-backend/internal/domain"
	"github.com/roomsync/roomsync-backend/internal/domain/mocks"
)

func TestRecordMeals(t *testing.T) {
	managerID := uuid.New()
	memberID := uuid.New()

	tests := []struct {
		name      string
		actor     uuid.UUID
		count     int
		date      time.Time
		wantErr   error
		wantSaved bool
	}{
		{
			name:      "records truncated day",
			actor:     managerID,
			count:     3,
			date:      time.Date(2025, time.March, 9, 21, 15, 0, 0, time.UTC),
			wantSaved: true,
		},
		{
			name:      "zero meals is a valid record",
			actor:     managerID,
			count:     0,
			date:      time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC),
			wantSaved: true,
		},
		{
			name:    "member cannot record",
			actor:   memberID,
			count:   2,
			date:    time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC),
			wantErr: domain.ErrForbidden,
		},
		{
			name:  "count above daily cap",
			actor: managerID,
			count: domain.MaxMealsPerDay + 1,
			date:  time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "negative count",
			actor: managerID,
			count: -1,
			date:  time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			memberRepo := new(mocks.MockMemberRepository)
			mealRepo := new(mocks.MockMealRepository)
			events := new(mocks.MockEventPublisher)

			memberRepo.On("GetByID", mock.Anything, managerID).Return(&domain.Member{ID: managerID, Name: "Rafi", Role: domain.RoleManager}, nil)
			memberRepo.On("GetByID", mock.Anything, memberID).Return(&domain.Member{ID: memberID, Name: "Tanvir", Role: domain.RoleMember}, nil)
			mealRepo.On("Upsert", ctx, mock.Anything).Return(nil)
			events.On("Publish", ctx, mock.Anything).Return(nil)

			service := NewMealService(memberRepo, mealRepo, events)
			record, err := service.RecordMeals(ctx, RecordMealsInput{
				ActorID:  tt.actor,
				MemberID: memberID,
				Date:     tt.date,
				Count:    tt.count,
			})

			if !tt.wantSaved {
				assert.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				mealRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC), record.Date)
			assert.Equal(t, domain.Period{Year: 2025, Month: time.March}, record.Period)
			assert.Equal(t, tt.count, record.Count)
			assert.Equal(t, managerID, record.RecordedBy)
			mealRepo.AssertCalled(t, "Upsert", ctx, record)
		})
	}
}

func TestRecordMeals_NoPublisher(t *testing.T) {
	ctx := context.Background()
	managerID := uuid.New()
	memberRepo := new(mocks.MockMemberRepository)
	mealRepo := new(mocks.MockMealRepository)

	memberRepo.On("GetByID", ctx, managerID).Return(&domain.Member{ID: managerID, Name: "Rafi", Role: domain.RoleManager}, nil)
	mealRepo.On("Upsert", ctx, mock.Anything).Return(nil)

	service := NewMealService(memberRepo, mealRepo, nil)
	_, err := service.RecordMeals(ctx, RecordMealsInput{
		ActorID:  managerID,
		MemberID: managerID,
		Date:     time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		Count:    2,
	})

	assert.NoError(t, err)
}

func TestRecordMeals_RepositoryError(t *testing.T) {
	ctx := context.Background()
	managerID := uuid.New()
	memberRepo := new(mocks.MockMemberRepository)
	mealRepo := new(mocks.MockMealRepository)

	memberRepo.On("GetByID", ctx, managerID).Return(&domain.Member{ID: managerID, Name: "Rafi", Role: domain.RoleManager}, nil)
	mealRepo.On("Upsert", ctx, mock.Anything).Return(errors.New("database error"))

	service := NewMealService(memberRepo, mealRepo, nil)
	_, err := service.RecordMeals(ctx, RecordMealsInput{
		ActorID:  managerID,
		MemberID: managerID,
		Date:     time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		Count:    2,
	})

	assert.EqualError(t, err, "database error")
}

func TestListMeals(t *testing.T) {
	ctx := context.Background()
	mealRepo := new(mocks.MockMealRepository)
	april := domain.Period{Year: 2025, Month: time.April}

	records := []*domain.MealRecord{{MemberID: uuid.New(), Date: april.Start(), Period: april, Count: 2}}
	mealRepo.On("ListByPeriod", ctx, april).Return(records, nil)

	service := NewMealService(new(mocks.MockMemberRepository), mealRepo, nil)
	got, err := service.ListMeals(ctx, april)

	require.NoError(t, err)
	assert.Equal(t, records, got)
}
