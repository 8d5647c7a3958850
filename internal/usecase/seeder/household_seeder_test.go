package seeder

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/roomsync/roomsync-backend/internal/domain"
	"github.com/roomsync/roomsync-backend/internal/domain/mocks"
)

func TestHouseholdSeeder_Seed_ManagerMissing(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(mocks.MockMemberRepository)
	seeder := NewHouseholdSeeder(mockRepo, "House Manager", "manager@example.com")

	mockRepo.On("GetByID", ctx, HOUSEHOLD_MANAGER).Return(nil, fmt.Errorf("member %s: %w", HOUSEHOLD_MANAGER, domain.ErrNotFound))
	mockRepo.On("Create", ctx, mock.MatchedBy(func(m *domain.Member) bool {
		return m.ID == HOUSEHOLD_MANAGER &&
			m.Name == "House Manager" &&
			m.Email == "manager@example.com" &&
			m.Role == domain.RoleManager
	})).Return(nil)

	manager, err := seeder.Seed(ctx)

	assert.NoError(t, err)
	assert.Equal(t, HOUSEHOLD_MANAGER, manager.ID)
	mockRepo.AssertExpectations(t)
}

func TestHouseholdSeeder_Seed_ManagerExists(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(mocks.MockMemberRepository)
	seeder := NewHouseholdSeeder(mockRepo, "House Manager", "")

	existing := &domain.Member{ID: HOUSEHOLD_MANAGER, Name: "Renamed Manager", Role: domain.RoleManager}
	mockRepo.On("GetByID", ctx, HOUSEHOLD_MANAGER).Return(existing, nil)

	manager, err := seeder.Seed(ctx)

	assert.NoError(t, err)
	assert.Same(t, existing, manager)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHouseholdSeeder_Seed_LookupFailure(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(mocks.MockMemberRepository)
	seeder := NewHouseholdSeeder(mockRepo, "House Manager", "")

	mockRepo.On("GetByID", ctx, HOUSEHOLD_MANAGER).Return(nil, errors.New("connection refused"))

	_, err := seeder.Seed(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHouseholdSeeder_Seed_InvalidName(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(mocks.MockMemberRepository)
	seeder := NewHouseholdSeeder(mockRepo, "", "")

	mockRepo.On("GetByID", ctx, HOUSEHOLD_MANAGER).Return(nil, domain.ErrNotFound)

	_, err := seeder.Seed(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "member name cannot be empty")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
