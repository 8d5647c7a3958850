package seeder

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/roomsync/roomsync-backend/internal/domain"
)

// Fixed UUID for the bootstrap manager so restarts never create a second one
var HOUSEHOLD_MANAGER = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// HouseholdSeeder ensures the household has a manager to bootstrap every other flow
type HouseholdSeeder struct {
	repo  domain.MemberRepository
	name  string
	email string
}

// NewHouseholdSeeder creates a new HouseholdSeeder instance
func NewHouseholdSeeder(repo domain.MemberRepository, name, email string) *HouseholdSeeder {
	return &HouseholdSeeder{
		repo:  repo,
		name:  name,
		email: email,
	}
}

// Seed creates the bootstrap manager if it does not exist yet
func (s *HouseholdSeeder) Seed(ctx context.Context) (*domain.Member, error) {
	existing, err := s.repo.GetByID(ctx, HOUSEHOLD_MANAGER)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	manager := &domain.Member{
		ID:       HOUSEHOLD_MANAGER,
		Name:     s.name,
		Email:    s.email,
		Role:     domain.RoleManager,
		JoinedAt: time.Now().UTC(),
	}

	// Validate before creating
	if err := manager.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, manager); err != nil {
		return nil, err
	}

	return manager, nil
}
