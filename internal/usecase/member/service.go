package member

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roomsync/roomsync-backend/internal/domain"
)

// AddMemberInput represents the input for adding a household member
type AddMemberInput struct {
	ActorID uuid.UUID // Manager performing the action
	Name    string
	Email   string
	Role    domain.Role
}

// MemberService handles household membership operations
type MemberService struct {
	MemberRepo domain.MemberRepository
}

// NewMemberService creates a new MemberService instance
func NewMemberService(memberRepo domain.MemberRepository) *MemberService {
	return &MemberService{MemberRepo: memberRepo}
}

// AddMember registers a new member. Only managers may add members.
func (s *MemberService) AddMember(ctx context.Context, input AddMemberInput) (*domain.Member, error) {
	if err := RequireManager(ctx, s.MemberRepo, input.ActorID); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.RoleMember
	}

	m := &domain.Member{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.TrimSpace(input.Email),
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	if err := s.MemberRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

// ListMembers returns every member of the household
func (s *MemberService) ListMembers(ctx context.Context) ([]*domain.Member, error) {
	return s.MemberRepo.List(ctx)
}

// RequireManager loads the acting member and fails with domain.ErrForbidden unless they are a manager.
func RequireManager(ctx context.Context, repo domain.MemberRepository, actorID uuid.UUID) error {
	_, err := LoadManager(ctx, repo, actorID)
	return err
}

// LoadManager is RequireManager returning the loaded member
func LoadManager(ctx context.Context, repo domain.MemberRepository, actorID uuid.UUID) (*domain.Member, error) {
	if actorID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing acting member", domain.ErrForbidden)
	}

	actor, err := repo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: acting member %s is unknown", domain.ErrForbidden, actorID)
		}
		return nil, err
	}

	if !actor.IsManager() {
		return nil, fmt.Errorf("%w: only managers can perform this action", domain.ErrForbidden)
	}

	return actor, nil
}
