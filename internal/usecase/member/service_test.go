package member

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roomsync/roomsync-backend/internal/domain"
	"github.com/roomsync/roomsync-backend/internal/domain/mocks"
)

func TestAddMember_ByManager(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(mocks.MockMemberRepository)
	service := NewMemberService(mockRepo)

	managerID := uuid.New()
	mockRepo.On("GetByID", ctx, managerID).Return(&domain.Member{ID: managerID, Name: "Rafi", Role: domain.RoleManager}, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(m *domain.Member) bool {
		return m.Name == "Tanvir" && m.Role == domain.RoleMember && m.ID != uuid.Nil
	})).Return(nil)

	created, err := service.AddMember(ctx, AddMemberInput{ActorID: managerID, Name: "  Tanvir ", Email: "t@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "Tanvir", created.Name)
	assert.Equal(t, domain.RoleMember, created.Role, "role defaults to MEMBER")
	assert.False(t, created.JoinedAt.IsZero())
	mockRepo.AssertExpectations(t)
}

func TestAddMember_ByRegularMemberIsForbidden(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(mocks.MockMemberRepository)
	service := NewMemberService(mockRepo)

	actorID := uuid.New()
	mockRepo.On("GetByID", ctx, actorID).Return(&domain.Member{ID: actorID, Name: "Tanvir", Role: domain.RoleMember}, nil)

	_, err := service.AddMember(ctx, AddMemberInput{ActorID: actorID, Name: "Guest"})

	assert.ErrorIs(t, err, domain.ErrForbidden)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddMember_UnknownActorIsForbidden(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(mocks.MockMemberRepository)
	service := NewMemberService(mockRepo)

	actorID := uuid.New()
	mockRepo.On("GetByID", ctx, actorID).Return(nil, domain.ErrNotFound)

	_, err := service.AddMember(ctx, AddMemberInput{ActorID: actorID, Name: "Guest"})

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAddMember_MissingActorIsForbidden(t *testing.T) {
	service := NewMemberService(new(mocks.MockMemberRepository))

	_, err := service.AddMember(context.Background(), AddMemberInput{Name: "Guest"})

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAddMember_InvalidRole(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(mocks.MockMemberRepository)
	service := NewMemberService(mockRepo)

	managerID := uuid.New()
	mockRepo.On("GetByID", ctx, managerID).Return(&domain.Member{ID: managerID, Name: "Rafi", Role: domain.RoleManager}, nil)

	_, err := service.AddMember(ctx, AddMemberInput{ActorID: managerID, Name: "Guest", Role: "OWNER"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "member role must be MANAGER or MEMBER")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
