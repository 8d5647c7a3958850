// Package mocks provides testify mocks of the domain repository ports.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/roomsync/roomsync-backend/internal/domain"
)

// MockMemberRepository is a mock implementation of MemberRepository for testing
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) Create(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) List(ctx context.Context) ([]*domain.Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Member), args.Error(1)
}

// MockContributionRepository is a mock implementation of ContributionRepository for testing
type MockContributionRepository struct {
	mock.Mock
}

func (m *MockContributionRepository) Create(ctx context.Context, entry *domain.ContributionEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockContributionRepository) ListByPeriod(ctx context.Context, period domain.Period) ([]*domain.ContributionEntry, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ContributionEntry), args.Error(1)
}

func (m *MockContributionRepository) CountForMember(ctx context.Context, memberID uuid.UUID, period domain.Period) (int, error) {
	args := m.Called(ctx, memberID, period)
	return args.Int(0), args.Error(1)
}

func (m *MockContributionRepository) SumByPeriod(ctx context.Context, period domain.Period) (decimal.Decimal, error) {
	args := m.Called(ctx, period)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockContributionRepository) EarliestPeriod(ctx context.Context) (*domain.Period, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

// MockExpenseRepository is a mock implementation of ExpenseRepository for testing
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) UpdateReview(ctx context.Context, expense *domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) List(ctx context.Context, period domain.Period, statusFilter domain.ExpenseStatus) ([]*domain.Expense, error) {
	args := m.Called(ctx, period, statusFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) SumApproved(ctx context.Context, period domain.Period) (decimal.Decimal, error) {
	args := m.Called(ctx, period)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockExpenseRepository) EarliestPeriod(ctx context.Context) (*domain.Period, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

// MockMealRepository is a mock implementation of MealRepository for testing
type MockMealRepository struct {
	mock.Mock
}

func (m *MockMealRepository) Upsert(ctx context.Context, record *domain.MealRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockMealRepository) ListByPeriod(ctx context.Context, period domain.Period) ([]*domain.MealRecord, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MealRecord), args.Error(1)
}

func (m *MockMealRepository) TotalsByMember(ctx context.Context, period domain.Period) (map[uuid.UUID]int, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int), args.Error(1)
}

func (m *MockMealRepository) EarliestPeriod(ctx context.Context) (*domain.Period, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
