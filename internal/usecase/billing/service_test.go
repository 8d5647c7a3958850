package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roomsync/roomsync-backend/internal/domain"
	"github.com/roomsync/roomsync-backend/internal/domain/mocks"
)

var (
	jan = domain.Period{Year: 2025, Month: time.January}
	feb = domain.Period{Year: 2025, Month: time.February}
)

type fixture struct {
	members       *mocks.MockMemberRepository
	contributions *mocks.MockContributionRepository
	expenses      *mocks.MockExpenseRepository
	meals         *mocks.MockMealRepository
	service       *BillingService
}

func newFixture(members ...*domain.Member) *fixture {
	f := &fixture{
		members:       new(mocks.MockMemberRepository),
		contributions: new(mocks.MockContributionRepository),
		expenses:      new(mocks.MockExpenseRepository),
		meals:         new(mocks.MockMealRepository),
	}
	f.members.On("List", mock.Anything).Return(members, nil)
	f.service = NewBillingService(f.members, f.contributions, f.expenses, f.meals)
	return f
}

func (f *fixture) month(p domain.Period, entries []*domain.ContributionEntry, meals map[uuid.UUID]int, spend int64) {
	f.contributions.On("ListByPeriod", mock.Anything, p).Return(entries, nil)
	f.meals.On("TotalsByMember", mock.Anything, p).Return(meals, nil)
	f.expenses.On("SumApproved", mock.Anything, p).Return(decimal.NewFromInt(spend), nil)
}

func (f *fixture) earliest(contribution, expense, meal *domain.Period) {
	f.contributions.On("EarliestPeriod", mock.Anything).Return(periodOrNil(contribution), nil)
	f.expenses.On("EarliestPeriod", mock.Anything).Return(periodOrNil(expense), nil)
	f.meals.On("EarliestPeriod", mock.Anything).Return(periodOrNil(meal), nil)
}

// periodOrNil keeps an untyped nil so the mock's nil check sees it
func periodOrNil(p *domain.Period) interface{} {
	if p == nil {
		return nil
	}
	return p
}

func contribution(member uuid.UUID, p domain.Period, amount int64) *domain.ContributionEntry {
	return &domain.ContributionEntry{ID: uuid.New(), MemberID: member, Period: p, Amount: decimal.NewFromInt(amount)}
}

func member(name string, joined time.Time) *domain.Member {
	return &domain.Member{ID: uuid.New(), Name: name, Role: domain.RoleMember, JoinedAt: joined}
}

func billFor(t *testing.T, bills []domain.MemberBill, id uuid.UUID) domain.MemberBill {
	t.Helper()
	for _, b := range bills {
		if b.MemberID == id {
			return b
		}
	}
	t.Fatalf("no bill for member %s", id)
	return domain.MemberBill{}
}

func twoMonthFixture() (*fixture, *domain.Member, *domain.Member) {
	joined := time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)
	alice, bob := member("Alice", joined), member("Bob", joined)
	f := newFixture(alice, bob)

	first := jan
	f.earliest(&first, &first, nil)

	// January: 600 spent over 50 meals (rate 12)
	f.month(jan,
		[]*domain.ContributionEntry{contribution(alice.ID, jan, 500), contribution(bob.ID, jan, 300)},
		map[uuid.UUID]int{alice.ID: 30, bob.ID: 20},
		600)

	// February: 100 spent over 20 meals, only Alice pays in
	f.month(feb,
		[]*domain.ContributionEntry{contribution(alice.ID, feb, 100)},
		map[uuid.UUID]int{alice.ID: 10, bob.ID: 10},
		100)

	return f, alice, bob
}

func TestGenerateBills_CarriesBalancesForward(t *testing.T) {
	f, alice, bob := twoMonthFixture()

	bills, err := f.service.GenerateBills(context.Background(), feb)

	require.NoError(t, err)
	require.Len(t, bills, 2)

	a := billFor(t, bills, alice.ID)
	assert.Equal(t, feb, a.Period)
	assert.Equal(t, 10, a.Meals)
	assert.True(t, a.MealRate.Equal(decimal.NewFromInt(5)), "meal rate %s", a.MealRate)
	assert.True(t, a.Payable.Equal(decimal.NewFromInt(50)))
	assert.True(t, a.Contributed.Equal(decimal.NewFromInt(100)))
	assert.True(t, a.PreviousBalance.Equal(decimal.NewFromInt(140)), "jan closing 500 - 360")
	assert.True(t, a.ClosingBalance.Equal(decimal.NewFromInt(190)))

	b := billFor(t, bills, bob.ID)
	assert.True(t, b.PreviousBalance.Equal(decimal.NewFromInt(60)), "jan closing 300 - 240")
	assert.True(t, b.Contributed.IsZero())
	assert.True(t, b.ClosingBalance.Equal(decimal.NewFromInt(10)))
}

func TestGenerateBills_PayablesSumToSpend(t *testing.T) {
	f, _, _ := twoMonthFixture()

	bills, err := f.service.GenerateBills(context.Background(), jan)

	require.NoError(t, err)
	total := decimal.Zero
	for _, b := range bills {
		total = total.Add(b.Payable)
		assert.True(t, b.PreviousBalance.IsZero(), "first month starts from zero")
	}
	assert.True(t, total.Equal(decimal.NewFromInt(600)))
}

func TestPreviousBalance(t *testing.T) {
	f, alice, bob := twoMonthFixture()
	ctx := context.Background()

	prev, err := f.service.PreviousBalance(ctx, alice.ID, feb)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.True(t, prev.Equal(decimal.NewFromInt(140)))

	prev, err = f.service.PreviousBalance(ctx, bob.ID, domain.Period{Year: 2025, Month: time.March})
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.True(t, prev.Equal(decimal.NewFromInt(10)))

	// Nothing on record before January
	prev, err = f.service.PreviousBalance(ctx, alice.ID, jan)
	require.NoError(t, err)
	assert.Nil(t, prev)
}

func TestPreviousBalance_MemberWithoutHistory(t *testing.T) {
	joined := time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)
	alice := member("Alice", joined)
	newcomer := member("Newcomer", time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC))
	f := newFixture(alice, newcomer)

	first := jan
	f.earliest(&first, nil, &first)
	f.month(jan,
		[]*domain.ContributionEntry{contribution(alice.ID, jan, 200)},
		map[uuid.UUID]int{alice.ID: 12},
		120)

	prev, err := f.service.PreviousBalance(context.Background(), newcomer.ID, feb)

	require.NoError(t, err)
	assert.Nil(t, prev, "newcomer joined after January")
}

func TestGenerateBills_EqualSplitWithoutMeals(t *testing.T) {
	joined := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	alice, bob := member("Alice", joined), member("Bob", joined)
	later := member("Later", time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC))
	f := newFixture(alice, bob, later)

	first := jan
	f.earliest(nil, &first, nil)
	f.month(jan, []*domain.ContributionEntry{}, map[uuid.UUID]int{}, 90)

	bills, err := f.service.GenerateBills(context.Background(), jan)

	require.NoError(t, err)
	assert.True(t, billFor(t, bills, alice.ID).Payable.Equal(decimal.NewFromInt(45)))
	assert.True(t, billFor(t, bills, bob.ID).Payable.Equal(decimal.NewFromInt(45)))
	assert.True(t, billFor(t, bills, later.ID).Payable.IsZero(), "members who joined later are not charged")
	assert.True(t, billFor(t, bills, alice.ID).MealRate.IsZero())
}

func TestGenerateBills_BackdatedSpendBeforeAnyoneJoined(t *testing.T) {
	joined := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	manager, bob := member("Manager", joined), member("Bob", joined)
	f := newFixture(manager, bob)

	first := jan
	f.earliest(nil, &first, nil)
	f.month(jan, []*domain.ContributionEntry{}, map[uuid.UUID]int{}, 91)

	bills, err := f.service.GenerateBills(context.Background(), jan)

	require.NoError(t, err)
	total := decimal.Zero
	for _, b := range bills {
		total = total.Add(b.Payable)
		assert.True(t, b.ClosingBalance.Equal(b.Payable.Neg()))
	}
	assert.True(t, total.Equal(decimal.NewFromInt(91)), "payables %s", total)
}

func TestGenerateBills_EmptyHousehold(t *testing.T) {
	alice := member("Alice", time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC))
	f := newFixture(alice)
	f.earliest(nil, nil, nil)
	f.month(feb, nil, map[uuid.UUID]int{}, 0)

	bills, err := f.service.GenerateBills(context.Background(), feb)

	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.True(t, bills[0].ClosingBalance.IsZero())
}

func TestGenerateBills_InvalidPeriod(t *testing.T) {
	f := newFixture()

	_, err := f.service.GenerateBills(context.Background(), domain.Period{})

	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}
