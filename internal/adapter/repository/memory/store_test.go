package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomsync/roomsync-backend/internal/domain"
)

var (
	feb   = domain.Period{Year: 2025, Month: time.February}
	march = domain.Period{Year: 2025, Month: time.March}
)

func TestMemberRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Members()

	first := &domain.Member{ID: uuid.New(), Name: "Rafi", Role: domain.RoleManager, JoinedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	second := &domain.Member{ID: uuid.New(), Name: "Tanvir", Role: domain.RoleMember, JoinedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))
	assert.Error(t, repo.Create(ctx, first))

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rafi", got.Name)

	// Returned members are copies
	got.Name = "changed"
	again, _ := repo.GetByID(ctx, first.ID)
	assert.Equal(t, "Rafi", again.Name)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
}

func TestContributionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Contributions()
	memberID := uuid.New()

	earliest, err := repo.EarliestPeriod(ctx)
	require.NoError(t, err)
	assert.Nil(t, earliest)

	base := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &domain.ContributionEntry{ID: uuid.New(), MemberID: memberID, Period: march, Amount: decimal.NewFromInt(100), RecordedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &domain.ContributionEntry{ID: uuid.New(), MemberID: memberID, Period: march, Amount: decimal.RequireFromString("-10.5"), RecordedAt: base}))
	require.NoError(t, repo.Create(ctx, &domain.ContributionEntry{ID: uuid.New(), MemberID: uuid.New(), Period: feb, Amount: decimal.NewFromInt(40), RecordedAt: base}))

	entries, err := repo.ListByPeriod(ctx, march)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Amount.Equal(decimal.RequireFromString("-10.5")))

	count, err := repo.CountForMember(ctx, memberID, march)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	total, err := repo.SumByPeriod(ctx, march)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("89.5")))

	earliest, err = repo.EarliestPeriod(ctx)
	require.NoError(t, err)
	require.NotNil(t, earliest)
	assert.Equal(t, feb, *earliest)
}

func TestExpenseRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Expenses()
	submitter := uuid.New()
	reviewer := uuid.New()

	expense := &domain.Expense{
		ID:          uuid.New(),
		Description: "Rice",
		Amount:      decimal.NewFromInt(25),
		Date:        march.Start(),
		Period:      march,
		SubmittedBy: submitter,
		Status:      domain.ExpenseStatusPending,
	}
	require.NoError(t, repo.Create(ctx, expense))

	spent, err := repo.SumApproved(ctx, march)
	require.NoError(t, err)
	assert.True(t, spent.IsZero())

	earliest, err := repo.EarliestPeriod(ctx)
	require.NoError(t, err)
	assert.Nil(t, earliest, "pending expenses do not start the ledger")

	require.NoError(t, expense.Approve(reviewer, time.Now()))
	require.NoError(t, repo.UpdateReview(ctx, expense))
	assert.ErrorIs(t, repo.UpdateReview(ctx, expense), domain.ErrInvalidTransition)

	spent, err = repo.SumApproved(ctx, march)
	require.NoError(t, err)
	assert.True(t, spent.Equal(decimal.NewFromInt(25)))

	approved, err := repo.List(ctx, march, domain.ExpenseStatusApproved)
	require.NoError(t, err)
	assert.Len(t, approved, 1)

	pending, err := repo.List(ctx, march, domain.ExpenseStatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMealRepository_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Meals()
	memberID := uuid.New()
	day := march.Start()

	require.NoError(t, repo.Upsert(ctx, &domain.MealRecord{MemberID: memberID, Date: day, Period: march, Count: 2}))
	require.NoError(t, repo.Upsert(ctx, &domain.MealRecord{MemberID: memberID, Date: day, Period: march, Count: 3}))
	require.NoError(t, repo.Upsert(ctx, &domain.MealRecord{MemberID: memberID, Date: day.AddDate(0, 0, 1), Period: march, Count: 1}))

	records, err := repo.ListByPeriod(ctx, march)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 3, records[0].Count)

	totals, err := repo.TotalsByMember(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, 4, totals[memberID])
}

func TestContributionRepository_OneFirstEntryPerMonth(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Contributions()
	memberID := uuid.New()

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Create(ctx, &domain.ContributionEntry{ID: uuid.New(), MemberID: memberID, Period: march, Amount: decimal.NewFromInt(10), IsFirstEntry: true})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrFirstEntryTaken)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)

	// Another month and follow-up entries are unaffected
	require.NoError(t, repo.Create(ctx, &domain.ContributionEntry{ID: uuid.New(), MemberID: memberID, Period: feb, Amount: decimal.NewFromInt(10), IsFirstEntry: true}))
	require.NoError(t, repo.Create(ctx, &domain.ContributionEntry{ID: uuid.New(), MemberID: memberID, Period: march, Amount: decimal.NewFromInt(5)}))
}

func TestStore_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Contributions()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Create(ctx, &domain.ContributionEntry{ID: uuid.New(), MemberID: uuid.New(), Period: march, Amount: decimal.NewFromInt(2)})
		}()
	}
	wg.Wait()

	total, err := repo.SumByPeriod(ctx, march)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(100)))
}
