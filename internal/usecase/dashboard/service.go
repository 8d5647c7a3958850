package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/roomsync/roomsync-backend/internal/domain"
	"github.com/roomsync/roomsync-backend/internal/usecase/ledger"
)

// Default window of the month selector
const (
	DefaultMonthsBack    = 5
	DefaultMonthsForward = 6
)

// FundStatus represents the household fund position for a month
type FundStatus struct {
	Summary    domain.MonthlySummary
	Remaining  decimal.Decimal
	Percentage int64 // Unclamped, may be negative
}

// Options tunes the dashboard cache and month selector
type Options struct {
	CacheTTL      time.Duration // Zero disables caching
	MonthsBack    int
	MonthsForward int
}

// DashboardService handles dashboard-related operations
type DashboardService struct {
	ContributionRepo domain.ContributionRepository
	ExpenseRepo      domain.ExpenseRepository

	cache         *cache.Cache
	monthsBack    int
	monthsForward int
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(
	contributionRepo domain.ContributionRepository,
	expenseRepo domain.ExpenseRepository,
	opts Options,
) *DashboardService {
	s := &DashboardService{
		ContributionRepo: contributionRepo,
		ExpenseRepo:      expenseRepo,
		monthsBack:       opts.MonthsBack,
		monthsForward:    opts.MonthsForward,
	}
	if opts.CacheTTL > 0 {
		s.cache = cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}
	return s
}

// GetFundStatus calculates the remaining fund for a month
// Logic:
//   - TotalMealFund: sum of every contribution recorded for the month
//   - TotalSpendings: sum of approved expenses for the month
//   - Remaining and Percentage: ledger.ComputeRemaining over the two totals
func (s *DashboardService) GetFundStatus(ctx context.Context, period domain.Period) (*FundStatus, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	key := period.String()
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			status := cached.(FundStatus)
			return &status, nil
		}
	}

	var fund, spend decimal.Decimal
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fund, err = s.ContributionRepo.SumByPeriod(gctx, period)
		if err != nil {
			return fmt.Errorf("failed to sum contributions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		spend, err = s.ExpenseRepo.SumApproved(gctx, period)
		if err != nil {
			return fmt.Errorf("failed to sum approved expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	remaining := ledger.ComputeRemaining(fund, spend)
	status := FundStatus{
		Summary: domain.MonthlySummary{
			Period:         period,
			TotalMealFund:  fund,
			TotalSpendings: spend,
		},
		Remaining:  remaining.Remaining,
		Percentage: remaining.Percentage,
	}

	if s.cache != nil {
		s.cache.Set(key, status, cache.DefaultExpiration)
	}

	return &status, nil
}

// Invalidate drops the cached status of a month after a write touched it
func (s *DashboardService) Invalidate(period domain.Period) {
	if s.cache != nil {
		s.cache.Delete(period.String())
	}
}

// MonthOptions returns the month selector around anchor using the configured window
func (s *DashboardService) MonthOptions(anchor time.Time) ([]ledger.MonthOption, error) {
	return ledger.GenerateMonthOptions(anchor, s.monthsBack, s.monthsForward)
}
