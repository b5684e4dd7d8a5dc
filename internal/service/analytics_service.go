package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pennyworth/pennyworth-backend/internal/domain"
	"github.com/pennyworth/pennyworth-backend/internal/util"
)

// AnalyticsService produces the derived financial views. Raw transactions
// come through the repository port, aggregation happens in the pure functions
// in aggregate.go, and results are memoized per user/parameter combination by
// the ViewCache. Repository failures propagate to the caller; cache failures
// never do.
type AnalyticsService struct {
	transactionRepo domain.TransactionRepository
	views           *ViewCache
	now             func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(transactionRepo domain.TransactionRepository, views *ViewCache) *AnalyticsService {
	return &AnalyticsService{
		transactionRepo: transactionRepo,
		views:           views,
		now:             time.Now,
	}
}

// GetDashboard returns the dashboard summary for the current year.
func (s *AnalyticsService) GetDashboard(ctx context.Context, userID uuid.UUID) (*domain.DashboardSummary, error) {
	year := s.now().UTC().Year()
	key := DashboardKey(userID)

	return FetchView(ctx, s.views, userID, key, TTLDashboard, func(ctx context.Context) (*domain.DashboardSummary, error) {
		transactions, err := s.transactionRepo.ListForRange(ctx, userID, util.StartOfYear(year), nil, nil)
		if err != nil {
			return nil, err
		}
		return ComputeDashboard(transactions, year), nil
	})
}

// GetTrend returns the 12-month trend series for the requested year.
func (s *AnalyticsService) GetTrend(ctx context.Context, userID uuid.UUID, year int) (*domain.TrendSeries, error) {
	key := TrendsKey(userID, year)

	return FetchView(ctx, s.views, userID, key, TTLTrends, func(ctx context.Context) (*domain.TrendSeries, error) {
		end := util.EndOfYear(year)
		transactions, err := s.transactionRepo.ListForRange(ctx, userID, util.StartOfYear(year), &end, nil)
		if err != nil {
			return nil, err
		}
		return ComputeTrend(transactions, year), nil
	})
}

// GetCategoryBreakdown returns the full expense distribution for the period
// window ending now. Unrecognized periods fall back to "month".
func (s *AnalyticsService) GetCategoryBreakdown(ctx context.Context, userID uuid.UUID, period string) (*domain.CategoryBreakdown, error) {
	normalized := domain.NormalizePeriod(period)
	key := CategoriesKey(userID, normalized)

	return FetchView(ctx, s.views, userID, key, TTLCategories, func(ctx context.Context) (*domain.CategoryBreakdown, error) {
		now := s.now().UTC()

		var windowStart time.Time
		switch normalized {
		case domain.PeriodQuarter:
			windowStart = util.StartOfQuarter(now)
		case domain.PeriodYear:
			windowStart = util.StartOfYear(now.Year())
		default:
			windowStart = util.StartOfMonth(now)
		}

		expense := domain.TransactionTypeExpense
		transactions, err := s.transactionRepo.ListForRange(ctx, userID, windowStart, nil, &expense)
		if err != nil {
			return nil, err
		}
		return ComputeCategoryBreakdown(transactions, normalized), nil
	})
}
