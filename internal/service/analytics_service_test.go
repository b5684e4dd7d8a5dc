package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pennyworth/pennyworth-backend/internal/domain"
	"github.com/pennyworth/pennyworth-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func seedTransaction(repo *testutil.MockTransactionRepository, userID uuid.UUID, txType domain.TransactionType, amount string, category string, date time.Time) {
	repo.AddTransaction(&domain.Transaction{
		ID:       uuid.New(),
		UserID:   userID,
		Type:     txType,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     date,
	})
}

func TestGetDashboard_CurrentYearOnly(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	vc := NewViewCache(testutil.NewMockCacheStore())
	svc := NewAnalyticsService(repo, vc)
	svc.now = fixedClock(time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC))

	userID := uuid.New()
	seedTransaction(repo, userID, domain.TransactionTypeIncome, "1000", "Salary", time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	seedTransaction(repo, userID, domain.TransactionTypeExpense, "-200", "Food", time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC))
	// Prior-year record is outside the repository window.
	seedTransaction(repo, userID, domain.TransactionTypeExpense, "-999", "Food", time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC))

	summary, err := svc.GetDashboard(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, "1000", summary.TotalIncome.String())
	assert.Equal(t, "200", summary.TotalExpenses.String())
	assert.Equal(t, "800", summary.Balance.String())
}

func TestGetDashboard_SecondRequestServedFromCache(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	store := testutil.NewMockCacheStore()
	svc := NewAnalyticsService(repo, NewViewCache(store))
	svc.now = fixedClock(time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC))

	userID := uuid.New()
	seedTransaction(repo, userID, domain.TransactionTypeIncome, "500", "Salary", time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first, err := svc.GetDashboard(ctx, userID)
	require.NoError(t, err)
	second, err := svc.GetDashboard(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.ListCalls, "second request should not hit the repository")
	assert.Equal(t, first, second)
}

func TestGetDashboard_RepositoryErrorPropagates(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	repo.Err = errors.New("connection reset")
	svc := NewAnalyticsService(repo, NewViewCache(testutil.NewMockCacheStore()))

	_, err := svc.GetDashboard(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repo.Err)
}

func TestGetDashboard_FreshAfterInvalidation(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	vc := NewViewCache(testutil.NewMockCacheStore())
	analytics := NewAnalyticsService(repo, vc)
	analytics.now = fixedClock(time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC))
	transactions := NewTransactionService(repo, vc)

	userID := uuid.New()
	ctx := context.Background()
	seedTransaction(repo, userID, domain.TransactionTypeIncome, "100", "Salary", time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))

	before, err := analytics.GetDashboard(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "100", before.TotalIncome.String())

	_, err = transactions.CreateTransaction(ctx, userID, TransactionInput{
		Description: "Bonus",
		Amount:      decimal.RequireFromString("50"),
		Type:        domain.TransactionTypeIncome,
		Category:    "Salary",
		Date:        time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	after, err := analytics.GetDashboard(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "150", after.TotalIncome.String(), "dashboard must reflect the write immediately")
}

func TestGetTrend_BoundsToRequestedYear(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewAnalyticsService(repo, NewViewCache(testutil.NewMockCacheStore()))

	userID := uuid.New()
	seedTransaction(repo, userID, domain.TransactionTypeIncome, "700", "Salary", time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	seedTransaction(repo, userID, domain.TransactionTypeIncome, "999", "Salary", time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))

	trend, err := svc.GetTrend(context.Background(), userID, 2024)

	require.NoError(t, err)
	assert.Equal(t, 2024, trend.Year)
	require.Len(t, trend.Months, 12)
	assert.Equal(t, "700", trend.Months[5].Income.String())
	total := decimal.Zero
	for _, point := range trend.Months {
		total = total.Add(point.Income)
	}
	assert.Equal(t, "700", total.String(), "other years must not leak into the series")
}

func TestGetTrend_CachedPerYear(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewAnalyticsService(repo, NewViewCache(testutil.NewMockCacheStore()))
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.GetTrend(ctx, userID, 2024)
	require.NoError(t, err)
	_, err = svc.GetTrend(ctx, userID, 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.ListCalls)

	_, err = svc.GetTrend(ctx, userID, 2025)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.ListCalls, "a different year is a different cache key")
}

func TestGetCategoryBreakdown_QuarterWindow(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewAnalyticsService(repo, NewViewCache(testutil.NewMockCacheStore()))
	// Mid-May: the quarter window starts April 1.
	svc.now = fixedClock(time.Date(2025, time.May, 15, 10, 0, 0, 0, time.UTC))

	userID := uuid.New()
	seedTransaction(repo, userID, domain.TransactionTypeExpense, "-120", "Food", time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC))
	seedTransaction(repo, userID, domain.TransactionTypeExpense, "-80", "Food", time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC))
	// March is the previous quarter.
	seedTransaction(repo, userID, domain.TransactionTypeExpense, "-500", "Food", time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC))

	breakdown, err := svc.GetCategoryBreakdown(context.Background(), userID, "quarter")

	require.NoError(t, err)
	assert.Equal(t, domain.PeriodQuarter, breakdown.Period)
	require.Len(t, breakdown.Categories, 1)
	assert.Equal(t, "200", breakdown.Categories[0].Value.String())
}

func TestGetCategoryBreakdown_MonthWindow(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewAnalyticsService(repo, NewViewCache(testutil.NewMockCacheStore()))
	svc.now = fixedClock(time.Date(2025, time.May, 15, 10, 0, 0, 0, time.UTC))

	userID := uuid.New()
	seedTransaction(repo, userID, domain.TransactionTypeExpense, "-80", "Food", time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC))
	seedTransaction(repo, userID, domain.TransactionTypeExpense, "-120", "Food", time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC))

	breakdown, err := svc.GetCategoryBreakdown(context.Background(), userID, "month")

	require.NoError(t, err)
	require.Len(t, breakdown.Categories, 1)
	assert.Equal(t, "80", breakdown.Categories[0].Value.String())
}

func TestGetCategoryBreakdown_UnknownPeriodFallsBackToMonth(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewAnalyticsService(repo, NewViewCache(testutil.NewMockCacheStore()))
	svc.now = fixedClock(time.Date(2025, time.May, 15, 10, 0, 0, 0, time.UTC))

	userID := uuid.New()
	seedTransaction(repo, userID, domain.TransactionTypeExpense, "-80", "Food", time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC))

	breakdown, err := svc.GetCategoryBreakdown(context.Background(), userID, "fortnight")

	require.NoError(t, err)
	assert.Equal(t, domain.PeriodMonth, breakdown.Period)
	require.Len(t, breakdown.Categories, 1)
}

func TestGetCategoryBreakdown_CacheDisabledStillWorks(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewAnalyticsService(repo, NewViewCache(nil))
	svc.now = fixedClock(time.Date(2025, time.May, 15, 10, 0, 0, 0, time.UTC))

	userID := uuid.New()
	seedTransaction(repo, userID, domain.TransactionTypeExpense, "-80", "Food", time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := svc.GetCategoryBreakdown(ctx, userID, "month")
	require.NoError(t, err)
	_, err = svc.GetCategoryBreakdown(ctx, userID, "month")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.ListCalls, "without a store every request computes fresh")
}

func TestAnalytics_UsersAreIsolated(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewAnalyticsService(repo, NewViewCache(testutil.NewMockCacheStore()))
	svc.now = fixedClock(time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC))

	userA := uuid.New()
	userB := uuid.New()
	seedTransaction(repo, userA, domain.TransactionTypeIncome, "100", "Salary", time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))
	seedTransaction(repo, userB, domain.TransactionTypeIncome, "999", "Salary", time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	summaryA, err := svc.GetDashboard(ctx, userA)
	require.NoError(t, err)
	summaryB, err := svc.GetDashboard(ctx, userB)
	require.NoError(t, err)

	assert.Equal(t, "100", summaryA.TotalIncome.String())
	assert.Equal(t, "999", summaryB.TotalIncome.String())
}
