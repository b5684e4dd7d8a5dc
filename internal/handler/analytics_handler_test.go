package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pennyworth/pennyworth-backend/internal/domain"
	"github.com/pennyworth/pennyworth-backend/internal/middleware"
	"github.com/pennyworth/pennyworth-backend/internal/service"
	"github.com/pennyworth/pennyworth-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalyticsHandler(repo *testutil.MockTransactionRepository) *AnalyticsHandler {
	vc := service.NewViewCache(testutil.NewMockCacheStore())
	return NewAnalyticsHandler(service.NewAnalyticsService(repo, vc))
}

func seedAnalyticsData(repo *testutil.MockTransactionRepository, userID uuid.UUID) {
	year := time.Now().UTC().Year()
	repo.AddTransaction(&domain.Transaction{
		ID:       uuid.New(),
		UserID:   userID,
		Type:     domain.TransactionTypeIncome,
		Amount:   decimal.RequireFromString("1000"),
		Category: "Salary",
		Date:     time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	repo.AddTransaction(&domain.Transaction{
		ID:       uuid.New(),
		UserID:   userID,
		Type:     domain.TransactionTypeExpense,
		Amount:   decimal.RequireFromString("-250"),
		Category: "Food",
		Date:     time.Date(year, time.January, 5, 0, 0, 0, 0, time.UTC),
	})
}

func TestGetDashboard(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	h := newAnalyticsHandler(repo)

	userID := uuid.New()
	seedAnalyticsData(repo, userID)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/dashboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetAuthContext(c, userID, domain.UserRoleUser)

	require.NoError(t, h.GetDashboard(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TotalIncome   string `json:"totalIncome"`
		TotalExpenses string `json:"totalExpenses"`
		Balance       string `json:"balance"`
		MonthlyData   []struct {
			Month string `json:"month"`
		} `json:"monthlyData"`
		CategoryData []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
			Color string `json:"color"`
		} `json:"categoryData"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "1000", body.TotalIncome)
	assert.Equal(t, "250", body.TotalExpenses)
	assert.Equal(t, "750", body.Balance)
	require.Len(t, body.MonthlyData, 12)
	assert.Equal(t, "Jan", body.MonthlyData[0].Month)
	require.Len(t, body.CategoryData, 1)
	assert.Equal(t, "Food", body.CategoryData[0].Name)
	assert.NotEmpty(t, body.CategoryData[0].Color)
}

func TestGetDashboard_CacheHitServesIdenticalBody(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	h := newAnalyticsHandler(repo)

	userID := uuid.New()
	seedAnalyticsData(repo, userID)
	e := echo.New()

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/dashboard", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		middleware.SetAuthContext(c, userID, domain.UserRoleUser)
		require.NoError(t, h.GetDashboard(c))
		return rec
	}

	first := do()
	second := do()

	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, repo.ListCalls)
}

func TestGetDashboard_RepositoryFailure(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	repo.Err = assert.AnError
	h := newAnalyticsHandler(repo)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/dashboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetAuthContext(c, uuid.New(), domain.UserRoleUser)

	require.NoError(t, h.GetDashboard(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, ErrorTypeInternal, problem.Type)
}

func TestGetTrends(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	h := newAnalyticsHandler(repo)

	userID := uuid.New()
	repo.AddTransaction(&domain.Transaction{
		ID:       uuid.New(),
		UserID:   userID,
		Type:     domain.TransactionTypeIncome,
		Amount:   decimal.RequireFromString("300"),
		Category: "Salary",
		Date:     time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/analytics/trends/:year")
	c.SetParamNames("year")
	c.SetParamValues("2024")
	middleware.SetAuthContext(c, userID, domain.UserRoleUser)

	require.NoError(t, h.GetTrends(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Year   int `json:"year"`
		Months []struct {
			Month    string `json:"month"`
			Income   string `json:"income"`
			Expenses string `json:"expenses"`
			Net      string `json:"net"`
		} `json:"months"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2024, body.Year)
	require.Len(t, body.Months, 12)
	assert.Equal(t, "300", body.Months[2].Income)
	assert.Equal(t, "300", body.Months[2].Net)
	assert.Equal(t, "0", body.Months[0].Income)
}

func TestGetTrends_InvalidYear(t *testing.T) {
	h := newAnalyticsHandler(testutil.NewMockTransactionRepository())
	e := echo.New()

	for _, year := range []string{"abc", "1999", "2101"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/v1/analytics/trends/:year")
		c.SetParamNames("year")
		c.SetParamValues(year)
		middleware.SetAuthContext(c, uuid.New(), domain.UserRoleUser)

		require.NoError(t, h.GetTrends(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "year %q", year)
	}
}

func TestGetCategoryBreakdown(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	h := newAnalyticsHandler(repo)

	userID := uuid.New()
	now := time.Now().UTC()
	repo.AddTransaction(&domain.Transaction{
		ID:       uuid.New(),
		UserID:   userID,
		Type:     domain.TransactionTypeExpense,
		Amount:   decimal.RequireFromString("-90"),
		Category: "Groceries",
		Date:     now,
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/analytics/categories/:period")
	c.SetParamNames("period")
	c.SetParamValues("month")
	middleware.SetAuthContext(c, userID, domain.UserRoleUser)

	require.NoError(t, h.GetCategoryBreakdown(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Period     string `json:"period"`
		Categories []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "month", body.Period)
	require.Len(t, body.Categories, 1)
	assert.Equal(t, "Groceries", body.Categories[0].Name)
	assert.Equal(t, "90", body.Categories[0].Value)
}
