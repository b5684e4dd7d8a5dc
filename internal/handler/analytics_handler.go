package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pennyworth/pennyworth-backend/internal/middleware"
	"github.com/pennyworth/pennyworth-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// AnalyticsHandler handles analytics-related HTTP requests. Responses carry
// the derived views as-is: monetary fields marshal as exact decimal strings,
// and a cache hit serves bytes identical to the original computation.
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GetDashboard handles GET /api/v1/analytics/dashboard
func (h *AnalyticsHandler) GetDashboard(c echo.Context) error {
	userID := middleware.GetUserID(c)

	summary, err := h.analyticsService.GetDashboard(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get dashboard")
		return NewInternalError(c, "Failed to get dashboard")
	}

	return c.JSON(http.StatusOK, summary)
}

// GetTrends handles GET /api/v1/analytics/trends/:year
func (h *AnalyticsHandler) GetTrends(c echo.Context) error {
	userID := middleware.GetUserID(c)

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return NewValidationError(c, "Invalid year format", []ValidationError{{Field: "year", Message: "Must be a valid integer"}})
	}
	if year < 2000 || year > 2100 {
		return NewValidationError(c, "Year must be between 2000 and 2100", []ValidationError{{Field: "year", Message: "Must be between 2000 and 2100"}})
	}

	trend, err := h.analyticsService.GetTrend(c.Request().Context(), userID, year)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Int("year", year).Msg("Failed to get trends")
		return NewInternalError(c, "Failed to get trends")
	}

	return c.JSON(http.StatusOK, trend)
}

// GetCategoryBreakdown handles GET /api/v1/analytics/categories/:period
// Unrecognized periods fall back to "month".
func (h *AnalyticsHandler) GetCategoryBreakdown(c echo.Context) error {
	userID := middleware.GetUserID(c)
	period := c.Param("period")

	breakdown, err := h.analyticsService.GetCategoryBreakdown(c.Request().Context(), userID, period)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Str("period", period).Msg("Failed to get category breakdown")
		return NewInternalError(c, "Failed to get category breakdown")
	}

	return c.JSON(http.StatusOK, breakdown)
}
