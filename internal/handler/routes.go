package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/pennyworth/pennyworth-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, analyticsHandler *AnalyticsHandler, transactionHandler *TransactionHandler, userHandler *UserHandler) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Analytics routes
	analytics := api.Group("/analytics")
	analytics.GET("/dashboard", analyticsHandler.GetDashboard)
	analytics.GET("/trends/:year", analyticsHandler.GetTrends)
	analytics.GET("/categories/:period", analyticsHandler.GetCategoryBreakdown)

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/categories", transactionHandler.GetCategories)
	writers := middleware.RequireRole("admin", "user")
	transactions.POST("", transactionHandler.CreateTransaction, writers)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction, writers)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction, writers)

	// User management routes (admin only)
	users := api.Group("/users", middleware.RequireRole("admin"))
	users.GET("", userHandler.ListUsers)
	users.PUT("/:id/role", userHandler.UpdateRole)
	users.DELETE("/:id", userHandler.DeleteUser)
}
