package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pennyworth/pennyworth-backend/internal/domain"
	"github.com/pennyworth/pennyworth-backend/internal/middleware"
	"github.com/pennyworth/pennyworth-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// TransactionRequest is the JSON body for create and update
type TransactionRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

// TransactionResponse is the JSON shape for a single transaction
type TransactionResponse struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PaginatedTransactionsResponse is the JSON shape for the list endpoint
type PaginatedTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	CurrentPage  int32                 `json:"currentPage"`
	TotalPages   int32                 `json:"totalPages"`
	Total        int64                 `json:"total"`
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount.StringFixed(2),
		Type:        t.Type.Display(),
		Category:    t.Category,
		Date:        t.Date.Format("2006-01-02"),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (h *TransactionHandler) parseRequest(c echo.Context) (service.TransactionInput, []ValidationError) {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return service.TransactionInput{}, []ValidationError{{Field: "body", Message: "Invalid JSON body"}}
	}

	var fieldErrors []ValidationError

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		fieldErrors = append(fieldErrors, ValidationError{Field: "amount", Message: "Must be a decimal number"})
	}

	txType, ok := domain.ParseTransactionType(req.Type)
	if !ok {
		fieldErrors = append(fieldErrors, ValidationError{Field: "type", Message: "Must be income or expense"})
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		fieldErrors = append(fieldErrors, ValidationError{Field: "date", Message: "Must be an ISO date (YYYY-MM-DD)"})
	}

	if len(fieldErrors) > 0 {
		return service.TransactionInput{}, fieldErrors
	}

	return service.TransactionInput{
		Description: req.Description,
		Amount:      amount,
		Type:        txType,
		Category:    req.Category,
		Date:        date,
	}, nil
}

// GetTransactions handles GET /api/v1/transactions
// Query params: page, limit, search, category
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)

	filters := &domain.TransactionFilters{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
	}
	if pageStr := c.QueryParam("page"); pageStr != "" {
		page, err := strconv.ParseInt(pageStr, 10, 32)
		if err != nil || page < 1 {
			return NewValidationError(c, "Invalid page", []ValidationError{{Field: "page", Message: "Must be a positive integer"}})
		}
		filters.Page = int32(page)
	}
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limit, err := strconv.ParseInt(limitStr, 10, 32)
		if err != nil || limit < 1 {
			return NewValidationError(c, "Invalid limit", []ValidationError{{Field: "limit", Message: "Must be a positive integer"}})
		}
		filters.PageSize = int32(limit)
	}

	result, err := h.transactionService.ListTransactions(c.Request().Context(), userID, filters)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}

	resp := PaginatedTransactionsResponse{
		Transactions: make([]TransactionResponse, len(result.Transactions)),
		CurrentPage:  result.CurrentPage,
		TotalPages:   result.TotalPages,
		Total:        result.Total,
	}
	for i, t := range result.Transactions {
		resp.Transactions[i] = toTransactionResponse(t)
	}

	return c.JSON(http.StatusOK, resp)
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	input, fieldErrors := h.parseRequest(c)
	if fieldErrors != nil {
		return NewValidationError(c, "Invalid transaction", fieldErrors)
	}

	created, err := h.transactionService.CreateTransaction(c.Request().Context(), userID, input)
	if err != nil {
		return h.mapServiceError(c, err, userID, "Failed to create transaction")
	}

	return c.JSON(http.StatusCreated, toTransactionResponse(created))
}

// UpdateTransaction handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction id", []ValidationError{{Field: "id", Message: "Must be a UUID"}})
	}

	input, fieldErrors := h.parseRequest(c)
	if fieldErrors != nil {
		return NewValidationError(c, "Invalid transaction", fieldErrors)
	}

	updated, err := h.transactionService.UpdateTransaction(c.Request().Context(), userID, id, input)
	if err != nil {
		return h.mapServiceError(c, err, userID, "Failed to update transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(updated))
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction id", []ValidationError{{Field: "id", Message: "Must be a UUID"}})
	}

	if err := h.transactionService.DeleteTransaction(c.Request().Context(), userID, id); err != nil {
		return h.mapServiceError(c, err, userID, "Failed to delete transaction")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
}

// GetCategories handles GET /api/v1/transactions/categories
func (h *TransactionHandler) GetCategories(c echo.Context) error {
	categories, err := h.transactionService.Categories(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get categories")
		return NewInternalError(c, "Failed to get categories")
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *TransactionHandler) mapServiceError(c echo.Context, err error, userID uuid.UUID, detail string) error {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound):
		return NewNotFoundError(c, "Transaction not found")
	case errors.Is(err, domain.ErrDescriptionRequired),
		errors.Is(err, domain.ErrDescriptionTooLong),
		errors.Is(err, domain.ErrCategoryRequired),
		errors.Is(err, domain.ErrCategoryTooLong),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidTransactionType):
		return NewValidationError(c, err.Error(), nil)
	default:
		log.Error().Err(err).Str("user_id", userID.String()).Msg(detail)
		return NewInternalError(c, detail)
	}
}
