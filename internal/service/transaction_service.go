package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pennyworth/pennyworth-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// StaticCategories is the label list offered to clients when categorizing
// transactions. Served through the cache under a global key.
var StaticCategories = []string{
	"Food & Dining",
	"Transportation",
	"Entertainment",
	"Shopping",
	"Bills & Utilities",
	"Healthcare",
	"Education",
	"Travel",
	"Groceries",
	"Rent",
	"Salary",
	"Freelance",
	"Investment",
	"Gift",
	"Other",
}

// TransactionService handles transaction-related business logic. Every write
// invalidates the owner's cached views before the call returns; invalidation
// failures are logged inside the view cache and never fail the write.
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	views           *ViewCache
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, views *ViewCache) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		views:           views,
	}
}

// TransactionInput holds the validated fields for a create or update.
type TransactionInput struct {
	Description string
	Amount      decimal.Decimal
	Type        domain.TransactionType
	Category    string
	Date        time.Time
}

func (s *TransactionService) validate(input *TransactionInput) error {
	input.Description = strings.TrimSpace(input.Description)
	if input.Description == "" {
		return domain.ErrDescriptionRequired
	}
	if len(input.Description) > domain.MaxDescriptionLength {
		return domain.ErrDescriptionTooLong
	}

	input.Category = strings.TrimSpace(input.Category)
	if input.Category == "" {
		return domain.ErrCategoryRequired
	}
	if len(input.Category) > domain.MaxCategoryLength {
		return domain.ErrCategoryTooLong
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	if input.Type != domain.TransactionTypeIncome && input.Type != domain.TransactionTypeExpense {
		return domain.ErrInvalidTransactionType
	}
	return nil
}

// storedAmount applies the sign convention at write time: expenses negative,
// income positive.
func storedAmount(amount decimal.Decimal, txType domain.TransactionType) decimal.Decimal {
	if txType == domain.TransactionTypeExpense {
		return amount.Abs().Neg()
	}
	return amount.Abs()
}

// CreateTransaction creates a transaction and invalidates the user's views.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, input TransactionInput) (*domain.Transaction, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	created, err := s.transactionRepo.Create(ctx, &domain.Transaction{
		UserID:      userID,
		Description: input.Description,
		Amount:      storedAmount(input.Amount, input.Type),
		Type:        input.Type,
		Category:    input.Category,
		Date:        input.Date,
	})
	if err != nil {
		return nil, err
	}

	s.views.InvalidateUser(ctx, userID)
	return created, nil
}

// UpdateTransaction updates an existing transaction owned by the user.
func (s *TransactionService) UpdateTransaction(ctx context.Context, userID, id uuid.UUID, input TransactionInput) (*domain.Transaction, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	existing, err := s.transactionRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	existing.Description = input.Description
	existing.Amount = storedAmount(input.Amount, input.Type)
	existing.Type = input.Type
	existing.Category = input.Category
	existing.Date = input.Date

	updated, err := s.transactionRepo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.views.InvalidateUser(ctx, userID)
	return updated, nil
}

// DeleteTransaction removes a transaction owned by the user.
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.transactionRepo.GetByID(ctx, userID, id); err != nil {
		return err
	}
	if err := s.transactionRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.views.InvalidateUser(ctx, userID)
	return nil
}

// ListTransactions returns one page of the user's transactions, served
// through the cache.
func (s *TransactionService) ListTransactions(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if filters == nil {
		filters = &domain.TransactionFilters{}
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = domain.DefaultPageSize
	}
	if filters.PageSize > domain.MaxPageSize {
		filters.PageSize = domain.MaxPageSize
	}

	key := TransactionsKey(userID, filters.Page, filters.PageSize, filters.Search, filters.Category)

	return FetchView(ctx, s.views, userID, key, TTLTransactions, func(ctx context.Context) (*domain.PaginatedTransactions, error) {
		return s.transactionRepo.ListByUser(ctx, userID, filters)
	})
}

// Categories returns the static category labels, cached globally.
func (s *TransactionService) Categories(ctx context.Context) ([]string, error) {
	return FetchView(ctx, s.views, uuid.Nil, CategoryListKey, TTLCategoryList, func(ctx context.Context) ([]string, error) {
		return StaticCategories, nil
	})
}
