package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Display returns the lower-cased label used in API responses.
func (t TransactionType) Display() string {
	switch t {
	case TransactionTypeIncome:
		return "income"
	case TransactionTypeExpense:
		return "expense"
	default:
		return ""
	}
}

// ParseTransactionType maps an API-facing label to a TransactionType.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch s {
	case "income":
		return TransactionTypeIncome, true
	case "expense":
		return TransactionTypeExpense, true
	default:
		return "", false
	}
}

// Transaction is a single income or expense record. Amount is stored signed:
// expenses negative, income positive. Aggregation works from the magnitude
// keyed by Type and never trusts the sign.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TransactionFilters narrows list queries. Nil/zero fields are not applied.
type TransactionFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      *TransactionType
	Search    string
	Category  string
	Page      int32
	PageSize  int32
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	MaxDescriptionLength = 255
	MaxCategoryLength    = 50
)

type PaginatedTransactions struct {
	Transactions []*Transaction `json:"transactions"`
	CurrentPage  int32          `json:"currentPage"`
	TotalPages   int32          `json:"totalPages"`
	Total        int64          `json:"total"`
}

// TransactionRepository is the persistence port for transactions.
// ListByUser and ListForRange return transactions ordered by date descending.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *Transaction) (*Transaction, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Transaction, error)
	Update(ctx context.Context, transaction *Transaction) (*Transaction, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, filters *TransactionFilters) (*PaginatedTransactions, error)
	ListForRange(ctx context.Context, userID uuid.UUID, start time.Time, end *time.Time, txType *TransactionType) ([]*Transaction, error)
}
