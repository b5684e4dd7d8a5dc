package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennyworth/pennyworth-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const transactionColumns = "id, user_id, description, amount, type, category, date, created_at, updated_at"

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create creates a new transaction
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (user_id, description, amount, type, category, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+transactionColumns,
		pgUUID(transaction.UserID),
		transaction.Description,
		amount,
		string(transaction.Type),
		transaction.Category,
		pgtype.Date{Time: transaction.Date, Valid: true},
	)
	return scanTransaction(row)
}

// GetByID retrieves a transaction by its ID, scoped to the owning user
func (r *TransactionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1 AND user_id = $2`,
		pgUUID(id), pgUUID(userID),
	)
	transaction, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// Update updates a transaction's details
func (r *TransactionRepository) Update(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE transactions
		SET description = $3, amount = $4, type = $5, category = $6, date = $7, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+transactionColumns,
		pgUUID(transaction.ID),
		pgUUID(transaction.UserID),
		transaction.Description,
		amount,
		string(transaction.Type),
		transaction.Category,
		pgtype.Date{Time: transaction.Date, Valid: true},
	)
	updated, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a transaction owned by the user
func (r *TransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM transactions
		WHERE id = $1 AND user_id = $2`,
		pgUUID(id), pgUUID(userID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// ListByUser retrieves one page of a user's transactions, date descending,
// with optional description search and category filter
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
			if pageSize > domain.MaxPageSize {
				pageSize = domain.MaxPageSize
			}
		}
	}
	offset := (page - 1) * pageSize

	where := "WHERE user_id = $1"
	args := []any{pgUUID(userID)}
	if filters != nil {
		if filters.Search != "" {
			args = append(args, "%"+filters.Search+"%")
			where += fmt.Sprintf(" AND description ILIKE $%d", len(args))
		}
		if filters.Category != "" {
			args = append(args, filters.Category)
			where += fmt.Sprintf(" AND category = $%d", len(args))
		}
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM transactions "+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM transactions %s ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d",
		transactionColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, pageSize, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}

	totalPages := int32(total / int64(pageSize))
	if total%int64(pageSize) > 0 {
		totalPages++
	}

	return &domain.PaginatedTransactions{
		Transactions: transactions,
		CurrentPage:  page,
		TotalPages:   totalPages,
		Total:        total,
	}, nil
}

// ListForRange retrieves a user's transactions from start (inclusive) up to
// the optional end date, optionally restricted to one type, date descending
func (r *TransactionRepository) ListForRange(ctx context.Context, userID uuid.UUID, start time.Time, end *time.Time, txType *domain.TransactionType) ([]*domain.Transaction, error) {
	where := "WHERE user_id = $1 AND date >= $2"
	args := []any{pgUUID(userID), pgtype.Date{Time: start, Valid: true}}
	if end != nil {
		args = append(args, pgtype.Date{Time: *end, Valid: true})
		where += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	if txType != nil {
		args = append(args, string(*txType))
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}

	rows, err := r.pool.Query(ctx,
		"SELECT "+transactionColumns+" FROM transactions "+where+" ORDER BY date DESC, created_at DESC",
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// Helper functions

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		id, userID           pgtype.UUID
		amount               pgtype.Numeric
		date                 pgtype.Date
		createdAt, updatedAt pgtype.Timestamptz
		txType               string
		transaction          domain.Transaction
	)
	err := row.Scan(&id, &userID, &transaction.Description, &amount, &txType, &transaction.Category, &date, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	transaction.ID = uuid.UUID(id.Bytes)
	transaction.UserID = uuid.UUID(userID.Bytes)
	transaction.Amount = pgNumericToDecimal(amount)
	transaction.Type = domain.TransactionType(txType)
	transaction.Date = date.Time
	transaction.CreatedAt = createdAt.Time
	transaction.UpdatedAt = updatedAt.Time
	return &transaction, nil
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func decimalToPgNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var num pgtype.Numeric
	if err := num.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return num, nil
}

func pgNumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	if n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
