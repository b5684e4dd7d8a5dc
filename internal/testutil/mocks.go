package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pennyworth/pennyworth-backend/internal/domain"
)

// MockTransactionRepository is an in-memory implementation of
// domain.TransactionRepository
type MockTransactionRepository struct {
	mu           sync.Mutex
	Transactions map[uuid.UUID]*domain.Transaction
	Err          error
	ListCalls    int
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(t *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	m.Transactions[t.ID] = t
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *t
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.Transactions[created.ID] = &created
	return &created, nil
}

// GetByID retrieves a transaction scoped to the owning user
func (m *MockTransactionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Transactions[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return t, nil
}

// Update updates an existing transaction
func (m *MockTransactionRepository) Update(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Transactions[t.ID]
	if !ok || existing.UserID != t.UserID {
		return nil, domain.ErrTransactionNotFound
	}
	updated := *t
	updated.UpdatedAt = time.Now()
	m.Transactions[t.ID] = &updated
	return &updated, nil
}

// Delete removes a transaction owned by the user
func (m *MockTransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Transactions[id]
	if !ok || t.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return nil
}

// ListByUser returns one page of a user's transactions, date descending
func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++

	matching := make([]*domain.Transaction, 0)
	for _, t := range m.Transactions {
		if t.UserID != userID {
			continue
		}
		if filters != nil {
			if filters.Search != "" && !strings.Contains(strings.ToLower(t.Description), strings.ToLower(filters.Search)) {
				continue
			}
			if filters.Category != "" && t.Category != filters.Category {
				continue
			}
		}
		matching = append(matching, t)
	}
	sortByDateDesc(matching)

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
		}
	}

	total := int64(len(matching))
	start := int((page - 1) * pageSize)
	if start > len(matching) {
		start = len(matching)
	}
	end := start + int(pageSize)
	if end > len(matching) {
		end = len(matching)
	}

	totalPages := int32(total / int64(pageSize))
	if total%int64(pageSize) > 0 {
		totalPages++
	}

	return &domain.PaginatedTransactions{
		Transactions: matching[start:end],
		CurrentPage:  page,
		TotalPages:   totalPages,
		Total:        total,
	}, nil
}

// ListForRange returns a user's transactions in the window, date descending
func (m *MockTransactionRepository) ListForRange(ctx context.Context, userID uuid.UUID, start time.Time, end *time.Time, txType *domain.TransactionType) ([]*domain.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++

	matching := make([]*domain.Transaction, 0)
	for _, t := range m.Transactions {
		if t.UserID != userID {
			continue
		}
		if t.Date.Before(start) {
			continue
		}
		if end != nil && t.Date.After(*end) {
			continue
		}
		if txType != nil && t.Type != *txType {
			continue
		}
		matching = append(matching, t)
	}
	sortByDateDesc(matching)
	return matching, nil
}

func sortByDateDesc(transactions []*domain.Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		if transactions[i].Date.Equal(transactions[j].Date) {
			return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
		}
		return transactions[i].Date.After(transactions[j].Date)
	})
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// MockCacheStore is an in-memory implementation of domain.CacheStore with
// switchable failure injection and call counters
type MockCacheStore struct {
	mu      sync.Mutex
	entries map[string]cacheEntry

	GetErr    error
	SetErr    error
	DeleteErr error

	Gets    int
	Hits    int
	Sets    int
	Deletes int
}

// NewMockCacheStore creates a new MockCacheStore
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{entries: make(map[string]cacheEntry)}
}

// Get retrieves a value or domain.ErrCacheMiss
func (m *MockCacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	entry, ok := m.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(m.entries, key)
		return nil, domain.ErrCacheMiss
	}
	m.Hits++
	return entry.data, nil
}

// Set stores a value with a TTL
func (m *MockCacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.entries[key] = cacheEntry{data: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Delete removes keys
func (m *MockCacheStore) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

// Contains reports whether a live entry exists for the key (helper for tests)
func (m *MockCacheStore) Contains(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	return ok && time.Now().Before(entry.expiresAt)
}

// Len returns the number of stored entries (helper for tests)
func (m *MockCacheStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// MockUserRepository is an in-memory implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[uuid.UUID]*domain.User
	Err   error
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[uuid.UUID]*domain.User)}
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(u *domain.User) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.Users[u.ID] = u
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if u, ok := m.Users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

// List returns all users, newest first
func (m *MockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	users := make([]*domain.User, 0, len(m.Users))
	for _, u := range m.Users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

// UpdateRole changes a user's role
func (m *MockUserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role domain.UserRole) (*domain.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Role = role
	return u, nil
}

// Delete removes a user
func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.Users, id)
	return nil
}
