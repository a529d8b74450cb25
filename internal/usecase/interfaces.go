package usecase

import (
	"context"
	"time"

	"github.com/iho/gobudget/internal/domain"
)

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	Create(ctx context.Context, tx Transaction, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Category, error)
	ListByFrame(ctx context.Context, groupID string, frame domain.FrameIndex) ([]*domain.Category, error)
	Update(ctx context.Context, tx Transaction, category *domain.Category) error
}

// FrameRepository defines data access for frames.
type FrameRepository interface {
	Get(ctx context.Context, groupID string, index domain.FrameIndex) (*domain.Frame, error)
	GetForUpdate(ctx context.Context, tx Transaction, groupID string, index domain.FrameIndex) (*domain.Frame, error)
	// GetLatestBefore returns the most recent frame with an index strictly
	// below the given one, or ErrFrameNotFound.
	GetLatestBefore(ctx context.Context, tx Transaction, groupID string, index domain.FrameIndex) (*domain.Frame, error)
	Create(ctx context.Context, tx Transaction, frame *domain.Frame) error
	Update(ctx context.Context, tx Transaction, frame *domain.Frame) error
}

// TransactionRepository defines data access for ledger transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
	// GetMirror returns the other half of a split, excluding the given
	// transaction id.
	GetMirror(ctx context.Context, tx Transaction, splitID, excludeID string) (*domain.Transaction, error)
	ListByFrame(ctx context.Context, groupID string, frame domain.FrameIndex, limit, offset int) ([]*domain.Transaction, error)
	CountUncategorized(ctx context.Context, groupID string, frame domain.FrameIndex) (int, error)
	Update(ctx context.Context, tx Transaction, transaction *domain.Transaction) error
}

// DebtRepository defines data access for pairwise debt balances.
type DebtRepository interface {
	Get(ctx context.Context, u1, u2 string) (*domain.Debt, error)
	GetForUpdate(ctx context.Context, tx Transaction, u1, u2 string) (*domain.Debt, error)
	Upsert(ctx context.Context, tx Transaction, debt *domain.Debt) error
	ListByUser(ctx context.Context, uid string) ([]*domain.Debt, error)
}

// HistoryRepository defines data access for per-category spending history.
type HistoryRepository interface {
	Get(ctx context.Context, tx Transaction, groupID, categoryID string, frame domain.FrameIndex) (*domain.HistorySnapshot, error)
	Upsert(ctx context.Context, tx Transaction, snapshot *domain.HistorySnapshot) error
	// Window returns snapshots for [from, to] ordered by frame ascending.
	Window(ctx context.Context, groupID, categoryID string, from, to domain.FrameIndex) (domain.CategoryHistory, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient storage failures. The operation
// must be safe to re-run from scratch.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
