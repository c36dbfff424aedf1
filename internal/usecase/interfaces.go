package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vheb/stocksim/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	UpdateBalances(ctx context.Context, tx Transaction, id string, balance, investedAmount decimal.Decimal, updatedAt time.Time) error
	Delete(ctx context.Context, tx Transaction, id string) error
}

// PositionRepository defines data access for positions. Reads inside a trade
// run under the transaction that holds the account row lock.
type PositionRepository interface {
	GetBySymbol(ctx context.Context, tx Transaction, accountID, symbol string) (*domain.Position, error)
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Position, error)
	CountByAccount(ctx context.Context, accountID string) (int, error)
	Upsert(ctx context.Context, tx Transaction, position *domain.Position) error
	Delete(ctx context.Context, tx Transaction, accountID, symbol string) error
}

// TransactionRepository defines data access for the append-only trade log.
type TransactionRepository interface {
	Append(ctx context.Context, tx Transaction, t *domain.Transaction) (int64, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
}

// PriceCacheRepository defines data access for the daily price cache.
type PriceCacheRepository interface {
	Get(ctx context.Context, symbol string) (*domain.PriceEntry, error)
	GetMany(ctx context.Context, symbols []string) (map[string]*domain.PriceEntry, error)
	Upsert(ctx context.Context, entry *domain.PriceEntry) error
	ListSymbols(ctx context.Context) ([]string, error)
}

// QuoteProvider fetches daily quotes from the external market-data API.
type QuoteProvider interface {
	FetchDailyQuote(ctx context.Context, symbol string) (*domain.Quote, error)
}

// PriceSource serves cached prices, refreshing them when stale.
type PriceSource interface {
	GetQuotes(ctx context.Context, symbols []string) (map[string]*domain.PriceEntry, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, tx Transaction, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
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

// Retrier re-runs an operation on transient storage conflicts. It reports
// domain.ErrConflict once retries are exhausted.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
