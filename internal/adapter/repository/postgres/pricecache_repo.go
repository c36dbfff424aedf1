package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vheb/stocksim/internal/domain"
)

// PriceCacheRepository implements usecase.PriceCacheRepository on a single
// table keyed by symbol.
type PriceCacheRepository struct {
	pool *pgxpool.Pool
}

// NewPriceCacheRepository creates a new PriceCacheRepository.
func NewPriceCacheRepository(pool *pgxpool.Pool) *PriceCacheRepository {
	return &PriceCacheRepository{pool: pool}
}

const priceColumns = `symbol, price, previous_price, updated_on`

// Get retrieves the cached entry for a symbol.
func (r *PriceCacheRepository) Get(ctx context.Context, symbol string) (*domain.PriceEntry, error) {
	query := `SELECT ` + priceColumns + ` FROM price_cache WHERE symbol = $1`

	var entry domain.PriceEntry
	err := r.pool.QueryRow(ctx, query, symbol).Scan(
		&entry.Symbol,
		&entry.Price,
		&entry.PreviousPrice,
		&entry.UpdatedOn,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrQuoteUnavailable
		}

		return nil, err
	}

	return &entry, nil
}

// GetMany retrieves cached entries for the given symbols. Symbols with no
// entry are absent from the result.
func (r *PriceCacheRepository) GetMany(ctx context.Context, symbols []string) (map[string]*domain.PriceEntry, error) {
	query := `SELECT ` + priceColumns + ` FROM price_cache WHERE symbol = ANY($1)`

	rows, err := r.pool.Query(ctx, query, symbols)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make(map[string]*domain.PriceEntry, len(symbols))
	for rows.Next() {
		var entry domain.PriceEntry
		err := rows.Scan(&entry.Symbol, &entry.Price, &entry.PreviousPrice, &entry.UpdatedOn)
		if err != nil {
			return nil, err
		}
		entries[entry.Symbol] = &entry
	}

	return entries, rows.Err()
}

// Upsert writes a refreshed entry, replacing any prior one for the symbol.
func (r *PriceCacheRepository) Upsert(ctx context.Context, entry *domain.PriceEntry) error {
	query := `
		INSERT INTO price_cache (symbol, price, previous_price, updated_on)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (symbol)
		DO UPDATE SET price = EXCLUDED.price, previous_price = EXCLUDED.previous_price, updated_on = EXCLUDED.updated_on
	`

	_, err := r.pool.Exec(ctx, query,
		entry.Symbol,
		entry.Price,
		entry.PreviousPrice,
		entry.UpdatedOn,
	)

	return err
}

// ListSymbols retrieves every cached symbol.
func (r *PriceCacheRepository) ListSymbols(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT symbol FROM price_cache ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, err
		}
		symbols = append(symbols, symbol)
	}

	return symbols, rows.Err()
}
