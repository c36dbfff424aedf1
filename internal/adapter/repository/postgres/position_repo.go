package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vheb/stocksim/internal/domain"
	"github.com/vheb/stocksim/internal/usecase"
)

// PositionRepository implements usecase.PositionRepository.
type PositionRepository struct {
	pool *pgxpool.Pool
}

// NewPositionRepository creates a new PositionRepository.
func NewPositionRepository(pool *pgxpool.Pool) *PositionRepository {
	return &PositionRepository{pool: pool}
}

const positionColumns = `account_id, symbol, quantity, cost_basis, created_at, updated_at`

// GetBySymbol retrieves one position. Callers inside a trade pass their
// transaction so the read sees rows written under the account lock.
func (r *PositionRepository) GetBySymbol(ctx context.Context, tx usecase.Transaction, accountID, symbol string) (*domain.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions WHERE account_id = $1 AND symbol = $2`

	return scanPosition(inTx(r.pool, tx).QueryRow(ctx, query, accountID, symbol))
}

// ListByAccount retrieves all open positions of an account, ordered by symbol.
func (r *PositionRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions WHERE account_id = $1 ORDER BY symbol`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []*domain.Position
	for rows.Next() {
		position, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, position)
	}

	return positions, rows.Err()
}

// CountByAccount counts the open positions of an account.
func (r *PositionRepository) CountByAccount(ctx context.Context, accountID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM positions WHERE account_id = $1`, accountID).Scan(&count)

	return count, err
}

// Upsert inserts a position or replaces its quantity and cost basis.
func (r *PositionRepository) Upsert(ctx context.Context, tx usecase.Transaction, position *domain.Position) error {
	query := `
		INSERT INTO positions (account_id, symbol, quantity, cost_basis, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (account_id, symbol)
		DO UPDATE SET quantity = EXCLUDED.quantity, cost_basis = EXCLUDED.cost_basis, updated_at = EXCLUDED.updated_at
	`

	_, err := inTx(r.pool, tx).Exec(ctx, query,
		position.AccountID,
		position.Symbol,
		position.Quantity,
		position.CostBasis,
		position.CreatedAt,
		position.UpdatedAt,
	)

	return err
}

// Delete removes a fully sold position.
func (r *PositionRepository) Delete(ctx context.Context, tx usecase.Transaction, accountID, symbol string) error {
	query := `DELETE FROM positions WHERE account_id = $1 AND symbol = $2`

	_, err := inTx(r.pool, tx).Exec(ctx, query, accountID, symbol)

	return err
}

func scanPosition(row pgx.Row) (*domain.Position, error) {
	var position domain.Position

	err := row.Scan(
		&position.AccountID,
		&position.Symbol,
		&position.Quantity,
		&position.CostBasis,
		&position.CreatedAt,
		&position.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPositionNotFound
		}

		return nil, err
	}

	return &position, nil
}
