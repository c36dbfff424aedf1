package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vheb/stocksim/internal/domain"
	"github.com/vheb/stocksim/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository. The trade
// log is append-only; rows are never updated or deleted.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Append inserts a trade record and returns its sequence number.
func (r *TransactionRepository) Append(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) (int64, error) {
	query := `
		INSERT INTO transactions (account_id, symbol, type, quantity, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := inTx(r.pool, tx).QueryRow(ctx, query,
		t.AccountID,
		t.Symbol,
		t.Type,
		t.Quantity,
		t.Price,
		t.CreatedAt,
	).Scan(&id)

	return id, err
}

// ListByAccount retrieves an account's trades, most recent first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT id, account_id, symbol, type, quantity, price, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		err := rows.Scan(
			&t.ID,
			&t.AccountID,
			&t.Symbol,
			&t.Type,
			&t.Quantity,
			&t.Price,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, &t)
	}

	return transactions, rows.Err()
}
