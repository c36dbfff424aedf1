package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vheb/stocksim/internal/domain"
	"github.com/vheb/stocksim/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, user_id, balance, invested_amount, created_at, updated_at`

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, user_id, balance, invested_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := inTx(r.pool, tx).Exec(ctx, query,
		account.ID,
		account.UserID,
		account.Balance,
		account.InvestedAmount,
		account.CreatedAt,
		account.UpdatedAt,
	)

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	return r.scanAccount(r.pool.QueryRow(ctx, query, id))
}

// GetByUserID retrieves the account owned by a user.
func (r *AccountRepository) GetByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1`

	return r.scanAccount(r.pool.QueryRow(ctx, query, userID))
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock. Trades
// against the same account serialize on this lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	return r.scanAccount(inTx(r.pool, tx).QueryRow(ctx, query, id))
}

// UpdateBalances writes the cash balance and invested amount of an account.
func (r *AccountRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, id string, balance, investedAmount decimal.Decimal, updatedAt time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $2, invested_amount = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := inTx(r.pool, tx).Exec(ctx, query, id, balance, investedAmount, updatedAt)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// Delete removes an account.
func (r *AccountRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	_, err := inTx(r.pool, tx).Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)

	return err
}

func (r *AccountRepository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account

	err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.Balance,
		&account.InvestedAmount,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return &account, nil
}
