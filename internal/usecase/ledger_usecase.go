package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vheb/stocksim/internal/domain"
)

// LedgerUseCase executes buy and sell orders. It is the sole writer of
// account balances, invested amounts and positions, and the sole producer
// of transaction records. Every trade commits as a single storage
// transaction under a row lock on the account, so trades for one account
// serialize while different accounts proceed in parallel.
type LedgerUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	positionRepo    PositionRepository
	transactionRepo TransactionRepository
	retrier         Retrier
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	positionRepo PositionRepository,
	transactionRepo TransactionRepository,
	retrier Retrier,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		positionRepo:    positionRepo,
		transactionRepo: transactionRepo,
		retrier:         retrier,
	}
}

// TradeInput represents a buy or sell order. UnitPrice is the caller-supplied
// execution price; the engine does not re-validate it against the quote cache.
type TradeInput struct {
	AccountID string
	Symbol    string
	Quantity  int64
	UnitPrice decimal.Decimal
}

func (in *TradeInput) validate() error {
	if err := domain.ValidateSymbol(in.Symbol); err != nil {
		return err
	}

	if err := domain.ValidateQuantity(in.Quantity); err != nil {
		return err
	}

	return domain.ValidatePrice(in.UnitPrice)
}

// TradeResult is the post-trade snapshot of the affected state. Position is
// nil when the trade closed the position.
type TradeResult struct {
	Account     *domain.Account
	Position    *domain.Position
	Transaction *domain.Transaction
}

// Buy executes a buy order atomically.
func (uc *LedgerUseCase) Buy(ctx context.Context, input TradeInput) (*TradeResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var result *TradeResult

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		result, err = uc.executeBuy(ctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Sell executes a sell order atomically.
func (uc *LedgerUseCase) Sell(ctx context.Context, input TradeInput) (*TradeResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var result *TradeResult

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		result, err = uc.executeSell(ctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *LedgerUseCase) executeBuy(ctx context.Context, input TradeInput) (*TradeResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Row lock on the account serializes trades for this account.
	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	totalCost := input.UnitPrice.Mul(decimal.NewFromInt(input.Quantity))

	if err := account.ValidateDebit(totalCost); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	position, err := uc.positionRepo.GetBySymbol(ctx, tx, input.AccountID, input.Symbol)
	switch {
	case err == nil:
		position.Quantity += input.Quantity
		position.CostBasis = position.CostBasis.Add(totalCost)
		position.UpdatedAt = now
	case errors.Is(err, domain.ErrPositionNotFound):
		position = &domain.Position{
			AccountID: input.AccountID,
			Symbol:    input.Symbol,
			Quantity:  input.Quantity,
			CostBasis: totalCost,
			CreatedAt: now,
			UpdatedAt: now,
		}
	default:
		return nil, err
	}

	if err := uc.positionRepo.Upsert(ctx, tx, position); err != nil {
		return nil, err
	}

	account.Balance = account.Balance.Sub(totalCost)
	account.InvestedAmount = account.InvestedAmount.Add(totalCost)
	account.UpdatedAt = now

	err = uc.accountRepo.UpdateBalances(ctx, tx, account.ID, account.Balance, account.InvestedAmount, now)
	if err != nil {
		return nil, err
	}

	transaction := &domain.Transaction{
		AccountID: input.AccountID,
		Symbol:    input.Symbol,
		Type:      domain.TradeBuy,
		Quantity:  input.Quantity,
		Price:     input.UnitPrice,
		CreatedAt: now,
	}

	transaction.ID, err = uc.transactionRepo.Append(ctx, tx, transaction)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &TradeResult{
		Account:     account,
		Position:    position,
		Transaction: transaction,
	}, nil
}

func (uc *LedgerUseCase) executeSell(ctx context.Context, input TradeInput) (*TradeResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	position, err := uc.positionRepo.GetBySymbol(ctx, tx, input.AccountID, input.Symbol)
	if err != nil {
		return nil, err
	}

	if err := position.ValidateSell(input.Quantity); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	proceeds := input.UnitPrice.Mul(decimal.NewFromInt(input.Quantity))

	// The invested amount drops by the original cost of the units sold,
	// not by anything derived from the sale price.
	soldCost := position.CostOfShares(input.Quantity)

	position.Quantity -= input.Quantity
	position.CostBasis = position.CostBasis.Sub(soldCost)
	position.UpdatedAt = now

	if position.Quantity == 0 {
		err = uc.positionRepo.Delete(ctx, tx, input.AccountID, input.Symbol)
		position = nil
	} else {
		err = uc.positionRepo.Upsert(ctx, tx, position)
	}
	if err != nil {
		return nil, err
	}

	account.Balance = account.Balance.Add(proceeds)
	account.InvestedAmount = account.InvestedAmount.Sub(soldCost)
	account.UpdatedAt = now

	err = uc.accountRepo.UpdateBalances(ctx, tx, account.ID, account.Balance, account.InvestedAmount, now)
	if err != nil {
		return nil, err
	}

	transaction := &domain.Transaction{
		AccountID: input.AccountID,
		Symbol:    input.Symbol,
		Type:      domain.TradeSell,
		Quantity:  input.Quantity,
		Price:     input.UnitPrice,
		CreatedAt: now,
	}

	transaction.ID, err = uc.transactionRepo.Append(ctx, tx, transaction)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &TradeResult{
		Account:     account,
		Position:    position,
		Transaction: transaction,
	}, nil
}
