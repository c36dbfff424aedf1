package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vheb/stocksim/internal/domain"
)

// PortfolioUseCase serves read-only views over an account: holdings with
// current prices, cash figures and trade history.
type PortfolioUseCase struct {
	accountRepo     AccountRepository
	positionRepo    PositionRepository
	transactionRepo TransactionRepository
	prices          PriceSource
}

// NewPortfolioUseCase creates a new PortfolioUseCase.
func NewPortfolioUseCase(
	accountRepo AccountRepository,
	positionRepo PositionRepository,
	transactionRepo TransactionRepository,
	prices PriceSource,
) *PortfolioUseCase {
	return &PortfolioUseCase{
		accountRepo:     accountRepo,
		positionRepo:    positionRepo,
		transactionRepo: transactionRepo,
		prices:          prices,
	}
}

// Holding is one portfolio line: an open position joined with the cached
// current price. CurrentPrice is nil when no cache entry exists.
type Holding struct {
	Symbol       string
	Quantity     int64
	CostBasis    decimal.Decimal
	CurrentPrice *decimal.Decimal
}

// GetPortfolio lists the account's open positions with current prices.
func (uc *PortfolioUseCase) GetPortfolio(ctx context.Context, accountID string) ([]Holding, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	positions, err := uc.positionRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(positions))
	for _, p := range positions {
		symbols = append(symbols, p.Symbol)
	}

	var entries map[string]*domain.PriceEntry
	if len(symbols) > 0 {
		// Prices are best effort: a provider outage must not break the
		// portfolio view.
		entries, _ = uc.prices.GetQuotes(ctx, symbols)
	}

	holdings := make([]Holding, 0, len(positions))
	for _, p := range positions {
		h := Holding{
			Symbol:    p.Symbol,
			Quantity:  p.Quantity,
			CostBasis: p.CostBasis,
		}

		if entry, ok := entries[p.Symbol]; ok {
			price := entry.Price
			h.CurrentPrice = &price
		}

		holdings = append(holdings, h)
	}

	return holdings, nil
}

// Finances is the cash view of an account.
type Finances struct {
	Balance        decimal.Decimal
	InvestedAmount decimal.Decimal
}

// GetFinances returns the account's balance and invested amount.
func (uc *PortfolioUseCase) GetFinances(ctx context.Context, accountID string) (*Finances, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &Finances{
		Balance:        account.Balance,
		InvestedAmount: account.InvestedAmount,
	}, nil
}

// HistoryInput represents input for listing transaction history.
type HistoryInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// GetHistory lists the account's transactions, most recent first.
func (uc *PortfolioUseCase) GetHistory(ctx context.Context, input HistoryInput) ([]*domain.Transaction, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultHistoryLimit
	}

	if input.Limit > MaxHistoryLimit {
		input.Limit = MaxHistoryLimit
	}

	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	return uc.transactionRepo.ListByAccount(ctx, input.AccountID, input.Limit, input.Offset)
}
