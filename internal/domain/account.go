package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds a user's cash balance and invested amount. Positions are
// stored separately, keyed by (account id, symbol).
type Account struct {
	ID             string
	UserID         string
	Balance        decimal.Decimal
	InvestedAmount decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidateDebit checks whether the account can pay amount without going
// negative.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// Position is an account's open holding in one symbol. CostBasis is the
// aggregate cost paid for the units currently held, not a per-unit price.
// A position with zero quantity does not exist.
type Position struct {
	AccountID string
	Symbol    string
	Quantity  int64
	CostBasis decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateSell checks whether quantity shares can be sold from the position.
func (p *Position) ValidateSell(quantity int64) error {
	if quantity > p.Quantity {
		return ErrInsufficientShares
	}
	return nil
}

// CostOfShares returns the cost basis attributable to quantity shares,
// proportional to the share of the position being sold. Selling the whole
// position returns the full cost basis so no rounding residue is left behind.
func (p *Position) CostOfShares(quantity int64) decimal.Decimal {
	if quantity >= p.Quantity {
		return p.CostBasis
	}

	return p.CostBasis.
		Mul(decimal.NewFromInt(quantity)).
		DivRound(decimal.NewFromInt(p.Quantity), 8)
}
