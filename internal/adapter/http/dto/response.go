package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vheb/stocksim/internal/domain"
	"github.com/vheb/stocksim/internal/usecase"
)

// UserResponse represents a user in API responses. The password hash never
// leaves the server.
type UserResponse struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	FirstName   string      `json:"first_name,omitempty"`
	LastName    string      `json:"last_name,omitempty"`
	Email       string      `json:"email,omitempty"`
	PhoneNumber string      `json:"phone_number,omitempty"`
	City        string      `json:"city,omitempty"`
	State       string      `json:"state,omitempty"`
	Role        domain.Role `json:"role"`
	CreatedAt   time.Time   `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		City:        u.City,
		State:       u.State,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
	}
}

// UsersFromDomain converts domain users to responses.
func UsersFromDomain(users []*domain.User) []*UserResponse {
	result := make([]*UserResponse, len(users))
	for i, u := range users {
		result[i] = UserFromDomain(u)
	}
	return result
}

// AccountResponse represents a trading account in API responses.
type AccountResponse struct {
	ID             string          `json:"id"`
	Balance        decimal.Decimal `json:"balance"`
	InvestedAmount decimal.Decimal `json:"invested_amount"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Balance:        a.Balance,
		InvestedAmount: a.InvestedAmount,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AuthResponse represents a successful registration or login.
type AuthResponse struct {
	Token   string           `json:"token"`
	User    *UserResponse    `json:"user"`
	Account *AccountResponse `json:"account"`
}

// PositionResponse represents an open position in API responses.
type PositionResponse struct {
	Symbol    string          `json:"symbol"`
	Quantity  int64           `json:"quantity"`
	CostBasis decimal.Decimal `json:"cost_basis"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PositionFromDomain converts a domain position to a response.
func PositionFromDomain(p *domain.Position) *PositionResponse {
	return &PositionResponse{
		Symbol:    p.Symbol,
		Quantity:  p.Quantity,
		CostBasis: p.CostBasis,
		UpdatedAt: p.UpdatedAt,
	}
}

// TransactionResponse represents a trade record in API responses.
type TransactionResponse struct {
	ID        int64           `json:"id"`
	Symbol    string          `json:"symbol"`
	Type      string          `json:"type"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:        t.ID,
		Symbol:    t.Symbol,
		Type:      string(t.Type),
		Quantity:  t.Quantity,
		Price:     t.Price,
		CreatedAt: t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// TradeResponse represents the outcome of a buy or sell. Position is null
// when the trade closed the position.
type TradeResponse struct {
	Account     *AccountResponse     `json:"account"`
	Position    *PositionResponse    `json:"position"`
	Transaction *TransactionResponse `json:"transaction"`
}

// TradeFromResult converts a trade result to a response.
func TradeFromResult(r *usecase.TradeResult) *TradeResponse {
	resp := &TradeResponse{
		Account:     AccountFromDomain(r.Account),
		Transaction: TransactionFromDomain(r.Transaction),
	}

	if r.Position != nil {
		resp.Position = PositionFromDomain(r.Position)
	}

	return resp
}

// HoldingResponse represents one portfolio line. CurrentPrice is null when
// the price cache has no entry for the symbol.
type HoldingResponse struct {
	Symbol       string           `json:"symbol"`
	Quantity     int64            `json:"quantity"`
	CostBasis    decimal.Decimal  `json:"cost_basis"`
	CurrentPrice *decimal.Decimal `json:"current_price"`
}

// HoldingsFromUseCase converts holdings to responses.
func HoldingsFromUseCase(holdings []usecase.Holding) []*HoldingResponse {
	result := make([]*HoldingResponse, len(holdings))
	for i, h := range holdings {
		result[i] = &HoldingResponse{
			Symbol:       h.Symbol,
			Quantity:     h.Quantity,
			CostBasis:    h.CostBasis,
			CurrentPrice: h.CurrentPrice,
		}
	}
	return result
}

// FinancesResponse represents the cash view of an account.
type FinancesResponse struct {
	Balance        decimal.Decimal `json:"balance"`
	InvestedAmount decimal.Decimal `json:"invested_amount"`
}

// QuoteResponse represents a cached price in API responses.
type QuoteResponse struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	PreviousPrice decimal.Decimal `json:"previous_price"`
	UpdatedOn     string          `json:"updated_on"`
}

// QuoteFromEntry converts a cache entry to a response.
func QuoteFromEntry(e *domain.PriceEntry) *QuoteResponse {
	return &QuoteResponse{
		Symbol:        e.Symbol,
		Price:         e.Price,
		PreviousPrice: e.PreviousPrice,
		UpdatedOn:     e.UpdatedOn.Format("2006-01-02"),
	}
}

// QuotesFromEntries converts cache entries to responses keyed by symbol.
func QuotesFromEntries(entries map[string]*domain.PriceEntry) map[string]*QuoteResponse {
	result := make(map[string]*QuoteResponse, len(entries))
	for symbol, entry := range entries {
		result[symbol] = QuoteFromEntry(entry)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
