package dto

import (
	"github.com/shopspring/decimal"

	"github.com/vheb/stocksim/internal/usecase"
)

// RegisterRequest represents a request to register a new trader.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Username: r.Username,
		Password: r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *LoginRequest) ToUseCaseInput() usecase.AuthenticateInput {
	return usecase.AuthenticateInput{
		Username: r.Username,
		Password: r.Password,
	}
}

// TradeRequest represents a buy or sell order. Price is the execution price
// the client saw when placing the order.
type TradeRequest struct {
	Symbol   string          `json:"symbol"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// ToUseCaseInput converts to use case input for the given account.
func (r *TradeRequest) ToUseCaseInput(accountID string) usecase.TradeInput {
	return usecase.TradeInput{
		AccountID: accountID,
		Symbol:    r.Symbol,
		Quantity:  r.Quantity,
		UnitPrice: r.Price,
	}
}

// UpdateProfileRequest represents a profile update. Absent fields are left
// unchanged.
type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
}

// ToUseCaseInput converts to use case input for the given user.
func (r *UpdateProfileRequest) ToUseCaseInput(userID string) usecase.UpdateProfileInput {
	return usecase.UpdateProfileInput{
		ID:          userID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		City:        r.City,
		State:       r.State,
	}
}

// ChangePasswordRequest represents a password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ToUseCaseInput converts to use case input for the given user.
func (r *ChangePasswordRequest) ToUseCaseInput(userID string) usecase.ChangePasswordInput {
	return usecase.ChangePasswordInput{
		ID:          userID,
		OldPassword: r.OldPassword,
		NewPassword: r.NewPassword,
	}
}
