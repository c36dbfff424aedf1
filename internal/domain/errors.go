package domain

import "errors"

var (
	// Trade validation errors
	ErrInvalidQuantity    = errors.New("quantity must be a positive integer")
	ErrInvalidPrice       = errors.New("price must be positive")
	ErrInvalidSymbol      = errors.New("invalid symbol")
	ErrAccountNotFound    = errors.New("account not found")
	ErrPositionNotFound   = errors.New("no open position for symbol")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")

	// Quote errors
	ErrQuoteUnavailable    = errors.New("no quote available for symbol")
	ErrProviderUnavailable = errors.New("quote provider unavailable")

	// Concurrency
	ErrConflict = errors.New("concurrent modification conflict, retry the request")

	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrOpenPositionsHeld = errors.New("account still holds open positions")
)
