package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxTradeQuantity  = 1_000_000
	MaxTradePrice     = "10000000" // 10 million per share
	MinUsernameLength = 3
	MaxUsernameLength = 64
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// Clamp bounds for admin listing endpoints. Transaction history has its own,
// tighter limits in the usecase layer.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Symbols are 1-10 upper-case letters, optionally with a dot-separated class
// suffix (BRK.B).
var symbolRegex = regexp.MustCompile(`^[A-Z]{1,10}(\.[A-Z]{1,4})?$`)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// ValidateSymbol validates a ticker symbol.
func ValidateSymbol(symbol string) error {
	if !symbolRegex.MatchString(symbol) {
		return fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	return nil
}

// ValidateQuantity validates a trade quantity.
func ValidateQuantity(quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > MaxTradeQuantity {
		return fmt.Errorf("%w: maximum is %d", ErrInvalidQuantity, MaxTradeQuantity)
	}
	return nil
}

// ValidatePrice validates a trade unit price.
func ValidatePrice(price decimal.Decimal) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPrice
	}

	maxPrice, _ := decimal.NewFromString(MaxTradePrice)
	if price.GreaterThan(maxPrice) {
		return fmt.Errorf("%w: maximum is %s", ErrInvalidPrice, MaxTradePrice)
	}

	return nil
}

// ValidateUsername validates a username.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)

	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return fmt.Errorf("username must be %d-%d characters", MinUsernameLength, MaxUsernameLength)
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username may only contain letters, digits, '_', '.' and '-'")
	}

	return nil
}

// ValidatePassword validates password strength.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("password must not exceed %d characters", MaxPasswordLength)
	}

	return nil
}

// ValidatePagination clamps listing pagination parameters to the
// DefaultListLimit/MaxListLimit bounds.
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
