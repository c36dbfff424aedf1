package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeType is the side of an executed trade.
type TradeType string

const (
	TradeBuy  TradeType = "BUY"
	TradeSell TradeType = "SELL"
)

// IsValid checks the trade type.
func (t TradeType) IsValid() bool {
	return t == TradeBuy || t == TradeSell
}

// Transaction is an immutable record of one executed trade. IDs are assigned
// by the store and increase monotonically.
type Transaction struct {
	ID        int64
	AccountID string
	Symbol    string
	Type      TradeType
	Quantity  int64
	Price     decimal.Decimal
	CreatedAt time.Time
}
