package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a symbol's two most recent daily closes from the external
// provider.
type Quote struct {
	Latest   decimal.Decimal
	Previous decimal.Decimal
}

// PriceEntry is one row of the price cache: the latest known quote for a
// symbol and the calendar day it was fetched on. One entry per symbol.
type PriceEntry struct {
	Symbol        string
	Price         decimal.Decimal
	PreviousPrice decimal.Decimal
	UpdatedOn     time.Time
}

// FreshOn reports whether the entry was refreshed on the given calendar day.
func (e *PriceEntry) FreshOn(day time.Time) bool {
	return Day(e.UpdatedOn).Equal(Day(day))
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
