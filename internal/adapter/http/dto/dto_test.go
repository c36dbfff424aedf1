package dto_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vheb/stocksim/internal/adapter/http/dto"
	"github.com/vheb/stocksim/internal/domain"
	"github.com/vheb/stocksim/internal/usecase"
)

func TestTradeRequestToUseCaseInput(t *testing.T) {
	req := dto.TradeRequest{
		Symbol:   "AAPL",
		Quantity: 5,
		Price:    decimal.RequireFromString("100.50"),
	}

	input := req.ToUseCaseInput("acc-1")
	require.Equal(t, "acc-1", input.AccountID)
	require.Equal(t, "AAPL", input.Symbol)
	require.Equal(t, int64(5), input.Quantity)
	require.True(t, input.UnitPrice.Equal(decimal.RequireFromString("100.50")))
}

func TestTradeResponseClosedPosition(t *testing.T) {
	result := &usecase.TradeResult{
		Account: &domain.Account{ID: "acc-1", Balance: decimal.NewFromInt(740)},
		Transaction: &domain.Transaction{
			ID: 2, Symbol: "AAPL", Type: domain.TradeSell, Quantity: 3, Price: decimal.NewFromInt(120),
		},
	}

	body, err := json.Marshal(dto.TradeFromResult(result))
	require.NoError(t, err)
	require.Contains(t, string(body), `"position":null`)
}

func TestUserResponseNeverCarriesPasswordHash(t *testing.T) {
	user := &domain.User{
		ID:             "u-1",
		Username:       "alice",
		HashedPassword: "$2a$10$secret",
		Role:           domain.RoleTrader,
		CreatedAt:      time.Now(),
	}

	body, err := json.Marshal(dto.UserFromDomain(user))
	require.NoError(t, err)
	require.False(t, strings.Contains(string(body), "secret"))
	require.False(t, strings.Contains(string(body), "password"))
}

func TestHoldingResponseNullPrice(t *testing.T) {
	holdings := []usecase.Holding{
		{Symbol: "ZZZQ", Quantity: 10, CostBasis: decimal.NewFromInt(50)},
	}

	body, err := json.Marshal(dto.HoldingsFromUseCase(holdings))
	require.NoError(t, err)
	require.Contains(t, string(body), `"current_price":null`)
}

func TestQuoteResponseFormatsDay(t *testing.T) {
	entry := &domain.PriceEntry{
		Symbol:        "AAPL",
		Price:         decimal.NewFromInt(195),
		PreviousPrice: decimal.NewFromInt(192),
		UpdatedOn:     time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	}

	resp := dto.QuoteFromEntry(entry)
	require.Equal(t, "2026-08-31", resp.UpdatedOn)
}

func TestUpdateProfileRequestPartialDecode(t *testing.T) {
	var req dto.UpdateProfileRequest
	require.NoError(t, json.Unmarshal([]byte(`{"first_name":"Alice"}`), &req))

	input := req.ToUseCaseInput("u-1")
	require.NotNil(t, input.FirstName)
	require.Equal(t, "Alice", *input.FirstName)
	require.Nil(t, input.LastName)
	require.Nil(t, input.City)
}
