package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/vheb/stocksim/internal/adapter/http/dto"
	"github.com/vheb/stocksim/internal/infrastructure/metrics"
	"github.com/vheb/stocksim/internal/usecase"
)

// TradeService defines the behavior needed by TradeHandler.
type TradeService interface {
	Buy(ctx context.Context, input usecase.TradeInput) (*usecase.TradeResult, error)
	Sell(ctx context.Context, input usecase.TradeInput) (*usecase.TradeResult, error)
}

// TradeHandler handles buy and sell orders for the authenticated account.
type TradeHandler struct {
	ledgerUC TradeService
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(ledgerUC TradeService) *TradeHandler {
	return &TradeHandler{ledgerUC: ledgerUC}
}

// Buy executes a buy order.
func (h *TradeHandler) Buy(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, "buy", h.ledgerUC.Buy)
}

// Sell executes a sell order.
func (h *TradeHandler) Sell(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, "sell", h.ledgerUC.Sell)
}

func (h *TradeHandler) trade(w http.ResponseWriter, r *http.Request, side string, execute func(context.Context, usecase.TradeInput) (*usecase.TradeResult, error)) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	var req dto.TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := execute(r.Context(), req.ToUseCaseInput(claims.AccountID))
	if err != nil {
		metrics.TradesTotal.WithLabelValues(side, "rejected").Inc()
		writeError(w, mapDomainError(err), "trade failed", err.Error())
		return
	}

	metrics.TradesTotal.WithLabelValues(side, "executed").Inc()

	volume, _ := result.Transaction.Price.Mul(decimal.NewFromInt(result.Transaction.Quantity)).Float64()
	metrics.TradeVolume.WithLabelValues(side).Observe(volume)

	writeJSON(w, http.StatusCreated, dto.TradeFromResult(result))
}
