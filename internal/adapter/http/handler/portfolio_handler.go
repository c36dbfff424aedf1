package handler

import (
	"context"
	"net/http"

	"github.com/vheb/stocksim/internal/adapter/http/dto"
	"github.com/vheb/stocksim/internal/domain"
	"github.com/vheb/stocksim/internal/usecase"
)

// PortfolioService defines the behavior needed by PortfolioHandler.
type PortfolioService interface {
	GetPortfolio(ctx context.Context, accountID string) ([]usecase.Holding, error)
	GetFinances(ctx context.Context, accountID string) (*usecase.Finances, error)
	GetHistory(ctx context.Context, input usecase.HistoryInput) ([]*domain.Transaction, error)
}

// PortfolioHandler serves the authenticated account's portfolio views.
type PortfolioHandler struct {
	portfolioUC PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioUC PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioUC: portfolioUC}
}

// Get lists open positions with current prices.
func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	holdings, err := h.portfolioUC.GetPortfolio(r.Context(), claims.AccountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get portfolio", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.HoldingsFromUseCase(holdings))
}

// Finances returns the account's cash balance and invested amount.
func (h *PortfolioHandler) Finances(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	finances, err := h.portfolioUC.GetFinances(r.Context(), claims.AccountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get finances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.FinancesResponse{
		Balance:        finances.Balance,
		InvestedAmount: finances.InvestedAmount,
	})
}

// Transactions lists the account's trade history, most recent first.
func (h *PortfolioHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	transactions, err := h.portfolioUC.GetHistory(r.Context(), usecase.HistoryInput{
		AccountID: claims.AccountID,
		Limit:     parseIntQuery(r, "limit", 0),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(transactions))
}
