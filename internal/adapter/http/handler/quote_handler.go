package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vheb/stocksim/internal/adapter/http/dto"
	"github.com/vheb/stocksim/internal/domain"
)

// QuoteService defines the behavior needed by QuoteHandler.
type QuoteService interface {
	GetPrice(ctx context.Context, symbol string) (*domain.PriceEntry, error)
	GetQuotes(ctx context.Context, symbols []string) (map[string]*domain.PriceEntry, error)
}

// QuoteHandler serves cached daily prices.
type QuoteHandler struct {
	quoteUC QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quoteUC QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteUC: quoteUC}
}

// List returns quotes for the comma-separated symbols query parameter.
// Symbols with no available quote are omitted.
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("symbols")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing symbols parameter", "")
		return
	}

	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, strings.ToUpper(s))
		}
	}

	entries, err := h.quoteUC.GetQuotes(r.Context(), symbols)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get quotes", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.QuotesFromEntries(entries))
}

// Get returns the quote for one symbol.
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	entry, err := h.quoteUC.GetPrice(r.Context(), symbol)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get quote", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.QuoteFromEntry(entry))
}
