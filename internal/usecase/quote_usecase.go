package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/vheb/stocksim/internal/domain"
)

// QuoteUseCase serves prices out of the daily cache, refreshing from the
// provider at most once per calendar day per symbol. Concurrent refreshes
// for the same symbol collapse into a single provider call; late callers
// wait for the in-flight result.
type QuoteUseCase struct {
	priceRepo PriceCacheRepository
	provider  QuoteProvider
	tracked   []string
	group     singleflight.Group
	logger    zerolog.Logger
	now       func() time.Time
}

// NewQuoteUseCase creates a new QuoteUseCase. tracked is the configured
// symbol universe refreshed by the daily job and on cache misses.
func NewQuoteUseCase(priceRepo PriceCacheRepository, provider QuoteProvider, tracked []string, logger zerolog.Logger) *QuoteUseCase {
	return &QuoteUseCase{
		priceRepo: priceRepo,
		provider:  provider,
		tracked:   tracked,
		logger:    logger,
		now:       time.Now,
	}
}

// GetPrice returns the price entry for one symbol, refreshing it first if it
// is not from today. A failed refresh falls back to the prior entry; with no
// prior entry the symbol is reported as unavailable.
func (uc *QuoteUseCase) GetPrice(ctx context.Context, symbol string) (*domain.PriceEntry, error) {
	if err := domain.ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	entry, err := uc.priceRepo.Get(ctx, symbol)
	if err == nil && entry.FreshOn(uc.now()) {
		return entry, nil
	}
	if err != nil && !errors.Is(err, domain.ErrQuoteUnavailable) {
		return nil, err
	}

	uc.Refresh(ctx, uc.refreshSet(symbol))

	refreshed, err := uc.priceRepo.Get(ctx, symbol)
	if err == nil {
		// May still be yesterday's entry if the provider failed; a stale
		// price beats no price.
		return refreshed, nil
	}
	if !errors.Is(err, domain.ErrQuoteUnavailable) {
		return nil, err
	}

	return nil, domain.ErrQuoteUnavailable
}

// GetQuotes returns cached entries for the requested symbols, refreshing any
// that are stale or missing. Symbols with no entry at all are omitted from
// the result.
func (uc *QuoteUseCase) GetQuotes(ctx context.Context, symbols []string) (map[string]*domain.PriceEntry, error) {
	for _, s := range symbols {
		if err := domain.ValidateSymbol(s); err != nil {
			return nil, err
		}
	}

	entries, err := uc.priceRepo.GetMany(ctx, symbols)
	if err != nil {
		return nil, err
	}

	today := uc.now()

	var stale []string
	for _, s := range symbols {
		if entry, ok := entries[s]; !ok || !entry.FreshOn(today) {
			stale = append(stale, s)
		}
	}

	if len(stale) == 0 {
		return entries, nil
	}

	uc.Refresh(ctx, uc.refreshSet(stale...))

	return uc.priceRepo.GetMany(ctx, symbols)
}

// Refresh fetches each symbol from the provider and upserts the cache entry
// stamped with today's date. Symbols already refreshed today are skipped, so
// the provider sees at most one fetch per symbol per day. Symbols fail
// independently: a provider error for one leaves its prior entry untouched
// and does not block the rest.
func (uc *QuoteUseCase) Refresh(ctx context.Context, symbols []string) {
	for _, symbol := range symbols {
		if err := uc.refreshOne(ctx, symbol); err != nil {
			uc.logger.Warn().Err(err).Str("symbol", symbol).Msg("quote refresh failed")
		}
	}
}

// RefreshAll refreshes the tracked universe plus every symbol already in the
// cache. Used by the daily job.
func (uc *QuoteUseCase) RefreshAll(ctx context.Context) error {
	known, err := uc.priceRepo.ListSymbols(ctx)
	if err != nil {
		return err
	}

	uc.Refresh(ctx, uc.refreshSet(known...))

	return nil
}

// ListSymbols returns every symbol currently in the cache.
func (uc *QuoteUseCase) ListSymbols(ctx context.Context) ([]string, error) {
	return uc.priceRepo.ListSymbols(ctx)
}

func (uc *QuoteUseCase) refreshOne(ctx context.Context, symbol string) error {
	// Dedup concurrent refreshes per symbol; every waiter observes the
	// result of the single in-flight call.
	_, err, _ := uc.group.Do(symbol, func() (any, error) {
		// One provider fetch per symbol per calendar day.
		if entry, err := uc.priceRepo.Get(ctx, symbol); err == nil && entry.FreshOn(uc.now()) {
			return entry, nil
		}

		quote, err := uc.provider.FetchDailyQuote(ctx, symbol)
		if err != nil {
			return nil, err
		}

		entry := &domain.PriceEntry{
			Symbol:        symbol,
			Price:         quote.Latest,
			PreviousPrice: quote.Previous,
			UpdatedOn:     domain.Day(uc.now()),
		}

		if err := uc.priceRepo.Upsert(ctx, entry); err != nil {
			return nil, err
		}

		return entry, nil
	})

	return err
}

// refreshSet merges the tracked universe with explicitly requested symbols,
// deduplicated, so a cache miss refreshes everything due today in one pass.
func (uc *QuoteUseCase) refreshSet(symbols ...string) []string {
	seen := make(map[string]bool, len(uc.tracked)+len(symbols))

	var out []string
	for _, s := range uc.tracked {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	for _, s := range symbols {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	return out
}
