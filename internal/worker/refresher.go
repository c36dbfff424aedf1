package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vheb/stocksim/internal/infrastructure/metrics"
)

// QuoteRefresher is the use case surface the worker drives.
type QuoteRefresher interface {
	RefreshAll(ctx context.Context) error
	ListSymbols(ctx context.Context) ([]string, error)
}

// Refresher periodically refreshes the price cache so the first request of
// the day does not pay for a full provider round trip. Each tick is cheap
// when the cache is already fresh: symbols refreshed today are skipped at
// the use case level.
type Refresher struct {
	quotes   QuoteRefresher
	interval time.Duration
	logger   zerolog.Logger
}

// NewRefresher creates a new Refresher.
func NewRefresher(quotes QuoteRefresher, interval time.Duration, logger zerolog.Logger) *Refresher {
	return &Refresher{
		quotes:   quotes,
		interval: interval,
		logger:   logger,
	}
}

// Run refreshes immediately and then on every interval until the context is
// canceled.
func (r *Refresher) Run(ctx context.Context) {
	r.logger.Info().Dur("interval", r.interval).Msg("quote refresher started")

	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("quote refresher stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	start := time.Now()

	if err := r.quotes.RefreshAll(ctx); err != nil {
		metrics.QuoteRefreshes.WithLabelValues("failed").Inc()
		r.logger.Error().Err(err).Msg("quote refresh cycle failed")
		return
	}

	metrics.QuoteRefreshes.WithLabelValues("ok").Inc()

	if symbols, err := r.quotes.ListSymbols(ctx); err == nil {
		metrics.TrackedSymbols.Set(float64(len(symbols)))
	}

	r.logger.Info().Dur("took", time.Since(start)).Msg("quote refresh cycle complete")
}
