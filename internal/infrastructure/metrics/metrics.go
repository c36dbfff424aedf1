package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Trade metrics.
var (
	TradesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocksim_trades_total",
			Help: "Total number of trade orders by side and outcome",
		},
		[]string{"side", "outcome"},
	)

	TradeVolume = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stocksim_trade_volume",
			Help:    "Trade volume in currency units",
			Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000},
		},
		[]string{"side"},
	)
)

// Quote cache metrics.
var (
	QuoteRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocksim_quote_refreshes_total",
			Help: "Total number of quote refresh attempts by outcome",
		},
		[]string{"outcome"},
	)

	TrackedSymbols = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stocksim_tracked_symbols",
		Help: "Number of symbols in the configured tracked universe",
	})
)

// User metrics.
var (
	UsersRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stocksim_users_registered_total",
		Help: "Total number of registered users",
	})
)
