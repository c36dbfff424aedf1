package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTradeCountersAccumulate(t *testing.T) {
	TradesTotal.Reset()

	TradesTotal.WithLabelValues("buy", "executed").Inc()
	TradesTotal.WithLabelValues("buy", "executed").Inc()
	TradesTotal.WithLabelValues("sell", "rejected").Inc()

	if got := testutil.ToFloat64(TradesTotal.WithLabelValues("buy", "executed")); got != 2 {
		t.Fatalf("expected 2 executed buys, got %v", got)
	}

	if got := testutil.ToFloat64(TradesTotal.WithLabelValues("sell", "rejected")); got != 1 {
		t.Fatalf("expected 1 rejected sell, got %v", got)
	}
}

func TestQuoteRefreshCounter(t *testing.T) {
	QuoteRefreshes.Reset()

	QuoteRefreshes.WithLabelValues("ok").Inc()
	QuoteRefreshes.WithLabelValues("failed").Inc()

	if got := testutil.ToFloat64(QuoteRefreshes.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected 1 successful refresh, got %v", got)
	}
}
