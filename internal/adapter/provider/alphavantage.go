package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/vheb/stocksim/internal/domain"
)

// AlphaVantageClient implements usecase.QuoteProvider against an Alpha
// Vantage style TIME_SERIES_DAILY endpoint. The client is stateless apart
// from its request rate limiter; free API tiers throttle hard.
type AlphaVantageClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewAlphaVantageClient creates a new AlphaVantageClient.
func NewAlphaVantageClient(baseURL, apiKey string, timeout time.Duration, requestsPerMinute int, logger zerolog.Logger) *AlphaVantageClient {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 5
	}

	return &AlphaVantageClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
		logger:     logger,
	}
}

type dailySeriesResponse struct {
	Series       map[string]dailyBar `json:"Time Series (Daily)"`
	ErrorMessage string              `json:"Error Message"`
	Note         string              `json:"Note"`
}

type dailyBar struct {
	Close string `json:"4. close"`
}

// FetchDailyQuote retrieves the two most recent daily closes for a symbol.
func (c *AlphaVantageClient) FetchDailyQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	query := url.Values{}
	query.Set("function", "TIME_SERIES_DAILY")
	query.Set("symbol", symbol)
	query.Set("outputsize", "compact")
	query.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/query?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %s", domain.ErrProviderUnavailable, resp.Status)
	}

	var body dailySeriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrProviderUnavailable, err)
	}

	if body.Note != "" {
		// The provider answers 200 with a note when throttling.
		c.logger.Warn().Str("symbol", symbol).Msg("provider throttled the request")
		return nil, fmt.Errorf("%w: throttled", domain.ErrProviderUnavailable)
	}

	if body.ErrorMessage != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrQuoteUnavailable, body.ErrorMessage)
	}

	return quoteFromSeries(body.Series)
}

// quoteFromSeries picks the two most recent closes out of the daily series.
// Dates are ISO formatted so lexical order is chronological order.
func quoteFromSeries(series map[string]dailyBar) (*domain.Quote, error) {
	if len(series) < 2 {
		return nil, fmt.Errorf("%w: series too short", domain.ErrQuoteUnavailable)
	}

	dates := make([]string, 0, len(series))
	for date := range series {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	latest, err := decimal.NewFromString(series[dates[0]].Close)
	if err != nil {
		return nil, fmt.Errorf("%w: bad close %q", domain.ErrQuoteUnavailable, series[dates[0]].Close)
	}

	previous, err := decimal.NewFromString(series[dates[1]].Close)
	if err != nil {
		return nil, fmt.Errorf("%w: bad close %q", domain.ErrQuoteUnavailable, series[dates[1]].Close)
	}

	return &domain.Quote{Latest: latest, Previous: previous}, nil
}
