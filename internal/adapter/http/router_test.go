package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vheb/stocksim/internal/adapter/http/handler"
	apimiddleware "github.com/vheb/stocksim/internal/adapter/http/middleware"
	"github.com/vheb/stocksim/internal/infrastructure/auth"
	"github.com/vheb/stocksim/internal/usecase"
	"github.com/vheb/stocksim/internal/usecase/mocks"
)

type routerFixture struct {
	router   http.Handler
	provider *mocks.MockQuoteProvider
}

func newRouterFixture(opts ...func(*RouterConfig)) *routerFixture {
	accountRepo := mocks.NewMockAccountRepository()
	positionRepo := mocks.NewMockPositionRepository()
	transactionRepo := mocks.NewMockTransactionRepository()
	priceRepo := mocks.NewMockPriceCacheRepository()
	provider := mocks.NewMockQuoteProvider()
	userRepo := mocks.NewMockUserRepository()
	txManager := mocks.NewMockTransactionManager()

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, positionRepo, transactionRepo, mocks.NewMockRetrier())
	quoteUC := usecase.NewQuoteUseCase(priceRepo, provider, nil, zerolog.Nop())
	portfolioUC := usecase.NewPortfolioUseCase(accountRepo, positionRepo, transactionRepo, quoteUC)
	userUC := usecase.NewUserUseCase(txManager, userRepo, accountRepo, positionRepo, mocks.NewMockIDGenerator(), decimal.NewFromInt(10000))

	cfg := RouterConfig{
		AuthHandler:      handler.NewAuthHandler(userUC, jwtManager),
		TradeHandler:     handler.NewTradeHandler(ledgerUC),
		PortfolioHandler: handler.NewPortfolioHandler(portfolioUC),
		QuoteHandler:     handler.NewQuoteHandler(quoteUC),
		UserHandler:      handler.NewUserHandler(userUC),
		HealthHandler:    &handler.HealthHandler{},
		JWTManager:       jwtManager,
		Logger:           zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &routerFixture{
		router:   NewRouter(cfg),
		provider: provider,
	}
}

func (f *routerFixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func (f *routerFixture) registerTrader(t *testing.T, username string) string {
	t.Helper()

	rec := f.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	return resp.Token
}

func TestRouterHealthEndpoint(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterRejectsUnauthenticatedRequests(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodGet, "/api/v1/portfolio", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterTradeFlow(t *testing.T) {
	f := newRouterFixture()

	token := f.registerTrader(t, "alice")

	rec := f.do(http.MethodPost, "/api/v1/trades/buy", token, map[string]any{
		"symbol": "AAPL", "quantity": 5, "price": "100",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var trade struct {
		Account struct {
			Balance        decimal.Decimal `json:"balance"`
			InvestedAmount decimal.Decimal `json:"invested_amount"`
		} `json:"account"`
		Position struct {
			Quantity  int64           `json:"quantity"`
			CostBasis decimal.Decimal `json:"cost_basis"`
		} `json:"position"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trade))
	require.True(t, trade.Account.Balance.Equal(decimal.NewFromInt(9500)))
	require.True(t, trade.Account.InvestedAmount.Equal(decimal.NewFromInt(500)))
	require.Equal(t, int64(5), trade.Position.Quantity)

	rec = f.do(http.MethodGet, "/api/v1/portfolio", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var holdings []struct {
		Symbol   string `json:"symbol"`
		Quantity int64  `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &holdings))
	require.Len(t, holdings, 1)
	require.Equal(t, "AAPL", holdings[0].Symbol)

	// Selling more than held must not change anything.
	rec = f.do(http.MethodPost, "/api/v1/trades/sell", token, map[string]any{
		"symbol": "AAPL", "quantity": 50, "price": "100",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/portfolio/finances", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var finances struct {
		Balance decimal.Decimal `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &finances))
	require.True(t, finances.Balance.Equal(decimal.NewFromInt(9500)))
}

func TestRouterTraderCannotManageUsers(t *testing.T) {
	f := newRouterFixture()

	token := f.registerTrader(t, "alice")

	rec := f.do(http.MethodGet, "/api/v1/users/", token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouterRateLimiterBlocksExcessRequests(t *testing.T) {
	f := newRouterFixture(func(cfg *RouterConfig) {
		cfg.RateLimiter = apimiddleware.NewRateLimiter(1, 1)
	})

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	f.router.ServeHTTP(rec1, req1)
	require.Equal(t, http.StatusOK, rec1.Code)

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	f.router.ServeHTTP(rec2, req2)
	require.Equal(t, http.StatusTooManyRequests, rec2.Code)
}

func TestRouterIdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	f := newRouterFixture(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	})

	token := f.registerTrader(t, "alice")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trades/buy", bytes.NewBufferString(`{"symbol":"AAPL","quantity":1,"price":"10"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	require.True(t, store.checkCalled, "expected idempotency store to be used")
}

func TestRouterRegistersKeyRoutes(t *testing.T) {
	f := newRouterFixture()

	chiRoutes, ok := f.router.(chi.Router)
	require.True(t, ok, "router does not implement chi.Router")

	seen := map[string]bool{}
	err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	})
	require.NoError(t, err)

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"GET /api/v1/portfolio/",
		"GET /api/v1/portfolio/finances",
		"GET /api/v1/portfolio/transactions",
		"POST /api/v1/trades/buy",
		"POST /api/v1/trades/sell",
		"GET /api/v1/quotes/",
		"GET /api/v1/quotes/{symbol}",
		"GET /api/v1/users/me",
		"PUT /api/v1/users/me/password",
		"DELETE /api/v1/users/{id}",
	}

	for _, route := range expected {
		require.True(t, seen[route], "expected route %s to be registered", route)
	}
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
