package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vheb/stocksim/internal/domain"
	"github.com/vheb/stocksim/internal/infrastructure/auth"
	"github.com/vheb/stocksim/internal/usecase"
)

type stubAuthService struct {
	RegisterFunc func(ctx context.Context, input usecase.RegisterInput) (*domain.User, *domain.Account, error)
	LoginFunc    func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, *domain.Account, error)
}

func (s *stubAuthService) Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, *domain.Account, error) {
	return s.RegisterFunc(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, *domain.Account, error) {
	return s.LoginFunc(ctx, input)
}

func testUserAndAccount() (*domain.User, *domain.Account) {
	now := time.Now().UTC()
	user := &domain.User{
		ID:        "user-1",
		Username:  "alice",
		Role:      domain.RoleTrader,
		CreatedAt: now,
	}
	account := &domain.Account{
		ID:             "acc-1",
		UserID:         "user-1",
		Balance:        decimal.NewFromInt(10000),
		InvestedAmount: decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return user, account
}

func newAuthHandler(svc *stubAuthService) *AuthHandler {
	return NewAuthHandler(svc, auth.NewJWTManager("test-secret", time.Hour))
}

func TestAuthHandlerRegisterIssuesToken(t *testing.T) {
	svc := &stubAuthService{
		RegisterFunc: func(ctx context.Context, input usecase.RegisterInput) (*domain.User, *domain.Account, error) {
			require.Equal(t, "alice", input.Username)
			user, account := testUserAndAccount()
			return user, account, nil
		},
	}
	h := newAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"username":"alice","password":"hunter2hunter2"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token   string `json:"token"`
		User    struct{ Username string }
		Account struct {
			Balance decimal.Decimal `json:"balance"`
		} `json:"account"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.True(t, resp.Account.Balance.Equal(decimal.NewFromInt(10000)))

	manager := auth.NewJWTManager("test-secret", time.Hour)
	claims, err := manager.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, "acc-1", claims.AccountID)
	require.Equal(t, "user-1", claims.UserID)
}

func TestAuthHandlerRegisterDuplicateUsername(t *testing.T) {
	svc := &stubAuthService{
		RegisterFunc: func(ctx context.Context, input usecase.RegisterInput) (*domain.User, *domain.Account, error) {
			return nil, nil, domain.ErrUsernameTaken
		},
	}
	h := newAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"username":"alice","password":"hunter2hunter2"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthHandlerLoginBadCredentials(t *testing.T) {
	svc := &stubAuthService{
		LoginFunc: func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, *domain.Account, error) {
			return nil, nil, domain.ErrUnauthorized
		},
	}
	h := newAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"username":"alice","password":"wrong"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotContains(t, rec.Body.String(), "wrong")
}

func TestAuthHandlerLoginSuccess(t *testing.T) {
	svc := &stubAuthService{
		LoginFunc: func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, *domain.Account, error) {
			user, account := testUserAndAccount()
			return user, account, nil
		},
	}
	h := newAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"username":"alice","password":"hunter2hunter2"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
}

func TestAuthHandlerRejectsMalformedBody(t *testing.T) {
	h := newAuthHandler(&stubAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
