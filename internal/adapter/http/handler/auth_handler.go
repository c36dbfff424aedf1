package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vheb/stocksim/internal/adapter/http/dto"
	"github.com/vheb/stocksim/internal/domain"
	"github.com/vheb/stocksim/internal/infrastructure/auth"
	"github.com/vheb/stocksim/internal/infrastructure/metrics"
	"github.com/vheb/stocksim/internal/usecase"
)

// AuthService defines the behavior needed by AuthHandler.
type AuthService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, *domain.Account, error)
	Login(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, *domain.Account, error)
}

// AuthHandler handles registration and login.
type AuthHandler struct {
	userUC     AuthService
	jwtManager *auth.JWTManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userUC AuthService, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		userUC:     userUC,
		jwtManager: jwtManager,
	}
}

// Register creates a new trader and their funded account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, account, err := h.userUC.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "registration failed", err.Error())
		return
	}

	metrics.UsersRegistered.Inc()
	h.writeAuthResponse(w, http.StatusCreated, user, account)
}

// Login verifies credentials and issues a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, account, err := h.userUC.Login(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "invalid credentials", "")
		return
	}

	h.writeAuthResponse(w, http.StatusOK, user, account)
}

func (h *AuthHandler) writeAuthResponse(w http.ResponseWriter, status int, user *domain.User, account *domain.Account) {
	token, err := h.jwtManager.Generate(user, account.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token", err.Error())
		return
	}

	writeJSON(w, status, dto.AuthResponse{
		Token:   token,
		User:    dto.UserFromDomain(user),
		Account: dto.AccountFromDomain(account),
	})
}
