package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/pocketworld/internal/api/apierr"
	"github.com/mcoot/pocketworld/internal/api/middleware"
	"github.com/mcoot/pocketworld/internal/api/request"
	"github.com/mcoot/pocketworld/internal/api/response"
	"github.com/mcoot/pocketworld/internal/services/account"
)

// AuthHandler handles account and authentication endpoints
type AuthHandler struct {
	accounts *account.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accounts *account.Service) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("password is required"))
		return
	}

	acct, token, err := h.accounts.Register(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponse{
		Account: response.AccountFromModel(acct),
		Token:   token,
	})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("password is required"))
		return
	}

	acct, token, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponse{
		Account: response.AccountFromModel(acct),
		Token:   token,
	})
}

// Logout handles POST /api/v1/auth/logout. Tokens are stateless, so logout
// is the client discarding its token; the endpoint exists so clients have a
// uniform call to make.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	response.NoContent(w)
}

// GetMe handles GET /api/v1/auth/me
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	acct, err := h.accounts.GetAccount(r.Context(), identity.PlayerID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AccountFromModel(acct))
}
