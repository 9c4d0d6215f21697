package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/signetlabs/signet/internal/domain"
	"github.com/signetlabs/signet/internal/service"
	"github.com/signetlabs/signet/pkg/httpx"
	"github.com/signetlabs/signet/pkg/slogx"
)

// LoginHandler serves POST /v1/auth/login. A successful login answers with
// an access/refresh token pair.
type LoginHandler struct {
	UserService    *service.UserService
	TokenService   *service.TokenService
	RefreshService *service.RefreshService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}

	user, err := h.UserService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Username or password is incorrect")
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to authenticate")
		return
	}

	accessToken, expiresIn, err := h.TokenService.Mint(user.ID, user.Username)
	if err != nil {
		log.Error("failed to mint access token", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to issue tokens")
		return
	}

	refreshToken, err := h.RefreshService.Issue(ctx, user.ID, user.Username)
	if err != nil {
		log.Error("failed to issue refresh token", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to issue tokens")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    expiresIn,
	})
}
