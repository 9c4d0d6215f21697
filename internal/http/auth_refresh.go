package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/signetlabs/signet/internal/domain"
	"github.com/signetlabs/signet/internal/service"
	"github.com/signetlabs/signet/pkg/httpx"
	"github.com/signetlabs/signet/pkg/jwt"
	"github.com/signetlabs/signet/pkg/slogx"
)

// RefreshHandler serves POST /v1/auth/refresh. The client presents its
// (typically expired) access token together with the refresh token; the
// access token is decoded without verification purely to learn which user
// the rotation is expected to serve. The refresh token's own signature and
// persisted record carry the actual authentication.
type RefreshHandler struct {
	TokenService   *service.TokenService
	RefreshService *service.RefreshService
}

type refreshRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.AccessToken == "" || req.RefreshToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "access_token and refresh_token are required")
		return
	}

	expectedUserID := ""
	if decoded := jwt.Decode(req.AccessToken); decoded != nil {
		expectedUserID, _ = decoded.Claims.Extra["userId"].(string)
	}
	if expectedUserID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_refresh_token", "The refresh request could not be validated")
		return
	}

	refreshToken, identity, err := h.RefreshService.Rotate(ctx, req.RefreshToken, expectedUserID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_refresh_token", "The refresh request could not be validated")
			return
		}
		log.Error("refresh rotation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to rotate tokens")
		return
	}

	accessToken, expiresIn, err := h.TokenService.Mint(identity.UserID, identity.Username)
	if err != nil {
		log.Error("failed to mint access token", "err", err)
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
