package http

import (
	"encoding/json"
	"net/http"

	"github.com/signetlabs/signet/internal/service"
	"github.com/signetlabs/signet/pkg/httpx"
	"github.com/signetlabs/signet/pkg/slogx"
)

// LogoutHandler serves POST /v1/auth/logout. It revokes the presented
// refresh token and answers 204 regardless of whether the token was valid,
// so the endpoint cannot be used to probe for live tokens.
type LogoutHandler struct {
	RefreshService *service.RefreshService
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.RefreshToken != "" {
		if _, err := h.RefreshService.Revoke(ctx, req.RefreshToken); err != nil {
			log.Warn("logout revoke failed", "err", err)
		}
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// LogoutAllHandler serves POST /v1/auth/logout_all. It requires a valid
// bearer token and revokes every refresh token the user holds.
type LogoutAllHandler struct {
	RefreshService *service.RefreshService
}

func (h *LogoutAllHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok || identity.UserID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Authentication required")
		return
	}

	count, err := h.RefreshService.RevokeAll(ctx, identity.UserID)
	if err != nil {
		log.Error("logout_all failed", "user_id", identity.UserID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to revoke tokens")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, LogoutAllResponse{Revoked: count})
}
