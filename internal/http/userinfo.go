package http

import (
	"net/http"

	"github.com/signetlabs/signet/pkg/httpx"
)

// UserInfoHandler serves GET /v1/userinfo, echoing the identity carried by
// the verified bearer token. No store lookup: the token is the source.
type UserInfoHandler struct{}

func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, ok := httpx.IdentityFromContext(r.Context())
	if !ok || identity.UserID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Authentication required")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, UserInfoResponse{
		UserID:   identity.UserID,
		Username: identity.Username,
	})
}
