package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/signetlabs/signet/internal/service"
	"github.com/signetlabs/signet/pkg/httpx"
	"github.com/signetlabs/signet/pkg/slogx"
)

// SignupHandler serves POST /v1/auth/signup.
type SignupHandler struct {
	UserService *service.UserService
}

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "username is required")
		return
	}
	if len(req.Password) < 8 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "password must be at least 8 characters")
		return
	}

	user, err := h.UserService.Signup(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			httpx.WriteError(w, http.StatusConflict, "username_taken", "That username is already registered")
			return
		}
		log.Error("signup failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create user")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, UserResponse{
		UserID:   user.ID,
		Username: user.Username,
	})
}
