package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/signetlabs/signet/internal/domain"
	"github.com/signetlabs/signet/internal/service"
	"github.com/signetlabs/signet/internal/store/drivers/sqlite"
	"github.com/signetlabs/signet/pkg/httpx"
	"github.com/signetlabs/signet/pkg/jwt"

	"github.com/stretchr/testify/require"
)

const (
	testIssuer        = "signet-test"
	testAccessSecret  = "access-secret"
	testRefreshSecret = "refresh-secret"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	r := NewRouter("test", st, slog.Default())
	r.TokenService = &service.TokenService{
		Secret:    []byte(testAccessSecret),
		Algorithm: jwt.HS256,
		Issuer:    testIssuer,
		AccessTTL: "15m",
	}
	r.UserService = &service.UserService{Users: st.Users()}
	r.RefreshService = &service.RefreshService{
		Tokens:    st.RefreshTokens(),
		Secret:    []byte(testRefreshSecret),
		AccessTTL: "15m",
	}
	r.ApplyRoutes()

	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func signupAndLogin(t *testing.T, r *Router, username, password string) domain.TokenPair {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/v1/auth/signup", map[string]string{
		"username": username, "password": password,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/v1/auth/login", map[string]string{
		"username": username, "password": password,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	return decodeBody[domain.TokenPair](t, rec)
}

func TestSignupAndLogin(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/v1/auth/signup", map[string]string{
		"username": "alice", "password": "opensesame",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeBody[UserResponse](t, rec)
	require.NotEmpty(t, created.UserID)
	require.Equal(t, "alice", created.Username)

	t.Run("duplicate username conflicts", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/auth/signup", map[string]string{
			"username": "alice", "password": "differentpass",
		}, "")
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Equal(t, "username_taken", decodeBody[httpx.ErrorResponse](t, rec).Error)
	})

	t.Run("short password rejected", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/auth/signup", map[string]string{
			"username": "bob", "password": "short",
		}, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "invalid_request", decodeBody[httpx.ErrorResponse](t, rec).Error)
	})

	t.Run("login returns a bearer pair", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/auth/login", map[string]string{
			"username": "alice", "password": "opensesame",
		}, "")
		require.Equal(t, http.StatusOK, rec.Code)

		pair := decodeBody[domain.TokenPair](t, rec)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)
		require.Equal(t, "Bearer", pair.TokenType)
		require.Equal(t, int64(900), pair.ExpiresIn)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/auth/login", map[string]string{
			"username": "alice", "password": "not-the-password",
		}, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "invalid_credentials", decodeBody[httpx.ErrorResponse](t, rec).Error)
	})

	t.Run("unknown username answers identically", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/auth/login", map[string]string{
			"username": "nobody", "password": "opensesame",
		}, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "invalid_credentials", decodeBody[httpx.ErrorResponse](t, rec).Error)
	})
}

func TestRefreshRotation(t *testing.T) {
	r := newTestRouter(t)
	pair := signupAndLogin(t, r, "alice", "opensesame")

	rec := doJSON(t, r, http.MethodPost, "/v1/auth/refresh", map[string]string{
		"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rotated := decodeBody[domain.TokenPair](t, rec)
	require.NotEmpty(t, rotated.AccessToken)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	t.Run("old refresh token is dead", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/auth/refresh", map[string]string{
			"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken,
		}, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "invalid_refresh_token", decodeBody[httpx.ErrorResponse](t, rec).Error)
	})

	t.Run("rotated token still works", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/auth/refresh", map[string]string{
			"access_token": rotated.AccessToken, "refresh_token": rotated.RefreshToken,
		}, "")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("undecodable access token", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/auth/refresh", map[string]string{
			"access_token": "garbage", "refresh_token": pair.RefreshToken,
		}, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/auth/refresh", map[string]string{
			"refresh_token": pair.RefreshToken,
		}, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogout(t *testing.T) {
	r := newTestRouter(t)
	pair := signupAndLogin(t, r, "alice", "opensesame")

	rec := doJSON(t, r, http.MethodPost, "/v1/auth/logout", map[string]string{
		"refresh_token": pair.RefreshToken,
	}, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	t.Run("revoked token cannot refresh", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/auth/refresh", map[string]string{
			"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken,
		}, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown token still answers 204", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/auth/logout", map[string]string{
			"refresh_token": "never-issued",
		}, "")
		require.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestLogoutAll(t *testing.T) {
	r := newTestRouter(t)
	first := signupAndLogin(t, r, "alice", "opensesame")

	// Second session for the same user.
	rec := doJSON(t, r, http.MethodPost, "/v1/auth/login", map[string]string{
		"username": "alice", "password": "opensesame",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	second := decodeBody[domain.TokenPair](t, rec)

	t.Run("requires a bearer token", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/auth/logout_all", nil, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	rec = doJSON(t, r, http.MethodPost, "/v1/auth/logout_all", nil, first.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(2), decodeBody[LogoutAllResponse](t, rec).Revoked)

	t.Run("every session is revoked", func(t *testing.T) {
		for _, pair := range []domain.TokenPair{first, second} {
			rec := doJSON(t, r, http.MethodPost, "/v1/auth/refresh", map[string]string{
				"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken,
			}, "")
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		}
	})
}

func TestUserInfo(t *testing.T) {
	r := newTestRouter(t)
	pair := signupAndLogin(t, r, "alice", "opensesame")

	rec := doJSON(t, r, http.MethodGet, "/v1/userinfo", nil, pair.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	info := decodeBody[UserInfoResponse](t, rec)
	require.NotEmpty(t, info.UserID)
	require.Equal(t, "alice", info.Username)

	t.Run("missing bearer", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/v1/userinfo", nil, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
	})

	t.Run("expired bearer names token_expired", func(t *testing.T) {
		expired, err := jwt.Sign(jwt.Claims{
			Extra: map[string]any{"userId": info.UserID, "username": "alice"},
		}, []byte(testAccessSecret), jwt.SignOptions{
			Algorithm:      jwt.HS256,
			ExpiresIn:      "1m",
			Issuer:         testIssuer,
			ClockTimestamp: time.Now().Add(-time.Hour).Unix(),
		})
		require.NoError(t, err)

		rec := doJSON(t, r, http.MethodGet, "/v1/userinfo", nil, expired)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "token_expired", decodeBody[httpx.ErrorResponse](t, rec).Error)
	})
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/livez", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decodeBody[HealthResponse](t, rec).Status)

	rec = doJSON(t, r, http.MethodGet, "/readyz", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	health := decodeBody[HealthResponse](t, rec)
	require.Equal(t, "ok", health.Status)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)

	t.Run("degrades when the store is gone", func(t *testing.T) {
		require.NoError(t, r.store.Close())

		rec := doJSON(t, r, http.MethodGet, "/readyz", nil, "")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Equal(t, "degraded", decodeBody[HealthResponse](t, rec).Status)
	})
}
