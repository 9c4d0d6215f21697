package httpx_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/signetlabs/signet/pkg/httpx"
	"github.com/signetlabs/signet/pkg/jwt"
	"github.com/stretchr/testify/require"
)

type verifierFunc func(token string) (httpx.Identity, error)

func (f verifierFunc) VerifyAccessToken(token string) (httpx.Identity, error) { return f(token) }

func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := httpx.IdentityFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, "%s/%s", id.UserID, id.Username)
	})
}

func TestAuthnMiddleware(t *testing.T) {
	accept := verifierFunc(func(token string) (httpx.Identity, error) {
		if token != "good-token" {
			return httpx.Identity{}, jwt.ErrInvalidSignature
		}
		return httpx.Identity{UserID: "u1", Username: "alice"}, nil
	})
	guarded := httpx.AuthnMiddleware(accept)(echoIdentity())

	t.Run("valid bearer reaches the handler with identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "u1/alice", rec.Body.String())
	})

	t.Run("missing header is 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), `Bearer error="invalid_token"`)
	})

	t.Run("non-bearer scheme is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejected token is invalid_token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer forged")
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid_token")
	})

	t.Run("expired token names token_expired so clients refresh", func(t *testing.T) {
		expired := verifierFunc(func(string) (httpx.Identity, error) {
			return httpx.Identity{}, fmt.Errorf("verify: %w", &jwt.ExpiredError{})
		})
		h := httpx.AuthnMiddleware(expired)(echoIdentity())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer stale")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "token_expired")
	})

	t.Run("opaque verifier errors stay invalid_token", func(t *testing.T) {
		broken := verifierFunc(func(string) (httpx.Identity, error) {
			return httpx.Identity{}, errors.New("backend down")
		})
		h := httpx.AuthnMiddleware(broken)(echoIdentity())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer whatever")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid_token")
	})
}

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler(), tag("outer"), tag("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"outer", "inner"}, order)
}
