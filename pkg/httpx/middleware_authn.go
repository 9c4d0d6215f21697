package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/signetlabs/signet/pkg/jwt"
	"github.com/signetlabs/signet/pkg/slogx"
)

// Verifier checks a bearer access token and returns the identity it carries.
type Verifier interface {
	VerifyAccessToken(token string) (Identity, error)
}

// AuthnMiddleware guards a route with bearer-token authentication. Expired
// tokens answer with error="token_expired" so clients know a refresh rotation
// will fix them; everything else is a plain invalid_token.
func AuthnMiddleware(v Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "invalid_token", "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			id, err := v.VerifyAccessToken(raw)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					writeBearerError(w, "token_expired", "access token expired")
					return
				}
				log.Warn("bearer verification failed", "err", err)
				writeBearerError(w, "invalid_token", "token verification failed")
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithIdentity(ctx, id)))
		})
	}
}

// RFC 6750 wants the detail in WWW-Authenticate; the JSON envelope repeats
// it for clients that only read bodies.
func writeBearerError(w http.ResponseWriter, name, desc string) {
	w.Header().
		Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, name, desc)
}
