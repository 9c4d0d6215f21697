// Package http wires the authentication endpoints onto a stdlib ServeMux:
// signup, login, refresh rotation, logout, identity echo, and health probes.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/signetlabs/signet/internal/service"
	"github.com/signetlabs/signet/internal/store"
	"github.com/signetlabs/signet/pkg/httpx"
	"github.com/signetlabs/signet/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	TokenService   *service.TokenService
	UserService    *service.UserService
	RefreshService *service.RefreshService

	// Cache is probed by readyz when a Redis refresh store is configured.
	Cache Pinger
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// tokenVerifier adapts the token service to the authn middleware contract.
type tokenVerifier struct {
	tokens *service.TokenService
}

func (v tokenVerifier) VerifyAccessToken(token string) (httpx.Identity, error) {
	identity, err := v.tokens.VerifyAccessToken(token)
	if err != nil {
		return httpx.Identity{}, err
	}
	return httpx.Identity{UserID: identity.UserID, Username: identity.Username}, nil
}

func (r *Router) registerAuth() {
	verifier := tokenVerifier{tokens: r.TokenService}

	// POST /auth/signup - strict rate limit by IP (account creation)
	signupHandler := &SignupHandler{UserService: r.UserService}
	r.Mux.Handle("POST /v1/auth/signup",
		httpx.Chain(signupHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/login - strict rate limit by IP (credential guessing)
	loginHandler := &LoginHandler{
		UserService:    r.UserService,
		TokenService:   r.TokenService,
		RefreshService: r.RefreshService,
	}
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/refresh - moderate rate limit by IP. The rotation itself
	// authenticates the caller, so no bearer middleware here.
	refreshHandler := &RefreshHandler{
		TokenService:   r.TokenService,
		RefreshService: r.RefreshService,
	}
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /auth/logout - moderate rate limit by IP, responds 204 always
	logoutHandler := &LogoutHandler{RefreshService: r.RefreshService}
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /auth/logout_all - bearer-authenticated, moderate limit by user
	logoutAllHandler := &LogoutAllHandler{RefreshService: r.RefreshService}
	r.Mux.Handle("POST /v1/auth/logout_all",
		httpx.Chain(logoutAllHandler,
			httpx.AuthnMiddleware(verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	verifier := tokenVerifier{tokens: r.TokenService}

	// Authenticated endpoint - lenient rate limit by user
	secured := httpx.Chain(&UserInfoHandler{},
		httpx.AuthnMiddleware(verifier),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	r.Mux.Handle("GET /v1/userinfo", secured)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may
	// poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Cache),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
