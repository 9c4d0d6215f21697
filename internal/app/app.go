// Package app wires configuration, storage, services and the HTTP server
// into a runnable signet instance.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	signethttp "github.com/signetlabs/signet/internal/http"
	"github.com/signetlabs/signet/internal/service"
	"github.com/signetlabs/signet/internal/store"
	redisstore "github.com/signetlabs/signet/internal/store/drivers/redis"
	"github.com/signetlabs/signet/internal/store/drivers/sqlite"
	"github.com/signetlabs/signet/pkg/jwt"
	"github.com/signetlabs/signet/pkg/slogx"
)

const BuildVersion = "v0.1.0"

type Application struct {
	cfg    Config
	logger *slog.Logger

	db           *sqlite.Store
	refreshStore store.RefreshTokens

	// Both are nil unless REDIS_ADDR is configured.
	redisClient *goredis.Client
	redisStore  *redisstore.RefreshTokenStore

	tokenService        *service.TokenService
	userService         *service.UserService
	refreshService      *service.RefreshService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *signethttp.Router
}

func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := slogx.New(slogx.Config{
		Service: "signet",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	app := &Application{
		cfg:    cfg,
		logger: logger,
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	app.initRefreshStore()
	app.initServices()
	app.initHTTP()

	return app, nil
}

func (a *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", a.cfg.DatabaseFile)

	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("open sqlite store: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		db.Close()
		return fmt.Errorf("apply migrations: %w", err)
	}

	a.db = db
	a.logger.Info("database ready", "file", a.cfg.DatabaseFile)
	return nil
}

// initRefreshStore picks where refresh tokens live. SQLite is the default;
// Redis takes over when REDIS_ADDR is set so short-lived rows stop churning
// the database file.
func (a *Application) initRefreshStore() {
	if a.cfg.RedisAddr == "" {
		a.refreshStore = a.db.RefreshTokens()
		return
	}

	a.redisClient = goredis.NewClient(&goredis.Options{Addr: a.cfg.RedisAddr})
	a.redisStore = redisstore.NewRefreshTokenStore(a.redisClient)
	a.refreshStore = a.redisStore
	a.logger.Info("refresh tokens stored in redis", "addr", a.cfg.RedisAddr)
}

func (a *Application) initServices() {
	a.tokenService = &service.TokenService{
		Secret:    []byte(a.cfg.AccessSecret),
		Algorithm: jwt.Algorithm(a.cfg.Algorithm),
		Issuer:    a.cfg.Issuer,
		AccessTTL: a.cfg.AccessTTL,
	}

	a.userService = &service.UserService{
		Users: a.db.Users(),
	}

	a.refreshService = &service.RefreshService{
		Tokens:    a.refreshStore,
		Secret:    []byte(a.cfg.RefreshSecret),
		AccessTTL: a.cfg.AccessTTL,
	}

	a.housekeepingService = service.NewHousekeepingService(a.refreshService, a.logger, a.cfg.HousekeepingInterval)
}

func (a *Application) initHTTP() {
	router := signethttp.NewRouter(BuildVersion, a.db, a.logger)
	router.TokenService = a.tokenService
	router.UserService = a.userService
	router.RefreshService = a.refreshService
	if a.redisStore != nil {
		router.Cache = a.redisStore
	}
	router.ApplyRoutes()

	a.router = router
	a.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// Run starts the housekeeping worker and the HTTP server, then blocks until
// the server fails or the process receives SIGINT/SIGTERM.
func (a *Application) Run() error {
	a.housekeepingService.Start()

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		a.logger.Info("shutdown signal received", "signal", sig.String())
		return a.Shutdown()
	}
}

// Shutdown drains in-flight requests within the grace period, then stops the
// background worker and releases storage.
func (a *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("graceful shutdown failed, forcing close", "error", err)
		if err := a.server.Close(); err != nil {
			return fmt.Errorf("force close server: %w", err)
		}
	}

	a.housekeepingService.Stop()

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("close redis client", "error", err)
		}
	}

	if err := a.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	a.logger.Info("shutdown complete")
	return nil
}
