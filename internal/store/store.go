package store

import (
	"context"
	"errors"

	"github.com/signetlabs/signet/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. The SQLite driver implements all
// of it; the Redis driver implements just RefreshTokens and is swapped in
// for that repo when configured. Drivers translate their native errors to
// the sentinels above; raw driver errors never reach the services.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// Ping verifies the backing connection, for readiness probes.
	Ping(ctx context.Context) error

	// Close releases the underlying resources.
	Close() error
}

type Users interface {
	// CreateUser inserts a new user (id provided by the app via ULID).
	// A duplicate username is ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is the login-path lookup.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new record. The token_hash column is
	// unique; inserting the same fingerprint twice is ErrAlreadyExists.
	// The store enforces this, not the caller, so two concurrent
	// issuances of the same token can never both land.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the record for a fingerprint. Records
	// past their expiry are invisible here: the miss is ErrNotFound.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// DeleteRefreshTokenByHash removes one record, reporting whether a
	// record actually existed (revoke answers with this).
	DeleteRefreshTokenByHash(ctx context.Context, hash string) (bool, error)

	// DeleteUserRefreshTokens removes every record a user owns and
	// returns the count (global logout).
	DeleteUserRefreshTokens(ctx context.Context, userID string) (int64, error)

	// DeleteExpiredRefreshTokens removes all records whose expiry has
	// passed. Housekeeping calls this on a ticker.
	DeleteExpiredRefreshTokens(ctx context.Context) (int64, error)
}
