package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/signetlabs/signet/internal/domain"
)

type refreshTokensRepo struct {
	db *sql.DB
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, token domain.RefreshToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES (?1, ?2, ?3, ?4, ?5);`,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.ExpiresAt.Unix(),
		token.CreatedAt.Unix(),
	)
	return mapConstraint(err)
}

// GetRefreshTokenByHash looks up a live token by its fingerprint. Rows past
// their expiry are treated as absent even before the sweeper removes them.
func (r *refreshTokensRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM refresh_tokens
		WHERE token_hash = ?1 AND expires_at > ?2;`,
		hash,
		time.Now().Unix(),
	)

	var (
		token     domain.RefreshToken
		expiresAt int64
		createdAt int64
	)
	err := row.Scan(&token.ID, &token.UserID, &token.TokenHash, &expiresAt, &createdAt)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}

	token.ExpiresAt = time.Unix(expiresAt, 0).UTC()
	token.CreatedAt = time.Unix(createdAt, 0).UTC()
	return token, nil
}

func (r *refreshTokensRepo) DeleteRefreshTokenByHash(ctx context.Context, hash string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM refresh_tokens
		WHERE token_hash = ?1;`,
		hash,
	)
	if err != nil {
		return false, err
	}

	count, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *refreshTokensRepo) DeleteUserRefreshTokens(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM refresh_tokens
		WHERE user_id = ?1;`,
		userID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM refresh_tokens
		WHERE expires_at <= ?1;`,
		time.Now().Unix(),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
