package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/signetlabs/signet/internal/domain"
	"github.com/signetlabs/signet/internal/store"
	"github.com/signetlabs/signet/pkg/cryptox"
	"github.com/signetlabs/signet/pkg/idx"
	"github.com/signetlabs/signet/pkg/jwt"
	"github.com/signetlabs/signet/pkg/slogx"
	"github.com/signetlabs/signet/pkg/timespan"
)

var (
	// ErrInvalidRefreshToken covers every rejection of a presented refresh
	// token: forged, expired, revoked, wrong type, wrong user. Callers get
	// no hint which check failed.
	ErrInvalidRefreshToken = errors.New("invalid_refresh_token")

	// ErrRefreshSecretMissing is an operator error: tokens cannot be issued
	// until a refresh secret is configured.
	ErrRefreshSecretMissing = errors.New("refresh secret not configured")
)

// refreshIssuer is the iss claim on every refresh token, distinguishing
// them from access tokens even if the secrets were ever shared.
const refreshIssuer = "refresh"

// minRefreshLifetimeSeconds floors the derived refresh lifetime so very
// short access TTLs still leave a usable refresh window.
const minRefreshLifetimeSeconds = 30 * timespan.Minute

// DeriveRefreshLifetime computes the refresh-token lifetime from the access
// token spec: thirty times the access lifetime, floored at thirty minutes,
// rendered back into the timespan grammar ("1h" -> "30h", "5s" -> "30m").
func DeriveRefreshLifetime(accessSpec string) (string, error) {
	seconds, err := timespan.Parse(accessSpec)
	if err != nil {
		return "", fmt.Errorf("derive refresh lifetime: %w", err)
	}

	seconds *= 30
	if seconds < minRefreshLifetimeSeconds {
		seconds = minRefreshLifetimeSeconds
	}

	return timespan.Render(seconds), nil
}

// RefreshService issues, validates, rotates, and revokes refresh tokens.
// Tokens are JWTs signed with a dedicated secret; only their SHA-256
// fingerprint is persisted, so a leaked database cannot replay sessions.
type RefreshService struct {
	Tokens    store.RefreshTokens
	Secret    []byte
	AccessTTL string
}

// Issue signs a refresh token for the identity and persists its fingerprint.
func (s *RefreshService) Issue(ctx context.Context, userID, username string) (string, error) {
	if len(s.Secret) == 0 {
		return "", ErrRefreshSecretMissing
	}

	lifetime, err := DeriveRefreshLifetime(s.AccessTTL)
	if err != nil {
		return "", err
	}
	seconds, err := timespan.Parse(lifetime)
	if err != nil {
		return "", err
	}

	// The record id doubles as the jti claim, so two issuances in the same
	// second still mint distinct tokens with distinct fingerprints.
	id := idx.New().String()

	token, err := jwt.Sign(jwt.Claims{
		Extra: map[string]any{
			"userId":   userID,
			"username": username,
			"type":     "refresh",
		},
	}, s.Secret, jwt.SignOptions{
		Algorithm: jwt.HS256,
		ExpiresIn: lifetime,
		Issuer:    refreshIssuer,
		JWTID:     id,
	})
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}

	now := time.Now().UTC()
	record := domain.RefreshToken{
		ID:        id,
		UserID:    userID,
		TokenHash: cryptox.Fingerprint(token),
		ExpiresAt: now.Add(time.Duration(seconds) * time.Second),
		CreatedAt: now,
	}
	if err := s.Tokens.CreateRefreshToken(ctx, record); err != nil {
		return "", fmt.Errorf("persist refresh token: %w", err)
	}

	return token, nil
}

// Validate checks a presented refresh token end to end: signature, issuer,
// type claim, a live persisted record, and record/claim user agreement.
// Rejections collapse into ErrInvalidRefreshToken; store failures propagate
// as ordinary wrapped errors.
func (s *RefreshService) Validate(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := jwt.Verify(token, s.Secret, jwt.VerifyOptions{
		Algorithms: []jwt.Algorithm{jwt.HS256},
		Issuer:     []string{refreshIssuer},
	})
	if err != nil {
		return domain.Identity{}, ErrInvalidRefreshToken
	}

	if typ, _ := claims.Extra["type"].(string); typ != "refresh" {
		return domain.Identity{}, ErrInvalidRefreshToken
	}
	userID, _ := claims.Extra["userId"].(string)
	username, _ := claims.Extra["username"].(string)
	if userID == "" {
		return domain.Identity{}, ErrInvalidRefreshToken
	}

	record, err := s.Tokens.GetRefreshTokenByHash(ctx, cryptox.Fingerprint(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, ErrInvalidRefreshToken
		}
		return domain.Identity{}, fmt.Errorf("lookup refresh token: %w", err)
	}
	if record.UserID != userID {
		return domain.Identity{}, ErrInvalidRefreshToken
	}

	return domain.Identity{UserID: userID, Username: username}, nil
}

// Rotate validates oldToken for expectedUserID, retires it, and issues a
// replacement. The delete and the insert are two store operations; a crash
// between them logs the user out rather than leaving two live tokens.
func (s *RefreshService) Rotate(ctx context.Context, oldToken, expectedUserID string) (string, domain.Identity, error) {
	identity, err := s.Validate(ctx, oldToken)
	if err != nil {
		return "", domain.Identity{}, err
	}
	if identity.UserID != expectedUserID {
		return "", domain.Identity{}, ErrInvalidRefreshToken
	}

	deleted, err := s.Tokens.DeleteRefreshTokenByHash(ctx, cryptox.Fingerprint(oldToken))
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("retire refresh token: %w", err)
	}
	if !deleted {
		// Lost a race with a concurrent rotation or revocation.
		slogx.FromContext(ctx).Warn("refresh token already retired", "user_id", identity.UserID)
		return "", domain.Identity{}, ErrInvalidRefreshToken
	}

	newToken, err := s.Issue(ctx, identity.UserID, identity.Username)
	if err != nil {
		return "", domain.Identity{}, err
	}

	return newToken, identity, nil
}

// Revoke retires a single refresh token by fingerprint. The boolean reports
// whether a record was actually removed.
func (s *RefreshService) Revoke(ctx context.Context, token string) (bool, error) {
	return s.Tokens.DeleteRefreshTokenByHash(ctx, cryptox.Fingerprint(token))
}

// RevokeAll retires every refresh token belonging to the user.
func (s *RefreshService) RevokeAll(ctx context.Context, userID string) (int64, error) {
	return s.Tokens.DeleteUserRefreshTokens(ctx, userID)
}

// SweepExpired removes refresh-token records past their expiry.
func (s *RefreshService) SweepExpired(ctx context.Context) (int64, error) {
	return s.Tokens.DeleteExpiredRefreshTokens(ctx)
}
