// Package service holds the business logic between the HTTP layer and the
// store: token minting and verification, the refresh-token lifecycle, user
// signup and authentication, and background housekeeping.
package service

import (
	"fmt"

	"github.com/signetlabs/signet/internal/domain"
	"github.com/signetlabs/signet/pkg/jwt"
	"github.com/signetlabs/signet/pkg/timespan"
)

// TokenService mints and verifies access tokens. The algorithm, issuer, and
// lifetime come from configuration; the payload carries the user identity.
type TokenService struct {
	Secret    []byte
	Algorithm jwt.Algorithm
	Issuer    string
	AccessTTL string
}

// Mint signs an access token for the given identity and returns it together
// with its lifetime in seconds, ready for a token response.
func (s *TokenService) Mint(userID, username string) (string, int64, error) {
	expiresIn, err := timespan.Parse(s.AccessTTL)
	if err != nil {
		return "", 0, fmt.Errorf("parse access ttl: %w", err)
	}

	token, err := jwt.Sign(jwt.Claims{
		Extra: map[string]any{
			"userId":   userID,
			"username": username,
		},
	}, s.Secret, jwt.SignOptions{
		Algorithm: s.Algorithm,
		ExpiresIn: s.AccessTTL,
		Issuer:    s.Issuer,
	})
	if err != nil {
		return "", 0, fmt.Errorf("sign access token: %w", err)
	}

	return token, expiresIn, nil
}

// VerifyAccessToken checks a bearer token against the configured algorithm
// and issuer and extracts the identity claims. Errors pass through from the
// jwt package so callers can distinguish expiry from other rejections.
func (s *TokenService) VerifyAccessToken(token string) (domain.Identity, error) {
	claims, err := jwt.Verify(token, s.Secret, jwt.VerifyOptions{
		Algorithms: []jwt.Algorithm{s.Algorithm},
		Issuer:     []string{s.Issuer},
	})
	if err != nil {
		return domain.Identity{}, err
	}

	userID, _ := claims.Extra["userId"].(string)
	username, _ := claims.Extra["username"].(string)
	if userID == "" {
		return domain.Identity{}, &jwt.ClaimError{Claim: "userId"}
	}

	return domain.Identity{UserID: userID, Username: username}, nil
}
