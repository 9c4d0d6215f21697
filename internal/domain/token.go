package domain

import "time"

// TokenPair is what a successful login or refresh hands back: a short-lived
// access JWT and the long-lived refresh token that will replace it.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"` // always "Bearer"
	ExpiresIn    int64  `json:"expires_in"` // access token lifetime, seconds
}

// RefreshToken is the stored refresh token record. Only the SHA-256
// fingerprint of the signed token is at rest; the token itself never is,
// so a copy of the store can't be replayed.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string // hex SHA-256 of the signed token string, unique
	ExpiresAt time.Time
	CreatedAt time.Time
}
