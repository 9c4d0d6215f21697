package signetsdk

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// refreshBuffer rotates the pair this long before the access token actually
// expires, so a request never goes out with a token about to die in flight.
const refreshBuffer = 30 * time.Second

// Session is an authenticated session. Methods needing a bearer token
// refresh the pair automatically when the access token nears expiry.
// Safe for concurrent use.
type Session struct {
	client *Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

func newSession(client *Client, pair TokenPair) *Session {
	return &Session{
		client:       client,
		accessToken:  pair.AccessToken,
		refreshToken: pair.RefreshToken,
		expiresAt:    time.Now().Add(time.Duration(pair.ExpiresIn)*time.Second - refreshBuffer),
	}
}

// AccessToken returns the current access token without checking expiry.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token. Persist it (together with
// the access token) to rebuild the session later via NewSessionFromTokens.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// Refresh rotates the token pair now, regardless of expiry. The previous
// refresh token stops working.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Session) refreshLocked(ctx context.Context) error {
	if s.refreshToken == "" {
		return fmt.Errorf("no refresh token available")
	}

	body := map[string]string{
		"access_token":  s.accessToken,
		"refresh_token": s.refreshToken,
	}

	resp, err := s.client.postJSON(ctx, "/v1/auth/refresh", body, "")
	if err != nil {
		return err
	}

	var pair TokenPair
	if err := decodeJSON(resp, &pair, http.StatusOK); err != nil {
		return err
	}

	s.accessToken = pair.AccessToken
	s.refreshToken = pair.RefreshToken
	s.expiresAt = time.Now().Add(time.Duration(pair.ExpiresIn)*time.Second - refreshBuffer)
	return nil
}

// getValidToken returns an access token with life left in it, rotating the
// pair first when needed.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have rotated while we waited for the lock.
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	if err := s.refreshLocked(ctx); err != nil {
		return "", fmt.Errorf("refreshing session: %w", err)
	}
	return s.accessToken, nil
}

// UserInfo fetches the identity for the session's access token.
func (s *Session) UserInfo(ctx context.Context) (*UserInfo, error) {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.do(ctx, http.MethodGet, "/v1/userinfo", nil, token)
	if err != nil {
		return nil, err
	}

	var info UserInfo
	if err := decodeJSON(resp, &info, http.StatusOK); err != nil {
		return nil, err
	}
	return &info, nil
}

// Logout revokes the session's refresh token. The access token stays
// cryptographically valid until it expires; the session just cannot be
// renewed anymore.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	body := map[string]string{"refresh_token": s.refreshToken}

	resp, err := s.client.postJSON(ctx, "/v1/auth/logout", body, "")
	if err != nil {
		return err
	}
	if err := checkNoContent(resp); err != nil {
		return err
	}

	s.refreshToken = ""
	return nil
}

// LogoutAll revokes every refresh token the user holds, on all devices, and
// reports how many were revoked.
func (s *Session) LogoutAll(ctx context.Context) (int64, error) {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return 0, err
	}

	resp, err := s.client.do(ctx, http.MethodPost, "/v1/auth/logout_all", nil, token)
	if err != nil {
		return 0, err
	}

	var result struct {
		Revoked int64 `json:"revoked"`
	}
	if err := decodeJSON(resp, &result, http.StatusOK); err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.refreshToken = ""
	s.mu.Unlock()

	return result.Revoked, nil
}
