package signetsdk_test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	signethttp "github.com/signetlabs/signet/internal/http"
	"github.com/signetlabs/signet/internal/service"
	"github.com/signetlabs/signet/internal/store/drivers/sqlite"
	"github.com/signetlabs/signet/pkg/jwt"
	"github.com/signetlabs/signet/pkg/signetsdk"
)

// newTestServer runs the real router against an in-memory store, so the SDK
// is exercised over actual HTTP.
func newTestServer(t *testing.T) *signetsdk.Client {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	router := signethttp.NewRouter("test", st, slog.Default())
	router.TokenService = &service.TokenService{
		Secret:    []byte("access-secret"),
		Algorithm: jwt.HS256,
		Issuer:    "signet-test",
		AccessTTL: "15m",
	}
	router.UserService = &service.UserService{Users: st.Users()}
	router.RefreshService = &service.RefreshService{
		Tokens:    st.RefreshTokens(),
		Secret:    []byte("refresh-secret"),
		AccessTTL: "15m",
	}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return signetsdk.NewClient(server.URL)
}

func TestSignupLoginUserInfo(t *testing.T) {
	ctx := context.Background()
	client := newTestServer(t)

	user, err := client.Signup(ctx, "alice", "password123")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.NotEmpty(t, user.UserID)

	_, err = client.Signup(ctx, "alice", "password123")
	require.Error(t, err)
	require.True(t, signetsdk.HasCode(err, signetsdk.ErrorCodeUsernameTaken))

	_, err = client.Login(ctx, "alice", "wrong-password")
	require.Error(t, err)
	require.True(t, signetsdk.HasCode(err, signetsdk.ErrorCodeInvalidCredentials))

	session, err := client.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken())
	require.NotEmpty(t, session.RefreshToken())

	info, err := session.UserInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, user.UserID, info.UserID)
	require.Equal(t, "alice", info.Username)
}

func TestSessionRefreshRotatesPair(t *testing.T) {
	ctx := context.Background()
	client := newTestServer(t)

	_, err := client.Signup(ctx, "bob", "password123")
	require.NoError(t, err)

	session, err := client.Login(ctx, "bob", "password123")
	require.NoError(t, err)

	oldAccess := session.AccessToken()
	oldRefresh := session.RefreshToken()

	require.NoError(t, session.Refresh(ctx))
	require.NotEqual(t, oldRefresh, session.RefreshToken())

	// The retired refresh token must not work again.
	stale := client.NewSessionFromTokens(oldAccess, oldRefresh, 900)
	err = stale.Refresh(ctx)
	require.Error(t, err)
	require.True(t, signetsdk.HasCode(err, signetsdk.ErrorCodeInvalidRefreshToken))

	// The rotated session keeps working.
	info, err := session.UserInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, "bob", info.Username)
}

func TestSessionAutoRefresh(t *testing.T) {
	ctx := context.Background()
	client := newTestServer(t)

	_, err := client.Signup(ctx, "carol", "password123")
	require.NoError(t, err)

	session, err := client.Login(ctx, "carol", "password123")
	require.NoError(t, err)

	// Rebuild the session with an already-stale expiry: the first
	// authenticated call has to rotate before it can proceed.
	stale := client.NewSessionFromTokens(session.AccessToken(), session.RefreshToken(), 0)

	info, err := stale.UserInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, "carol", info.Username)
	require.NotEqual(t, session.RefreshToken(), stale.RefreshToken())
}

func TestSessionLogout(t *testing.T) {
	ctx := context.Background()
	client := newTestServer(t)

	_, err := client.Signup(ctx, "dave", "password123")
	require.NoError(t, err)

	session, err := client.Login(ctx, "dave", "password123")
	require.NoError(t, err)

	refreshToken := session.RefreshToken()
	require.NoError(t, session.Logout(ctx))
	require.Empty(t, session.RefreshToken())

	// The revoked token cannot renew anything.
	revived := client.NewSessionFromTokens(session.AccessToken(), refreshToken, 900)
	err = revived.Refresh(ctx)
	require.Error(t, err)
	require.True(t, signetsdk.HasCode(err, signetsdk.ErrorCodeInvalidRefreshToken))
}

func TestSessionLogoutAll(t *testing.T) {
	ctx := context.Background()
	client := newTestServer(t)

	_, err := client.Signup(ctx, "erin", "password123")
	require.NoError(t, err)

	laptop, err := client.Login(ctx, "erin", "password123")
	require.NoError(t, err)
	phone, err := client.Login(ctx, "erin", "password123")
	require.NoError(t, err)

	revoked, err := laptop.LogoutAll(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), revoked)

	err = phone.Refresh(ctx)
	require.Error(t, err)
	require.True(t, signetsdk.HasCode(err, signetsdk.ErrorCodeInvalidRefreshToken))
}

func TestHealthProbes(t *testing.T) {
	ctx := context.Background()
	client := newTestServer(t)

	live, err := client.Livez(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := client.Readyz(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
}
