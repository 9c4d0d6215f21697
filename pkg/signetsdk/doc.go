/*
Package signetsdk provides a Go client for the signet authentication service.

# Client vs Session

The package is organized around two types:

  - Client: unauthenticated operations (signup, login, health probes)
  - Session: authenticated operations with automatic token refresh

Create a Client to reach public endpoints and to log in:

	client := signetsdk.NewClient("https://auth.example.com")

	user, err := client.Signup(ctx, "alice", "correct horse battery")
	session, err := client.Login(ctx, "alice", "correct horse battery")

Use the Session for everything that needs a bearer token. When the access
token is near expiry the session rotates the pair transparently before the
request goes out:

	info, err := session.UserInfo(ctx)
	revoked, err := session.LogoutAll(ctx)

A session can also be rebuilt from tokens persisted elsewhere:

	session := client.NewSessionFromTokens(accessToken, refreshToken, expiresIn)

# Errors

Server rejections come back as *APIError carrying the service's error code
and HTTP status. Match on codes with HasCode:

	if signetsdk.HasCode(err, signetsdk.ErrorCodeUsernameTaken) {
		// pick another name
	}
*/
package signetsdk
