package signetsdk

// User is the signup response.
type User struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// TokenPair is what login and refresh return.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// UserInfo is the identity carried by a verified access token.
type UserInfo struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Health is the body of the livez and readyz probes.
type Health struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks carries per-dependency readiness detail.
type HealthChecks struct {
	Database string `json:"database"`
	Cache    string `json:"cache,omitempty"`
}
