package http

// UserResponse is the signup response body.
type UserResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// UserInfoResponse echoes the authenticated identity.
type UserInfoResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// LogoutAllResponse reports how many refresh tokens were revoked.
type LogoutAllResponse struct {
	Revoked int64 `json:"revoked"`
}

// HealthResponse is returned by the livez and readyz probes.
type HealthResponse struct {
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
