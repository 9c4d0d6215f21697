package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("SIGNET_ISSUER", "auth.example.com")
	t.Setenv("SIGNET_ACCESS_SECRET", "access-secret")
	t.Setenv("SIGNET_REFRESH_SECRET", "refresh-secret")
	t.Setenv("SIGNET_ALGORITHM", "HS384")
	t.Setenv("SIGNET_ACCESS_TTL", "1h")
	t.Setenv("SIGNET_DATABASE_FILE", "/tmp/signet-test.db")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("PORT", "9090")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "5s")
	t.Setenv("HOUSEKEEPING_INTERVAL", "30")

	cfg := LoadConfig()

	require.Equal(t, "auth.example.com", cfg.Issuer)
	require.Equal(t, "access-secret", cfg.AccessSecret)
	require.Equal(t, "refresh-secret", cfg.RefreshSecret)
	require.Equal(t, "HS384", cfg.Algorithm)
	require.Equal(t, "1h", cfg.AccessTTL)
	require.Equal(t, "/tmp/signet-test.db", cfg.DatabaseFile)
	require.Equal(t, "localhost:6379", cfg.RedisAddr)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 5*time.Second, cfg.ShutdownGracePeriod)

	// Bare integers are read as minutes.
	require.Equal(t, 30*time.Minute, cfg.HousekeepingInterval)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SIGNET_ISSUER", "")
	t.Setenv("SIGNET_ALGORITHM", "")
	t.Setenv("SIGNET_ACCESS_TTL", "")
	t.Setenv("SIGNET_DATABASE_FILE", "")
	t.Setenv("PORT", "")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "")
	t.Setenv("HOUSEKEEPING_INTERVAL", "")

	cfg := LoadConfig()

	require.Equal(t, "signet", cfg.Issuer)
	require.Equal(t, "HS256", cfg.Algorithm)
	require.Equal(t, "15m", cfg.AccessTTL)
	require.Equal(t, "signet.db", cfg.DatabaseFile)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, 1*time.Hour, cfg.HousekeepingInterval)
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		Algorithm:     "HS256",
		AccessTTL:     "15m",
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing access secret",
			mutate:  func(c *Config) { c.AccessSecret = "" },
			wantErr: "SIGNET_ACCESS_SECRET",
		},
		{
			name:    "missing refresh secret",
			mutate:  func(c *Config) { c.RefreshSecret = "" },
			wantErr: "SIGNET_REFRESH_SECRET",
		},
		{
			name:    "shared secret",
			mutate:  func(c *Config) { c.RefreshSecret = c.AccessSecret },
			wantErr: "must differ",
		},
		{
			name:    "unsupported algorithm",
			mutate:  func(c *Config) { c.Algorithm = "RS256" },
			wantErr: "unsupported algorithm",
		},
		{
			name:    "bad access ttl",
			mutate:  func(c *Config) { c.AccessTTL = "soon" },
			wantErr: "SIGNET_ACCESS_TTL",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}
