package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestDefaultTimeoutValues verifies that timeout configurations have sensible defaults
func TestDefaultTimeoutValues(t *testing.T) {
	t.Setenv("CQD_TIMEOUT", "")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "")

	cfg := Load()

	assert.Zero(t, cfg.Timeout, "login has no client timeout unless configured")
	assert.Equal(
		t,
		5*time.Second,
		cfg.ServerShutdownTimeout,
		"Server shutdown timeout should be 5s",
	)
}

// TestTimeoutConfigurationFromEnv verifies that timeout values can be configured via environment
func TestTimeoutConfigurationFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envKey   string
		envValue string
		getter   func(*Config) time.Duration
		expected time.Duration
	}{
		{
			name:     "CQD_TIMEOUT",
			envKey:   "CQD_TIMEOUT",
			envValue: "15s",
			getter:   func(c *Config) time.Duration { return c.Timeout },
			expected: 15 * time.Second,
		},
		{
			name:     "SERVER_SHUTDOWN_TIMEOUT",
			envKey:   "SERVER_SHUTDOWN_TIMEOUT",
			envValue: "30s",
			getter:   func(c *Config) time.Duration { return c.ServerShutdownTimeout },
			expected: 30 * time.Second,
		},
		{
			name:     "invalid duration falls back",
			envKey:   "CQD_TIMEOUT",
			envValue: "soon",
			getter:   func(c *Config) time.Duration { return c.Timeout },
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envKey, tt.envValue)

			cfg := Load()
			assert.Equal(t, tt.expected, tt.getter(cfg))
		})
	}
}
