package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/bhom/cqdauth/internal/client"

	"github.com/joho/godotenv"
)

// Log format constants
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

type Config struct {
	// Login credentials
	Username string
	Password string

	// CQD API
	APIURL             string        // Empty selects the default CQD login endpoint
	Timeout            time.Duration // 0 leaves the transport defaults in charge
	TLSProtocols       string        // Comma separated, e.g. "ssl3,tls1.0,tls1.1,tls1.2"
	InsecureSkipVerify bool
	APIAuthMode        string // Outbound auth mode: "none", "simple", or "hmac"
	APIAuthSecret      string
	APIAuthHeader      string // Header name for simple mode (default: "X-API-Secret")

	// Logging
	LogLevel  string
	LogFormat string // "console" or "json"

	// Server settings (serve command)
	ServerAddr                  string
	ServerShutdownTimeout       time.Duration
	ServerAllowEndpointOverride bool     // Let API callers choose the login endpoint; refused with an auth mode
	ServerTrustedProxies        []string // IPs or CIDRs allowed to set X-Forwarded-For; empty trusts none
	RateLimitPerMinute          int

	// Metrics
	MetricsEnabled bool
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		Username: getEnv("CQD_USERNAME", ""),
		Password: getEnv("CQD_PASSWORD", ""),

		APIURL:             getEnv("CQD_API_URL", ""),
		Timeout:            getEnvDuration("CQD_TIMEOUT", 0),
		TLSProtocols:       getEnv("CQD_TLS_PROTOCOLS", client.LegacyTLSProtocols),
		InsecureSkipVerify: getEnvBool("CQD_INSECURE_SKIP_VERIFY", false),
		APIAuthMode:        getEnv("CQD_API_AUTH_MODE", client.AuthModeNone),
		APIAuthSecret:      getEnv("CQD_API_AUTH_SECRET", ""),
		APIAuthHeader:      getEnv("CQD_API_AUTH_HEADER", "X-API-Secret"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", LogFormatConsole),

		ServerAddr:                  getEnv("SERVER_ADDR", ":8080"),
		ServerShutdownTimeout:       getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
		ServerAllowEndpointOverride: getEnvBool("SERVER_ALLOW_ENDPOINT_OVERRIDE", false),
		ServerTrustedProxies:        getEnvList("SERVER_TRUSTED_PROXIES"),
		RateLimitPerMinute:          getEnvInt("RATE_LIMIT_PER_MINUTE", 30),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
	}
}

// Validate checks the enumerated settings and returns the first problem found.
func (c *Config) Validate() error {
	if _, err := client.ParseTLSProtocols(c.TLSProtocols); err != nil {
		return fmt.Errorf("invalid CQD_TLS_PROTOCOLS value %q: %w", c.TLSProtocols, err)
	}

	switch c.APIAuthMode {
	case client.AuthModeNone, client.AuthModeSimple, client.AuthModeHMAC:
	default:
		return fmt.Errorf(
			"invalid CQD_API_AUTH_MODE value: %q (must be none, simple, or hmac)",
			c.APIAuthMode,
		)
	}

	if c.APIAuthMode != client.AuthModeNone && c.APIAuthSecret == "" {
		return fmt.Errorf("CQD_API_AUTH_SECRET is required when CQD_API_AUTH_MODE=%s", c.APIAuthMode)
	}

	if c.LogFormat != LogFormatConsole && c.LogFormat != LogFormatJSON {
		return fmt.Errorf("invalid LOG_FORMAT value: %q (must be console or json)", c.LogFormat)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("CQD_TIMEOUT must not be negative, got %s", c.Timeout)
	}

	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimitPerMinute)
	}

	for _, proxy := range c.ServerTrustedProxies {
		if net.ParseIP(proxy) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(proxy); err != nil {
			return fmt.Errorf("invalid SERVER_TRUSTED_PROXIES entry %q: must be an IP or CIDR", proxy)
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping empty entries.
func getEnvList(key string) []string {
	var list []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

