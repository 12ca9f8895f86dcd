package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimitConfig holds the configuration for rate limiting
type RateLimitConfig struct {
	RequestsPerMinute int           // Number of requests allowed per minute per client IP
	CleanupInterval   time.Duration // How often expired counters are dropped
}

// NewRateLimiter creates an in-memory, per-client-IP rate limiter
func NewRateLimiter(config RateLimitConfig) gin.HandlerFunc {
	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  int64(config.RequestsPerMinute),
	}

	cleanup := config.CleanupInterval
	if cleanup <= 0 {
		cleanup = limiter.DefaultCleanUpInterval
	}

	store := memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          "cqdauth",
		CleanUpInterval: cleanup,
	})

	instance := limiter.New(store, rate)

	return mgin.NewMiddleware(instance, mgin.WithLimitReachedHandler(func(c *gin.Context) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":             "rate_limit_exceeded",
			"error_description": "Too many requests. Please try again later.",
		})
		c.Abort()
	}))
}

// NewMemoryRateLimiter creates a rate limiter allowing requestsPerMinute per client
func NewMemoryRateLimiter(requestsPerMinute int) gin.HandlerFunc {
	return NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: requestsPerMinute,
		CleanupInterval:   5 * time.Minute,
	})
}
