package bootstrap

import (
	"fmt"

	"github.com/bhom/cqdauth/internal/config"
	"github.com/bhom/cqdauth/internal/handlers"
	"github.com/bhom/cqdauth/internal/metrics"
	"github.com/bhom/cqdauth/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	log zerolog.Logger,
	authenticator handlers.Authenticator,
	recorder metrics.Recorder,
) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// ClientIP keys the rate limiter, so X-Forwarded-For is only honoured
	// from configured proxies.
	if err := r.SetTrustedProxies(cfg.ServerTrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	r.Use(metrics.HTTPMetricsMiddleware(recorder))
	r.Use(middleware.RequestContext(log), gin.Recovery())

	r.GET("/healthz", handlers.Health)

	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	tokenHandler := handlers.NewTokenHandler(
		authenticator,
		cfg.APIURL,
		cfg.ServerAllowEndpointOverride,
		handlers.WithLoginTimeout(loginTimeout),
	)

	api := r.Group("/api/v1")
	api.POST(
		"/bearer-token",
		middleware.NewMemoryRateLimiter(cfg.RateLimitPerMinute),
		tokenHandler.BearerToken,
	)

	return r, nil
}
