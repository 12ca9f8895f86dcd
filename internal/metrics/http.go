package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPMetricsMiddleware creates a Gin middleware that records HTTP metrics
func HTTPMetricsMiddleware(m Recorder) gin.HandlerFunc {
	// If NoopMetrics, return a lightweight middleware that does nothing
	if _, ok := m.(*NoopMetrics); ok || m == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		// Skip metrics endpoint to avoid self-recording
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()

		m.IncHTTPInFlight()
		defer m.DecHTTPInFlight()

		c.Next()

		m.RecordHTTPRequest(
			c.Request.Method,
			normalizePath(c.FullPath()), // Use route pattern, not actual path
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}

// normalizePath returns the route pattern or "unknown" for unmatched routes
func normalizePath(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}
