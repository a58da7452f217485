package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"donation-platform.backend/pkg/metrics"
)

// MetricsMiddleware records request counts and latency by route template,
// so /api/donations/:id stays one series.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
