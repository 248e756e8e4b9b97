package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harborcrm/harbor/internal/metrics"
)

// Metrics returns a middleware that records request counts and latency.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		statusClass := fmt.Sprintf("%dxx", c.Writer.Status()/100)
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, statusClass).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
