package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studygrid/scheduler-api/internal/service"
)

// Metrics records method, route template, status and latency for every
// request. Unmatched paths fall back to the raw URL so 404s still show up.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	if metrics == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
