package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rewear/swap-platform/internal/platform/metrics"
)

// Metrics records request latency by route template, so ids in paths do not
// create new series
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
