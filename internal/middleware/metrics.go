package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-scheduler-api/internal/service"
)

const (
	requestStartKey = "request_start"
	unmatchedRoute  = "unmatched"
)

// Metrics captures request metrics using the provided service. Requests that
// match no route share one label so scanners cannot grow the series count.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Set(requestStartKey, start)
		c.Next()

		if metricsSvc == nil {
			return
		}
		path := c.FullPath()
		if path == "" {
			path = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
