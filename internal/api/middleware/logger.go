package middleware

import (
	"time"

	"battery-budget/internal/logger"

	"github.com/gin-gonic/gin"
)

// Logger writes one structured line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}
		switch {
		case status >= 500:
			logger.Logger.Errorw("[HTTP] request", fields...)
		case status >= 400:
			logger.Logger.Warnw("[HTTP] request", fields...)
		default:
			logger.Logger.Infow("[HTTP] request", fields...)
		}
	}
}
