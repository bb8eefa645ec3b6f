package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meditriage/triage-api/pkg/logger"
)

// Logger logs one line per request after it completes.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		event := log.Zerolog().Info()
		if c.Writer.Status() >= 500 {
			event = log.Zerolog().Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(ContextRequestID)).
			Msg("request completed")
	}
}
