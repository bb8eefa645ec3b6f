package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/meditriage/triage-api/pkg/httputil"
	"github.com/meditriage/triage-api/pkg/logger"
)

// Recovery handles panics and logs them with a stack trace.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Zerolog().Error().
					Interface("error", err).
					Str("stack", string(debug.Stack())).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("request_id", c.GetString(ContextRequestID)).
					Msg("request panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError, httputil.Response{
					Status:  "error",
					Message: "internal server error",
				})
			}
		}()
		c.Next()
	}
}
