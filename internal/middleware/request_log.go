package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipe-catalog/backend/internal/logging"
)

const requestIDHeader = "X-Request-ID"

// RequestID propagates an incoming X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"request_id", RequestIDFrom(c),
		}
		if identity := CurrentIdentity(c); identity != nil {
			args = append(args, "user_id", identity.UserID)
		}
		switch {
		case status >= 500:
			logging.Error(c.Request.Context(), "request", args...)
		case status >= 400:
			logging.Warn(c.Request.Context(), "request", args...)
		default:
			logging.Info(c.Request.Context(), "request", args...)
		}
	}
}
