package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/storefront-cart/internal/logger"
)

// RequestLogger returns a middleware that writes one structured log line per
// request. The level follows the status: 5xx error, 4xx warn, otherwise info.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		statusCode := c.Writer.Status()
		log := logger.FromContext(c.Request.Context())

		event := log.WithLevel(levelForStatus(statusCode)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status_code", statusCode).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent())
		if userID := GetUserID(c); userID != "" {
			event = event.Str("user_id", userID)
		}
		if requestID := GetRequestID(c); requestID != "" && logger.RequestIDFromContext(c.Request.Context()) == "" {
			event = event.Str("request_id", requestID)
		}
		event.Msg("HTTP request")
	}
}

func levelForStatus(statusCode int) zerolog.Level {
	switch {
	case statusCode >= 500:
		return zerolog.ErrorLevel
	case statusCode >= 400:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
