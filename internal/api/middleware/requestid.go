package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/logging"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/shared/id"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
)

// RequestID assigns every request an id. A valid incoming X-Request-ID is
// kept, anything else is replaced by a fresh ULID. The id is echoed in the
// response header and carried in the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := id.RequestID(c.GetHeader(RequestIDHeader))
		if !id.Valid(rid.String(), id.RequestPrefix) {
			rid = id.NewRequestID()
		}

		c.Set(RequestIDKey, rid.String())
		c.Header(RequestIDHeader, rid.String())
		c.Request = c.Request.WithContext(id.WithRequestID(c.Request.Context(), rid))

		c.Next()
	}
}

// Logging writes one log line per request after it completes
func Logging(logger *logging.Logger) gin.HandlerFunc {
	log := logger.Named("http")

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if rid, ok := c.Get(RequestIDKey); ok {
			fields = append(fields, zap.Any(RequestIDKey, rid))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Error("HTTP request", fields...)
		case c.Writer.Status() >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Debug("HTTP request", fields...)
		}
	}
}
