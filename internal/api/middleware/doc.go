// Package middleware provides the HTTP middleware of the shared server.
//
// Middleware stack includes:
//   - RequestID: ULID request ids, propagated in X-Request-ID and the request context
//   - Logging: one structured log line per request
//   - CORS: Cross-origin resource sharing restricted to loopback origins
//   - RateLimit: Per-IP token bucket rate limiting
//
// CORS Configuration:
//   - AllowOrigins: Permitted origin domains
//   - AllowMethods: HTTP methods
//   - AllowHeaders: Request headers
//   - MaxAge: Preflight cache duration
//
// Rate Limiting:
//   - Per-IP tracking with idle client cleanup
//   - Token bucket algorithm
//   - Configurable RPS and burst capacity
//   - Global rate limiting option
//
// Example Usage:
//
//	router.Use(middleware.RequestID(), middleware.Logging(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
