// Package middleware holds the gin middleware shared by the HTTP surface:
// CORS, per-IP and global rate limiting, and the structured request log.
//
// CORS defaults allow any origin so a dev shell on another port can reach
// the backend; deployments narrow it with CORSForOrigins. The rate limiter
// keeps one token bucket per client IP and sweeps idle entries so the
// table stays bounded. RequestLog writes one line per request, leveled by
// status, carrying the request id when tracing has stamped one.
//
// Usage:
//
//	router.Use(middleware.RequestLog(log))
//	router.Use(middleware.CORS(middleware.CORSForOrigins(origins)))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
