// Package tracing correlates log lines per request and times request
// handling.
//
// Every request gets a request id: taken from the X-Request-ID header when
// the shell provides one, generated otherwise, and echoed back on the
// response so failures shown in the shell can be matched to backend logs.
// The id travels on the request context; RequestID reads it back anywhere
// downstream of the middleware.
//
// HTTPMiddleware wraps each request in a span that records the route, the
// duration and the final status. Spans log at debug, so in production they
// are silent and the request logging middleware carries the info line;
// failed spans log at warn either way.
//
// Usage:
//
//	tracer := tracing.New("webtop", logger)
//	router.Use(tracing.HTTPMiddleware(tracer))
package tracing
