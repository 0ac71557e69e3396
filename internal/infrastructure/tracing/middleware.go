package tracing

import (
	"github.com/gin-gonic/gin"
)

// RequestIDHeader carries the request id in both directions. The shell
// sends one when it retries so the attempts correlate in the logs.
const RequestIDHeader = "X-Request-ID"

// HTTPMiddleware times every request as a span and propagates the request
// id: honored from the inbound header, generated otherwise, and always
// echoed on the response.
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if rid := c.GetHeader(RequestIDHeader); rid != "" {
			ctx = WithRequestID(ctx, rid)
		}

		op := c.Request.Method + " " + c.FullPath()
		if c.FullPath() == "" {
			op = c.Request.Method + " " + c.Request.URL.Path
		}

		ctx, span := tracer.Start(ctx, op)
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, RequestID(ctx))

		c.Next()

		span.SetStatus(c.Writer.Status())
		if len(c.Errors) > 0 {
			span.Fail(c.Errors.Last())
		}
		span.End()
	}
}
