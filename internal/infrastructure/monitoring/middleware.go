package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware records one observation per request. Matched routes are
// labeled by their template; only unmatched requests carry the raw URL.
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		reqSize := c.Request.ContentLength
		if reqSize < 0 {
			reqSize = 0
		}

		c.Next()

		metrics.RecordHTTPRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
			reqSize,
			int64(c.Writer.Size()),
		)
	}
}

// Timer measures one operation from construction to Stop.
type Timer struct {
	start     time.Time
	metrics   *Metrics
	component string
	op        string
}

func NewTimer(metrics *Metrics, component, op string) *Timer {
	return &Timer{start: time.Now(), metrics: metrics, component: component, op: op}
}

// Stop records the elapsed time under the given status label.
func (t *Timer) Stop(status string) {
	t.metrics.RecordOp(t.component, t.op, status, time.Since(t.start))
}
