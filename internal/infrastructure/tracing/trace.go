package tracing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/shared/id"
)

type ctxKey struct{}

// WithRequestID stamps ctx with a request id.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKey{}, rid)
}

// RequestID returns the request id carried by ctx, or "".
func RequestID(ctx context.Context) string {
	rid, _ := ctx.Value(ctxKey{}).(string)
	return rid
}

// Tracer times operations and writes them to the log. Spans log at debug
// so production output stays quiet; the request middleware owns the info
// level line.
type Tracer struct {
	service string
	log     *zap.Logger
}

// New creates a tracer for the named service.
func New(service string, log *zap.Logger) *Tracer {
	return &Tracer{service: service, log: log}
}

// Span is one timed operation.
type Span struct {
	tracer *Tracer
	op     string
	rid    string
	begin  time.Time
	status int
	err    error
}

// Start opens a span for op. The returned context carries the request id,
// newly generated when ctx has none.
func (t *Tracer) Start(ctx context.Context, op string) (context.Context, *Span) {
	rid := RequestID(ctx)
	if rid == "" {
		rid = id.NewRequestID()
		ctx = WithRequestID(ctx, rid)
	}
	return ctx, &Span{
		tracer: t,
		op:     op,
		rid:    rid,
		begin:  time.Now(),
	}
}

// SetStatus records the HTTP status the operation resolved to.
func (s *Span) SetStatus(code int) {
	s.status = code
}

// Fail marks the span failed.
func (s *Span) Fail(err error) {
	s.err = err
}

// End closes the span and writes it out.
func (s *Span) End() {
	fields := []zap.Field{
		zap.String("service", s.tracer.service),
		zap.String("request_id", s.rid),
		zap.String("op", s.op),
		zap.Duration("duration", time.Since(s.begin)),
	}
	if s.status != 0 {
		fields = append(fields, zap.Int("status", s.status))
	}

	if s.err != nil {
		s.tracer.log.Warn("span failed", append(fields, zap.Error(s.err))...)
		return
	}
	s.tracer.log.Debug("span", fields...)
}
