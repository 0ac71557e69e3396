package http

import (
	"github.com/webtop-os/webtop/internal/infrastructure/monitoring"
)

// track times a manager operation behind a handler and records it under
// component/op. The returned stop takes the operation's error so slow
// failures and slow successes are distinguishable. No-op without metrics.
func (h *Handlers) track(component, op string) func(err error) {
	if h.metrics == nil {
		return func(error) {}
	}
	timer := monitoring.NewTimer(h.metrics, component, op)
	return func(err error) {
		status := "success"
		if err != nil {
			status = "error"
		}
		timer.Stop(status)
	}
}
