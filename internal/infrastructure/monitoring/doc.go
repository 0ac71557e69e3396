// Package monitoring collects the Prometheus metrics for the backend:
// HTTP traffic through the gin middleware, filesystem and content
// operation outcomes, lazy-fetch coalescing and cache hit rate, window
// lifecycle, session saves and restores, WebSocket connections, and
// process uptime. Every series carries the webtop_ prefix and registers
// through promauto on the default registry, so a process creates Metrics
// exactly once.
//
// Handlers time manager calls with NewTimer:
//
//	timer := monitoring.NewTimer(metrics, "content", "put")
//	// ... the call ...
//	timer.Stop("success")
//
// The scrape endpoint is the stock promhttp handler mounted on /metrics.
package monitoring
