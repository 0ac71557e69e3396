package monitoring

import "time"

// Summary provides high-level metrics for the JSON monitoring API
type Summary struct {
	TotalRequests     int64   `json:"total_requests"`
	AverageLatencyMs  float64 `json:"average_latency_ms"`
	ErrorRate         float64 `json:"error_rate"`
	OpenWindows       int64   `json:"open_windows"`
	ActiveConnections int64   `json:"active_connections"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// Snapshot returns a copy of the current counters for the JSON API
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// Summarize computes the high-level view served by /monitoring/metrics
func (m *Metrics) Summarize() Summary {
	m.mu.RLock()
	snap := m.snapshot
	m.mu.RUnlock()

	s := Summary{
		TotalRequests:     snap.TotalRequests,
		OpenWindows:       snap.OpenWindows,
		ActiveConnections: snap.ActiveConnections,
		UptimeSeconds:     time.Since(m.startTime).Seconds(),
	}
	if snap.RequestCount > 0 {
		s.AverageLatencyMs = snap.TotalDuration / float64(snap.RequestCount) * 1000
		s.ErrorRate = float64(snap.TotalErrors) / float64(snap.RequestCount)
	}
	return s
}
