package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Component operation metrics
	OpCalls    *prometheus.CounterVec
	OpDuration *prometheus.HistogramVec

	// Filesystem metrics
	FSOps        *prometheus.CounterVec
	ItemsActive  prometheus.Gauge
	ItemsTrashed prometheus.Gauge

	// Content metrics
	ContentOps     *prometheus.CounterVec
	ContentFetches *prometheus.CounterVec
	FetchCoalesced prometheus.Counter
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter

	// Window metrics
	WindowsOpen        prometheus.Gauge
	WindowsTotal       prometheus.Counter
	ForegroundSwitches prometheus.Counter

	// Session metrics
	SessionsSaved    prometheus.Counter
	SessionsRestored prometheus.Counter

	// Registry metrics
	RegistryApps prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests     int64
	TotalErrors       int64
	OpenWindows       int64
	ActiveConnections int64
	TotalDuration     float64 // sum of all request durations
	RequestCount      int64   // count for averaging
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webtop_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webtop_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webtop_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webtop_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// Component operation metrics
		OpCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webtop_component_calls_total",
				Help: "Total component operations",
			},
			[]string{"component", "op", "status"},
		),
		OpDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webtop_component_duration_seconds",
				Help:    "Component operation duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"component", "op"},
		),

		// Filesystem metrics
		FSOps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webtop_fs_operations_total",
				Help: "Total filesystem operations by outcome",
			},
			[]string{"op", "status"},
		),
		ItemsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "webtop_fs_items_active",
				Help: "Number of active filesystem items",
			},
		),
		ItemsTrashed: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "webtop_fs_items_trashed",
				Help: "Number of trashed filesystem items",
			},
		),

		// Content metrics
		ContentOps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webtop_content_operations_total",
				Help: "Total content store operations",
			},
			[]string{"bucket", "op", "status"},
		),
		ContentFetches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webtop_content_fetches_total",
				Help: "Total lazy content fetches by source",
			},
			[]string{"source", "status"},
		),
		FetchCoalesced: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "webtop_content_fetches_coalesced_total",
				Help: "Fetch calls that joined an in-flight fetch for the same uuid",
			},
		),
		CacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "webtop_content_cache_hits_total",
				Help: "Content cache hits",
			},
		),
		CacheMisses: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "webtop_content_cache_misses_total",
				Help: "Content cache misses",
			},
		),

		// Window metrics
		WindowsOpen: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "webtop_windows_open",
				Help: "Number of open windows",
			},
		),
		WindowsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "webtop_windows_total",
				Help: "Total windows created",
			},
		),
		ForegroundSwitches: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "webtop_foreground_switches_total",
				Help: "Total foreground focus changes",
			},
		),

		// Session metrics
		SessionsSaved: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "webtop_sessions_saved_total",
				Help: "Total number of sessions saved",
			},
		),
		SessionsRestored: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "webtop_sessions_restored_total",
				Help: "Total number of sessions restored",
			},
		),

		// Registry metrics
		RegistryApps: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "webtop_registry_apps",
				Help: "Number of registered applications",
			},
		),

		// WebSocket metrics
		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "webtop_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webtop_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),

		// System metrics
		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "webtop_uptime_seconds",
				Help: "Backend uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordOp records one component operation with its duration
func (m *Metrics) RecordOp(component, op, status string, duration time.Duration) {
	m.OpCalls.WithLabelValues(component, op, status).Inc()
	m.OpDuration.WithLabelValues(component, op).Observe(duration.Seconds())
}

// RecordFSOp records a filesystem operation outcome (ok, noop, error)
func (m *Metrics) RecordFSOp(op, status string) {
	m.FSOps.WithLabelValues(op, status).Inc()
}

// SetItemCounts updates the active/trashed item gauges
func (m *Metrics) SetItemCounts(active, trashed int) {
	m.ItemsActive.Set(float64(active))
	m.ItemsTrashed.Set(float64(trashed))
}

// RecordContentOp records a content store operation
func (m *Metrics) RecordContentOp(bucket, op, status string) {
	m.ContentOps.WithLabelValues(bucket, op, status).Inc()
}

// RecordContentFetch records a lazy content fetch (source: local, remote, shared)
func (m *Metrics) RecordContentFetch(source, status string) {
	m.ContentFetches.WithLabelValues(source, status).Inc()
}

// IncFetchCoalesced counts a caller that joined an in-flight fetch
func (m *Metrics) IncFetchCoalesced() {
	m.FetchCoalesced.Inc()
}

// RecordCacheHit counts a content cache hit or miss
func (m *Metrics) RecordCacheHit(hit bool) {
	if hit {
		m.CacheHits.Inc()
	} else {
		m.CacheMisses.Inc()
	}
}

// SetWindowsOpen sets the number of open windows
func (m *Metrics) SetWindowsOpen(count int) {
	m.WindowsOpen.Set(float64(count))
	m.mu.Lock()
	m.snapshot.OpenWindows = int64(count)
	m.mu.Unlock()
}

// IncWindowsTotal increments the created-windows counter
func (m *Metrics) IncWindowsTotal() {
	m.WindowsTotal.Inc()
}

// IncForegroundSwitches counts a focus change
func (m *Metrics) IncForegroundSwitches() {
	m.ForegroundSwitches.Inc()
}

// IncSessionsSaved increments the sessions saved counter
func (m *Metrics) IncSessionsSaved() {
	m.SessionsSaved.Inc()
}

// IncSessionsRestored increments the sessions restored counter
func (m *Metrics) IncSessionsRestored() {
	m.SessionsRestored.Inc()
}

// SetRegistryApps sets the number of registered applications
func (m *Metrics) SetRegistryApps(count int) {
	m.RegistryApps.Set(float64(count))
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}
