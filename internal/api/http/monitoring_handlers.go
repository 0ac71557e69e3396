package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// MonitoringMetrics handles the JSON metrics summary. Prometheus scraping
// uses /metrics; this endpoint feeds the shell's system monitor applet.
func (h *Handlers) MonitoringMetrics(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metrics not enabled"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"timestamp": time.Now().UnixMilli(),
		"summary":   h.metrics.Summarize(),
	})
}

// MonitoringStats handles the full per-subsystem statistics snapshot.
func (h *Handlers) MonitoringStats(c *gin.Context) {
	contentStats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	stats := gin.H{
		"fs":        h.fs.Stats(),
		"content":   contentStats,
		"sources":   h.loader.SourceCount(),
		"instances": h.instances.Stats(),
		"registry":  h.apps.Stats(),
		"sessions":  h.sessions.Stats(),
	}
	if h.metrics != nil {
		stats["summary"] = h.metrics.Summarize()
	}

	c.JSON(http.StatusOK, stats)
}
