package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ShellLogEntry is one log line forwarded from the browser shell.
type ShellLogEntry struct {
	Level   string                 `json:"level"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context"`
	Time    string                 `json:"time"`
}

// ShellLogBatch is a batch of shell log lines.
type ShellLogBatch struct {
	Source  string          `json:"source" binding:"required"`
	Entries []ShellLogEntry `json:"entries" binding:"required"`
}

// StreamShellLogs handles log batches from the shell. Browser consoles
// vanish with the tab; routing them through the backend log keeps shell
// errors next to the server events that caused them.
func (h *Handlers) StreamShellLogs(c *gin.Context) {
	var req ShellLogBatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Source != "shell" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown log source"})
		return
	}
	if len(req.Entries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no log entries"})
		return
	}

	log := h.log.Component("shell")
	for _, entry := range req.Entries {
		fields := make([]zap.Field, 0, len(entry.Context)+1)
		if entry.Time != "" {
			fields = append(fields, zap.String("shell_time", entry.Time))
		}
		for key, value := range entry.Context {
			fields = append(fields, zap.Any(key, value))
		}

		switch entry.Level {
		case "error":
			log.Error(entry.Message, fields...)
		case "warn":
			log.Warn(entry.Message, fields...)
		case "debug":
			log.Debug(entry.Message, fields...)
		default:
			log.Info(entry.Message, fields...)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"received": len(req.Entries),
	})
}
