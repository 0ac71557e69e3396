package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/webtop-os/webtop/internal/domain/content"
	"github.com/webtop-os/webtop/internal/domain/instance"
	"github.com/webtop-os/webtop/internal/domain/registry"
	"github.com/webtop-os/webtop/internal/domain/session"
	"github.com/webtop-os/webtop/internal/domain/vfs"
	"github.com/webtop-os/webtop/internal/domain/workspace"
	"github.com/webtop-os/webtop/internal/infrastructure/logging"
	"github.com/webtop-os/webtop/internal/infrastructure/monitoring"
)

// Handlers contains all HTTP handlers. Mutations route through the
// workspace facade and the instance manager; the stores underneath are
// exposed read-only for stats and raw content.
type Handlers struct {
	workspace *workspace.Manager
	instances *instance.Manager
	sessions  *session.Manager
	apps      *registry.Manager
	store     *content.Store
	loader    *content.Loader
	fs        *vfs.Manager
	metrics   *monitoring.Metrics
	log       *logging.Logger
}

// NewHandlers creates a new handler set.
func NewHandlers(
	ws *workspace.Manager,
	instances *instance.Manager,
	sessions *session.Manager,
	apps *registry.Manager,
	store *content.Store,
	loader *content.Loader,
	fs *vfs.Manager,
	log *logging.Logger,
) *Handlers {
	return &Handlers{
		workspace: ws,
		instances: instances,
		sessions:  sessions,
		apps:      apps,
		store:     store,
		loader:    loader,
		fs:        fs,
		log:       log.Component("api"),
	}
}

// WithMetrics enables the JSON monitoring endpoints.
func (h *Handlers) WithMetrics(metrics *monitoring.Metrics) *Handlers {
	h.metrics = metrics
	return h
}

// Root handles the service banner.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "webtop",
		"version": "0.3.0",
	})
}

// Health handles the detailed health check.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"fs":        h.fs.Stats(),
		"instances": h.instances.Stats(),
		"registry":  h.apps.Stats(),
		"sessions":  h.sessions.Stats(),
	})
}
