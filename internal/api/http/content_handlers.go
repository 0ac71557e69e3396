package http

import (
	"fmt"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/shared/types"
	"github.com/webtop-os/webtop/internal/shared/utils"
)

// GetContent handles serving raw content bytes by bucket and UUID. Cold
// entries are hydrated from their registered source before serving.
func (h *Handlers) GetContent(c *gin.Context) {
	bucket := types.Bucket(c.Param("bucket"))
	if !bucket.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown bucket %q", c.Param("bucket"))})
		return
	}
	uuid := c.Param("uuid")
	if err := utils.ValidateID(uuid, "uuid", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, ok, err := h.loader.EnsureLoaded(c.Request.Context(), bucket, uuid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", entry.Name))
	c.Data(http.StatusOK, mimetype.Detect(entry.Content).String(), entry.Content)
}

// ExportContent handles streaming every bucket as a gzipped tarball.
func (h *Handlers) ExportContent(c *gin.Context) {
	c.Header("Content-Type", "application/gzip")
	c.Header("Content-Disposition", `attachment; filename="webtop-content.tar.gz"`)

	stop := h.track("content", "export")
	err := h.store.Export(c.Request.Context(), c.Writer)
	stop(err)
	if err != nil {
		// Headers are already on the wire; all we can do is cut the
		// stream so the client sees a truncated archive.
		h.log.Error("Content export failed", zap.Error(err))
		c.Abort()
		return
	}
	c.Status(http.StatusOK)
}

// ContentStats handles per-bucket entry counts.
func (h *Handlers) ContentStats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
