package http

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/webtop-os/webtop/internal/domain/workspace"
	"github.com/webtop-os/webtop/internal/shared/paths"
	"github.com/webtop-os/webtop/internal/shared/types"
	"github.com/webtop-os/webtop/internal/shared/utils"
)

// ListFiles handles directory listing.
func (h *Handlers) ListFiles(c *gin.Context) {
	path := c.DefaultQuery("path", paths.Root)
	if err := utils.ValidatePath(path); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := h.workspace.ListFiles(path)

	c.JSON(http.StatusOK, gin.H{
		"path":  paths.Normalize(path),
		"items": items,
		"count": len(items),
	})
}

// GetItem handles a single item lookup.
func (h *Handlers) GetItem(c *gin.Context) {
	path := c.Query("path")
	if err := utils.ValidatePath(path); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, ok := h.workspace.GetItem(path)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no item at " + path})
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// SearchFiles handles glob search across active files.
func (h *Handlers) SearchFiles(c *gin.Context) {
	pattern := c.Query("q")
	if pattern == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	items := h.workspace.SearchFiles(pattern)

	c.JSON(http.StatusOK, gin.H{
		"query": pattern,
		"items": items,
		"count": len(items),
	})
}

// OpenFile handles a double-click on a path.
func (h *Handlers) OpenFile(c *gin.Context) {
	var req struct {
		Path       string `json:"path" binding:"required"`
		InstanceID string `json:"instance_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.workspace.OpenFile(c.Request.Context(), req.InstanceID, req.Path)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// SaveFile handles writing file content and metadata in one operation.
func (h *Handlers) SaveFile(c *gin.Context) {
	var req types.SaveFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidatePath(req.Path); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if dest := paths.Normalize(req.Path); paths.IsVirtual(dest) ||
		paths.IsDescendant(paths.Applications, dest) || paths.IsDescendant(paths.Trash, dest) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot save under " + dest})
		return
	}

	data := []byte(req.Content)
	if req.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(req.Content)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "content is not valid base64"})
			return
		}
		data = decoded
	}
	if err := utils.ValidateContentSize(len(data)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.workspace.SaveFile(c.Request.Context(), req.Path, req.Name, data, req.Type)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"item": item,
	})
}

// CreateFolder handles directory creation.
func (h *Handlers) CreateFolder(c *gin.Context) {
	var req types.FolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateName(req.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, ok := h.workspace.CreateFolder(paths.Join(req.Path, req.Name))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"ok": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"item": item,
	})
}

// MoveFile handles moving an item into a destination directory.
func (h *Handlers) MoveFile(c *gin.Context) {
	var req types.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok := h.workspace.MoveFile(req.Source, req.Destination)

	c.JSON(http.StatusOK, gin.H{
		"ok":          ok,
		"source":      req.Source,
		"destination": req.Destination,
	})
}

// RenameFile handles renaming an item in place.
func (h *Handlers) RenameFile(c *gin.Context) {
	var req types.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateName(req.NewName); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newPath, ok := h.workspace.RenameFile(c.Request.Context(), req.Path, req.NewName)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"ok": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"path": newPath,
	})
}

// DuplicateFile handles copying a file next to itself.
func (h *Handlers) DuplicateFile(c *gin.Context) {
	var req types.PathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if item, ok := h.workspace.GetItem(req.Path); !ok || item.Trashed() {
		c.JSON(http.StatusNotFound, gin.H{"error": "no item at " + req.Path})
		return
	}

	item, err := h.workspace.Duplicate(c.Request.Context(), req.Path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"item": item,
	})
}

// TrashFile handles moving an item to the trash.
func (h *Handlers) TrashFile(c *gin.Context) {
	var req types.PathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok := h.workspace.MoveToTrash(c.Request.Context(), req.Path)

	c.JSON(http.StatusOK, gin.H{
		"ok":   ok,
		"path": req.Path,
	})
}

// RestoreFile handles restoring a trashed item to its original path.
func (h *Handlers) RestoreFile(c *gin.Context) {
	var req types.PathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok := h.workspace.RestoreFromTrash(c.Request.Context(), req.Path)

	c.JSON(http.StatusOK, gin.H{
		"ok":   ok,
		"path": req.Path,
	})
}

// DeleteFile handles permanent deletion, bypassing the trash.
func (h *Handlers) DeleteFile(c *gin.Context) {
	path := c.Query("path")
	if err := utils.ValidatePath(path); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok := h.workspace.DeletePermanently(c.Request.Context(), path)

	c.JSON(http.StatusOK, gin.H{
		"ok":   ok,
		"path": path,
	})
}

// EmptyTrash handles purging everything in the trash.
func (h *Handlers) EmptyTrash(c *gin.Context) {
	purged := h.workspace.EmptyTrash(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"purged": purged,
	})
}

// CreateAlias handles dropping a shortcut on the desktop.
func (h *Handlers) CreateAlias(c *gin.Context) {
	var req types.AliasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.AliasType == "" {
		req.AliasType = types.AliasFile
	}

	path, ok := h.workspace.CreateShortcut(req.Target, req.Name, req.AliasType)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"ok": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"path": path,
	})
}

// PreviewFile handles quick-look rendering of a file.
func (h *Handlers) PreviewFile(c *gin.Context) {
	path := c.Query("path")
	if err := utils.ValidatePath(path); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if item, ok := h.workspace.GetItem(path); !ok || item.Trashed() {
		c.JSON(http.StatusNotFound, gin.H{"error": "no item at " + path})
		return
	}

	preview, err := h.workspace.PreviewFile(c.Request.Context(), path)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, workspace.ErrNoPreview) {
			status = http.StatusUnsupportedMediaType
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, preview)
}

// FormatDesktop handles wiping the filesystem back to the default library.
func (h *Handlers) FormatDesktop(c *gin.Context) {
	stop := h.track("fs", "format")
	err := h.workspace.Format(c.Request.Context())
	stop(err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// FSStats handles the filesystem counters.
func (h *Handlers) FSStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stats": h.fs.Stats()})
}
