package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/webtop-os/webtop/internal/domain/instance"
	"github.com/webtop-os/webtop/internal/shared/types"
	"github.com/webtop-os/webtop/internal/shared/utils"
)

// GetSettings handles reading the desktop settings.
func (h *Handlers) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": h.instances.Settings()})
}

// UpdateSettings handles a partial settings update. Absent fields keep
// their current values; an explicit empty dock_pins clears the dock.
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var req types.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := instance.SettingsPatch{
		Theme:       req.Theme,
		Wallpaper:   req.Wallpaper,
		AccentColor: req.AccentColor,
		Compact:     req.Compact,
	}
	if req.DockPins != nil {
		patch.DockPins = &req.DockPins
	}

	settings, err := h.instances.UpdateSettings(patch)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"settings": settings,
	})
}

// ListWallpapers handles listing uploaded wallpapers.
func (h *Handlers) ListWallpapers(c *gin.Context) {
	wallpapers, err := h.workspace.ListWallpapers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallpapers": wallpapers,
		"count":      len(wallpapers),
	})
}

// UploadWallpaper handles a multipart wallpaper upload. The payload must
// be an image; the name falls back to the uploaded filename.
func (h *Handlers) UploadWallpaper(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if err := utils.ValidateContentSize(int(file.Size)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = file.Filename
	}

	wallpaper, err := h.workspace.UploadWallpaper(c.Request.Context(), name, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"wallpaper": wallpaper,
	})
}

// DeleteWallpaper handles removing an uploaded wallpaper.
func (h *Handlers) DeleteWallpaper(c *gin.Context) {
	uuid := c.Param("uuid")
	if err := utils.ValidateID(uuid, "uuid", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exists, err := h.store.Exists(c.Request.Context(), types.BucketWallpapers, uuid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "wallpaper not found"})
		return
	}

	if err := h.workspace.DeleteWallpaper(c.Request.Context(), uuid); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"uuid": uuid,
	})
}
