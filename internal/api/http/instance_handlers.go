package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/webtop-os/webtop/internal/domain/instance"
	"github.com/webtop-os/webtop/internal/shared/types"
	"github.com/webtop-os/webtop/internal/shared/utils"
)

// ListInstances handles listing open windows in z-order.
func (h *Handlers) ListInstances(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"instances": h.instances.List(),
		"stats":     h.instances.Stats(),
	})
}

// GetInstance handles a single window lookup.
func (h *Handlers) GetInstance(c *gin.Context) {
	iid := c.Param("id")
	if err := utils.ValidateID(iid, "instance_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inst, ok := h.instances.Get(iid)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "instance not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"instance": inst})
}

// LaunchInstance handles opening an application window.
func (h *Handlers) LaunchInstance(c *gin.Context) {
	var req types.LaunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateID(req.AppID, "app_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inst, err := h.instances.Launch(req.AppID, instance.CreateOptions{
		Title:       req.Title,
		InitialData: req.InitialData,
		Position:    req.Position,
		Size:        req.Size,
		MultiWindow: req.MultiWindow,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"instance": inst,
	})
}

// CloseInstance handles closing a window.
func (h *Handlers) CloseInstance(c *gin.Context) {
	iid := c.Param("id")
	if err := utils.ValidateID(iid, "instance_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok := h.instances.Close(iid)

	c.JSON(http.StatusOK, gin.H{
		"ok":          ok,
		"instance_id": iid,
	})
}

// FocusInstance handles bringing a window to the foreground.
func (h *Handlers) FocusInstance(c *gin.Context) {
	iid := c.Param("id")
	if err := utils.ValidateID(iid, "instance_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok := h.instances.Focus(iid)

	c.JSON(http.StatusOK, gin.H{
		"ok":          ok,
		"instance_id": iid,
	})
}

// BlurInstances handles clearing the foreground, as clicking the desktop
// does.
func (h *Handlers) BlurInstances(c *gin.Context) {
	h.instances.Blur()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// MinimizeInstance handles hiding a window to the dock.
func (h *Handlers) MinimizeInstance(c *gin.Context) {
	iid := c.Param("id")
	if err := utils.ValidateID(iid, "instance_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok := h.instances.Minimize(iid)

	c.JSON(http.StatusOK, gin.H{
		"ok":          ok,
		"instance_id": iid,
	})
}

// RestoreInstance handles bringing a minimized window back.
func (h *Handlers) RestoreInstance(c *gin.Context) {
	iid := c.Param("id")
	if err := utils.ValidateID(iid, "instance_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok := h.instances.Restore(iid)

	c.JSON(http.StatusOK, gin.H{
		"ok":          ok,
		"instance_id": iid,
	})
}

// MarkInstanceLoaded handles a lazy app reporting its blueprint ready.
func (h *Handlers) MarkInstanceLoaded(c *gin.Context) {
	iid := c.Param("id")
	if err := utils.ValidateID(iid, "instance_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok := h.instances.MarkLoaded(iid)

	c.JSON(http.StatusOK, gin.H{
		"ok":          ok,
		"instance_id": iid,
	})
}

// SetInstanceGeometry handles window move and resize.
func (h *Handlers) SetInstanceGeometry(c *gin.Context) {
	iid := c.Param("id")
	if err := utils.ValidateID(iid, "instance_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req types.GeometryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Position == nil && req.Size == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "position or size is required"})
		return
	}

	ok := h.instances.SetGeometry(iid, req.Position, req.Size)

	c.JSON(http.StatusOK, gin.H{
		"ok":          ok,
		"instance_id": iid,
	})
}

// SetInstanceTitle handles renaming a window.
func (h *Handlers) SetInstanceTitle(c *gin.Context) {
	iid := c.Param("id")
	if err := utils.ValidateID(iid, "instance_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok := h.instances.SetTitle(iid, req.Title)

	c.JSON(http.StatusOK, gin.H{
		"ok":          ok,
		"instance_id": iid,
	})
}
