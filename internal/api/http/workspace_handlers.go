package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/webtop-os/webtop/internal/shared/types"
	"github.com/webtop-os/webtop/internal/shared/utils"
)

// WorkspaceState handles reading a window's navigation state.
func (h *Handlers) WorkspaceState(c *gin.Context) {
	iid := c.Param("id")
	if err := utils.ValidateID(iid, "instance_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, ok := h.workspace.State(iid)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no workspace for instance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":       state,
		"can_back":    h.workspace.CanGoBack(iid),
		"can_forward": h.workspace.CanGoForward(iid),
	})
}

// WorkspaceNavigate handles moving a window into a directory.
func (h *Handlers) WorkspaceNavigate(c *gin.Context) {
	iid := c.Param("id")
	if err := utils.ValidateID(iid, "instance_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req types.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, ok := h.workspace.NavigateTo(iid, req.Path)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"ok": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"state": state,
	})
}

// WorkspaceBack handles history navigation backwards.
func (h *Handlers) WorkspaceBack(c *gin.Context) {
	h.workspaceStep(c, h.workspace.Back)
}

// WorkspaceForward handles history navigation forwards.
func (h *Handlers) WorkspaceForward(c *gin.Context) {
	h.workspaceStep(c, h.workspace.Forward)
}

func (h *Handlers) workspaceStep(c *gin.Context, step func(string) (types.WorkspaceState, bool)) {
	iid := c.Param("id")
	if err := utils.ValidateID(iid, "instance_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, ok := step(iid)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"ok": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"state": state,
	})
}

// WorkspaceSelect handles marking an item selected in a window. An
// empty path clears the selection.
func (h *Handlers) WorkspaceSelect(c *gin.Context) {
	iid := c.Param("id")
	if err := utils.ValidateID(iid, "instance_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Path string `json:"path"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, ok := h.workspace.Select(iid, req.Path)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"ok": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"state": state,
	})
}
