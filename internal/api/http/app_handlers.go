package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/webtop-os/webtop/internal/domain/registry"
	"github.com/webtop-os/webtop/internal/shared/types"
	"github.com/webtop-os/webtop/internal/shared/utils"
)

// ListApps handles listing registered applications. By default the list
// honors the active theme's visibility rules; ?all=true returns every
// registration.
func (h *Handlers) ListApps(c *gin.Context) {
	var apps []*types.AppDefinition
	if c.Query("all") == "true" {
		apps = h.apps.List()
	} else {
		apps = h.apps.ListVisible(h.instances.Settings().Theme)
	}

	c.JSON(http.StatusOK, gin.H{
		"apps":  apps,
		"stats": h.apps.Stats(),
	})
}

// GetApp handles a single application lookup.
func (h *Handlers) GetApp(c *gin.Context) {
	appID := c.Param("id")
	if err := utils.ValidateID(appID, "app_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, ok := h.apps.Get(appID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "app not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"app": app})
}

// InstallApp handles installing an applet package.
func (h *Handlers) InstallApp(c *gin.Context) {
	var req types.InstallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateID(req.Definition.ID, "app_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if existing, ok := h.apps.Get(req.Definition.ID); ok && existing.BundleUUID == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "cannot replace a built-in app"})
		return
	}

	stop := h.track("registry", "install")
	def, err := h.workspace.InstallApplet(c.Request.Context(), registry.Package{
		Definition: req.Definition,
		Blueprint:  req.Blueprint,
	}, req.Shortcut)
	stop(err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":  true,
		"app": def,
	})
}

// UninstallApp handles removing an installed applet and its shortcuts.
func (h *Handlers) UninstallApp(c *gin.Context) {
	appID := c.Param("id")
	if err := utils.ValidateID(appID, "app_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, ok := h.apps.Get(appID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "app not found"})
		return
	}
	if app.BundleUUID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "built-in apps cannot be uninstalled"})
		return
	}

	stop := h.track("registry", "uninstall")
	err := h.workspace.UninstallApplet(c.Request.Context(), appID)
	stop(err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"app_id": appID,
	})
}

// GetAppBundle handles downloading an installed applet's package.
func (h *Handlers) GetAppBundle(c *gin.Context) {
	appID := c.Param("id")
	if err := utils.ValidateID(appID, "app_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, ok := h.apps.Get(appID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "app not found"})
		return
	}

	pkg, err := h.workspace.AppletBundle(c.Request.Context(), appID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, pkg)
}
