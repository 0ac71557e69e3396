package http

import (
	"github.com/gin-gonic/gin"
)

// Routes registers every REST endpoint on r. The WebSocket stream and the
// Prometheus scrape endpoint are wired by the server, which owns those
// handlers.
func (h *Handlers) Routes(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	// Filesystem
	fs := r.Group("/fs")
	fs.GET("/list", h.ListFiles)
	fs.GET("/item", h.GetItem)
	fs.DELETE("/item", h.DeleteFile)
	fs.GET("/search", h.SearchFiles)
	fs.POST("/open", h.OpenFile)
	fs.POST("/save", h.SaveFile)
	fs.POST("/folder", h.CreateFolder)
	fs.POST("/move", h.MoveFile)
	fs.POST("/rename", h.RenameFile)
	fs.POST("/duplicate", h.DuplicateFile)
	fs.POST("/trash", h.TrashFile)
	fs.POST("/restore", h.RestoreFile)
	fs.POST("/trash/empty", h.EmptyTrash)
	fs.POST("/alias", h.CreateAlias)
	fs.GET("/preview", h.PreviewFile)
	fs.POST("/format", h.FormatDesktop)
	fs.GET("/stats", h.FSStats)

	// Per-window workspaces
	workspaces := r.Group("/workspaces")
	workspaces.GET("/:id", h.WorkspaceState)
	workspaces.POST("/:id/navigate", h.WorkspaceNavigate)
	workspaces.POST("/:id/back", h.WorkspaceBack)
	workspaces.POST("/:id/forward", h.WorkspaceForward)
	workspaces.POST("/:id/select", h.WorkspaceSelect)

	// Window instances
	instances := r.Group("/instances")
	instances.GET("", h.ListInstances)
	instances.POST("", h.LaunchInstance)
	instances.POST("/blur", h.BlurInstances)
	instances.GET("/:id", h.GetInstance)
	instances.DELETE("/:id", h.CloseInstance)
	instances.POST("/:id/focus", h.FocusInstance)
	instances.POST("/:id/minimize", h.MinimizeInstance)
	instances.POST("/:id/restore", h.RestoreInstance)
	instances.POST("/:id/loaded", h.MarkInstanceLoaded)
	instances.PUT("/:id/geometry", h.SetInstanceGeometry)
	instances.PUT("/:id/title", h.SetInstanceTitle)

	// App registry
	apps := r.Group("/apps")
	apps.GET("", h.ListApps)
	apps.POST("/install", h.InstallApp)
	apps.GET("/:id", h.GetApp)
	apps.DELETE("/:id", h.UninstallApp)
	apps.GET("/:id/bundle", h.GetAppBundle)

	// Sessions
	sessions := r.Group("/sessions")
	sessions.POST("/save", h.SaveSession)
	sessions.GET("", h.ListSessions)
	sessions.GET("/:id", h.GetSession)
	sessions.POST("/:id/restore", h.RestoreSession)
	sessions.DELETE("/:id", h.DeleteSession)

	// Settings and wallpapers
	r.GET("/settings", h.GetSettings)
	r.PUT("/settings", h.UpdateSettings)
	wallpapers := r.Group("/wallpapers")
	wallpapers.GET("", h.ListWallpapers)
	wallpapers.POST("", h.UploadWallpaper)
	wallpapers.DELETE("/:uuid", h.DeleteWallpaper)

	// Raw content
	content := r.Group("/content")
	content.GET("/export", h.ExportContent)
	content.GET("/stats", h.ContentStats)
	content.GET("/:bucket/:uuid", h.GetContent)

	// Shell log sink
	r.POST("/logs", h.StreamShellLogs)

	// Monitoring JSON API
	monitoring := r.Group("/monitoring")
	monitoring.GET("/metrics", h.MonitoringMetrics)
	monitoring.GET("/stats", h.MonitoringStats)
}
