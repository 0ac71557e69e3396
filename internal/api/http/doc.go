// Package http provides the REST handlers and routing for the webtop API.
//
// This package implements all HTTP endpoints using the Gin framework:
// filesystem operations, window instances, per-window workspaces, the app
// registry, sessions, settings, wallpapers, raw content, and monitoring.
//
// Endpoints:
//   - Health: / and /health
//   - Filesystem: /fs/list, /fs/open, /fs/save, /fs/trash, /fs/preview, ...
//   - Workspaces: /workspaces/:id, /workspaces/:id/navigate, ...
//   - Instances: /instances, /instances/:id/focus, /instances/:id/geometry, ...
//   - Apps: /apps, /apps/install, /apps/:id/bundle
//   - Sessions: /sessions/save, /sessions/:id/restore
//   - Settings: /settings, /wallpapers
//   - Content: /content/:bucket/:uuid, /content/export
//   - Monitoring: /monitoring/metrics, /monitoring/stats, /logs
//
// Conventions:
//   - Validation failures return 4xx with {"error": message}
//   - Storage and I/O failures return 5xx with {"error": message}
//   - Fail-soft manager no-ops return 200 with {"ok": false}
//
// Example Usage:
//
//	handlers := http.NewHandlers(workspace, instances, sessions, apps, store, loader, fs, log)
//	handlers.Routes(router)
package http
