package workspace

import (
	"github.com/webtop-os/webtop/internal/domain/content"
	"github.com/webtop-os/webtop/internal/domain/instance"
	"github.com/webtop-os/webtop/internal/domain/registry"
	"github.com/webtop-os/webtop/internal/domain/vfs"
	"github.com/webtop-os/webtop/internal/infrastructure/events"
	"github.com/webtop-os/webtop/internal/infrastructure/logging"
	"github.com/webtop-os/webtop/internal/infrastructure/monitoring"
	"github.com/webtop-os/webtop/internal/shared/paths"
	"github.com/webtop-os/webtop/internal/shared/types"
)

// Deps are the stores and managers the facade orchestrates.
type Deps struct {
	FS        *vfs.Manager
	Content   *content.Store
	Loader    *content.Loader
	Registry  *registry.Manager
	Seeder    *registry.Seeder
	Instances *instance.Manager
}

// Manager is the file workspace facade: every shell file operation comes
// through here, and this layer keeps metadata, content payloads, the app
// registry, and window instances consistent with each other. Navigation
// state lives on the window instances; the individual stores stay
// ignorant of one another.
type Manager struct {
	fs        *vfs.Manager
	content   *content.Store
	loader    *content.Loader
	registry  *registry.Manager
	seeder    *registry.Seeder
	instances *instance.Manager

	bus     *events.Bus
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewManager creates the facade over its backing stores
func NewManager(deps Deps, log *logging.Logger) *Manager {
	return &Manager{
		fs:        deps.FS,
		content:   deps.Content,
		loader:    deps.Loader,
		registry:  deps.Registry,
		seeder:    deps.Seeder,
		instances: deps.Instances,
		log:       log.Component("workspace"),
	}
}

// WithMetrics adds metrics tracking to the facade
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithBus attaches the event bus
func (m *Manager) WithBus(bus *events.Bus) *Manager {
	m.bus = bus
	return m
}

// theme returns the active desktop theme.
func (m *Manager) theme() string {
	return m.instances.Settings().Theme
}

// ListFiles returns the entries the shell shows for a directory.
// /Applications is synthesized from the app registry and /Trash from the
// soft-deleted items; everything else lists the metadata store. Entries
// hidden on the active theme are dropped.
func (m *Manager) ListFiles(path string) []*types.FileItem {
	path = paths.Normalize(path)
	theme := m.theme()

	if path == paths.Applications {
		apps := m.registry.ListVisible(theme)
		out := make([]*types.FileItem, 0, len(apps))
		for _, app := range apps {
			out = append(out, appItem(app))
		}
		return out
	}

	items := m.fs.List(path)
	out := items[:0]
	for _, item := range items {
		if hiddenOn(item, theme) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// SearchFiles matches active items by glob or name substring, with
// theme-hidden entries dropped.
func (m *Manager) SearchFiles(pattern string) []*types.FileItem {
	theme := m.theme()
	items := m.fs.Search(pattern)
	out := items[:0]
	for _, item := range items {
		if hiddenOn(item, theme) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// GetItem returns the metadata record at path. Paths under /Applications
// resolve against the registry.
func (m *Manager) GetItem(path string) (*types.FileItem, bool) {
	path = paths.Normalize(path)
	if paths.Parent(path) == paths.Applications {
		app, ok := m.registry.Get(paths.Base(path))
		if !ok {
			return nil, false
		}
		return appItem(app), true
	}
	return m.fs.Get(path)
}

func hiddenOn(item *types.FileItem, theme string) bool {
	for _, t := range item.HiddenOnThemes {
		if t == theme {
			return true
		}
	}
	return false
}

// appItem renders an app definition as a filesystem entry under
// /Applications.
func appItem(app *types.AppDefinition) *types.FileItem {
	return &types.FileItem{
		Path:  paths.Join(paths.Applications, app.ID),
		Name:  app.Name,
		Type:  types.TypeApplication,
		AppID: app.ID,
		Icon:  app.Icon,
	}
}

func (m *Manager) emit(t types.EventType, data map[string]interface{}) {
	if m.bus != nil {
		m.bus.Emit(types.NewEvent(t, data))
	}
}
