package registry

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/infrastructure/logging"
	"github.com/webtop-os/webtop/internal/infrastructure/monitoring"
	"github.com/webtop-os/webtop/internal/shared/types"
	"github.com/webtop-os/webtop/internal/shared/utils"
)

// ErrNilDefinition rejects a nil app registration.
var ErrNilDefinition = errors.New("nil app definition")

// Manager holds every application the desktop can launch, built-ins and
// installed applets alike. The window manager resolves launch requests
// here; the /Applications listing is synthesized from this map.
type Manager struct {
	mu   sync.RWMutex
	apps map[string]*types.AppDefinition

	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewManager creates an empty registry
func NewManager(log *logging.Logger) *Manager {
	return &Manager{
		apps: make(map[string]*types.AppDefinition),
		log:  log.Component("registry"),
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Register validates and stores an app definition, replacing any previous
// definition with the same id.
func (m *Manager) Register(def *types.AppDefinition) error {
	if def == nil {
		return ErrNilDefinition
	}
	if err := utils.ValidateID(def.ID, "app id", true); err != nil {
		return err
	}
	if err := utils.ValidateString(def.Name, "app name", 1, utils.MaxNameLength, true); err != nil {
		return err
	}

	next := def.Clone()
	if next.DefaultSize.Width <= 0 || next.DefaultSize.Height <= 0 {
		next.DefaultSize = types.Size{Width: 800, Height: 600}
	}
	if next.Icon == "" {
		next.Icon = next.ID
	}

	m.mu.Lock()
	m.apps[next.ID] = next
	count := len(m.apps)
	m.mu.Unlock()

	m.log.Debug("App registered", zap.String("app_id", next.ID), zap.String("name", next.Name))
	if m.metrics != nil {
		m.metrics.SetRegistryApps(count)
	}
	return nil
}

// Unregister removes an app. Only installed applets come out; built-ins
// have no bundle and stay for the life of the process.
func (m *Manager) Unregister(id string) bool {
	m.mu.Lock()
	app, ok := m.apps[id]
	if !ok || app.BundleUUID == "" {
		m.mu.Unlock()
		m.log.Warn("unregister rejected", zap.String("app_id", id), zap.Bool("found", ok))
		return false
	}
	delete(m.apps, id)
	count := len(m.apps)
	m.mu.Unlock()

	m.log.Info("App unregistered", zap.String("app_id", id))
	if m.metrics != nil {
		m.metrics.SetRegistryApps(count)
	}
	return true
}

// Get returns a copy of one app definition
func (m *Manager) Get(id string) (*types.AppDefinition, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	app, ok := m.apps[id]
	if !ok {
		return nil, false
	}
	return app.Clone(), true
}

// Exists reports whether an app id is registered
func (m *Manager) Exists(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.apps[id]
	return ok
}

// List returns every registered app sorted by name
func (m *Manager) List() []*types.AppDefinition {
	m.mu.RLock()
	out := make([]*types.AppDefinition, 0, len(m.apps))
	for _, app := range m.apps {
		out = append(out, app.Clone())
	}
	m.mu.RUnlock()

	sortApps(out)
	return out
}

// ListVisible returns the apps shown on the given theme. An app naming the
// theme in HiddenOnThemes is filtered out; an empty theme shows everything.
func (m *Manager) ListVisible(theme string) []*types.AppDefinition {
	m.mu.RLock()
	out := make([]*types.AppDefinition, 0, len(m.apps))
	for _, app := range m.apps {
		if hiddenOn(app, theme) {
			continue
		}
		out = append(out, app.Clone())
	}
	m.mu.RUnlock()

	sortApps(out)
	return out
}

func hiddenOn(app *types.AppDefinition, theme string) bool {
	if theme == "" {
		return false
	}
	for _, t := range app.HiddenOnThemes {
		if t == theme {
			return true
		}
	}
	return false
}

func sortApps(apps []*types.AppDefinition) {
	sort.Slice(apps, func(i, j int) bool {
		a, b := strings.ToLower(apps[i].Name), strings.ToLower(apps[j].Name)
		if a != b {
			return a < b
		}
		return apps[i].ID < apps[j].ID
	})
}

// Count returns the number of registered apps
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.apps)
}

// Stats returns registry counters
func (m *Manager) Stats() types.RegistryStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := types.RegistryStats{Categories: make(map[string]int)}
	for _, app := range m.apps {
		stats.TotalApps++
		if app.BundleUUID != "" {
			stats.Installed++
		}
		if app.Category != "" {
			stats.Categories[app.Category]++
		}
	}
	return stats
}
