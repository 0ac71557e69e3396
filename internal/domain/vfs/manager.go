package vfs

import (
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/infrastructure/events"
	"github.com/webtop-os/webtop/internal/infrastructure/logging"
	"github.com/webtop-os/webtop/internal/infrastructure/monitoring"
	"github.com/webtop-os/webtop/internal/shared/id"
	"github.com/webtop-os/webtop/internal/shared/paths"
	"github.com/webtop-os/webtop/internal/shared/types"
	"github.com/webtop-os/webtop/internal/shared/utils"
)

// Manager is the single source of truth for the path -> item map. All
// operations are fail-soft: an invalid call logs a warning and leaves the
// map untouched, because the shell must degrade to "nothing happened"
// rather than crash on inconsistent drag-and-drop input.
//
// Reads return deep copies; no caller ever holds a reference into the map.
type Manager struct {
	mu      sync.RWMutex
	items   map[string]*types.FileItem // Protected by mu
	library libraryState               // Protected by mu

	log     *logging.Logger
	metrics *monitoring.Metrics
	bus     *events.Bus
	saver   saveTrigger
}

// saveTrigger is the slice of persist.Saver the manager needs
type saveTrigger interface {
	Trigger()
	Flush()
	Close()
}

// NewManager creates an empty metadata store
func NewManager(log *logging.Logger) *Manager {
	return &Manager{
		items: make(map[string]*types.FileItem),
		log:   log.Component("vfs"),
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithBus attaches the event bus; events fire after each committed mutation
func (m *Manager) WithBus(bus *events.Bus) *Manager {
	m.bus = bus
	return m
}

// Add inserts an item, or merges when the path already holds an active
// record: UUID and CreatedAt survive, everything else comes from the new
// item. A trashed record at the path is overwritten entirely. Returns
// false without mutating when validation fails.
func (m *Manager) Add(item *types.FileItem) bool {
	if item == nil {
		m.log.Warn("add rejected: nil item")
		m.recordFS("add", "noop")
		return false
	}

	path := paths.Normalize(item.Path)
	if path == paths.Root || paths.IsVirtual(path) {
		m.log.Warn("add rejected: reserved path", zap.String("path", path))
		m.recordFS("add", "noop")
		return false
	}
	if err := utils.ValidatePath(path); err != nil {
		m.log.Warn("add rejected: invalid path", zap.String("path", item.Path), zap.Error(err))
		m.recordFS("add", "noop")
		return false
	}

	name := item.Name
	if name == "" {
		name = paths.Base(path)
	}
	if err := utils.ValidateName(name); err != nil {
		m.log.Warn("add rejected: invalid name", zap.String("name", name), zap.Error(err))
		m.recordFS("add", "noop")
		return false
	}

	m.mu.Lock()
	if !m.parentReady(path) {
		m.mu.Unlock()
		m.log.Warn("add rejected: parent missing or trashed", zap.String("path", path))
		m.recordFS("add", "noop")
		return false
	}

	now := types.NowMillis()
	next := item.Clone()
	next.Path = path
	next.Name = name
	next.Trash = nil

	if existing, ok := m.items[path]; ok && !existing.Trashed() {
		// Merge in place: identity fields survive the update.
		next.UUID = existing.UUID
		next.CreatedAt = existing.CreatedAt
		next.ModifiedAt = now
	} else {
		if next.CreatedAt == 0 {
			next.CreatedAt = now
		}
		if next.ModifiedAt == 0 {
			next.ModifiedAt = now
		}
	}

	if !next.IsDirectory && !next.IsAlias() && next.UUID == "" {
		next.UUID = id.NewContentID().String()
	}

	m.items[path] = next
	m.mu.Unlock()

	m.recordFS("add", "success")
	m.committed(types.EventFSChanged, map[string]interface{}{"path": path, "op": "add"})
	return true
}

// parentReady reports whether path's parent can take children. Must hold mu.
func (m *Manager) parentReady(path string) bool {
	parent := paths.Parent(path)
	if parent == paths.Root {
		return true
	}
	p, ok := m.items[parent]
	return ok && !p.Trashed() && p.IsDirectory
}

// Get returns a copy of the item at path
func (m *Manager) Get(path string) (*types.FileItem, bool) {
	path = paths.Normalize(path)

	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[path]
	if !ok {
		return nil, false
	}
	return item.Clone(), true
}

// Exists reports whether any record, active or trashed, holds path. A
// trashed item still occupies its key, so uniqueness checks see it.
func (m *Manager) Exists(path string) bool {
	path = paths.Normalize(path)

	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.items[path]
	return ok
}

// List returns the entries shown for a directory. Normal paths (and the
// root) list direct active children; /Trash lists every trashed item
// regardless of depth. Directories sort first, then names.
func (m *Manager) List(path string) []*types.FileItem {
	path = paths.Normalize(path)

	m.mu.RLock()
	var out []*types.FileItem
	if path == paths.Trash {
		for _, item := range m.items {
			if item.Trashed() {
				out = append(out, item.Clone())
			}
		}
	} else {
		for _, item := range m.items {
			if item.Trashed() {
				continue
			}
			if paths.Parent(item.Path) == path && item.Path != paths.Root {
				out = append(out, item.Clone())
			}
		}
	}
	m.mu.RUnlock()

	sortItems(out)
	return out
}

func sortItems(items []*types.FileItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].IsDirectory != items[j].IsDirectory {
			return items[i].IsDirectory
		}
		a, b := strings.ToLower(items[i].Name), strings.ToLower(items[j].Name)
		if a != b {
			return a < b
		}
		return items[i].Path < items[j].Path
	})
}

// Touch backfills Size and bumps ModifiedAt after a content write
func (m *Manager) Touch(path string, size int64) bool {
	path = paths.Normalize(path)

	m.mu.Lock()
	item, ok := m.items[path]
	if !ok || item.Trashed() {
		m.mu.Unlock()
		m.log.Warn("touch rejected: not an active item", zap.String("path", path))
		m.recordFS("touch", "noop")
		return false
	}
	item.Size = size
	item.ModifiedAt = types.NowMillis()
	m.mu.Unlock()

	m.recordFS("touch", "success")
	m.committed(types.EventFSChanged, map[string]interface{}{"path": path, "op": "touch"})
	return true
}

// Search matches active items against a doublestar glob, case-insensitive.
// Bare terms with no glob syntax match as substrings of the name.
func (m *Manager) Search(pattern string) []*types.FileItem {
	pattern = strings.ToLower(pattern)
	glob := strings.ContainsAny(pattern, "*?[{")

	m.mu.RLock()
	var out []*types.FileItem
	for _, item := range m.items {
		if item.Trashed() {
			continue
		}
		if glob {
			if ok, err := doublestar.Match(pattern, strings.ToLower(item.Path)); err == nil && ok {
				out = append(out, item.Clone())
			}
		} else if strings.Contains(strings.ToLower(item.Name), pattern) {
			out = append(out, item.Clone())
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Stats returns store counters
func (m *Manager) Stats() types.VFSStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stats types.VFSStats
	for _, item := range m.items {
		stats.TotalItems++
		if item.Trashed() {
			stats.TrashedItems++
		} else {
			stats.ActiveItems++
		}
		switch {
		case item.IsDirectory:
			stats.Directories++
		case item.IsAlias():
			stats.Aliases++
		default:
			stats.Files++
		}
	}
	return stats
}

// committed emits an event and schedules a save after a successful mutation
func (m *Manager) committed(t types.EventType, data map[string]interface{}) {
	if m.bus != nil {
		m.bus.Emit(types.NewEvent(t, data))
	}
	m.save()
	m.updateGauges()
}

func (m *Manager) save() {
	if m.saver != nil {
		m.saver.Trigger()
	}
}

func (m *Manager) recordFS(op, status string) {
	if m.metrics != nil {
		m.metrics.RecordFSOp(op, status)
	}
}

func (m *Manager) updateGauges() {
	if m.metrics == nil {
		return
	}
	m.mu.RLock()
	active, trashed := 0, 0
	for _, item := range m.items {
		if item.Trashed() {
			trashed++
		} else {
			active++
		}
	}
	m.mu.RUnlock()
	m.metrics.SetItemCounts(active, trashed)
}
