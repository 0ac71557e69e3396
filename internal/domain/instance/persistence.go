package instance

import (
	"time"

	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/infrastructure/persist"
	"github.com/webtop-os/webtop/internal/shared/id"
	"github.com/webtop-os/webtop/internal/shared/types"
)

const (
	stateFile    = "ui"
	stateVersion = 3
)

// uiSnapshot is the persisted shape of the window manager plus the user's
// desktop settings, which ride in the same blob.
type uiSnapshot struct {
	Instances      map[string]*types.Instance `json:"instances"`
	InstanceOrder  []string                   `json:"instance_order"`
	ForegroundID   string                     `json:"foreground_instance_id,omitempty"`
	NextInstanceID int64                      `json:"next_instance_id"`
	Settings       types.Settings             `json:"settings"`
}

// uiMigrations upgrades older ui blobs one version at a time.
//
// v1 predates the app/instance split and used window_* key names.
// v2 kept desktop settings as loose top-level fields.
var uiMigrations = map[int]persist.Migration{
	1: func(state map[string]interface{}) (map[string]interface{}, error) {
		renames := [][2]string{
			{"apps", "instances"},
			{"window_order", "instance_order"},
			{"focused_app_id", "foreground_instance_id"},
			{"next_window_id", "next_instance_id"},
		}
		for _, r := range renames {
			if v, ok := state[r[0]]; ok {
				state[r[1]] = v
				delete(state, r[0])
			}
		}
		return state, nil
	},
	2: func(state map[string]interface{}) (map[string]interface{}, error) {
		settings := map[string]interface{}{}
		for _, key := range []string{"theme", "wallpaper", "accent_color", "dock_pins", "compact"} {
			if v, ok := state[key]; ok {
				settings[key] = v
				delete(state, key)
			}
		}
		if len(settings) > 0 {
			state["settings"] = settings
		}
		return state, nil
	},
}

// EnablePersistence loads the saved window table and settings from store
// and schedules debounced saves after every mutation. An unreadable or
// missing blob starts the desktop empty rather than failing. The restored
// state is reconciled before use so a torn snapshot cannot leave the
// z-order and instance table disagreeing.
func (m *Manager) EnablePersistence(store *persist.Store, delay time.Duration) {
	var snap uiSnapshot
	found, err := store.Load(stateFile, stateVersion, uiMigrations, &snap)
	if err != nil {
		m.log.Warn("UI state unreadable, starting fresh", zap.Error(err))
	}
	if found {
		m.adopt(&snap)
	}

	m.saver = persist.NewSaver(store, stateFile, stateVersion, delay, m.capture, m.log)
	m.CheckIntegrity()
	m.updateGauges()
}

// adopt installs a loaded snapshot as the manager's state.
func (m *Manager) adopt(snap *uiSnapshot) {
	m.mu.Lock()

	m.instances = make(map[string]*types.Instance, len(snap.Instances))
	var maxCounter int64
	for iid, inst := range snap.Instances {
		if inst == nil {
			continue
		}
		// The map key is authoritative for the id.
		inst.ID = iid
		m.instances[iid] = inst
		if n := id.InstanceCounter(iid); n > maxCounter {
			maxCounter = n
		}
	}
	m.order = append([]string(nil), snap.InstanceOrder...)
	m.foreground = snap.ForegroundID

	// Never reissue an id that appears in the snapshot, even if the
	// stored counter lagged behind.
	m.nextID = snap.NextInstanceID
	if m.nextID < maxCounter+1 {
		m.nextID = maxCounter + 1
	}
	if m.nextID < 1 {
		m.nextID = 1
	}

	m.settings = normalizeSettings(snap.Settings)

	restored := len(m.instances)
	nextID := m.nextID
	m.mu.Unlock()

	m.log.Info("UI state restored",
		zap.Int("instances", restored),
		zap.Int64("next_id", nextID))
}

// capture snapshots the manager for the persistence layer.
func (m *Manager) capture() interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := uiSnapshot{
		Instances:      make(map[string]*types.Instance, len(m.instances)),
		InstanceOrder:  append([]string(nil), m.order...),
		ForegroundID:   m.foreground,
		NextInstanceID: m.nextID,
		Settings:       m.settings.Clone(),
	}
	for iid, inst := range m.instances {
		snap.Instances[iid] = inst.Clone()
	}
	return &snap
}

// Flush writes any pending state to disk immediately.
func (m *Manager) Flush() {
	if m.saver != nil {
		m.saver.Flush()
	}
}

// Shutdown flushes pending state and stops the background saver.
func (m *Manager) Shutdown() {
	if m.saver != nil {
		m.saver.Close()
	}
}
