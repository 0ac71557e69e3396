package vfs

import (
	"time"

	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/infrastructure/persist"
	"github.com/webtop-os/webtop/internal/shared/types"
)

const (
	stateFile    = "filesystem"
	stateVersion = 3
)

// vfsSnapshot is the persisted shape of the metadata store.
type vfsSnapshot struct {
	Items   map[string]*types.FileItem `json:"items"`
	Library libraryState               `json:"library_state"`
}

// vfsMigrations upgrades older blobs in place. v1 kept a bare top-level
// "initialized" flag; v2 nested it under library_state. v2 items carried
// status/original_path/deleted_at as separate fields; v3 folds them into
// the trash variant so an active item simply has no trash key.
var vfsMigrations = map[int]persist.Migration{
	1: func(state map[string]interface{}) (map[string]interface{}, error) {
		init, _ := state["initialized"].(bool)
		delete(state, "initialized")
		state["library_state"] = map[string]interface{}{
			"initialized":      init,
			"manifest_version": 1,
		}
		return state, nil
	},
	2: func(state map[string]interface{}) (map[string]interface{}, error) {
		items, _ := state["items"].(map[string]interface{})
		for _, v := range items {
			it, ok := v.(map[string]interface{})
			if !ok {
				continue
			}
			if status, _ := it["status"].(string); status == "trashed" {
				trash := map[string]interface{}{}
				if op, ok := it["original_path"].(string); ok {
					trash["original_path"] = op
				}
				if da, ok := it["deleted_at"]; ok {
					trash["deleted_at"] = da
				}
				it["trash"] = trash
			}
			delete(it, "status")
			delete(it, "original_path")
			delete(it, "deleted_at")
		}
		return state, nil
	},
}

// EnablePersistence loads the filesystem blob and attaches a debounced
// saver. An unreadable blob logs and starts empty; the desktop must come
// up even when its state file does not.
func (m *Manager) EnablePersistence(store *persist.Store, delay time.Duration) {
	var snap vfsSnapshot
	ok, err := store.Load(stateFile, stateVersion, vfsMigrations, &snap)
	if err != nil {
		m.log.Warn("Filesystem state unreadable, starting empty", zap.Error(err))
	}

	if ok {
		m.mu.Lock()
		if snap.Items == nil {
			snap.Items = make(map[string]*types.FileItem)
		}
		for p, it := range snap.Items {
			if it == nil {
				delete(snap.Items, p)
				continue
			}
			// The map key is authoritative for hand-edited blobs.
			it.Path = p
		}
		m.items = snap.Items
		m.library = snap.Library
		m.mu.Unlock()
		m.log.Info("Filesystem state loaded", zap.Int("items", len(snap.Items)))
	}

	m.saver = persist.NewSaver(store, stateFile, stateVersion, delay, m.capture, m.log)
	m.updateGauges()
}

// capture snapshots the store for the saver. Runs on the saver's timer
// goroutine, so it takes its own lock and deep-copies every record.
func (m *Manager) capture() interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := vfsSnapshot{
		Items:   make(map[string]*types.FileItem, len(m.items)),
		Library: m.library,
	}
	for p, it := range m.items {
		snap.Items[p] = it.Clone()
	}
	return snap
}

// Flush forces any pending save to disk now.
func (m *Manager) Flush() {
	if m.saver != nil {
		m.saver.Flush()
	}
}

// Close flushes and stops the saver.
func (m *Manager) Close() {
	if m.saver != nil {
		m.saver.Close()
	}
}

// Wipe drops every record and resets library bootstrap state, then saves.
// Used by desktop format; the caller re-seeds and emits its own event.
func (m *Manager) Wipe() {
	m.mu.Lock()
	m.items = make(map[string]*types.FileItem)
	m.library = libraryState{}
	m.mu.Unlock()

	m.save()
	m.updateGauges()
}
