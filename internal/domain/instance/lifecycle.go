package instance

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/shared/types"
)

// Focus brings an instance to the foreground, unminimizing it if needed.
// Focusing the instance that is already foreground and topmost is a no-op.
// Unknown ids return false.
func (m *Manager) Focus(iid string) bool {
	m.mu.Lock()
	inst, ok := m.instances[iid]
	if !ok {
		m.mu.Unlock()
		m.log.Warn("Focus on unknown instance", zap.String("instance_id", iid))
		return false
	}
	if m.foreground == iid && !inst.IsMinimized && m.order[len(m.order)-1] == iid {
		m.mu.Unlock()
		return true
	}
	m.seizeForeground(iid)
	m.mu.Unlock()

	m.committed(types.EventInstanceFocus, map[string]interface{}{
		"instance_id": iid, "app_id": inst.AppID,
	})
	return true
}

// Blur drops foreground without changing z-order or minimized state
func (m *Manager) Blur() {
	m.mu.Lock()
	if m.foreground == "" {
		m.mu.Unlock()
		return
	}
	for _, inst := range m.instances {
		inst.IsForeground = false
	}
	m.foreground = ""
	m.mu.Unlock()
	m.save()
}

// Minimize hides an instance. If it held foreground, focus passes to the
// topmost remaining visible window; none leaves the desktop unfocused.
// The minimized window keeps its z-order slot for when it comes back.
func (m *Manager) Minimize(iid string) bool {
	m.mu.Lock()
	inst, ok := m.instances[iid]
	if !ok {
		m.mu.Unlock()
		m.log.Warn("Minimize on unknown instance", zap.String("instance_id", iid))
		return false
	}
	if inst.IsMinimized {
		m.mu.Unlock()
		return true
	}

	inst.IsMinimized = true
	inst.IsForeground = false

	var successor string
	if m.foreground == iid {
		m.foreground = ""
		successor = m.topMatch(func(c *types.Instance) bool {
			return !c.IsMinimized
		})
		if successor != "" {
			// Promote in place: the survivor keeps its z-order slot.
			m.instances[successor].IsForeground = true
			m.foreground = successor
		}
	}
	m.mu.Unlock()

	m.committed(types.EventInstanceMinim, map[string]interface{}{
		"instance_id": iid, "app_id": inst.AppID,
	})
	return true
}

// Restore unminimizes an instance and gives it foreground
func (m *Manager) Restore(iid string) bool {
	m.mu.Lock()
	inst, ok := m.instances[iid]
	if !ok {
		m.mu.Unlock()
		m.log.Warn("Restore on unknown instance", zap.String("instance_id", iid))
		return false
	}
	m.seizeForeground(iid)
	m.mu.Unlock()

	m.committed(types.EventInstanceRestor, map[string]interface{}{
		"instance_id": iid, "app_id": inst.AppID,
	})
	return true
}

// Close removes an instance. When the closed window held foreground, the
// topmost visible sibling of the same app inherits focus, then any other
// visible window, then nothing. Closing an unknown id returns false.
func (m *Manager) Close(iid string) bool {
	m.mu.Lock()
	inst, ok := m.instances[iid]
	if !ok {
		m.mu.Unlock()
		m.log.Warn("Close on unknown instance", zap.String("instance_id", iid))
		return false
	}

	wasForeground := m.foreground == iid
	delete(m.instances, iid)
	for i, existing := range m.order {
		if existing == iid {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	if wasForeground {
		m.foreground = ""
		successor := m.topMatch(func(c *types.Instance) bool {
			return c.AppID == inst.AppID && !c.IsMinimized
		})
		if successor == "" {
			successor = m.topMatch(func(c *types.Instance) bool {
				return !c.IsMinimized
			})
		}
		if successor != "" {
			m.seizeForeground(successor)
		}
	}
	m.mu.Unlock()

	m.log.Info("Instance closed",
		zap.String("instance_id", iid),
		zap.String("app_id", inst.AppID))
	m.committed(types.EventInstanceClosed, map[string]interface{}{
		"instance_id": iid, "app_id": inst.AppID,
	})
	return true
}

// CloseApp closes every instance of one app and reports how many went
func (m *Manager) CloseApp(appID string) int {
	m.mu.RLock()
	var ids []string
	for iid, inst := range m.instances {
		if inst.AppID == appID {
			ids = append(ids, iid)
		}
	}
	m.mu.RUnlock()

	for _, iid := range ids {
		m.Close(iid)
	}
	return len(ids)
}

// MarkLoaded flips a lazily loading instance to ready and hands it
// foreground. Calling it again once loaded is a no-op so a late duplicate
// signal cannot steal focus. Unknown ids return false.
func (m *Manager) MarkLoaded(iid string) bool {
	m.mu.Lock()
	inst, ok := m.instances[iid]
	if !ok {
		m.mu.Unlock()
		m.log.Warn("Load signal for unknown instance", zap.String("instance_id", iid))
		return false
	}
	if !inst.IsLoading {
		m.mu.Unlock()
		return true
	}
	inst.IsLoading = false
	m.seizeForeground(iid)
	m.mu.Unlock()

	m.committed(types.EventInstanceLoaded, map[string]interface{}{
		"instance_id": iid, "app_id": inst.AppID,
	})
	return true
}

// Launch opens appID the way a dock or desktop icon does. If every
// instance of the app is minimized, the most recent one is restored
// instead of spawning another. Single-window apps refocus their existing
// instance, refreshing its launch payload when one is supplied. Otherwise
// a new window is created.
func (m *Manager) Launch(appID string, opts CreateOptions) (*types.Instance, error) {
	app, ok := m.apps.Get(appID)
	if !ok {
		return nil, fmt.Errorf("app %q not registered", appID)
	}
	multiWindow := app.MultiWindow
	if opts.MultiWindow != nil {
		multiWindow = *opts.MultiWindow
	}

	m.mu.Lock()

	var open, minimized int
	for _, inst := range m.instances {
		if inst.AppID == appID {
			open++
			if inst.IsMinimized {
				minimized++
			}
		}
	}

	// All windows hidden: launching means "bring it back", not "open more".
	if open > 0 && open == minimized {
		iid := m.topMatch(func(c *types.Instance) bool {
			return c.AppID == appID
		})
		m.seizeForeground(iid)
		inst := m.instances[iid].Clone()
		m.mu.Unlock()

		m.committed(types.EventInstanceRestor, map[string]interface{}{
			"instance_id": iid, "app_id": appID,
		})
		return inst, nil
	}

	if !multiWindow && open > 0 {
		iid := m.topMatch(func(c *types.Instance) bool {
			return c.AppID == appID
		})
		if opts.InitialData != nil {
			m.instances[iid].InitialData = opts.InitialData
		}
		m.seizeForeground(iid)
		inst := m.instances[iid].Clone()
		m.mu.Unlock()

		m.committed(types.EventInstanceFocus, map[string]interface{}{
			"instance_id": iid, "app_id": appID,
		})
		return inst, nil
	}

	inst := m.createLocked(app, opts).Clone()
	m.mu.Unlock()

	m.log.Info("Instance created",
		zap.String("instance_id", inst.ID),
		zap.String("app_id", appID),
		zap.Bool("loading", inst.IsLoading))
	if m.metrics != nil {
		m.metrics.IncWindowsTotal()
	}
	m.committed(types.EventInstanceOpened, map[string]interface{}{
		"instance_id": inst.ID, "app_id": appID,
	})
	return inst, nil
}

// SetGeometry moves or resizes a window. Sizes are clamped to the app's
// minimum; nil leaves that half untouched.
func (m *Manager) SetGeometry(iid string, pos *types.Position, size *types.Size) bool {
	var min types.Size
	if size != nil {
		m.mu.RLock()
		inst, ok := m.instances[iid]
		if ok {
			if app, found := m.apps.Get(inst.AppID); found {
				min = app.MinSize
			}
		}
		m.mu.RUnlock()
		if !ok {
			return false
		}
	}

	m.mu.Lock()
	inst, ok := m.instances[iid]
	if !ok {
		m.mu.Unlock()
		return false
	}
	if pos != nil {
		inst.Position = *pos
	}
	if size != nil {
		inst.Size = clampSize(*size, min)
	}
	m.mu.Unlock()

	m.committed(types.EventInstanceMoved, map[string]interface{}{
		"instance_id": iid,
	})
	return true
}

// SetTitle renames a window, used when the app's document changes
func (m *Manager) SetTitle(iid, title string) bool {
	m.mu.Lock()
	inst, ok := m.instances[iid]
	if !ok {
		m.mu.Unlock()
		return false
	}
	inst.Title = title
	m.mu.Unlock()

	m.save()
	return true
}
