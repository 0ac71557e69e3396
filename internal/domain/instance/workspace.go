package instance

import (
	"github.com/webtop-os/webtop/internal/shared/types"
)

// Workspace returns a copy of one window's navigation state. A window
// that never navigated reports the zero state.
func (m *Manager) Workspace(iid string) (types.WorkspaceState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inst, ok := m.instances[iid]
	if !ok {
		return types.WorkspaceState{}, false
	}
	if inst.Workspace == nil {
		return types.WorkspaceState{}, true
	}
	return cloneWorkspace(inst.Workspace), true
}

// UpdateWorkspace mutates one window's navigation state under the manager
// lock, creating the record on first use, and returns the updated copy.
// The state rides in the instance record so it persists with the ui blob.
func (m *Manager) UpdateWorkspace(iid string, fn func(*types.WorkspaceState)) (types.WorkspaceState, bool) {
	m.mu.Lock()
	inst, ok := m.instances[iid]
	if !ok {
		m.mu.Unlock()
		return types.WorkspaceState{}, false
	}
	if inst.Workspace == nil {
		inst.Workspace = &types.WorkspaceState{}
	}
	fn(inst.Workspace)
	updated := cloneWorkspace(inst.Workspace)
	m.mu.Unlock()

	m.save()
	return updated, true
}

func cloneWorkspace(ws *types.WorkspaceState) types.WorkspaceState {
	c := *ws
	c.History = append([]string(nil), ws.History...)
	return c
}
