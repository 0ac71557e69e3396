package workspace

import (
	"sync"

	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/shared/paths"
	"github.com/webtop-os/webtop/internal/shared/types"
)

// ensureState bootstraps a zero navigation state at the root.
func ensureState(ws *types.WorkspaceState) {
	if ws.CurrentPath == "" {
		ws.CurrentPath = paths.Root
		ws.History = []string{paths.Root}
		ws.HistoryIndex = 0
	}
}

// navigate moves to path, truncating any forward history. Navigating to
// the current path changes nothing.
func navigate(ws *types.WorkspaceState, path string) {
	ensureState(ws)
	if ws.CurrentPath == path {
		return
	}
	ws.History = append(ws.History[:ws.HistoryIndex+1], path)
	ws.HistoryIndex = len(ws.History) - 1
	ws.CurrentPath = path
	ws.SelectedPath = ""
}

// stepBack moves one entry back in history, keeping forward entries.
func stepBack(ws *types.WorkspaceState) {
	ensureState(ws)
	if ws.HistoryIndex <= 0 {
		return
	}
	ws.HistoryIndex--
	ws.CurrentPath = ws.History[ws.HistoryIndex]
	ws.SelectedPath = ""
}

// stepForward moves one entry forward when Back left any.
func stepForward(ws *types.WorkspaceState) {
	ensureState(ws)
	if ws.HistoryIndex+1 >= len(ws.History) {
		return
	}
	ws.HistoryIndex++
	ws.CurrentPath = ws.History[ws.HistoryIndex]
	ws.SelectedPath = ""
}

// browsable reports whether path can be navigated into: the root, a
// virtual directory, or an active metadata directory.
func (m *Manager) browsable(path string) bool {
	if path == paths.Root || paths.IsVirtual(path) {
		return true
	}
	item, ok := m.fs.Get(path)
	return ok && !item.Trashed() && item.IsDirectory
}

// State returns the navigation state of one window.
func (m *Manager) State(iid string) (types.WorkspaceState, bool) {
	ws, ok := m.instances.Workspace(iid)
	if !ok {
		return types.WorkspaceState{}, false
	}
	ensureState(&ws)
	return ws, true
}

// NavigateTo points a window's workspace at a directory. Fresh navigation
// drops whatever forward history the window had. Unknown windows and
// non-directories are refused.
func (m *Manager) NavigateTo(iid, path string) (types.WorkspaceState, bool) {
	path = paths.Normalize(path)
	if !m.browsable(path) {
		m.log.Warn("navigate rejected: not a directory",
			zap.String("instance_id", iid), zap.String("path", path))
		return types.WorkspaceState{}, false
	}
	return m.instances.UpdateWorkspace(iid, func(ws *types.WorkspaceState) {
		navigate(ws, path)
	})
}

// Back moves a window one entry back in its history. At the beginning of
// history the state is returned unchanged.
func (m *Manager) Back(iid string) (types.WorkspaceState, bool) {
	return m.instances.UpdateWorkspace(iid, stepBack)
}

// Forward reenters a history entry left by Back.
func (m *Manager) Forward(iid string) (types.WorkspaceState, bool) {
	return m.instances.UpdateWorkspace(iid, stepForward)
}

// CanGoBack reports whether Back would move.
func (m *Manager) CanGoBack(iid string) bool {
	ws, ok := m.State(iid)
	return ok && ws.HistoryIndex > 0
}

// CanGoForward reports whether Forward would move.
func (m *Manager) CanGoForward(iid string) bool {
	ws, ok := m.State(iid)
	return ok && ws.HistoryIndex+1 < len(ws.History)
}

// Select marks one path as selected in a window; empty clears.
func (m *Manager) Select(iid, path string) (types.WorkspaceState, bool) {
	if path != "" {
		path = paths.Normalize(path)
	}
	return m.instances.UpdateWorkspace(iid, func(ws *types.WorkspaceState) {
		ensureState(ws)
		ws.SelectedPath = path
	})
}

// Workspace is a navigation state not bound to any window, used by
// callers browsing without a Files window (pickers, scripted clients).
// It behaves exactly like the bound state.
type Workspace struct {
	mgr *Manager

	mu sync.Mutex
	st types.WorkspaceState
}

// Detached returns an unbound workspace starting at the root.
func (m *Manager) Detached() *Workspace {
	w := &Workspace{mgr: m}
	ensureState(&w.st)
	return w
}

// State returns a copy of the workspace's navigation state.
func (w *Workspace) State() types.WorkspaceState {
	w.mu.Lock()
	defer w.mu.Unlock()
	st := w.st
	st.History = append([]string(nil), w.st.History...)
	return st
}

// NavigateTo points the workspace at a directory.
func (w *Workspace) NavigateTo(path string) bool {
	path = paths.Normalize(path)
	if !w.mgr.browsable(path) {
		return false
	}
	w.mu.Lock()
	navigate(&w.st, path)
	w.mu.Unlock()
	return true
}

// Back moves one entry back in history.
func (w *Workspace) Back() types.WorkspaceState {
	w.mu.Lock()
	stepBack(&w.st)
	w.mu.Unlock()
	return w.State()
}

// Forward reenters a history entry left by Back.
func (w *Workspace) Forward() types.WorkspaceState {
	w.mu.Lock()
	stepForward(&w.st)
	w.mu.Unlock()
	return w.State()
}

// CanGoBack reports whether Back would move.
func (w *Workspace) CanGoBack() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.st.HistoryIndex > 0
}

// CanGoForward reports whether Forward would move.
func (w *Workspace) CanGoForward() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.st.HistoryIndex+1 < len(w.st.History)
}

// Select marks one path as selected; empty clears.
func (w *Workspace) Select(path string) {
	if path != "" {
		path = paths.Normalize(path)
	}
	w.mu.Lock()
	w.st.SelectedPath = path
	w.mu.Unlock()
}
