package vfs

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/shared/paths"
	"github.com/webtop-os/webtop/internal/shared/types"
	"github.com/webtop-os/webtop/internal/shared/utils"
)

// maxAliasDepth bounds chain resolution. Chains this long only come from
// manual tampering with a persisted state file.
const maxAliasDepth = 8

// CreateAlias places a shortcut on the desktop and returns its path. File
// aliases need an active target item, app aliases an app id. When the
// desired name is taken by an active record the name gets a numeric suffix
// before the extension ("notes.txt" -> "notes 2.txt"); a trashed record at
// the slot is reclaimed instead.
func (m *Manager) CreateAlias(target, name string, aliasType types.AliasType, targetAppID string) (string, bool) {
	switch aliasType {
	case types.AliasFile:
		target = paths.Normalize(target)
		if name == "" {
			name = paths.Base(target)
		}
	case types.AliasApp:
		if targetAppID == "" {
			m.log.Warn("alias rejected: app alias without app id")
			m.recordFS("alias", "noop")
			return "", false
		}
		if name == "" {
			name = targetAppID
		}
	default:
		m.log.Warn("alias rejected: unknown alias type", zap.String("type", string(aliasType)))
		m.recordFS("alias", "noop")
		return "", false
	}

	if err := utils.ValidateName(name); err != nil {
		m.log.Warn("alias rejected: invalid name", zap.String("name", name), zap.Error(err))
		m.recordFS("alias", "noop")
		return "", false
	}

	m.mu.Lock()
	if aliasType == types.AliasFile {
		t, ok := m.items[target]
		if !ok || t.Trashed() {
			m.mu.Unlock()
			m.log.Warn("alias rejected: target not active", zap.String("target", target))
			m.recordFS("alias", "noop")
			return "", false
		}
	}
	if !m.parentReady(paths.Join(paths.Desktop, name)) {
		m.mu.Unlock()
		m.log.Warn("alias rejected: desktop missing", zap.String("name", name))
		m.recordFS("alias", "noop")
		return "", false
	}

	path, finalName := m.desktopSlot(name)
	now := types.NowMillis()
	alias := &types.FileItem{
		Path:       path,
		Name:       finalName,
		Type:       types.TypeAlias,
		AliasType:  aliasType,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if aliasType == types.AliasFile {
		alias.AliasTarget = target
	} else {
		alias.AppID = targetAppID
	}
	m.items[path] = alias
	m.mu.Unlock()

	m.recordFS("alias", "success")
	m.committed(types.EventFSChanged, map[string]interface{}{"path": path, "op": "alias"})
	return path, true
}

// desktopSlot finds the first desktop path for name that is free or held
// only by a trashed record, suffixing " 2", " 3", ... before the extension
// until one opens up. Must hold mu.
func (m *Manager) desktopSlot(name string) (path, finalName string) {
	stem, ext := paths.SplitExt(name)
	finalName = name
	for n := 2; ; n++ {
		path = paths.Join(paths.Desktop, finalName)
		existing, ok := m.items[path]
		if !ok || existing.Trashed() {
			return path, finalName
		}
		finalName = fmt.Sprintf("%s %d%s", stem, n, ext)
	}
}

// ResolveAlias follows the alias chain starting at path until it reaches a
// non-alias item or an app alias, either of which is returned as a copy.
// Calling it on a non-alias item returns that item. A missing or trashed
// link, a cycle, or a chain longer than maxAliasDepth resolves to nothing.
func (m *Manager) ResolveAlias(path string) (*types.FileItem, bool) {
	path = paths.Normalize(path)

	m.mu.RLock()
	defer m.mu.RUnlock()

	visited := make(map[string]struct{})
	for depth := 0; depth <= maxAliasDepth; depth++ {
		item, ok := m.items[path]
		if !ok || item.Trashed() {
			m.log.Warn("alias resolution failed: link missing", zap.String("path", path))
			return nil, false
		}
		if !item.IsAlias() || item.AliasType == types.AliasApp {
			return item.Clone(), true
		}
		if _, seen := visited[path]; seen {
			m.log.Warn("alias resolution failed: cycle", zap.String("path", path))
			return nil, false
		}
		visited[path] = struct{}{}
		path = paths.Normalize(item.AliasTarget)
	}

	m.log.Warn("alias resolution failed: chain too deep", zap.String("path", path))
	return nil, false
}
