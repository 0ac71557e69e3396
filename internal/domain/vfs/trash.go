package vfs

import (
	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/shared/paths"
	"github.com/webtop-os/webtop/internal/shared/types"
)

// Remove deletes the item at path. The default is a soft delete: the item
// and its active descendants flip to trashed in place, keeping their path
// keys so uniqueness checks still see them. Permanent removal (or removing
// an already-trashed item) deletes the records and returns the freed
// content UUIDs for the caller to purge from the content store.
func (m *Manager) Remove(path string, permanent bool) ([]string, bool) {
	path = paths.Normalize(path)
	if path == paths.Root || paths.IsVirtual(path) {
		m.log.Warn("remove rejected: reserved path", zap.String("path", path))
		m.recordFS("remove", "noop")
		return nil, false
	}

	m.mu.Lock()
	item, ok := m.items[path]
	if !ok {
		m.mu.Unlock()
		m.log.Warn("remove rejected: no such item", zap.String("path", path))
		m.recordFS("remove", "noop")
		return nil, false
	}

	if permanent || item.Trashed() {
		freed := m.deleteSubtree(path)
		m.mu.Unlock()

		m.recordFS("remove", "success")
		m.committed(types.EventFSChanged, map[string]interface{}{"path": path, "op": "remove"})
		return freed, true
	}

	// Soft delete. One DeletedAt stamp covers the whole subtree, so a later
	// restore can tell this batch apart from items trashed separately.
	now := types.NowMillis()
	for p, it := range m.items {
		if p != path && !paths.IsDescendant(path, p) {
			continue
		}
		if it.Trashed() {
			continue
		}
		it.Trash = &types.TrashInfo{OriginalPath: p, DeletedAt: now}
	}
	m.mu.Unlock()

	m.recordFS("trash", "success")
	m.committed(types.EventFSTrashed, map[string]interface{}{"path": path})
	return nil, true
}

// deleteSubtree removes path and all descendants regardless of status,
// returning freed content UUIDs. Must hold mu.
func (m *Manager) deleteSubtree(path string) []string {
	var freed []string
	for p, it := range m.items {
		if p != path && !paths.IsDescendant(path, p) {
			continue
		}
		if it.UUID != "" {
			freed = append(freed, it.UUID)
		}
		delete(m.items, p)
	}
	return freed
}

// Restore reactivates a trashed item together with the descendants that
// were trashed in the same operation (matched by the shared DeletedAt
// stamp). Items trashed separately inside the subtree stay in the trash.
// When OriginalPath differs from the current key the record moves back,
// and missing or trashed ancestors are reactivated or recreated so the
// restored item never dangles under a dead parent.
func (m *Manager) Restore(path string) bool {
	path = paths.Normalize(path)

	m.mu.Lock()
	item, ok := m.items[path]
	if !ok || !item.Trashed() {
		m.mu.Unlock()
		m.log.Warn("restore rejected: not in trash", zap.String("path", path))
		m.recordFS("restore", "noop")
		return false
	}

	stamp := item.Trash.DeletedAt
	target := item.Trash.OriginalPath
	if target == "" {
		target = path
	}

	// Collect the subtree before mutating. Everything relocates together;
	// only records sharing the item's trash stamp reactivate.
	subtree := []*types.FileItem{item}
	for p, it := range m.items {
		if p == path || !paths.IsDescendant(path, p) {
			continue
		}
		subtree = append(subtree, it)
	}

	if target != path && m.occupiedByOther(target, path) {
		// The original location grew a new occupant while this was in the
		// trash; restore in place instead of clobbering it.
		target = path
	}

	for _, it := range subtree {
		if it.Trash != nil && it.Trash.DeletedAt == stamp {
			it.Trash = nil
		}
		dest := paths.Rebase(it.Path, path, target)
		if dest != it.Path {
			delete(m.items, it.Path)
			it.Path = dest
			it.Name = paths.Base(dest)
			m.items[dest] = it
		}
	}

	m.reviveAncestors(target)
	m.mu.Unlock()

	m.recordFS("restore", "success")
	m.committed(types.EventFSRestored, map[string]interface{}{"path": target})
	return true
}

// occupiedByOther reports whether target holds a record other than the one
// rooted at from. Must hold mu.
func (m *Manager) occupiedByOther(target, from string) bool {
	if target == from {
		return false
	}
	_, ok := m.items[target]
	return ok
}

// reviveAncestors walks the ancestor chain of path, clearing trash flags
// and recreating missing directories. Must hold mu.
func (m *Manager) reviveAncestors(path string) {
	now := types.NowMillis()
	for dir := paths.Parent(path); dir != paths.Root; dir = paths.Parent(dir) {
		if it, ok := m.items[dir]; ok {
			it.Trash = nil
			continue
		}
		m.items[dir] = &types.FileItem{
			Path:        dir,
			Name:        paths.Base(dir),
			IsDirectory: true,
			Type:        types.TypeDirectory,
			CreatedAt:   now,
			ModifiedAt:  now,
		}
	}
}

// EmptyTrash permanently deletes every trashed item and returns the union
// of freed content UUIDs
func (m *Manager) EmptyTrash() []string {
	m.mu.Lock()
	var freed []string
	for p, it := range m.items {
		if !it.Trashed() {
			continue
		}
		if it.UUID != "" {
			freed = append(freed, it.UUID)
		}
		delete(m.items, p)
	}
	m.mu.Unlock()

	m.recordFS("empty_trash", "success")
	m.committed(types.EventFSChanged, map[string]interface{}{"op": "empty_trash"})
	return freed
}
