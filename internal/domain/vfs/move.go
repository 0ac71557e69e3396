package vfs

import (
	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/shared/paths"
	"github.com/webtop-os/webtop/internal/shared/types"
	"github.com/webtop-os/webtop/internal/shared/utils"
)

// Rename re-keys an item to newPath with display name newName, rewriting
// every descendant key by prefix substitution. No-op when the source is
// missing or trashed, or the target path is occupied by any record.
func (m *Manager) Rename(oldPath, newPath, newName string) bool {
	oldPath = paths.Normalize(oldPath)
	newPath = paths.Normalize(newPath)

	if err := utils.ValidateName(newName); err != nil {
		m.log.Warn("rename rejected: invalid name", zap.String("name", newName), zap.Error(err))
		m.recordFS("rename", "noop")
		return false
	}
	if newPath == paths.Root || paths.IsVirtual(newPath) {
		m.log.Warn("rename rejected: reserved target", zap.String("path", newPath))
		m.recordFS("rename", "noop")
		return false
	}

	m.mu.Lock()
	ok := m.relocate(oldPath, newPath, "rename")
	if ok {
		m.items[newPath].Name = newName
	}
	m.mu.Unlock()

	if !ok {
		m.recordFS("rename", "noop")
		return false
	}

	m.recordFS("rename", "success")
	m.committed(types.EventFSChanged, map[string]interface{}{
		"path": newPath, "from": oldPath, "op": "rename",
	})
	return true
}

// Move relocates an item to destPath (the full destination path, leaf name
// included). Returns false, with the map untouched, when the source is not
// active, the destination parent is missing or not an active directory,
// the destination is occupied, or the move would put a directory inside
// itself.
func (m *Manager) Move(sourcePath, destPath string) bool {
	sourcePath = paths.Normalize(sourcePath)
	destPath = paths.Normalize(destPath)

	if destPath == paths.Root || paths.IsVirtual(destPath) {
		m.log.Warn("move rejected: reserved target", zap.String("path", destPath))
		m.recordFS("move", "noop")
		return false
	}

	m.mu.Lock()
	if !m.parentReady(destPath) {
		m.mu.Unlock()
		m.log.Warn("move rejected: destination parent missing or not a directory",
			zap.String("source", sourcePath), zap.String("dest", destPath))
		m.recordFS("move", "noop")
		return false
	}
	ok := m.relocate(sourcePath, destPath, "move")
	m.mu.Unlock()

	if !ok {
		m.recordFS("move", "noop")
		return false
	}

	m.recordFS("move", "success")
	m.committed(types.EventFSChanged, map[string]interface{}{
		"path": destPath, "from": sourcePath, "op": "move",
	})
	return true
}

// relocate re-keys from -> to and prefix-rewrites every descendant,
// trashed ones included. Their OriginalPath stays as stamped, so a later
// restore still returns them to where they were trashed from. Must hold
// mu; logs and returns false without mutating on any precondition failure.
func (m *Manager) relocate(from, to, op string) bool {
	item, ok := m.items[from]
	if !ok || item.Trashed() {
		m.log.Warn(op+" rejected: source not active", zap.String("path", from))
		return false
	}
	if _, occupied := m.items[to]; occupied {
		m.log.Warn(op+" rejected: target occupied", zap.String("path", to))
		return false
	}
	if to == from || paths.IsDescendant(from, to) {
		m.log.Warn(op+" rejected: target inside source", zap.String("source", from), zap.String("dest", to))
		return false
	}

	// Collect keys first; rewriting while ranging over the map would visit
	// moved entries twice.
	var subtree []string
	for p := range m.items {
		if p == from || paths.IsDescendant(from, p) {
			subtree = append(subtree, p)
		}
	}

	for _, p := range subtree {
		it := m.items[p]
		delete(m.items, p)
		it.Path = paths.Rebase(p, from, to)
		m.items[it.Path] = it
	}

	moved := m.items[to]
	moved.Name = paths.Base(to)
	moved.ModifiedAt = types.NowMillis()
	return true
}
