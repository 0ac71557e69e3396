package workspace

import (
	"context"

	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/shared/paths"
	"github.com/webtop-os/webtop/internal/shared/types"
)

// carriers collects the file items with content UUIDs in the subtree at
// path, filtered by want.
func (m *Manager) carriers(path string, want func(*types.FileItem) bool) []*types.FileItem {
	root, ok := m.fs.Get(path)
	if !ok {
		return nil
	}

	var out []*types.FileItem
	var walk func(item *types.FileItem)
	walk = func(item *types.FileItem) {
		if item.IsDirectory {
			for _, child := range m.fs.List(item.Path) {
				walk(child)
			}
			return
		}
		if item.UUID != "" && (want == nil || want(item)) {
			out = append(out, item)
		}
	}
	walk(root)
	return out
}

// MoveToTrash soft-deletes path and parks the payloads of every file in
// the subtree in the trash bucket, so emptying the trash can purge them
// without touching live buckets. A payload that fails to move is logged
// and left where it was; the metadata stays trashed either way. Trashing
// something already in the trash deletes it for good.
func (m *Manager) MoveToTrash(ctx context.Context, path string) bool {
	path = paths.Normalize(path)
	if item, ok := m.fs.Get(path); ok && item.Trashed() {
		return m.DeletePermanently(ctx, path)
	}

	files := m.carriers(path, nil)
	if _, ok := m.fs.Remove(path, false); !ok {
		return false
	}

	for _, item := range files {
		from := types.BucketForType(item.Type)
		// Lazy files that were never opened have nothing stored to park.
		if ok, err := m.content.Exists(ctx, from, item.UUID); err != nil || !ok {
			continue
		}
		if err := m.content.Move(ctx, from, types.BucketTrash, item.UUID); err != nil {
			m.log.Warn("payload not parked in trash",
				zap.String("path", item.Path),
				zap.String("uuid", item.UUID),
				zap.Error(err))
		}
	}
	return true
}

// RestoreFromTrash brings a trashed item back and returns its payloads
// from the trash bucket to their type buckets. Only files trashed in the
// same operation move back; separately trashed descendants stay parked.
func (m *Manager) RestoreFromTrash(ctx context.Context, path string) bool {
	path = paths.Normalize(path)
	root, ok := m.fs.Get(path)
	if !ok || !root.Trashed() {
		m.log.Warn("restore rejected: not in trash", zap.String("path", path))
		return false
	}

	stamp := root.Trash.DeletedAt
	var batch []*types.FileItem
	for _, item := range m.fs.List(paths.Trash) {
		if item.Path != path && !paths.IsDescendant(path, item.Path) {
			continue
		}
		if item.IsDirectory || item.UUID == "" || item.Trash.DeletedAt != stamp {
			continue
		}
		batch = append(batch, item)
	}

	if !m.fs.Restore(path) {
		return false
	}

	for _, item := range batch {
		if ok, err := m.content.Exists(ctx, types.BucketTrash, item.UUID); err != nil || !ok {
			continue
		}
		to := types.BucketForType(item.Type)
		if err := m.content.Move(ctx, types.BucketTrash, to, item.UUID); err != nil {
			m.log.Warn("payload not returned from trash",
				zap.String("uuid", item.UUID),
				zap.Error(err))
		}
	}
	return true
}

// DeletePermanently removes path and its subtree outright and deletes the
// freed payloads. Works on active and trashed items alike.
func (m *Manager) DeletePermanently(ctx context.Context, path string) bool {
	path = paths.Normalize(path)

	// Trashed payloads sit in the trash bucket, active ones in their type
	// bucket; note where each lives before the records go.
	location := make(map[string]types.Bucket)
	if root, ok := m.fs.Get(path); ok {
		for _, item := range m.fs.List(paths.Trash) {
			if item.Path == path || paths.IsDescendant(path, item.Path) {
				if item.UUID != "" {
					location[item.UUID] = types.BucketTrash
				}
			}
		}
		if !root.Trashed() {
			for _, item := range m.carriers(path, nil) {
				location[item.UUID] = types.BucketForType(item.Type)
			}
		}
	}

	freed, ok := m.fs.Remove(path, true)
	if !ok {
		return false
	}

	for _, uuid := range freed {
		bucket, known := location[uuid]
		if !known {
			bucket = types.BucketTrash
		}
		if err := m.content.Delete(ctx, bucket, uuid); err != nil {
			m.log.Warn("payload not deleted",
				zap.String("uuid", uuid), zap.Error(err))
		}
	}
	return true
}

// EmptyTrash purges every trashed record and deletes the parked payloads.
// Returns how many payloads were freed.
func (m *Manager) EmptyTrash(ctx context.Context) int {
	freed := m.fs.EmptyTrash()
	for _, uuid := range freed {
		if err := m.content.Delete(ctx, types.BucketTrash, uuid); err != nil {
			m.log.Warn("payload not deleted",
				zap.String("uuid", uuid), zap.Error(err))
		}
	}
	return len(freed)
}
