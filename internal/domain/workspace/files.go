package workspace

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/shared/id"
	"github.com/webtop-os/webtop/internal/shared/paths"
	"github.com/webtop-os/webtop/internal/shared/types"
	"github.com/webtop-os/webtop/internal/shared/utils"
)

// SaveFile writes a file's payload and metadata in one operation. An
// existing active file is overwritten in place and keeps its content
// UUID; a new path creates the record. The payload is stored before the
// metadata commits, and a metadata refusal rolls the payload back, so no
// orphaned content survives a failed save. Content store errors propagate
// to the caller.
func (m *Manager) SaveFile(ctx context.Context, path, name string, data []byte, itemType types.ItemType) (*types.FileItem, error) {
	path = paths.Normalize(path)
	if path == paths.Root || paths.IsVirtual(path) ||
		paths.IsDescendant(paths.Applications, path) || paths.IsDescendant(paths.Trash, path) {
		return nil, fmt.Errorf("cannot save under %s", path)
	}
	if err := utils.ValidatePath(path); err != nil {
		return nil, err
	}
	if name == "" {
		name = paths.Base(path)
	}
	if err := utils.ValidateName(name); err != nil {
		return nil, err
	}
	if err := utils.ValidateContentSize(len(data)); err != nil {
		return nil, err
	}

	existing, exists := m.fs.Get(path)
	if exists {
		switch {
		case existing.Trashed():
			return nil, fmt.Errorf("%s is in the trash", path)
		case existing.IsDirectory:
			return nil, fmt.Errorf("%s is a directory", path)
		case existing.IsAlias():
			return nil, fmt.Errorf("%s is a shortcut", path)
		case existing.UUID == "":
			return nil, fmt.Errorf("%s has no content key", path)
		}
	}

	if itemType == "" || itemType == types.TypeUnknown {
		if exists {
			itemType = existing.Type
		} else {
			itemType = detectType(name, data)
		}
	}

	uuid := ""
	if exists {
		uuid = existing.UUID
	} else {
		uuid = id.NewContentID().String()
	}

	bucket := types.BucketForType(itemType)
	if err := m.content.Put(ctx, bucket, uuid, types.Entry{Name: name, Content: data}); err != nil {
		return nil, fmt.Errorf("save %s: %w", path, err)
	}

	// A type change can shift the payload to a different bucket; drop the
	// copy left in the old one.
	if exists {
		if old := types.BucketForType(existing.Type); old != bucket {
			if err := m.content.Delete(ctx, old, uuid); err != nil {
				m.log.Warn("stale payload cleanup failed",
					zap.String("uuid", uuid), zap.Error(err))
			}
		}
	}

	item := &types.FileItem{
		Path: path,
		Name: name,
		Type: itemType,
		UUID: uuid,
		Size: int64(len(data)),
	}
	if !m.fs.Add(item) {
		if !exists {
			if err := m.content.Delete(ctx, bucket, uuid); err != nil {
				m.log.Warn("orphan cleanup failed",
					zap.String("uuid", uuid), zap.Error(err))
			}
		}
		return nil, fmt.Errorf("cannot create %s", path)
	}

	stored, _ := m.fs.Get(path)
	return stored, nil
}

// detectType derives an item type from the name's extension, falling back
// to sniffing the payload.
func detectType(name string, data []byte) types.ItemType {
	if t := types.TypeForName(name); t != types.TypeUnknown {
		return t
	}
	mime := mimetype.Detect(data)
	switch {
	case mime.Is("text/markdown"):
		return types.TypeMarkdown
	case strings.HasPrefix(mime.String(), "text/"):
		return types.TypeText
	case strings.HasPrefix(mime.String(), "image/"):
		if t := types.ItemType(strings.TrimPrefix(mime.Extension(), ".")); t.IsImage() {
			return t
		}
	}
	return types.TypeUnknown
}

// CreateFolder adds a directory at path. Fail-soft like the metadata
// store: a refused path returns false.
func (m *Manager) CreateFolder(path string) (*types.FileItem, bool) {
	path = paths.Normalize(path)
	ok := m.fs.Add(&types.FileItem{
		Path:        path,
		IsDirectory: true,
		Type:        types.TypeDirectory,
	})
	if !ok {
		return nil, false
	}
	item, _ := m.fs.Get(path)
	return item, true
}

// RenameFile renames an item in place and keeps the stored payload's
// display name in sync. Returns the item's new path.
func (m *Manager) RenameFile(ctx context.Context, path, newName string) (string, bool) {
	path = paths.Normalize(path)
	item, ok := m.fs.Get(path)
	if !ok {
		m.log.Warn("rename rejected: no such item", zap.String("path", path))
		return "", false
	}

	newPath := paths.Join(paths.Parent(path), newName)
	if !m.fs.Rename(path, newPath, newName) {
		return "", false
	}

	if item.UUID != "" && !item.IsDirectory {
		bucket := types.BucketForType(item.Type)
		if err := m.content.Rename(ctx, bucket, item.UUID, newName); err != nil {
			m.log.Warn("payload name out of sync after rename",
				zap.String("uuid", item.UUID), zap.Error(err))
		}
	}
	return newPath, true
}

// MoveFile moves an item into destDir, keeping its name. The payload
// stays put: buckets key off the item type, which a move never changes.
func (m *Manager) MoveFile(path, destDir string) bool {
	path = paths.Normalize(path)
	item, ok := m.fs.Get(path)
	if !ok {
		m.log.Warn("move rejected: no such item", zap.String("path", path))
		return false
	}
	return m.fs.Move(path, paths.Join(paths.Normalize(destDir), item.Name))
}

// Duplicate copies a file next to itself with a "copy" suffix and a fresh
// content UUID. Directories and shortcuts cannot be duplicated.
func (m *Manager) Duplicate(ctx context.Context, path string) (*types.FileItem, error) {
	path = paths.Normalize(path)
	item, ok := m.fs.Get(path)
	if !ok || item.Trashed() {
		return nil, fmt.Errorf("nothing to duplicate at %s", path)
	}
	if item.IsDirectory || item.IsAlias() {
		return nil, fmt.Errorf("cannot duplicate %s", path)
	}
	if item.UUID == "" {
		return nil, fmt.Errorf("%s has no content", path)
	}

	bucket := types.BucketForType(item.Type)
	entry, found, err := m.loader.EnsureLoaded(ctx, bucket, item.UUID)
	if err != nil {
		return nil, fmt.Errorf("duplicate %s: %w", path, err)
	}
	if !found {
		return nil, fmt.Errorf("content for %s is missing", path)
	}

	dir := paths.Parent(path)
	copyName := copySlot(item.Name, func(candidate string) bool {
		return m.fs.Exists(paths.Join(dir, candidate))
	})
	copyPath := paths.Join(dir, copyName)

	uuid := id.NewContentID().String()
	if err := m.content.Put(ctx, bucket, uuid, types.Entry{Name: copyName, Content: entry.Content}); err != nil {
		return nil, fmt.Errorf("duplicate %s: %w", path, err)
	}

	copied := &types.FileItem{
		Path: copyPath,
		Name: copyName,
		Type: item.Type,
		UUID: uuid,
		Size: int64(len(entry.Content)),
		Icon: item.Icon,
	}
	if !m.fs.Add(copied) {
		if err := m.content.Delete(ctx, bucket, uuid); err != nil {
			m.log.Warn("orphan cleanup failed",
				zap.String("uuid", uuid), zap.Error(err))
		}
		return nil, fmt.Errorf("cannot create %s", copyPath)
	}

	stored, _ := m.fs.Get(copyPath)
	return stored, nil
}

// copySlot finds a free "name copy.ext" variant, counting up from
// "name copy 2.ext" while taken reports collisions.
func copySlot(name string, taken func(string) bool) string {
	stem, ext := paths.SplitExt(name)
	candidate := stem + " copy" + ext
	for n := 2; taken(candidate); n++ {
		candidate = fmt.Sprintf("%s copy %d%s", stem, n, ext)
	}
	return candidate
}

// CreateShortcut drops an alias on the desktop: aliasType picks whether
// target is a filesystem path or an app id. Returns the shortcut's path.
func (m *Manager) CreateShortcut(target, name string, aliasType types.AliasType) (string, bool) {
	switch aliasType {
	case types.AliasApp:
		app, ok := m.registry.Get(target)
		if !ok {
			m.log.Warn("shortcut rejected: unknown app", zap.String("app_id", target))
			return "", false
		}
		if name == "" {
			name = app.Name
		}
		return m.fs.CreateAlias("", name, types.AliasApp, target)
	default:
		return m.fs.CreateAlias(target, name, types.AliasFile, "")
	}
}
