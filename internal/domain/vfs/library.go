package vfs

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"
	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/shared/id"
	"github.com/webtop-os/webtop/internal/shared/paths"
	"github.com/webtop-os/webtop/internal/shared/types"
)

//go:embed manifests/library.yaml
var rawLibraryManifest []byte

// libraryState gates bootstrap. It persists with the item map so a wiped
// state file re-seeds and an intact one never re-seeds, even when the user
// has deleted every default item.
type libraryState struct {
	Initialized     bool  `json:"initialized"`
	ManifestVersion int   `json:"manifest_version"`
	InitializedAt   int64 `json:"initialized_at,omitempty"`
}

// libraryManifest is the embedded default-content description.
type libraryManifest struct {
	Version     int                `yaml:"version"`
	Directories []string           `yaml:"directories"`
	Files       []manifestFile     `yaml:"files"`
	Shortcuts   []manifestShortcut `yaml:"shortcuts"`
}

type manifestFile struct {
	Path    string `yaml:"path"`
	Type    string `yaml:"type"`
	Content string `yaml:"content"`
}

type manifestShortcut struct {
	Name           string   `yaml:"name"`
	AppID          string   `yaml:"app_id"`
	Icon           string   `yaml:"icon"`
	HiddenOnThemes []string `yaml:"hidden_on_themes"`
}

// ContentWriter is the slice of the content store bootstrap needs to
// materialize default file payloads.
type ContentWriter interface {
	Put(ctx context.Context, bucket types.Bucket, uuid string, entry types.Entry) error
}

// Bootstrap seeds the default library on first run and reconciles it on
// later runs. First run creates everything in the manifest. Later runs
// re-create missing standard directories, but files and shortcuts are only
// reconciled when the manifest version advanced, so a user deletion stays
// deleted across restarts.
func (m *Manager) Bootstrap(ctx context.Context, content ContentWriter) error {
	man, err := parseLibraryManifest()
	if err != nil {
		return fmt.Errorf("library manifest: %w", err)
	}

	m.mu.RLock()
	state := m.library
	m.mu.RUnlock()

	if !state.Initialized {
		m.seedDirectories(man)
		m.seedFiles(ctx, man.Files, content, false)
		m.seedShortcuts(man.Shortcuts, false)
		m.setLibraryState(man.Version)
		m.log.Info("Library initialized",
			zap.Int("manifest_version", man.Version),
			zap.Int("directories", len(man.Directories)),
			zap.Int("files", len(man.Files)))
		return nil
	}

	m.seedDirectories(man)
	if man.Version > state.ManifestVersion {
		m.seedFiles(ctx, man.Files, content, true)
		m.seedShortcuts(man.Shortcuts, true)
		m.setLibraryState(man.Version)
		m.log.Info("Library synced to new manifest",
			zap.Int("from_version", state.ManifestVersion),
			zap.Int("to_version", man.Version))
	}
	return nil
}

func parseLibraryManifest() (*libraryManifest, error) {
	var man libraryManifest
	if err := yaml.Unmarshal(rawLibraryManifest, &man); err != nil {
		return nil, err
	}
	return &man, nil
}

// seedDirectories adds manifest directories that have no record at all. A
// trashed record counts as present: re-adding it would silently pull the
// directory back out of the trash on every boot.
func (m *Manager) seedDirectories(man *libraryManifest) {
	for _, dir := range man.Directories {
		if m.Exists(dir) {
			continue
		}
		m.Add(&types.FileItem{
			Path:        dir,
			IsDirectory: true,
			Type:        types.TypeDirectory,
		})
	}
}

// seedFiles writes manifest file payloads to the content store and adds
// their metadata. Content goes first so a failed write never leaves a
// dangling record; the failure is logged and the rest of the seed
// continues. With skipExisting set, paths that already have any record are
// left alone.
func (m *Manager) seedFiles(ctx context.Context, files []manifestFile, content ContentWriter, skipExisting bool) {
	for _, f := range files {
		if skipExisting && m.Exists(f.Path) {
			continue
		}
		payload := []byte(f.Content)
		fileType := types.ItemType(f.Type)
		if fileType == "" {
			fileType = types.TypeText
		}

		uuid := id.NewContentID().String()
		if content != nil {
			if err := content.Put(ctx, types.BucketForType(fileType), uuid, types.Entry{
				Name:    paths.Base(f.Path),
				Content: payload,
			}); err != nil {
				m.log.Error("Library file content write failed, skipping",
					zap.String("path", f.Path), zap.Error(err))
				continue
			}
		}

		m.Add(&types.FileItem{
			Path: f.Path,
			Type: fileType,
			UUID: uuid,
			Size: int64(len(payload)),
		})
	}
}

// seedShortcuts adds the default desktop app aliases.
func (m *Manager) seedShortcuts(shortcuts []manifestShortcut, skipExisting bool) {
	for _, sc := range shortcuts {
		path := paths.Join(paths.Desktop, sc.Name)
		if skipExisting && m.Exists(path) {
			continue
		}
		m.Add(&types.FileItem{
			Path:           path,
			Name:           sc.Name,
			Type:           types.TypeAlias,
			AliasType:      types.AliasApp,
			AppID:          sc.AppID,
			Icon:           sc.Icon,
			HiddenOnThemes: sc.HiddenOnThemes,
		})
	}
}

func (m *Manager) setLibraryState(version int) {
	m.mu.Lock()
	m.library = libraryState{
		Initialized:     true,
		ManifestVersion: version,
		InitializedAt:   types.NowMillis(),
	}
	m.mu.Unlock()
	m.save()
}

// LibraryInitialized reports whether first-run seeding already happened.
func (m *Manager) LibraryInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.library.Initialized
}
