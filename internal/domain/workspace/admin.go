package workspace

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/domain/instance"
	"github.com/webtop-os/webtop/internal/domain/registry"
	"github.com/webtop-os/webtop/internal/shared/id"
	"github.com/webtop-os/webtop/internal/shared/paths"
	"github.com/webtop-os/webtop/internal/shared/types"
	"github.com/webtop-os/webtop/internal/shared/utils"
)

// Format resets the desktop to factory state: all metadata gone, every
// content bucket cleared, the default library reseeded. User-installed
// applets lose their bundles, so the registry reseeds built-ins only.
func (m *Manager) Format(ctx context.Context) error {
	m.fs.Wipe()
	if err := m.content.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear content: %w", err)
	}
	if err := m.fs.Bootstrap(ctx, m.content); err != nil {
		return fmt.Errorf("reseed library: %w", err)
	}

	m.log.Info("Desktop formatted")
	m.emit(types.EventFSFormatted, map[string]interface{}{})
	return nil
}

// InstallApplet stores an applet bundle, registers its definition, and
// optionally drops a desktop shortcut.
func (m *Manager) InstallApplet(ctx context.Context, pkg registry.Package, shortcut bool) (*types.AppDefinition, error) {
	def, err := m.seeder.Install(ctx, pkg)
	if err != nil {
		return nil, err
	}
	if shortcut {
		if _, ok := m.fs.CreateAlias("", def.Name, types.AliasApp, def.ID); !ok {
			m.log.Warn("applet installed without shortcut",
				zap.String("app_id", def.ID))
		}
	}
	return def, nil
}

// UninstallApplet removes an installed applet and any desktop shortcuts
// pointing at it, trashed ones included.
func (m *Manager) UninstallApplet(ctx context.Context, appID string) error {
	if err := m.seeder.Uninstall(ctx, appID); err != nil {
		return err
	}
	shortcuts := append(m.fs.List(paths.Desktop), m.fs.List(paths.Trash)...)
	for _, item := range shortcuts {
		if item.IsAlias() && item.AppID == appID {
			m.fs.Remove(item.Path, true)
		}
	}
	return nil
}

// AppletBundle returns an installed applet's definition and blueprint.
func (m *Manager) AppletBundle(ctx context.Context, appID string) (*registry.Package, error) {
	return m.seeder.Bundle(ctx, appID)
}

// Wallpaper is one uploaded wallpaper in the wallpapers bucket.
type Wallpaper struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	MIME string `json:"mime"`
}

// ListWallpapers returns the uploaded wallpapers, sorted by name.
func (m *Manager) ListWallpapers(ctx context.Context) ([]Wallpaper, error) {
	entries, err := m.content.GetAll(ctx, types.BucketWallpapers)
	if err != nil {
		return nil, err
	}

	out := make([]Wallpaper, 0, len(entries))
	for uuid, entry := range entries {
		out = append(out, Wallpaper{
			UUID: uuid,
			Name: entry.Name,
			Size: int64(len(entry.Content)),
			MIME: mimetype.Detect(entry.Content).String(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].UUID < out[j].UUID
	})
	return out, nil
}

// UploadWallpaper stores an image in the wallpapers bucket and returns
// its content reference. Non-image payloads are refused.
func (m *Manager) UploadWallpaper(ctx context.Context, name string, data []byte) (*Wallpaper, error) {
	if err := utils.ValidateContentSize(len(data)); err != nil {
		return nil, err
	}
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, fmt.Errorf("wallpaper must be an image, got %s", mime.String())
	}
	if name == "" {
		name = "wallpaper" + mime.Extension()
	}
	if err := utils.ValidateName(name); err != nil {
		return nil, err
	}

	uuid := id.NewContentID().String()
	if err := m.content.Put(ctx, types.BucketWallpapers, uuid, types.Entry{Name: name, Content: data}); err != nil {
		return nil, err
	}

	m.log.Info("Wallpaper uploaded",
		zap.String("uuid", uuid), zap.String("name", name))
	return &Wallpaper{
		UUID: uuid,
		Name: name,
		Size: int64(len(data)),
		MIME: mime.String(),
	}, nil
}

// DeleteWallpaper removes an uploaded wallpaper. A desktop currently
// using it falls back to the default wallpaper.
func (m *Manager) DeleteWallpaper(ctx context.Context, uuid string) error {
	if err := m.content.Delete(ctx, types.BucketWallpapers, uuid); err != nil {
		return err
	}

	if m.instances.Settings().Wallpaper == uuid {
		def := types.DefaultSettings().Wallpaper
		if _, err := m.instances.UpdateSettings(instance.SettingsPatch{Wallpaper: &def}); err != nil {
			m.log.Warn("wallpaper fallback failed", zap.Error(err))
		}
	}
	return nil
}
