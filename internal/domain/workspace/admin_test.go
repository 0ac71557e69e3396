package workspace

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtop-os/webtop/internal/domain/instance"
	"github.com/webtop-os/webtop/internal/domain/registry"
	"github.com/webtop-os/webtop/internal/shared/types"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}

// TestFormat tests the factory reset: everything wiped, library reseeded.
func TestFormat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addDir(t, "/Stuff")
	item := f.saveFile(t, "/Stuff/mine.txt", []byte("precious"), types.TypeText)

	require.NoError(t, f.ws.Format(ctx))

	_, ok := f.fs.Get("/Stuff/mine.txt")
	assert.False(t, ok)
	assert.False(t, f.inBucket(t, types.BucketDocuments, item.UUID))

	assert.True(t, f.fs.Exists("/Pictures"))
	assert.True(t, f.fs.Exists("/Desktop"))

	welcome, ok := f.fs.Get("/Documents/Welcome.md")
	require.True(t, ok)
	assert.Equal(t, types.TypeMarkdown, welcome.Type)
	assert.True(t, f.inBucket(t, types.BucketDocuments, welcome.UUID))
}

func clockPackage() registry.Package {
	return registry.Package{
		Definition: types.AppDefinition{
			ID:          "clock",
			Name:        "Clock",
			Icon:        "clock",
			Category:    "utilities",
			DefaultSize: types.Size{Width: 320, Height: 320},
		},
		Blueprint: json.RawMessage(`{"root":"analog-clock"}`),
	}
}

// TestInstallApplet tests installing a bundle with a desktop shortcut.
func TestInstallApplet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addDir(t, "/Desktop")

	def, err := f.ws.InstallApplet(ctx, clockPackage(), true)
	require.NoError(t, err)
	require.NotEmpty(t, def.BundleUUID)

	app, ok := f.registry.Get("clock")
	require.True(t, ok)
	assert.Equal(t, def.BundleUUID, app.BundleUUID)
	assert.True(t, f.inBucket(t, types.BucketApplets, def.BundleUUID))

	shortcut, ok := f.fs.Get("/Desktop/Clock")
	require.True(t, ok)
	assert.True(t, shortcut.IsAlias())
	assert.Equal(t, "clock", shortcut.AppID)

	// Installed applets launch like built-ins.
	inst, err := f.instances.Launch("clock", instance.CreateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Clock", inst.Title)
}

// TestInstallAppletRejectsBuiltinID tests that bundles cannot shadow
// built-in apps.
func TestInstallAppletRejectsBuiltinID(t *testing.T) {
	f := newFixture(t)
	pkg := clockPackage()
	pkg.Definition.ID = "files"

	_, err := f.ws.InstallApplet(context.Background(), pkg, false)
	assert.Error(t, err)
}

// TestUninstallApplet tests removal of the bundle, registration and
// shortcuts.
func TestUninstallApplet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addDir(t, "/Desktop")

	def, err := f.ws.InstallApplet(ctx, clockPackage(), true)
	require.NoError(t, err)

	require.NoError(t, f.ws.UninstallApplet(ctx, "clock"))

	_, ok := f.registry.Get("clock")
	assert.False(t, ok)
	assert.False(t, f.inBucket(t, types.BucketApplets, def.BundleUUID))
	_, ok = f.fs.Get("/Desktop/Clock")
	assert.False(t, ok)

	assert.Error(t, f.ws.UninstallApplet(ctx, "files"))
	assert.Error(t, f.ws.UninstallApplet(ctx, "clock"))
}

// TestUninstallAppletSweepsTrashedShortcut tests that a shortcut already
// in the trash goes too.
func TestUninstallAppletSweepsTrashedShortcut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addDir(t, "/Desktop")

	_, err := f.ws.InstallApplet(ctx, clockPackage(), true)
	require.NoError(t, err)
	require.True(t, f.ws.MoveToTrash(ctx, "/Desktop/Clock"))

	require.NoError(t, f.ws.UninstallApplet(ctx, "clock"))

	assert.Empty(t, f.ws.ListFiles("/Trash"))
}

// TestWallpapers tests upload, listing and deletion.
func TestWallpapers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	wp, err := f.ws.UploadWallpaper(ctx, "dunes.png", pngMagic)
	require.NoError(t, err)
	assert.Equal(t, "dunes.png", wp.Name)
	assert.Equal(t, "image/png", wp.MIME)

	_, err = f.ws.UploadWallpaper(ctx, "", pngMagic)
	require.NoError(t, err)

	_, err = f.ws.UploadWallpaper(ctx, "notes.txt", []byte("plain text, not an image"))
	assert.Error(t, err)

	list, err := f.ws.ListWallpapers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "dunes.png", list[0].Name)
	assert.Equal(t, "wallpaper.png", list[1].Name)

	require.NoError(t, f.ws.DeleteWallpaper(ctx, wp.UUID))
	list, err = f.ws.ListWallpapers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// TestDeleteWallpaperInUse tests the fallback to the default wallpaper.
func TestDeleteWallpaperInUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	wp, err := f.ws.UploadWallpaper(ctx, "mine.png", pngMagic)
	require.NoError(t, err)

	_, err = f.instances.UpdateSettings(instance.SettingsPatch{Wallpaper: &wp.UUID})
	require.NoError(t, err)
	require.Equal(t, wp.UUID, f.instances.Settings().Wallpaper)

	require.NoError(t, f.ws.DeleteWallpaper(ctx, wp.UUID))
	assert.Equal(t, types.DefaultSettings().Wallpaper, f.instances.Settings().Wallpaper)
}
