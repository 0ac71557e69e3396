package vfs

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtop-os/webtop/internal/infrastructure/logging"
	"github.com/webtop-os/webtop/internal/infrastructure/persist"
)

func newStateStore(t *testing.T) *persist.Store {
	t.Helper()
	store, err := persist.NewStore(t.TempDir(), logging.NewNop())
	require.NoError(t, err)
	return store
}

// TestPersistenceRoundTrip tests that items and trash state survive a restart
func TestPersistenceRoundTrip(t *testing.T) {
	store := newStateStore(t)

	m1 := newTestManager(t)
	m1.EnablePersistence(store, time.Hour)
	addDir(t, m1, "/Documents")
	uuid := addFile(t, m1, "/Documents/notes.txt")
	addFile(t, m1, "/Documents/gone.txt")
	_, ok := m1.Remove("/Documents/gone.txt", false)
	require.True(t, ok)
	m1.Close()

	m2 := newTestManager(t)
	m2.EnablePersistence(store, time.Hour)
	defer m2.Close()

	item, found := m2.Get("/Documents/notes.txt")
	require.True(t, found)
	assert.Equal(t, uuid, item.UUID)
	assert.False(t, item.Trashed())

	trashed, found := m2.Get("/Documents/gone.txt")
	require.True(t, found)
	require.True(t, trashed.Trashed())
	assert.Equal(t, "/Documents/gone.txt", trashed.Trash.OriginalPath)
}

// TestPersistenceMigratesV1 tests upgrading the oldest blob layout, where
// the bootstrap flag was a bare top-level field
func TestPersistenceMigratesV1(t *testing.T) {
	store := newStateStore(t)
	require.NoError(t, store.Save(stateFile, 1, map[string]interface{}{
		"initialized": true,
		"items": map[string]interface{}{
			"/Documents": map[string]interface{}{
				"path":         "/Documents",
				"name":         "Documents",
				"is_directory": true,
				"type":         "directory",
				"created_at":   1600000000000,
				"modified_at":  1600000000000,
			},
		},
	}))

	m := newTestManager(t)
	m.EnablePersistence(store, time.Hour)
	defer m.Close()

	assert.True(t, m.LibraryInitialized(), "the flag moved into library_state")
	item, found := m.Get("/Documents")
	require.True(t, found)
	assert.True(t, item.IsDirectory)
	assert.False(t, item.Trashed())
}

// TestPersistenceMigratesV2 tests folding the old status fields into the
// trash variant
func TestPersistenceMigratesV2(t *testing.T) {
	store := newStateStore(t)
	require.NoError(t, store.Save(stateFile, 2, map[string]interface{}{
		"library_state": map[string]interface{}{
			"initialized":      true,
			"manifest_version": 1,
		},
		"items": map[string]interface{}{
			"/Documents": map[string]interface{}{
				"path":         "/Documents",
				"name":         "Documents",
				"is_directory": true,
				"type":         "directory",
				"status":       "active",
			},
			"/Documents/old.txt": map[string]interface{}{
				"path":          "/Documents/old.txt",
				"name":          "old.txt",
				"type":          "text",
				"uuid":          "u-1",
				"status":        "trashed",
				"original_path": "/Documents/old.txt",
				"deleted_at":    1600000000123,
			},
		},
	}))

	m := newTestManager(t)
	m.EnablePersistence(store, time.Hour)
	defer m.Close()

	dir, found := m.Get("/Documents")
	require.True(t, found)
	assert.False(t, dir.Trashed())

	old, found := m.Get("/Documents/old.txt")
	require.True(t, found)
	require.True(t, old.Trashed())
	assert.Equal(t, "/Documents/old.txt", old.Trash.OriginalPath)
	assert.Equal(t, int64(1600000000123), old.Trash.DeletedAt)
}

// TestPersistenceCorruptBlob tests that garbage on disk degrades to an
// empty store instead of failing startup
func TestPersistenceCorruptBlob(t *testing.T) {
	store := newStateStore(t)
	require.NoError(t, os.WriteFile(store.Path(stateFile), []byte("{definitely not json"), 0o644))

	m := newTestManager(t)
	m.EnablePersistence(store, time.Hour)
	defer m.Close()

	assert.Zero(t, m.Stats().TotalItems)
	addDir(t, m, "/Documents")
	assert.True(t, m.Exists("/Documents"))
}

// TestPersistenceNewerVersion tests refusing a blob from a future build
func TestPersistenceNewerVersion(t *testing.T) {
	store := newStateStore(t)
	require.NoError(t, store.Save(stateFile, stateVersion+1, map[string]interface{}{
		"items": map[string]interface{}{},
	}))

	m := newTestManager(t)
	m.EnablePersistence(store, time.Hour)
	defer m.Close()
	assert.Zero(t, m.Stats().TotalItems)
}

// TestWipe tests the full reset used by desktop format
func TestWipe(t *testing.T) {
	store := newStateStore(t)
	w := newFakeContentWriter()

	m := newTestManager(t)
	m.EnablePersistence(store, time.Hour)
	defer m.Close()
	require.NoError(t, m.Bootstrap(context.Background(), w))
	require.Positive(t, m.Stats().TotalItems)

	m.Wipe()

	assert.Zero(t, m.Stats().TotalItems)
	assert.False(t, m.LibraryInitialized())

	require.NoError(t, m.Bootstrap(context.Background(), w))
	assert.True(t, m.Exists("/Documents/Welcome.md"), "a wiped desktop seeds from scratch")
}
