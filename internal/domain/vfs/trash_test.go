package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRemoveSoftDeletesSubtree tests that deleting a directory trashes the
// whole subtree in place under one timestamp
func TestRemoveSoftDeletesSubtree(t *testing.T) {
	m := newTestManager(t)
	addDir(t, m, "/Documents")
	addDir(t, m, "/Documents/Work")
	addFile(t, m, "/Documents/Work/draft.txt")
	addFile(t, m, "/Documents/keep.txt")

	freed, ok := m.Remove("/Documents/Work", false)
	require.True(t, ok)
	assert.Empty(t, freed, "soft delete frees no content")

	work, found := m.Get("/Documents/Work")
	require.True(t, found, "trashed items keep their path keys")
	draft, found := m.Get("/Documents/Work/draft.txt")
	require.True(t, found)

	require.True(t, work.Trashed())
	require.True(t, draft.Trashed())
	assert.Equal(t, "/Documents/Work", work.Trash.OriginalPath)
	assert.Equal(t, "/Documents/Work/draft.txt", draft.Trash.OriginalPath)
	assert.Equal(t, work.Trash.DeletedAt, draft.Trash.DeletedAt, "one stamp covers the batch")

	keep, _ := m.Get("/Documents/keep.txt")
	assert.False(t, keep.Trashed(), "siblings are untouched")
}

// TestRemoveMissing tests the no-op on unknown paths
func TestRemoveMissing(t *testing.T) {
	m := newTestManager(t)
	_, ok := m.Remove("/Documents/ghost.txt", false)
	assert.False(t, ok)
	_, ok = m.Remove("/Trash", false)
	assert.False(t, ok, "virtual paths are not removable")
}

// TestRemovePermanent tests hard deletion and freed uuid reporting
func TestRemovePermanent(t *testing.T) {
	m := newTestManager(t)
	addDir(t, m, "/Documents")
	uuid := addFile(t, m, "/Documents/notes.txt")

	freed, ok := m.Remove("/Documents", true)
	require.True(t, ok)
	assert.Equal(t, []string{uuid}, freed)
	assert.False(t, m.Exists("/Documents"))
	assert.False(t, m.Exists("/Documents/notes.txt"))
}

// TestRemoveTrashedPurges tests that removing an already-trashed item deletes it
func TestRemoveTrashedPurges(t *testing.T) {
	m := newTestManager(t)
	addDir(t, m, "/Documents")
	uuid := addFile(t, m, "/Documents/notes.txt")

	_, ok := m.Remove("/Documents/notes.txt", false)
	require.True(t, ok)
	freed, ok := m.Remove("/Documents/notes.txt", false)
	require.True(t, ok)

	assert.Equal(t, []string{uuid}, freed)
	assert.False(t, m.Exists("/Documents/notes.txt"))
}

// TestRestoreBatch tests restoring a subtree trashed in one operation
func TestRestoreBatch(t *testing.T) {
	m := newTestManager(t)
	addDir(t, m, "/Documents")
	addDir(t, m, "/Documents/Work")
	addFile(t, m, "/Documents/Work/draft.txt")

	_, ok := m.Remove("/Documents/Work", false)
	require.True(t, ok)
	require.True(t, m.Restore("/Documents/Work"))

	work, _ := m.Get("/Documents/Work")
	draft, _ := m.Get("/Documents/Work/draft.txt")
	assert.False(t, work.Trashed())
	assert.False(t, draft.Trashed(), "the whole batch reactivates")
	assert.Empty(t, m.List("/Trash"))
}

// TestRestoreHonorsOriginalPath tests that a restore returns the item to
// where it was trashed from, even after its ancestor moved away
func TestRestoreHonorsOriginalPath(t *testing.T) {
	m := newTestManager(t)
	addDir(t, m, "/Documents")
	addFile(t, m, "/Documents/notes.txt")

	_, ok := m.Remove("/Documents/notes.txt", false)
	require.True(t, ok)
	require.True(t, m.Rename("/Documents", "/Docs", "Docs"))

	// The trashed record rode along with the rename but remembers home.
	moved, found := m.Get("/Docs/notes.txt")
	require.True(t, found)
	assert.Equal(t, "/Documents/notes.txt", moved.Trash.OriginalPath)

	require.True(t, m.Restore("/Docs/notes.txt"))

	restored, found := m.Get("/Documents/notes.txt")
	require.True(t, found, "restore goes to the original path")
	assert.False(t, restored.Trashed())
	assert.False(t, m.Exists("/Docs/notes.txt"))

	parent, found := m.Get("/Documents")
	require.True(t, found, "the missing ancestor is recreated")
	assert.True(t, parent.IsDirectory)
	assert.False(t, parent.Trashed())
}

// TestRestoreInPlaceWhenOriginOccupied tests the fallback when the original
// path grew a new occupant
func TestRestoreInPlaceWhenOriginOccupied(t *testing.T) {
	m := newTestManager(t)
	addDir(t, m, "/Documents")
	oldUUID := addFile(t, m, "/Documents/notes.txt")

	_, ok := m.Remove("/Documents/notes.txt", false)
	require.True(t, ok)
	require.True(t, m.Rename("/Documents", "/Docs", "Docs"))

	addDir(t, m, "/Documents")
	newUUID := addFile(t, m, "/Documents/notes.txt")

	require.True(t, m.Restore("/Docs/notes.txt"))

	occupant, _ := m.Get("/Documents/notes.txt")
	assert.Equal(t, newUUID, occupant.UUID, "the new occupant is never clobbered")

	inPlace, found := m.Get("/Docs/notes.txt")
	require.True(t, found, "restore falls back to the current location")
	assert.False(t, inPlace.Trashed())
	assert.Equal(t, oldUUID, inPlace.UUID)
}

// TestRestoreRevivesTrashedAncestors tests restoring a file whose parent
// directory was trashed afterwards
func TestRestoreRevivesTrashedAncestors(t *testing.T) {
	m := newTestManager(t)
	addDir(t, m, "/Documents")
	addFile(t, m, "/Documents/report.txt")
	addFile(t, m, "/Documents/other.txt")

	_, ok := m.Remove("/Documents/report.txt", false)
	require.True(t, ok)
	_, ok = m.Remove("/Documents", false)
	require.True(t, ok)

	require.True(t, m.Restore("/Documents/report.txt"))

	report, _ := m.Get("/Documents/report.txt")
	assert.False(t, report.Trashed())

	dir, _ := m.Get("/Documents")
	assert.False(t, dir.Trashed(), "the parent comes back so the file never dangles")

	other, _ := m.Get("/Documents/other.txt")
	assert.True(t, other.Trashed(), "items from the later batch stay trashed")
}

// TestRestoreKeepsSeparatelyTrashedDescendants tests that restoring a
// directory leaves items trashed in earlier operations in the trash
func TestRestoreKeepsSeparatelyTrashedDescendants(t *testing.T) {
	m := newTestManager(t)
	addDir(t, m, "/Projects")
	addFile(t, m, "/Projects/old.txt")
	addFile(t, m, "/Projects/new.txt")

	_, ok := m.Remove("/Projects/old.txt", false)
	require.True(t, ok)
	_, ok = m.Remove("/Projects", false)
	require.True(t, ok)

	require.True(t, m.Restore("/Projects"))

	dir, _ := m.Get("/Projects")
	assert.False(t, dir.Trashed())
	newFile, _ := m.Get("/Projects/new.txt")
	assert.False(t, newFile.Trashed())
	oldFile, _ := m.Get("/Projects/old.txt")
	assert.True(t, oldFile.Trashed(), "separately trashed items keep their own restore point")
}

// TestRestoreRejectsActive tests the no-op on items not in the trash
func TestRestoreRejectsActive(t *testing.T) {
	m := newTestManager(t)
	addDir(t, m, "/Documents")
	assert.False(t, m.Restore("/Documents"))
	assert.False(t, m.Restore("/Documents/ghost.txt"))
}

// TestEmptyTrash tests purging every trashed item at once
func TestEmptyTrash(t *testing.T) {
	m := newTestManager(t)
	addDir(t, m, "/Documents")
	trashedUUID := addFile(t, m, "/Documents/gone.txt")
	addFile(t, m, "/Documents/kept.txt")

	_, ok := m.Remove("/Documents/gone.txt", false)
	require.True(t, ok)

	freed := m.EmptyTrash()
	assert.Equal(t, []string{trashedUUID}, freed)
	assert.False(t, m.Exists("/Documents/gone.txt"))
	assert.True(t, m.Exists("/Documents/kept.txt"), "active items survive")
	assert.Empty(t, m.List("/Trash"))
}
