package vfs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtop-os/webtop/internal/shared/types"
)

func aliasFixture(t *testing.T) *Manager {
	t.Helper()
	m := newTestManager(t)
	addDir(t, m, "/Desktop")
	addDir(t, m, "/Documents")
	addFile(t, m, "/Documents/notes.txt")
	return m
}

// TestCreateAliasFile tests a desktop shortcut to a file
func TestCreateAliasFile(t *testing.T) {
	m := aliasFixture(t)

	path, ok := m.CreateAlias("/Documents/notes.txt", "notes.txt", types.AliasFile, "")
	require.True(t, ok)
	assert.Equal(t, "/Desktop/notes.txt", path)

	alias, found := m.Get(path)
	require.True(t, found)
	assert.Equal(t, types.TypeAlias, alias.Type)
	assert.Equal(t, types.AliasFile, alias.AliasType)
	assert.Equal(t, "/Documents/notes.txt", alias.AliasTarget)
	assert.Empty(t, alias.UUID, "aliases carry no content")
}

// TestCreateAliasDeduplicates tests the numeric suffix before the extension
func TestCreateAliasDeduplicates(t *testing.T) {
	m := aliasFixture(t)

	first, ok := m.CreateAlias("/Documents/notes.txt", "notes.txt", types.AliasFile, "")
	require.True(t, ok)
	second, ok := m.CreateAlias("/Documents/notes.txt", "notes.txt", types.AliasFile, "")
	require.True(t, ok)
	third, ok := m.CreateAlias("/Documents/notes.txt", "notes.txt", types.AliasFile, "")
	require.True(t, ok)

	assert.Equal(t, "/Desktop/notes.txt", first)
	assert.Equal(t, "/Desktop/notes 2.txt", second)
	assert.Equal(t, "/Desktop/notes 3.txt", third)

	named, _ := m.Get(second)
	assert.Equal(t, "notes 2.txt", named.Name)
}

// TestCreateAliasDeduplicatesNoExtension tests suffixing names without a dot
func TestCreateAliasDeduplicatesNoExtension(t *testing.T) {
	m := aliasFixture(t)

	_, ok := m.CreateAlias("/Documents", "Documents", types.AliasFile, "")
	require.True(t, ok)
	second, ok := m.CreateAlias("/Documents", "Documents", types.AliasFile, "")
	require.True(t, ok)
	assert.Equal(t, "/Desktop/Documents 2", second)
}

// TestCreateAliasReclaimsTrashedSlot tests that a trashed record does not
// force a suffix
func TestCreateAliasReclaimsTrashedSlot(t *testing.T) {
	m := aliasFixture(t)

	first, ok := m.CreateAlias("/Documents/notes.txt", "notes.txt", types.AliasFile, "")
	require.True(t, ok)
	_, removed := m.Remove(first, false)
	require.True(t, removed)

	again, ok := m.CreateAlias("/Documents/notes.txt", "notes.txt", types.AliasFile, "")
	require.True(t, ok)
	assert.Equal(t, "/Desktop/notes.txt", again, "the trashed slot is reclaimed")

	alias, _ := m.Get(again)
	assert.False(t, alias.Trashed())
}

// TestCreateAliasRequiresActiveTarget tests file alias target checks
func TestCreateAliasRequiresActiveTarget(t *testing.T) {
	m := aliasFixture(t)

	_, ok := m.CreateAlias("/Documents/ghost.txt", "ghost.txt", types.AliasFile, "")
	assert.False(t, ok)

	_, removed := m.Remove("/Documents/notes.txt", false)
	require.True(t, removed)
	_, ok = m.CreateAlias("/Documents/notes.txt", "notes.txt", types.AliasFile, "")
	assert.False(t, ok, "trashed targets are not linkable")
}

// TestCreateAliasApp tests application shortcuts
func TestCreateAliasApp(t *testing.T) {
	m := aliasFixture(t)

	path, ok := m.CreateAlias("", "", types.AliasApp, "notepad")
	require.True(t, ok)
	assert.Equal(t, "/Desktop/notepad", path, "name defaults to the app id")

	alias, _ := m.Get(path)
	assert.Equal(t, types.AliasApp, alias.AliasType)
	assert.Equal(t, "notepad", alias.AppID)

	_, ok = m.CreateAlias("", "Broken", types.AliasApp, "")
	assert.False(t, ok, "app aliases need an app id")
}

// TestCreateAliasRejectsUnknownType tests alias type validation
func TestCreateAliasRejectsUnknownType(t *testing.T) {
	m := aliasFixture(t)
	_, ok := m.CreateAlias("/Documents/notes.txt", "x", types.AliasType("junk"), "")
	assert.False(t, ok)
}

// TestCreateAliasWithoutDesktop tests that a missing desktop refuses aliases
func TestCreateAliasWithoutDesktop(t *testing.T) {
	m := newTestManager(t)
	addDir(t, m, "/Documents")
	addFile(t, m, "/Documents/notes.txt")

	_, ok := m.CreateAlias("/Documents/notes.txt", "notes.txt", types.AliasFile, "")
	assert.False(t, ok)
}

// TestResolveAliasChain tests following alias-to-alias links
func TestResolveAliasChain(t *testing.T) {
	m := aliasFixture(t)

	first, ok := m.CreateAlias("/Documents/notes.txt", "notes.txt", types.AliasFile, "")
	require.True(t, ok)
	second, ok := m.CreateAlias(first, "link to link", types.AliasFile, "")
	require.True(t, ok)

	resolved, ok := m.ResolveAlias(second)
	require.True(t, ok)
	assert.Equal(t, "/Documents/notes.txt", resolved.Path)
	assert.False(t, resolved.IsAlias())
}

// TestResolveAliasAppStops tests that app aliases resolve to themselves
func TestResolveAliasAppStops(t *testing.T) {
	m := aliasFixture(t)

	path, ok := m.CreateAlias("", "Notepad", types.AliasApp, "notepad")
	require.True(t, ok)

	resolved, ok := m.ResolveAlias(path)
	require.True(t, ok)
	assert.Equal(t, "notepad", resolved.AppID, "the launcher needs the app id, not a file")
}

// TestResolveAliasNonAlias tests that plain items resolve to themselves
func TestResolveAliasNonAlias(t *testing.T) {
	m := aliasFixture(t)
	resolved, ok := m.ResolveAlias("/Documents/notes.txt")
	require.True(t, ok)
	assert.Equal(t, "/Documents/notes.txt", resolved.Path)
}

// TestResolveAliasDangling tests failure on missing or trashed targets
func TestResolveAliasDangling(t *testing.T) {
	m := aliasFixture(t)

	path, ok := m.CreateAlias("/Documents/notes.txt", "notes.txt", types.AliasFile, "")
	require.True(t, ok)
	_, removed := m.Remove("/Documents/notes.txt", false)
	require.True(t, removed)

	_, ok = m.ResolveAlias(path)
	assert.False(t, ok, "a trashed target is a broken link")

	_, ok = m.ResolveAlias("/Desktop/never-existed")
	assert.False(t, ok)
}

// TestResolveAliasCycle tests cycle detection
func TestResolveAliasCycle(t *testing.T) {
	m := newTestManager(t)
	addDir(t, m, "/Desktop")

	// Hand-build two aliases pointing at each other; CreateAlias cannot
	// produce this because it checks its target first.
	require.True(t, m.Add(&types.FileItem{
		Path: "/Desktop/a", Type: types.TypeAlias,
		AliasType: types.AliasFile, AliasTarget: "/Desktop/b",
	}))
	require.True(t, m.Add(&types.FileItem{
		Path: "/Desktop/b", Type: types.TypeAlias,
		AliasType: types.AliasFile, AliasTarget: "/Desktop/a",
	}))

	_, ok := m.ResolveAlias("/Desktop/a")
	assert.False(t, ok)
}

// TestResolveAliasDepthLimit tests the chain length cap
func TestResolveAliasDepthLimit(t *testing.T) {
	m := aliasFixture(t)

	target := "/Documents/notes.txt"
	var last string
	for i := 0; i < maxAliasDepth+2; i++ {
		path, ok := m.CreateAlias(target, fmt.Sprintf("hop %d", i), types.AliasFile, "")
		require.True(t, ok)
		target = path
		last = path
	}

	_, ok := m.ResolveAlias(last)
	assert.False(t, ok, "chains past the cap resolve to nothing")
}
