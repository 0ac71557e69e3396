package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtop-os/webtop/internal/domain/instance"
	"github.com/webtop-os/webtop/internal/domain/registry"
	"github.com/webtop-os/webtop/internal/infrastructure/logging"
	"github.com/webtop-os/webtop/internal/shared/types"
)

func newTestManager(t *testing.T) (*Manager, *instance.Manager, string) {
	t.Helper()
	log := logging.NewNop()

	reg := registry.NewManager(log)
	require.NoError(t, reg.Register(&types.AppDefinition{
		ID: "notepad", Name: "Notepad", MultiWindow: true,
		DefaultSize: types.Size{Width: 720, Height: 520},
	}))
	require.NoError(t, reg.Register(&types.AppDefinition{
		ID: "settings", Name: "Settings",
		DefaultSize: types.Size{Width: 840, Height: 560},
	}))
	require.NoError(t, reg.Register(&types.AppDefinition{
		ID: "clock", Name: "Clock",
		DefaultSize: types.Size{Width: 320, Height: 320},
	}))

	desk := instance.NewManager(reg, log)
	dir := t.TempDir()
	return NewManager(desk, dir, log), desk, dir
}

func zOrder(desk *instance.Manager) []string {
	var out []string
	for _, inst := range desk.List() {
		out = append(out, inst.ID)
	}
	return out
}

// TestSaveCapturesDesktop tests that a save records windows, order,
// foreground and settings.
func TestSaveCapturesDesktop(t *testing.T) {
	mgr, desk, dir := newTestManager(t)

	a, err := desk.Create("notepad", instance.CreateOptions{})
	require.NoError(t, err)
	b, err := desk.Create("settings", instance.CreateOptions{})
	require.NoError(t, err)
	theme := "dark"
	_, err = desk.UpdateSettings(instance.SettingsPatch{Theme: &theme})
	require.NoError(t, err)

	sess, err := mgr.Save("evening")
	require.NoError(t, err)

	assert.Contains(t, sess.ID, "sess_")
	assert.Equal(t, "evening", sess.Name)
	assert.Len(t, sess.Instances, 2)
	assert.Equal(t, []string{a.ID, b.ID}, sess.InstanceOrder)
	require.NotNil(t, sess.ForegroundID)
	assert.Equal(t, b.ID, *sess.ForegroundID)
	assert.Equal(t, "dark", sess.Settings.Theme)

	_, err = os.Stat(filepath.Join(dir, "sessions", sess.ID+".session"))
	require.NoError(t, err)
}

// TestSaveName tests name defaulting and validation.
func TestSaveName(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	sess, err := mgr.Save("")
	require.NoError(t, err)
	assert.Equal(t, "default", sess.Name)

	_, err = mgr.Save("bad/name")
	assert.Error(t, err)
}

// TestList tests the metadata listing.
func TestList(t *testing.T) {
	mgr, desk, _ := newTestManager(t)
	_, err := desk.Create("notepad", instance.CreateOptions{})
	require.NoError(t, err)

	s1, err := mgr.Save("one")
	require.NoError(t, err)
	s2, err := mgr.Save("two")
	require.NoError(t, err)

	list := mgr.List()
	require.Len(t, list, 2)
	ids := []string{list[0].ID, list[1].ID}
	assert.ElementsMatch(t, []string{s1.ID, s2.ID}, ids)
	assert.Equal(t, 1, list[0].Windows)
}

// TestLoadAll tests that a fresh manager over the same directory sees
// saved sessions and skips corrupt files.
func TestLoadAll(t *testing.T) {
	mgr, desk, dir := newTestManager(t)
	_, err := desk.Create("notepad", instance.CreateOptions{})
	require.NoError(t, err)
	sess, err := mgr.Save("keep")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "sessions", "sess_broken.session"), []byte("{nope"), 0o644))

	log := logging.NewNop()
	fresh := NewManager(mgr.desktop, dir, log)
	require.NoError(t, fresh.LoadAll())

	list := fresh.List()
	require.Len(t, list, 1)
	assert.Equal(t, sess.ID, list[0].ID)

	got, err := fresh.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Name)
	assert.Len(t, got.Instances, 1)
}

// TestRestore tests a full desktop round trip: stacking order, geometry,
// minimized flags, navigation state and foreground all come back under
// fresh window ids.
func TestRestore(t *testing.T) {
	mgr, desk, _ := newTestManager(t)

	a, err := desk.Create("notepad", instance.CreateOptions{
		Position:    &types.Position{X: 10, Y: 20},
		Size:        &types.Size{Width: 640, Height: 480},
		InitialData: map[string]interface{}{"file": "/Documents/notes.txt"},
	})
	require.NoError(t, err)
	b, err := desk.Create("notepad", instance.CreateOptions{})
	require.NoError(t, err)
	require.True(t, desk.Minimize(b.ID))
	c, err := desk.Create("settings", instance.CreateOptions{})
	require.NoError(t, err)
	require.True(t, desk.Focus(a.ID))

	_, ok := desk.UpdateWorkspace(a.ID, func(ws *types.WorkspaceState) {
		ws.CurrentPath = "/Documents"
		ws.History = []string{"/", "/Documents"}
		ws.HistoryIndex = 1
	})
	require.True(t, ok)

	sess, err := mgr.Save("layout")
	require.NoError(t, err)
	require.Equal(t, []string{b.ID, c.ID, a.ID}, sess.InstanceOrder)

	// Wreck the desktop so the restore has something to undo.
	require.True(t, desk.Close(c.ID))
	_, err = desk.Create("clock", instance.CreateOptions{})
	require.NoError(t, err)

	require.NoError(t, mgr.Restore(sess.ID))

	order := zOrder(desk)
	require.Len(t, order, 3)
	assert.NotContains(t, order, a.ID)
	assert.NotContains(t, order, b.ID)

	restored := desk.List()
	assert.Equal(t, "notepad", restored[0].AppID)
	assert.True(t, restored[0].IsMinimized)
	assert.Equal(t, "settings", restored[1].AppID)

	top := restored[2]
	assert.Equal(t, "notepad", top.AppID)
	assert.True(t, top.IsForeground)
	assert.Equal(t, types.Position{X: 10, Y: 20}, top.Position)
	assert.Equal(t, types.Size{Width: 640, Height: 480}, top.Size)
	assert.Equal(t, "/Documents/notes.txt", top.InitialData["file"])
	require.NotNil(t, top.Workspace)
	assert.Equal(t, "/Documents", top.Workspace.CurrentPath)
	assert.Equal(t, []string{"/", "/Documents"}, top.Workspace.History)

	fg, ok := desk.Foreground()
	require.True(t, ok)
	assert.Equal(t, top.ID, fg)
}

// TestRestoreSkipsMissingApp tests that windows of uninstalled apps are
// dropped while the rest of the session restores.
func TestRestoreSkipsMissingApp(t *testing.T) {
	mgr, desk, _ := newTestManager(t)

	_, err := desk.Create("clock", instance.CreateOptions{})
	require.NoError(t, err)
	_, err = desk.Create("notepad", instance.CreateOptions{})
	require.NoError(t, err)
	sess, err := mgr.Save("mixed")
	require.NoError(t, err)

	reg := registry.NewManager(logging.NewNop())
	require.NoError(t, reg.Register(&types.AppDefinition{
		ID: "notepad", Name: "Notepad", MultiWindow: true,
		DefaultSize: types.Size{Width: 720, Height: 520},
	}))
	bare := instance.NewManager(reg, logging.NewNop())
	mgr.desktop = bare

	require.NoError(t, mgr.Restore(sess.ID))

	remaining := bare.List()
	require.Len(t, remaining, 1)
	assert.Equal(t, "notepad", remaining[0].AppID)
}

// TestRestoreNoForeground tests that a session captured with nothing
// focused restores that way.
func TestRestoreNoForeground(t *testing.T) {
	mgr, desk, _ := newTestManager(t)

	_, err := desk.Create("notepad", instance.CreateOptions{})
	require.NoError(t, err)
	desk.Blur()
	sess, err := mgr.Save("idle")
	require.NoError(t, err)

	require.NoError(t, mgr.Restore(sess.ID))

	_, ok := desk.Foreground()
	assert.False(t, ok)
}

// TestDelete tests removal from cache and disk.
func TestDelete(t *testing.T) {
	mgr, desk, dir := newTestManager(t)
	_, err := desk.Create("notepad", instance.CreateOptions{})
	require.NoError(t, err)
	sess, err := mgr.Save("doomed")
	require.NoError(t, err)

	require.NoError(t, mgr.Delete(sess.ID))
	assert.Empty(t, mgr.List())
	_, err = os.Stat(filepath.Join(dir, "sessions", sess.ID+".session"))
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, mgr.Delete(sess.ID))
	_, err = mgr.Get(sess.ID)
	assert.Error(t, err)
}

// TestStats tests the save/restore timestamps.
func TestStats(t *testing.T) {
	mgr, desk, _ := newTestManager(t)
	_, err := desk.Create("notepad", instance.CreateOptions{})
	require.NoError(t, err)

	stats := mgr.Stats()
	assert.Zero(t, stats.TotalSessions)
	assert.Nil(t, stats.LastSavedAt)

	sess, err := mgr.Save("work")
	require.NoError(t, err)
	stats = mgr.Stats()
	assert.Equal(t, 1, stats.TotalSessions)
	assert.NotNil(t, stats.LastSavedAt)
	assert.Nil(t, stats.LastRestoredAt)

	require.NoError(t, mgr.Restore(sess.ID))
	assert.NotNil(t, mgr.Stats().LastRestoredAt)
}
