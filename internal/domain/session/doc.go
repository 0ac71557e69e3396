// Package session provides named desktop snapshots.
//
// A session captures every open window with its geometry, stacking order
// and navigation state, plus the settings active at capture time. Each
// session is one JSON file under the state directory; an in-memory cache
// mirrors the directory so listing never touches disk.
//
// Components:
//   - Manager: save, list, restore and delete sessions
//   - Desktop: the slice of the instance manager sessions drive
//
// Restoration Process:
//  1. Load the session file (cache first)
//  2. Close every open window
//  3. Reapply the saved settings
//  4. Replay saved windows bottom to top with fresh ids
//  5. Reapply minimized flags and the foreground window
//
// Windows whose app has been uninstalled since the save are skipped with
// a warning; the rest of the session still restores.
//
// Example Usage:
//
//	manager := session.NewManager(instances, cfg.StateDir, log)
//	sess, err := manager.Save("before-upgrade")
//	err = manager.Restore(sess.ID)
package session
