// Package instance is the window manager. It tracks every open app
// window, the stacking order, and which window owns the foreground.
//
// Semantics:
//   - Instance ids come from a persisted monotonic counter ("inst-1",
//     "inst-2", ...) and are never reused, even across restarts.
//   - The z-order lists exactly the open instances, minimized ones
//     included; the last element is the topmost window.
//   - At most one instance is foreground, and a foreground instance is
//     never minimized. Minimizing the foreground window promotes the
//     topmost remaining visible window; closing it prefers a visible
//     sibling of the same app.
//   - Lazy apps open in a loading state and only take the foreground
//     once marked loaded; a duplicate load signal is ignored so it
//     cannot steal focus later.
//   - Launch behaves like a dock click: all-minimized apps get their
//     most recent window restored, single-window apps are refocused,
//     and everything else opens a new window.
//
// Desktop settings (theme, wallpaper, dock pins) persist in the same
// state blob and are managed here too.
//
// Components:
//   - Manager: instance table, z-order, and foreground bookkeeping
//   - Lifecycle: Launch, Focus, Minimize, Restore, Close, MarkLoaded
//   - Persistence: debounced "ui" snapshot with versioned migrations
//
// Example Usage:
//
//	mgr := instance.NewManager(registry, log).WithBus(bus)
//	mgr.EnablePersistence(store, time.Second)
//	inst, err := mgr.Launch("notepad", instance.CreateOptions{})
package instance
