// Package registry tracks every application the desktop can launch.
//
// Built-in apps ship in an embedded manifest and register on every start.
// Installed applets live as bundles in the content store's applets bucket
// and are re-registered from there; installing writes the bundle first so
// a registered app always has its payload on record.
//
// The registry is the source for the synthesized /Applications directory
// and for launch requests from the window manager. It never interprets an
// applet's blueprint; that is the shell's job.
//
// Components:
//   - Manager: in-memory id -> definition map with theme filtering
//   - Seeder: built-in seeding, applet install/uninstall, bundle access
//
// Example Usage:
//
//	reg := registry.NewManager(logger).WithMetrics(metrics)
//	seeder := registry.NewSeeder(reg, contentStore, logger)
//	err := seeder.SeedBuiltins()
//	err = seeder.LoadInstalled(ctx)
//	apps := reg.ListVisible(settings.Theme)
package registry
