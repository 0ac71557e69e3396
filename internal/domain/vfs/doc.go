// Package vfs is the metadata store for the virtual desktop filesystem.
//
// It keeps one flat map from absolute path to item record; directories are
// records like any other and containment is derived from path prefixes.
// File payloads live in the content store, referenced by uuid, so every
// operation here is pure metadata and resolves in memory.
//
// Semantics worth knowing:
//   - Deleting is a soft delete. The item and its subtree flip to trashed
//     in place, keeping their path keys, so name uniqueness still sees
//     them. Restore puts the batch back where it came from, recreating
//     ancestors when needed.
//   - Moves and renames rewrite the path prefix of the whole subtree,
//     trashed descendants included, but never touch a trashed item's
//     recorded origin.
//   - Every mutator is fail-soft: a bad argument logs a warning and
//     returns false with the map untouched. The shell treats false as
//     "nothing happened".
//
// Components:
//   - Manager: the path map plus all filesystem operations
//   - Bootstrap: first-run seeding from the embedded library manifest
//   - EnablePersistence: versioned state blob with debounced saves
//
// Example Usage:
//
//	m := vfs.NewManager(logger).WithBus(bus)
//	m.EnablePersistence(store, cfg.SaveDelay)
//	err := m.Bootstrap(ctx, contentStore)
//	ok := m.Move("/Documents/notes.txt", "/Desktop/notes.txt")
package vfs
