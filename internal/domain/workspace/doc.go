// Package workspace is the facade behind the shell's file surface. It
// orchestrates the metadata store, the content store, the app registry,
// and the window manager so each stays ignorant of the others.
//
// Semantics:
//   - Navigation state (current path, history, selection) belongs to the
//     window instance, so it survives reloads with the ui snapshot.
//     Detached() serves callers browsing without a window.
//   - /Applications is synthesized from the registry and /Trash from the
//     soft-deleted items; neither exists in the metadata store.
//   - Opening resolves aliases first, then navigates, launches, or
//     fetches content. A store miss pulls lazily registered payloads in
//     exactly once before giving up.
//   - Writes keep both stores consistent: payload first, metadata second,
//     with rollback when the metadata store refuses. Trash and restore
//     park payloads in the trash bucket and bring them back.
//   - Content store failures are errors; metadata refusals stay fail-soft
//     booleans, matching the stores underneath.
package workspace
