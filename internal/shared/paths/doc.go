// Package paths provides the canonical virtual filesystem layout.
//
// This package defines the desktop's directory structure and the pure path
// helpers every component uses. Paths are absolute, `/`-delimited strings;
// no component touches the host filesystem through them.
//
// # Directory Structure
//
//	/
//	  ├── Desktop/        (shortcuts, user files)
//	  ├── Documents/      (text, markdown, general files)
//	  ├── Downloads/
//	  ├── Pictures/
//	  ├── Music/
//	  ├── Applications/   (virtual: synthesized from the app registry)
//	  └── Trash/          (virtual: all trashed items, any depth)
//
// # Usage
//
//	import "github.com/webtop-os/webtop/internal/shared/paths"
//
//	parent := paths.Parent("/Documents/notes.txt") // "/Documents"
//	dest := paths.Join("/Pictures", "photo.png")   // "/Pictures/photo.png"
//
//	if paths.IsVirtual(p) {
//	    // listing is synthesized, not stored
//	}
package paths
