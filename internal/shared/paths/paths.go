// Package paths provides the virtual desktop namespace used across the backend.
//
// All item paths are absolute, `/`-delimited and rooted at the desktop root.
// Any changes here must stay in sync with the shell's navigation sidebar.
package paths

import "strings"

// Root of the virtual filesystem.
const Root = "/"

// Standard library directories seeded on first run.
const (
	Desktop   = "/Desktop"
	Documents = "/Documents"
	Downloads = "/Downloads"
	Pictures  = "/Pictures"
	Music     = "/Music"
)

// Virtual directories. Neither is backed by a metadata record: Applications
// is synthesized from the app registry, Trash from trashed items.
const (
	Applications = "/Applications"
	Trash        = "/Trash"
)

// StandardDirectories returns the library roots that should exist after
// bootstrap, in sidebar order.
func StandardDirectories() []string {
	return []string{Desktop, Documents, Downloads, Pictures, Music}
}

// IsVirtual reports whether path is synthesized rather than stored.
func IsVirtual(path string) bool {
	return path == Applications || path == Trash
}

// Normalize returns a canonical absolute path: leading slash enforced,
// duplicate and trailing slashes stripped, "" mapped to root.
func Normalize(path string) string {
	if path == "" || path == Root {
		return Root
	}
	segs := strings.Split(path, "/")
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return Root
	}
	return "/" + strings.Join(out, "/")
}

// Parent returns the containing directory, or root for top-level paths.
// The root's parent is the root itself.
func Parent(path string) string {
	path = Normalize(path)
	if path == Root {
		return Root
	}
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return Root
	}
	return path[:i]
}

// Base returns the leaf segment of path, or "/" for the root.
func Base(path string) string {
	path = Normalize(path)
	if path == Root {
		return Root
	}
	return path[strings.LastIndex(path, "/")+1:]
}

// Join appends a leaf name to a directory path.
func Join(dir, name string) string {
	dir = Normalize(dir)
	if dir == Root {
		return "/" + name
	}
	return dir + "/" + name
}

// IsDescendant reports whether child sits strictly below ancestor.
func IsDescendant(ancestor, child string) bool {
	ancestor = Normalize(ancestor)
	child = Normalize(child)
	if ancestor == Root {
		return child != Root
	}
	return strings.HasPrefix(child, ancestor+"/")
}

// Rebase rewrites path from oldPrefix to newPrefix. The caller guarantees
// path equals oldPrefix or descends from it.
func Rebase(path, oldPrefix, newPrefix string) string {
	if path == oldPrefix {
		return newPrefix
	}
	return newPrefix + strings.TrimPrefix(path, oldPrefix)
}

// SplitExt splits a leaf name into stem and extension ("a.txt" -> "a",
// ".txt"). Names without a dot, or starting with one, have no extension.
func SplitExt(name string) (stem, ext string) {
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return name, ""
	}
	return name[:i], name[i:]
}

// Ext returns the lowercase extension of a leaf name without the dot.
func Ext(name string) string {
	_, ext := SplitExt(name)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}
