package types

import (
	"strings"
	"time"
)

// ItemType tags what a filesystem item is. Directories, text formats and
// shortcuts use fixed tags; images carry their extension as the tag
// ("png", "jpeg", ...) so the shell can pick a renderer without sniffing.
type ItemType string

const (
	TypeDirectory   ItemType = "directory"
	TypeText        ItemType = "text"
	TypeMarkdown    ItemType = "markdown"
	TypeApplication ItemType = "application"
	TypeAlias       ItemType = "alias"
	TypeUnknown     ItemType = "unknown"
)

// imageTypes are the extension tags treated as images. Wallpapers and
// picture files use these directly as their Type.
var imageTypes = map[ItemType]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "webp": {}, "svg": {}, "bmp": {}, "ico": {},
}

// IsImage reports whether the type tag is an image extension.
func (t ItemType) IsImage() bool {
	_, ok := imageTypes[t]
	return ok
}

// TypeForName derives an item type from a file name's extension. Names
// without a usable extension come back TypeUnknown so callers can fall
// through to content sniffing.
func TypeForName(name string) ItemType {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return TypeUnknown
	}
	switch ext := ItemType(strings.ToLower(name[i+1:])); ext {
	case "md", "markdown":
		return TypeMarkdown
	case "txt", "log", "text":
		return TypeText
	default:
		if ext.IsImage() {
			return ext
		}
		return TypeUnknown
	}
}

// AliasType distinguishes shortcuts to files from shortcuts to applications.
type AliasType string

const (
	AliasFile AliasType = "file"
	AliasApp  AliasType = "app"
)

// TrashInfo records where a soft-deleted item came from. A nil TrashInfo
// means the item is active; presence means trashed. Restore consumes it.
type TrashInfo struct {
	OriginalPath string `json:"original_path"`
	DeletedAt    int64  `json:"deleted_at"`
}

// FileItem is the metadata record for one virtual path. Content bytes live
// in the content store, addressed by UUID; directories and aliases have no
// UUID. Timestamps are epoch milliseconds.
type FileItem struct {
	Path           string     `json:"path"`
	Name           string     `json:"name"`
	IsDirectory    bool       `json:"is_directory"`
	Type           ItemType   `json:"type"`
	UUID           string     `json:"uuid,omitempty"`
	Trash          *TrashInfo `json:"trash,omitempty"`
	CreatedAt      int64      `json:"created_at"`
	ModifiedAt     int64      `json:"modified_at"`
	Size           int64      `json:"size,omitempty"`
	AppID          string     `json:"app_id,omitempty"`
	AliasType      AliasType  `json:"alias_type,omitempty"`
	AliasTarget    string     `json:"alias_target,omitempty"`
	HiddenOnThemes []string   `json:"hidden_on_themes,omitempty"`
	Icon           string     `json:"icon,omitempty"`
}

// Trashed reports whether the item is soft-deleted.
func (f *FileItem) Trashed() bool {
	return f.Trash != nil
}

// IsAlias reports whether the item is a shortcut.
func (f *FileItem) IsAlias() bool {
	return f.AliasTarget != "" || f.Type == TypeAlias
}

// Clone returns a deep copy safe to hand outside the store's lock.
func (f *FileItem) Clone() *FileItem {
	c := *f
	if f.Trash != nil {
		t := *f.Trash
		c.Trash = &t
	}
	if f.HiddenOnThemes != nil {
		c.HiddenOnThemes = append([]string(nil), f.HiddenOnThemes...)
	}
	return &c
}

// VFSStats summarizes the metadata store.
type VFSStats struct {
	TotalItems   int `json:"total_items"`
	ActiveItems  int `json:"active_items"`
	TrashedItems int `json:"trashed_items"`
	Directories  int `json:"directories"`
	Files        int `json:"files"`
	Aliases      int `json:"aliases"`
}

// NowMillis returns the current time in epoch milliseconds, the timestamp
// unit used across all persisted records.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
