package types

import "encoding/json"

// SaveFileRequest writes file content and upserts its metadata. Type is
// optional; when empty the server derives it from the content bytes.
// Binary payloads set Encoding to "base64".
type SaveFileRequest struct {
	Path     string   `json:"path" binding:"required"`
	Name     string   `json:"name,omitempty"`
	Content  string   `json:"content"`
	Encoding string   `json:"encoding,omitempty"`
	Type     ItemType `json:"type,omitempty"`
}

// FolderRequest creates a directory.
type FolderRequest struct {
	Path string `json:"path" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// MoveRequest moves an item into a destination directory.
type MoveRequest struct {
	Source      string `json:"source" binding:"required"`
	Destination string `json:"destination" binding:"required"`
}

// RenameRequest renames an item in place.
type RenameRequest struct {
	Path    string `json:"path" binding:"required"`
	NewName string `json:"new_name" binding:"required"`
}

// PathRequest targets a single item by path.
type PathRequest struct {
	Path string `json:"path" binding:"required"`
}

// AliasRequest drops a desktop shortcut. Target is a filesystem path for
// file aliases and an application id for app aliases.
type AliasRequest struct {
	Target    string    `json:"target" binding:"required"`
	Name      string    `json:"name,omitempty"`
	AliasType AliasType `json:"alias_type,omitempty"`
}

// LaunchRequest opens an application window.
type LaunchRequest struct {
	AppID       string                 `json:"app_id" binding:"required"`
	Title       string                 `json:"title,omitempty"`
	InitialData map[string]interface{} `json:"initial_data,omitempty"`
	Position    *Position              `json:"position,omitempty"`
	Size        *Size                  `json:"size,omitempty"`
	MultiWindow *bool                  `json:"multi_window,omitempty"`
}

// GeometryRequest updates window position and size.
type GeometryRequest struct {
	Position *Position `json:"position,omitempty"`
	Size     *Size     `json:"size,omitempty"`
}

// NavigateRequest moves a workspace to a path.
type NavigateRequest struct {
	Path string `json:"path" binding:"required"`
}

// SettingsRequest patches desktop preferences; nil fields are unchanged.
type SettingsRequest struct {
	Theme       *string  `json:"theme,omitempty"`
	Wallpaper   *string  `json:"wallpaper,omitempty"`
	AccentColor *string  `json:"accent_color,omitempty"`
	DockPins    []string `json:"dock_pins,omitempty"`
	Compact     *bool    `json:"compact,omitempty"`
}

// SessionRequest saves the current desktop under a name. An empty name
// saves the default session.
type SessionRequest struct {
	Name string `json:"name"`
}

// InstallRequest registers an applet whose blueprint bundle is uploaded
// alongside its definition.
type InstallRequest struct {
	Definition AppDefinition   `json:"definition" binding:"required"`
	Blueprint  json.RawMessage `json:"blueprint,omitempty"`
	Shortcut   bool            `json:"shortcut"`
}

// WSMessage is a client frame on the event stream.
type WSMessage struct {
	Type   string   `json:"type"`
	Topics []string `json:"topics,omitempty"`
}
