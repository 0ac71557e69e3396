package types

// AppDefinition describes a registered application: the stable contract the
// desktop core sees. The core never inspects an app beyond this record; the
// shell mounts the entry point with {instanceId, initialData, isForeground}.
type AppDefinition struct {
	ID             string   `json:"id" toml:"id"`
	Name           string   `json:"name" toml:"name"`
	Icon           string   `json:"icon" toml:"icon"`
	Category       string   `json:"category" toml:"category"`
	Description    string   `json:"description,omitempty" toml:"description"`
	DefaultSize    Size     `json:"default_size" toml:"default_size"`
	MinSize        Size     `json:"min_size,omitempty" toml:"min_size"`
	MultiWindow    bool     `json:"multi_window" toml:"multi_window"`
	Lazy           bool     `json:"lazy" toml:"lazy"`
	Critical       bool     `json:"critical" toml:"critical"`
	HiddenOnThemes []string `json:"hidden_on_themes,omitempty" toml:"hidden_on_themes"`

	// BundleUUID points at an installed applet's bundle in the content
	// store. Empty for built-in apps shipped with the shell.
	BundleUUID string `json:"bundle_uuid,omitempty" toml:"-"`
}

// Clone returns a copy safe to hand to callers.
func (a *AppDefinition) Clone() *AppDefinition {
	c := *a
	if a.HiddenOnThemes != nil {
		c.HiddenOnThemes = append([]string(nil), a.HiddenOnThemes...)
	}
	return &c
}

// RegistryStats contains app registry statistics.
type RegistryStats struct {
	TotalApps  int            `json:"total_apps"`
	Installed  int            `json:"installed"`
	Categories map[string]int `json:"categories"`
}
