package types

// Settings are the user's desktop preferences, persisted alongside the
// instance table. Wallpaper is either a built-in name or a content-store
// UUID in the wallpapers bucket.
type Settings struct {
	Theme       string   `json:"theme"`
	Wallpaper   string   `json:"wallpaper"`
	AccentColor string   `json:"accent_color,omitempty"`
	DockPins    []string `json:"dock_pins,omitempty"`
	Compact     bool     `json:"compact"`
}

// DefaultSettings returns the factory desktop preferences.
func DefaultSettings() Settings {
	return Settings{
		Theme:     "light",
		Wallpaper: "default",
		DockPins:  []string{"files", "notepad", "terminal"},
	}
}

// Clone returns a copy safe to hand to callers.
func (s Settings) Clone() Settings {
	c := s
	if s.DockPins != nil {
		c.DockPins = append([]string(nil), s.DockPins...)
	}
	return c
}
