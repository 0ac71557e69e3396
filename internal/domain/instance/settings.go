package instance

import (
	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/shared/types"
	"github.com/webtop-os/webtop/internal/shared/utils"
)

// SettingsPatch updates a subset of the desktop settings. Nil fields are
// left as they are.
type SettingsPatch struct {
	Theme       *string   `json:"theme,omitempty"`
	Wallpaper   *string   `json:"wallpaper,omitempty"`
	AccentColor *string   `json:"accent_color,omitempty"`
	DockPins    *[]string `json:"dock_pins,omitempty"`
	Compact     *bool     `json:"compact,omitempty"`
}

// Settings returns a copy of the current desktop settings
func (m *Manager) Settings() types.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.Clone()
}

// UpdateSettings applies a partial settings change and broadcasts it.
// An invalid theme rejects the whole patch.
func (m *Manager) UpdateSettings(patch SettingsPatch) (types.Settings, error) {
	if patch.Theme != nil {
		if err := utils.ValidateTheme(*patch.Theme); err != nil {
			return types.Settings{}, err
		}
	}

	m.mu.Lock()
	if patch.Theme != nil {
		m.settings.Theme = *patch.Theme
	}
	if patch.Wallpaper != nil {
		m.settings.Wallpaper = *patch.Wallpaper
	}
	if patch.AccentColor != nil {
		m.settings.AccentColor = *patch.AccentColor
	}
	if patch.DockPins != nil {
		m.settings.DockPins = append([]string(nil), (*patch.DockPins)...)
	}
	if patch.Compact != nil {
		m.settings.Compact = *patch.Compact
	}
	applied := m.settings.Clone()
	m.mu.Unlock()

	m.log.Info("Settings updated", zap.String("theme", applied.Theme))
	m.committed(types.EventSettingsChange, map[string]interface{}{
		"theme":     applied.Theme,
		"wallpaper": applied.Wallpaper,
	})
	return applied, nil
}

// normalizeSettings fills blanks in a loaded settings blob with defaults.
func normalizeSettings(s types.Settings) types.Settings {
	def := types.DefaultSettings()
	if s.Theme == "" {
		s.Theme = def.Theme
	}
	if s.Wallpaper == "" {
		s.Wallpaper = def.Wallpaper
	}
	if s.DockPins == nil {
		s.DockPins = def.DockPins
	}
	return s
}
