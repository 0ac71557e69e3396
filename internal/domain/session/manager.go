package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/domain/instance"
	"github.com/webtop-os/webtop/internal/infrastructure/events"
	"github.com/webtop-os/webtop/internal/infrastructure/logging"
	"github.com/webtop-os/webtop/internal/infrastructure/monitoring"
	"github.com/webtop-os/webtop/internal/shared/id"
	"github.com/webtop-os/webtop/internal/shared/types"
	"github.com/webtop-os/webtop/internal/shared/utils"
)

const sessionExt = ".session"

// Desktop is the slice of the instance manager sessions capture and replay.
type Desktop interface {
	List() []*types.Instance
	Foreground() (string, bool)
	Settings() types.Settings
	Create(appID string, opts instance.CreateOptions) (*types.Instance, error)
	Close(iid string) bool
	Focus(iid string) bool
	Blur()
	Minimize(iid string) bool
	UpdateSettings(patch instance.SettingsPatch) (types.Settings, error)
	UpdateWorkspace(iid string, fn func(*types.WorkspaceState)) (types.WorkspaceState, bool)
}

// Manager saves and restores named desktop sessions. Each session is one
// JSON file under <dir>; the in-memory cache mirrors the directory so List
// never touches disk.
type Manager struct {
	desktop Desktop
	dir     string
	log     *logging.Logger
	metrics *monitoring.Metrics
	bus     *events.Bus

	sessions     sync.Map // id -> *types.Session
	mu           sync.RWMutex
	lastSaved    *int64
	lastRestored *int64
}

// NewManager creates a session manager storing files under
// <stateDir>/sessions
func NewManager(desktop Desktop, stateDir string, log *logging.Logger) *Manager {
	return &Manager{
		desktop: desktop,
		dir:     filepath.Join(stateDir, "sessions"),
		log:     log.Component("session"),
	}
}

// WithMetrics adds metrics tracking
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithBus attaches the event bus
func (m *Manager) WithBus(bus *events.Bus) *Manager {
	m.bus = bus
	return m
}

// LoadAll fills the cache from the sessions directory. Files that no
// longer decode are logged and skipped; one bad session must not hide the
// rest.
func (m *Manager) LoadAll() error {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read sessions dir: %w", err)
	}

	var loaded, skipped int
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), sessionExt) {
			continue
		}
		sid := strings.TrimSuffix(e.Name(), sessionExt)
		if _, ok := m.sessions.Load(sid); ok {
			continue
		}
		data, err := os.ReadFile(filepath.Join(m.dir, e.Name()))
		if err != nil {
			m.log.Warn("Skipping unreadable session file",
				zap.String("file", e.Name()), zap.Error(err))
			skipped++
			continue
		}
		var sess types.Session
		if err := sonic.Unmarshal(data, &sess); err != nil || sess.ID == "" {
			m.log.Warn("Skipping undecodable session file",
				zap.String("file", e.Name()), zap.Error(err))
			skipped++
			continue
		}
		m.sessions.Store(sid, &sess)
		loaded++
	}

	if loaded > 0 || skipped > 0 {
		m.log.Info("Sessions loaded", zap.Int("loaded", loaded), zap.Int("skipped", skipped))
	}
	return nil
}

// Save captures the desktop as a named session and writes it to disk. The
// snapshot covers every window with its geometry, stacking order and
// navigation state, the foreground pointer, and the active settings.
func (m *Manager) Save(name string) (*types.Session, error) {
	if name == "" {
		name = "default"
	}
	if err := utils.ValidateName(name); err != nil {
		return nil, fmt.Errorf("session name: %w", err)
	}

	// Capture without holding any session state; List hands back clones.
	open := m.desktop.List()
	instances := make([]types.Instance, 0, len(open))
	order := make([]string, 0, len(open))
	for _, inst := range open {
		instances = append(instances, *inst)
		order = append(order, inst.ID)
	}

	sess := &types.Session{
		ID:            id.NewSessionID().String(),
		Name:          name,
		CreatedAt:     types.NowMillis(),
		Instances:     instances,
		InstanceOrder: order,
		Settings:      m.desktop.Settings(),
	}
	if fg, ok := m.desktop.Foreground(); ok {
		sess.ForegroundID = &fg
	}

	if err := m.write(sess); err != nil {
		return nil, err
	}
	m.sessions.Store(sess.ID, sess)

	now := types.NowMillis()
	m.mu.Lock()
	m.lastSaved = &now
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.IncSessionsSaved()
	}
	m.log.Info("Session saved",
		zap.String("session_id", sess.ID),
		zap.String("name", name),
		zap.Int("windows", len(instances)))
	return sess, nil
}

// Get returns a session from the cache, falling back to its file.
func (m *Manager) Get(sid string) (*types.Session, error) {
	if cached, ok := m.sessions.Load(sid); ok {
		return cached.(*types.Session), nil
	}

	data, err := os.ReadFile(m.path(sid))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("session %s not found", sid)
	}
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", sid, err)
	}

	var sess types.Session
	if err := sonic.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sid, err)
	}
	if sess.ID == "" {
		return nil, fmt.Errorf("session file %s has no id", sid)
	}

	m.sessions.Store(sid, &sess)
	return &sess, nil
}

// List returns the saved sessions, newest first.
func (m *Manager) List() []types.SessionMetadata {
	var out []types.SessionMetadata
	m.sessions.Range(func(_, value interface{}) bool {
		out = append(out, value.(*types.Session).ToMetadata())
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Restore replaces the current desktop with a saved session: every open
// window closes, the saved ones replay bottom to top with fresh ids, and
// settings, minimized flags and the foreground window come back as
// captured. A window whose app is gone is skipped, not fatal.
func (m *Manager) Restore(sid string) error {
	sess, err := m.Get(sid)
	if err != nil {
		return err
	}

	for _, inst := range m.desktop.List() {
		m.desktop.Close(inst.ID)
	}

	// Settings first so the replayed windows appear on the saved theme.
	if _, err := m.desktop.UpdateSettings(settingsPatch(sess.Settings)); err != nil {
		m.log.Warn("Session settings rejected", zap.Error(err))
	}

	byID := make(map[string]*types.Instance, len(sess.Instances))
	for i := range sess.Instances {
		byID[sess.Instances[i].ID] = &sess.Instances[i]
	}

	idMap := make(map[string]string, len(sess.Instances))
	for _, oldID := range sess.InstanceOrder {
		if old, ok := byID[oldID]; ok {
			m.replay(old, idMap)
		}
	}
	// A torn file can hold instances the order list misses; replay those
	// too rather than dropping windows.
	for i := range sess.Instances {
		old := &sess.Instances[i]
		if _, done := idMap[old.ID]; !done {
			m.replay(old, idMap)
		}
	}

	if sess.ForegroundID != nil {
		if newID, ok := idMap[*sess.ForegroundID]; ok {
			m.desktop.Focus(newID)
		}
	} else {
		m.desktop.Blur()
	}

	now := types.NowMillis()
	m.mu.Lock()
	m.lastRestored = &now
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.IncSessionsRestored()
	}
	m.emit(types.EventSessionRestore, map[string]interface{}{
		"session_id": sess.ID,
		"name":       sess.Name,
		"windows":    len(idMap),
	})
	m.log.Info("Session restored",
		zap.String("session_id", sess.ID),
		zap.Int("windows", len(idMap)))
	return nil
}

// replay opens one saved window under a fresh id, carrying over geometry,
// navigation state and the minimized flag.
func (m *Manager) replay(old *types.Instance, idMap map[string]string) {
	pos := old.Position
	size := old.Size
	inst, err := m.desktop.Create(old.AppID, instance.CreateOptions{
		Title:       old.Title,
		InitialData: old.InitialData,
		Position:    &pos,
		Size:        &size,
	})
	if err != nil {
		m.log.Warn("Skipping session window: app unavailable",
			zap.String("app_id", old.AppID), zap.Error(err))
		return
	}
	idMap[old.ID] = inst.ID

	if old.Workspace != nil {
		saved := *old.Workspace
		m.desktop.UpdateWorkspace(inst.ID, func(ws *types.WorkspaceState) {
			*ws = saved
			ws.History = append([]string(nil), saved.History...)
		})
	}
	if old.IsMinimized {
		m.desktop.Minimize(inst.ID)
	}
}

// Delete removes a saved session from disk and cache.
func (m *Manager) Delete(sid string) error {
	_, cached := m.sessions.Load(sid)

	err := os.Remove(m.path(sid))
	switch {
	case err == nil:
	case os.IsNotExist(err):
		if !cached {
			return fmt.Errorf("session %s not found", sid)
		}
	default:
		return fmt.Errorf("delete session %s: %w", sid, err)
	}

	m.sessions.Delete(sid)
	m.log.Info("Session deleted", zap.String("session_id", sid))
	return nil
}

// Stats returns session manager statistics.
func (m *Manager) Stats() types.SessionStats {
	var total int
	m.sessions.Range(func(_, _ interface{}) bool {
		total++
		return true
	})

	m.mu.RLock()
	saved := m.lastSaved
	restored := m.lastRestored
	m.mu.RUnlock()

	return types.SessionStats{
		TotalSessions:  total,
		LastSavedAt:    saved,
		LastRestoredAt: restored,
	}
}

// write commits a session file atomically: temp file in the same
// directory, then rename.
func (m *Manager) write(sess *types.Session) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("create sessions dir: %w", err)
	}
	data, err := sonic.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp, err := os.CreateTemp(m.dir, sess.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for session: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmpName, m.path(sess.ID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

func (m *Manager) path(sid string) string {
	return filepath.Join(m.dir, sid+sessionExt)
}

// settingsPatch turns a full settings snapshot into the patch that
// reapplies it.
func settingsPatch(s types.Settings) instance.SettingsPatch {
	pins := append([]string(nil), s.DockPins...)
	return instance.SettingsPatch{
		Theme:       &s.Theme,
		Wallpaper:   &s.Wallpaper,
		AccentColor: &s.AccentColor,
		DockPins:    &pins,
		Compact:     &s.Compact,
	}
}

func (m *Manager) emit(t types.EventType, data map[string]interface{}) {
	if m.bus != nil {
		m.bus.Emit(types.NewEvent(t, data))
	}
}
