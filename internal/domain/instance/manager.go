package instance

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/infrastructure/events"
	"github.com/webtop-os/webtop/internal/infrastructure/logging"
	"github.com/webtop-os/webtop/internal/infrastructure/monitoring"
	"github.com/webtop-os/webtop/internal/shared/id"
	"github.com/webtop-os/webtop/internal/shared/types"
)

// Window cascade constants. New windows stagger down-right from the base
// corner and wrap so a burst of launches never walks off screen.
const (
	cascadeBaseX = 120
	cascadeBaseY = 80
	cascadeStep  = 32
	cascadeWrap  = 10
)

// AppSource resolves app ids to their definitions. Satisfied by the
// registry manager.
type AppSource interface {
	Get(id string) (*types.AppDefinition, bool)
}

// saveTrigger is the slice of persist.Saver the manager needs
type saveTrigger interface {
	Trigger()
	Flush()
	Close()
}

// Manager is the window manager: one record per open window, a z-order
// slice whose last element is topmost, and at most one foreground
// instance. Every instance in the map is open; closing deletes the record.
type Manager struct {
	mu         sync.RWMutex
	instances  map[string]*types.Instance // Protected by mu
	order      []string                   // Protected by mu; z-order, last = topmost
	foreground string                     // Protected by mu; "" = nothing focused
	nextID     int64                      // Protected by mu; monotonic, persisted
	settings   types.Settings             // Protected by mu

	apps    AppSource
	log     *logging.Logger
	metrics *monitoring.Metrics
	bus     *events.Bus
	saver   saveTrigger
}

// NewManager creates an empty window manager
func NewManager(apps AppSource, log *logging.Logger) *Manager {
	return &Manager{
		instances: make(map[string]*types.Instance),
		nextID:    1,
		settings:  types.DefaultSettings(),
		apps:      apps,
		log:       log.Component("instance"),
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithBus attaches the event bus
func (m *Manager) WithBus(bus *events.Bus) *Manager {
	m.bus = bus
	return m
}

// CreateOptions tune window creation and launch.
type CreateOptions struct {
	Title       string
	InitialData map[string]interface{}
	Position    *types.Position
	Size        *types.Size

	// MultiWindow overrides the app definition's flag for this launch.
	MultiWindow *bool
}

// Create opens a new window for appID and returns it. The id is assigned
// from the persisted monotonic counter, so ids stay unique across
// restarts. Lazy apps start loading in the background and take foreground
// only once marked loaded; everything else is foreground immediately.
func (m *Manager) Create(appID string, opts CreateOptions) (*types.Instance, error) {
	app, ok := m.apps.Get(appID)
	if !ok {
		return nil, fmt.Errorf("app %q not registered", appID)
	}

	m.mu.Lock()
	inst := m.createLocked(app, opts).Clone()
	m.mu.Unlock()

	m.log.Info("Instance created",
		zap.String("instance_id", inst.ID),
		zap.String("app_id", appID),
		zap.Bool("loading", inst.IsLoading))
	if m.metrics != nil {
		m.metrics.IncWindowsTotal()
	}
	m.committed(types.EventInstanceOpened, map[string]interface{}{
		"instance_id": inst.ID, "app_id": appID,
	})
	return inst, nil
}

// createLocked allocates and registers a new instance. Must hold mu.
func (m *Manager) createLocked(app *types.AppDefinition, opts CreateOptions) *types.Instance {
	n := m.nextID
	m.nextID++
	iid := id.Instance(n)

	title := opts.Title
	if title == "" {
		title = app.Name
	}

	size := app.DefaultSize
	if opts.Size != nil {
		size = *opts.Size
	}
	size = clampSize(size, app.MinSize)

	var pos types.Position
	switch {
	case opts.Position != nil:
		pos = *opts.Position
	case m.settings.Compact:
		// Compact layouts maximize; the corner is the whole screen.
		pos = types.Position{}
	default:
		step := cascadeStep * (len(m.order) % cascadeWrap)
		pos = types.Position{X: cascadeBaseX + step, Y: cascadeBaseY + step}
	}

	inst := &types.Instance{
		ID:          iid,
		AppID:       app.ID,
		Title:       title,
		IsOpen:      true,
		IsLoading:   app.Lazy && !app.Critical,
		Position:    pos,
		Size:        size,
		CreatedAt:   types.NowMillis(),
		InitialData: opts.InitialData,
	}

	m.instances[iid] = inst
	m.order = append(m.order, iid)
	if !inst.IsLoading {
		m.seizeForeground(iid)
	}
	return inst
}

// seizeForeground makes id the single foreground instance and moves it to
// the order tail. Must hold mu; the caller guarantees id exists.
func (m *Manager) seizeForeground(iid string) {
	for _, other := range m.instances {
		other.IsForeground = false
	}
	inst := m.instances[iid]
	inst.IsForeground = true
	inst.IsMinimized = false
	m.foreground = iid
	m.toTail(iid)

	if m.metrics != nil {
		m.metrics.IncForegroundSwitches()
	}
}

// toTail moves id to the end of the z-order. Must hold mu.
func (m *Manager) toTail(iid string) {
	for i, existing := range m.order {
		if existing == iid {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.order = append(m.order, iid)
}

// topMatch scans the z-order from topmost down and returns the first open
// instance satisfying pred, or "". Must hold mu.
func (m *Manager) topMatch(pred func(*types.Instance) bool) string {
	for i := len(m.order) - 1; i >= 0; i-- {
		inst, ok := m.instances[m.order[i]]
		if ok && inst.IsOpen && pred(inst) {
			return inst.ID
		}
	}
	return ""
}

func clampSize(size, min types.Size) types.Size {
	if min.Width > 0 && size.Width < min.Width {
		size.Width = min.Width
	}
	if min.Height > 0 && size.Height < min.Height {
		size.Height = min.Height
	}
	return size
}

// Get returns a copy of one instance
func (m *Manager) Get(iid string) (*types.Instance, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inst, ok := m.instances[iid]
	if !ok {
		return nil, false
	}
	return inst.Clone(), true
}

// List returns every instance in z-order, bottom first
func (m *Manager) List() []*types.Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*types.Instance, 0, len(m.order))
	for _, iid := range m.order {
		if inst, ok := m.instances[iid]; ok {
			out = append(out, inst.Clone())
		}
	}
	return out
}

// ListByApp returns the open instances of one app, most recent first
func (m *Manager) ListByApp(appID string) []*types.Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*types.Instance
	for i := len(m.order) - 1; i >= 0; i-- {
		if inst, ok := m.instances[m.order[i]]; ok && inst.AppID == appID {
			out = append(out, inst.Clone())
		}
	}
	return out
}

// Foreground returns the focused instance id, or false when nothing is
func (m *Manager) Foreground() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.foreground, m.foreground != ""
}

// Stats returns window manager counters
func (m *Manager) Stats() types.InstanceStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := types.InstanceStats{}
	for _, inst := range m.instances {
		stats.Total++
		if inst.IsOpen {
			stats.Open++
		}
		if inst.IsMinimized {
			stats.Minimized++
		}
		if inst.IsLoading {
			stats.Loading++
		}
	}
	if m.foreground != "" {
		fg := m.foreground
		stats.ForegroundID = &fg
	}
	return stats
}

// CheckIntegrity reconciles the z-order against the instance table: stale
// order entries and closed records are dropped, open instances missing
// from the order are appended by creation time, and the foreground claim
// is revalidated. Returns true when anything had to change. Runs after
// snapshot load and on demand.
func (m *Manager) CheckIntegrity() bool {
	m.mu.Lock()
	changed := false

	for iid, inst := range m.instances {
		if !inst.IsOpen {
			delete(m.instances, iid)
			changed = true
		}
	}

	seen := make(map[string]struct{}, len(m.order))
	rebuilt := m.order[:0]
	for _, iid := range m.order {
		if _, dup := seen[iid]; dup {
			changed = true
			continue
		}
		if _, ok := m.instances[iid]; !ok {
			changed = true
			continue
		}
		seen[iid] = struct{}{}
		rebuilt = append(rebuilt, iid)
	}

	var missing []*types.Instance
	for iid, inst := range m.instances {
		if _, ok := seen[iid]; !ok {
			missing = append(missing, inst)
		}
	}
	sort.Slice(missing, func(i, j int) bool {
		if missing[i].CreatedAt != missing[j].CreatedAt {
			return missing[i].CreatedAt < missing[j].CreatedAt
		}
		return missing[i].ID < missing[j].ID
	})
	for _, inst := range missing {
		rebuilt = append(rebuilt, inst.ID)
		changed = true
	}
	m.order = rebuilt

	// One foreground, open and visible, flag and pointer agreeing.
	fg, ok := m.instances[m.foreground]
	if m.foreground != "" && (!ok || fg.IsMinimized) {
		m.foreground = ""
		changed = true
	}
	for iid, inst := range m.instances {
		want := iid == m.foreground
		if inst.IsForeground != want {
			inst.IsForeground = want
			changed = true
		}
	}

	m.mu.Unlock()

	if changed {
		m.log.Warn("Instance table reconciled")
		m.save()
		m.updateGauges()
	}
	return changed
}

// committed emits an event and schedules a save after a successful mutation
func (m *Manager) committed(t types.EventType, data map[string]interface{}) {
	if m.bus != nil {
		m.bus.Emit(types.NewEvent(t, data))
	}
	m.save()
	m.updateGauges()
}

func (m *Manager) save() {
	if m.saver != nil {
		m.saver.Trigger()
	}
}

func (m *Manager) updateGauges() {
	if m.metrics == nil {
		return
	}
	m.mu.RLock()
	open := len(m.order)
	m.mu.RUnlock()
	m.metrics.SetWindowsOpen(open)
}
