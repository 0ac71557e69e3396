package persist

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/infrastructure/logging"
)

// Saver coalesces rapid mutations into one disk write per quiet period.
// Trigger resets the timer; Flush writes immediately. Capture runs outside
// any store lock held by the caller's manager, so it must take its own
// snapshot of the state.
type Saver struct {
	store   *Store
	name    string
	version int
	delay   time.Duration
	capture func() interface{}
	log     *logging.Logger

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// NewSaver wires a debounced writer for one named blob.
func NewSaver(store *Store, name string, version int, delay time.Duration, capture func() interface{}, log *logging.Logger) *Saver {
	if log == nil {
		log = logging.NewNop()
	}
	return &Saver{
		store:   store,
		name:    name,
		version: version,
		delay:   delay,
		capture: capture,
		log:     log.Component("persist"),
	}
}

// Trigger schedules a save after the quiet period. Calls during the period
// reset the timer, so a burst of mutations costs one write.
func (s *Saver) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.flush)
}

// Flush writes the current state immediately, cancelling any pending timer.
func (s *Saver) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	s.flush()
}

// Close flushes once and disables future triggers.
func (s *Saver) Close() {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	s.flush()
}

func (s *Saver) flush() {
	state := s.capture()
	if state == nil {
		return
	}
	if err := s.store.Save(s.name, s.version, state); err != nil {
		s.log.Error("State save failed",
			zap.String("name", s.name), zap.Error(err))
	}
}
