// Package events provides the in-process pub/sub bus that carries committed
// store mutations to shell-facing observers. The server is single-process:
// stores emit after each commit, the WebSocket layer fans out to clients.
package events

import (
	"sync"
	"sync/atomic"

	"github.com/webtop-os/webtop/internal/shared/types"
)

// Handler receives one event. Handlers run on the emitter's goroutine and
// must not block.
type Handler func(types.Event)

// subscriber is a channel-based observer with its own buffer.
type subscriber struct {
	id int64
	ch chan types.Event
}

// Bus dispatches events to typed handlers and channel subscribers.
type Bus struct {
	mu       sync.RWMutex
	handlers map[types.EventType][]Handler
	subs     map[int64]*subscriber
	nextSub  int64
	dropped  atomic.Int64
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{
		handlers: make(map[types.EventType][]Handler),
		subs:     make(map[int64]*subscriber),
	}
}

// On registers a handler for one event type.
func (b *Bus) On(t types.EventType, fn Handler) {
	b.mu.Lock()
	b.handlers[t] = append(b.handlers[t], fn)
	b.mu.Unlock()
}

// Subscribe attaches a buffered channel observer receiving every event.
// The returned cancel func detaches it; the channel is closed on cancel.
func (b *Bus) Subscribe(buffer int) (<-chan types.Event, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	b.mu.Lock()
	b.nextSub++
	s := &subscriber{id: b.nextSub, ch: make(chan types.Event, buffer)}
	b.subs[s.id] = s
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, s.id)
			b.mu.Unlock()
			close(s.ch)
		})
	}
	return s.ch, cancel
}

// Emit dispatches an event to all handlers and subscribers. Slow channel
// subscribers lose events rather than stalling the emitter.
func (b *Bus) Emit(e types.Event) {
	b.mu.RLock()
	handlers := b.handlers[e.Type]
	b.mu.RUnlock()

	// Handlers run outside the lock so they may emit follow-up events.
	for _, fn := range handlers {
		fn(e)
	}

	// Channel sends stay under the read lock: Subscribe's cancel takes the
	// write lock before closing, so a channel is never closed mid-send.
	b.mu.RLock()
	for _, s := range b.subs {
		select {
		case s.ch <- e:
		default:
			b.dropped.Add(1)
		}
	}
	b.mu.RUnlock()
}

// Dropped reports how many events were lost to slow subscribers.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}
