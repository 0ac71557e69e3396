package types

// EventType names a committed state change broadcast to shell subscribers.
type EventType string

const (
	EventFSChanged      EventType = "fs.changed"
	EventFSTrashed      EventType = "fs.trashed"
	EventFSRestored     EventType = "fs.restored"
	EventFSFormatted    EventType = "fs.formatted"
	EventInstanceOpened EventType = "instance.opened"
	EventInstanceClosed EventType = "instance.closed"
	EventInstanceFocus  EventType = "instance.focused"
	EventInstanceMinim  EventType = "instance.minimized"
	EventInstanceRestor EventType = "instance.restored"
	EventInstanceLoaded EventType = "instance.loaded"
	EventInstanceMoved  EventType = "instance.moved"
	EventSettingsChange EventType = "settings.changed"
	EventSessionRestore EventType = "session.restored"
	EventContentStored  EventType = "content.stored"
	EventContentRemoved EventType = "content.removed"
)

// Event is one store mutation notification. Emitted after commit; observers
// must not mutate Data.
type Event struct {
	Type EventType              `json:"type"`
	Data map[string]interface{} `json:"data,omitempty"`
	Time int64                  `json:"time"`
}

// NewEvent stamps an event with the current time.
func NewEvent(t EventType, data map[string]interface{}) Event {
	return Event{Type: t, Data: data, Time: NowMillis()}
}
