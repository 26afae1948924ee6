package todo

import "time"

// EventType names a change to the collection.
type EventType string

// Change event types.
const (
	EventCreated EventType = "todo.created"
	EventUpdated EventType = "todo.updated"
	EventDeleted EventType = "todo.deleted"
)

// Event describes one completed mutation.
type Event struct {
	Type      EventType `json:"type"`
	Todo      Todo      `json:"todo"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier receives change events after the store has committed them.
// Implementations must not block: Notify runs on the request goroutine.
type Notifier interface {
	Notify(ev Event)
}
