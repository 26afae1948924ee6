package mqtt

import "fmt"

// DefaultTopicPrefix is used when the configured prefix is empty.
const DefaultTopicPrefix = "todoapi"

// Topics builds the todo API topic hierarchy under Prefix.
//
//	topics := mqtt.Topics{Prefix: "todoapi"}
//	topics.Event("todo.created")
//	// Returns: "todoapi/event/todo.created"
type Topics struct {
	Prefix string
}

func (t Topics) prefix() string {
	if t.Prefix == "" {
		return DefaultTopicPrefix
	}
	return t.Prefix
}

// Status returns the retained service status topic.
//
// Example: todoapi/status
func (t Topics) Status() string {
	return fmt.Sprintf("%s/status", t.prefix())
}

// Event returns the topic for one change event type.
//
// Example: todoapi/event/todo.deleted
func (t Topics) Event(eventType string) string {
	return fmt.Sprintf("%s/event/%s", t.prefix(), eventType)
}

// AllEvents returns a pattern matching every change event.
//
// Pattern: todoapi/event/+
func (t Topics) AllEvents() string {
	return fmt.Sprintf("%s/event/+", t.prefix())
}
