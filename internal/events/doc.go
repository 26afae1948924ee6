// Package events forwards todo change events to MQTT.
//
// The MQTT publisher is registered as a todo.Notifier. Notify only enqueues;
// a single goroutine started by Run serialises the event to JSON and
// publishes it on <prefix>/event/<type>, so a slow broker never stalls an
// HTTP request. When the queue is full the event is dropped and logged.
package events
