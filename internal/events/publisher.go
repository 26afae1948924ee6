package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"

	"github.com/nerrad567/todo-api/internal/todo"
)

// DefaultQueueSize is the number of events buffered ahead of the broker.
const DefaultQueueSize = 256

// ErrQueueFull is logged when an event is dropped.
var ErrQueueFull = errors.New("events: queue full")

// Broker is the subset of the MQTT client the publisher needs.
type Broker interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// TopicFunc maps an event type to its topic.
type TopicFunc func(eventType string) string

// Logger is the logging interface used by the publisher.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// MQTTPublisher implements todo.Notifier on top of an MQTT broker.
type MQTTPublisher struct {
	broker  Broker
	topic   TopicFunc
	qos     byte
	queue   chan todo.Event
	logger  Logger
	dropped atomic.Uint64
}

// NewMQTTPublisher creates a publisher. queueSize <= 0 selects DefaultQueueSize.
func NewMQTTPublisher(broker Broker, topic TopicFunc, qos byte, queueSize int) *MQTTPublisher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &MQTTPublisher{
		broker: broker,
		topic:  topic,
		qos:    qos,
		queue:  make(chan todo.Event, queueSize),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger. Call before Run.
func (p *MQTTPublisher) SetLogger(logger Logger) {
	p.logger = logger
}

// Notify enqueues ev without blocking.
func (p *MQTTPublisher) Notify(ev todo.Event) {
	select {
	case p.queue <- ev:
	default:
		p.dropped.Add(1)
		p.logger.Warn("dropping todo event", "type", ev.Type, "id", ev.Todo.ID, "error", ErrQueueFull)
	}
}

// Dropped returns how many events were discarded because the queue was full.
func (p *MQTTPublisher) Dropped() uint64 {
	return p.dropped.Load()
}

// Run publishes queued events until ctx is cancelled, then drains what is
// already queued. It always returns nil so it can run inside an errgroup
// without tearing down its siblings.
func (p *MQTTPublisher) Run(ctx context.Context) error {
	for {
		select {
		case ev := <-p.queue:
			p.publish(ev)
		case <-ctx.Done():
			p.drain()
			if n := p.Dropped(); n > 0 {
				p.logger.Warn("todo events dropped while the queue was full", "dropped", n)
			}
			return nil
		}
	}
}

func (p *MQTTPublisher) drain() {
	for {
		select {
		case ev := <-p.queue:
			p.publish(ev)
		default:
			return
		}
	}
}

func (p *MQTTPublisher) publish(ev todo.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		p.logger.Warn("encoding todo event", "type", ev.Type, "error", err)
		return
	}

	topic := p.topic(string(ev.Type))
	if err := p.broker.Publish(topic, payload, p.qos, false); err != nil {
		p.logger.Warn("publishing todo event", "topic", topic, "error", err)
		return
	}
	p.logger.Debug("todo event published", "topic", topic, "id", ev.Todo.ID)
}
