package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/todo-api/internal/infrastructure/mqtt"
	"github.com/nerrad567/todo-api/internal/todo"
)

type published struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// fakeBroker records publishes and optionally fails them.
type fakeBroker struct {
	mu   sync.Mutex
	msgs []published
	err  error
	sent chan struct{}
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{sent: make(chan struct{}, 64)}
}

func (b *fakeBroker) Publish(topic string, payload []byte, qos byte, retained bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		b.sent <- struct{}{}
		return b.err
	}
	b.msgs = append(b.msgs, published{topic: topic, payload: payload, qos: qos, retained: retained})
	b.sent <- struct{}{}
	return nil
}

func (b *fakeBroker) messages() []published {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]published(nil), b.msgs...)
}

func (b *fakeBroker) waitFor(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-b.sent:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for publish %d of %d", i+1, n)
		}
	}
}

type countingLogger struct {
	mu    sync.Mutex
	warns int
}

func (l *countingLogger) Debug(string, ...any) {}
func (l *countingLogger) Warn(string, ...any) {
	l.mu.Lock()
	l.warns++
	l.mu.Unlock()
}

func sampleEvent(typ todo.EventType, id int64) todo.Event {
	return todo.Event{
		Type:      typ,
		Todo:      todo.Todo{ID: id, Title: "sample", CreatedAt: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)},
		Timestamp: time.Date(2026, 10, 18, 12, 0, 1, 0, time.UTC),
	}
}

func startPublisher(t *testing.T, p *MQTTPublisher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx) //nolint:errcheck // Run always returns nil
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestMQTTPublisher_PublishesEvents(t *testing.T) {
	broker := newFakeBroker()
	topics := mqtt.Topics{Prefix: "todoapi"}
	p := NewMQTTPublisher(broker, topics.Event, 1, 0)
	startPublisher(t, p)

	p.Notify(sampleEvent(todo.EventCreated, 3))
	p.Notify(sampleEvent(todo.EventDeleted, 3))
	broker.waitFor(t, 2)

	msgs := broker.messages()
	wantTopics := []string{"todoapi/event/todo.created", "todoapi/event/todo.deleted"}
	for i, want := range wantTopics {
		if msgs[i].topic != want {
			t.Errorf("msgs[%d].topic = %q, want %q", i, msgs[i].topic, want)
		}
		if msgs[i].qos != 1 || msgs[i].retained {
			t.Errorf("msgs[%d] qos/retained = %d/%v, want 1/false", i, msgs[i].qos, msgs[i].retained)
		}
	}

	var decoded struct {
		Type string `json:"type"`
		Todo struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
		} `json:"todo"`
	}
	if err := json.Unmarshal(msgs[0].payload, &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded.Type != "todo.created" || decoded.Todo.ID != 3 || decoded.Todo.Title != "sample" {
		t.Errorf("decoded payload = %+v", decoded)
	}
}

func TestMQTTPublisher_DropsWhenFull(t *testing.T) {
	broker := newFakeBroker()
	logger := &countingLogger{}
	p := NewMQTTPublisher(broker, mqtt.Topics{}.Event, 0, 1)
	p.SetLogger(logger)

	// Not running: the first event fills the queue.
	p.Notify(sampleEvent(todo.EventCreated, 1))
	p.Notify(sampleEvent(todo.EventCreated, 2))
	p.Notify(sampleEvent(todo.EventCreated, 3))

	if got := p.Dropped(); got != 2 {
		t.Errorf("Dropped() = %d, want 2", got)
	}
	if logger.warns != 2 {
		t.Errorf("warnings = %d, want 2", logger.warns)
	}
}

func TestMQTTPublisher_BrokerErrorsAreLogged(t *testing.T) {
	broker := newFakeBroker()
	broker.err = mqtt.ErrNotConnected
	logger := &countingLogger{}
	p := NewMQTTPublisher(broker, mqtt.Topics{}.Event, 1, 0)
	p.SetLogger(logger)
	startPublisher(t, p)

	p.Notify(sampleEvent(todo.EventUpdated, 1))
	broker.waitFor(t, 1)

	// The failed publish is logged after Publish returns.
	deadline := time.Now().Add(2 * time.Second)
	for {
		logger.mu.Lock()
		warns := logger.warns
		logger.mu.Unlock()
		if warns == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("warnings = %d, want 1", warns)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if len(broker.messages()) != 0 {
		t.Error("failed publish was recorded")
	}
}

func TestMQTTPublisher_DrainsOnShutdown(t *testing.T) {
	broker := newFakeBroker()
	p := NewMQTTPublisher(broker, mqtt.Topics{}.Event, 1, 8)

	for i := int64(1); i <= 3; i++ {
		p.Notify(sampleEvent(todo.EventCreated, i))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := len(broker.messages()); got != 3 {
		t.Errorf("published %d events on shutdown, want 3", got)
	}
}

func TestMQTTPublisher_WiredToRegistry(t *testing.T) {
	broker := newFakeBroker()
	p := NewMQTTPublisher(broker, mqtt.Topics{Prefix: "lab"}.Event, 1, 0)
	startPublisher(t, p)

	registry := todo.NewRegistry(todo.NewMemoryStore())
	registry.AddNotifier(p)

	created, err := registry.CreateTodo(context.Background(), "via registry")
	if err != nil {
		t.Fatalf("CreateTodo() error = %v", err)
	}
	if _, err := registry.DeleteTodo(context.Background(), 42); !errors.Is(err, todo.ErrNotFound) {
		t.Fatalf("DeleteTodo(42) error = %v, want ErrNotFound", err)
	}
	broker.waitFor(t, 1)

	msgs := broker.messages()
	if len(msgs) != 1 || msgs[0].topic != "lab/event/todo.created" {
		t.Fatalf("messages = %+v, want one lab/event/todo.created", msgs)
	}
	if created.ID != 1 {
		t.Errorf("created.ID = %d, want 1", created.ID)
	}
}

func TestMQTTPublisher_ReportsDropsOnShutdown(t *testing.T) {
	broker := newFakeBroker()
	logger := &countingLogger{}
	p := NewMQTTPublisher(broker, mqtt.Topics{}.Event, 0, 1)
	p.SetLogger(logger)

	p.Notify(sampleEvent(todo.EventCreated, 1))
	p.Notify(sampleEvent(todo.EventCreated, 2)) // dropped

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// One warning for the drop, one summary on shutdown.
	if logger.warns != 2 {
		t.Errorf("warnings = %d, want 2", logger.warns)
	}
	if got := len(broker.messages()); got != 1 {
		t.Errorf("published %d events, want 1", got)
	}
}

func TestMQTTPublisher_QuietShutdownWithoutDrops(t *testing.T) {
	logger := &countingLogger{}
	p := NewMQTTPublisher(newFakeBroker(), mqtt.Topics{}.Event, 0, 0)
	p.SetLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Run(ctx) //nolint:errcheck // Run always returns nil

	if logger.warns != 0 {
		t.Errorf("warnings = %d, want 0", logger.warns)
	}
}
