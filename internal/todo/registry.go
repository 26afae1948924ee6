package todo

import (
	"context"
	"sync"
)

// Logger defines the logging interface used by the Registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry is the entry point the API uses for todo operations.
// It delegates to a Store, logs mutations and notifies subscribers.
//
// All public methods are thread-safe. Mutations and their notifications run
// under one lock, so subscribers see events in commit order.
type Registry struct {
	store     Store
	logger    Logger
	notifiers []Notifier
	mu        sync.RWMutex // Protects notifiers
	writeMu   sync.Mutex   // Serializes mutate-then-notify
}

// NewRegistry creates a registry over store.
func NewRegistry(store Store) *Registry {
	return &Registry{
		store:  store,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// AddNotifier subscribes n to every subsequent change event.
func (r *Registry) AddNotifier(n Notifier) {
	r.mu.Lock()
	r.notifiers = append(r.notifiers, n)
	r.mu.Unlock()
}

// ListTodos returns all todos in insertion order.
func (r *Registry) ListTodos(ctx context.Context) ([]Todo, error) {
	return r.store.List(ctx)
}

// GetTodo returns the todo with the given id, or ErrNotFound.
func (r *Registry) GetTodo(ctx context.Context, id int64) (*Todo, error) {
	return r.store.Get(ctx, id)
}

// CreateTodo creates a todo from title.
func (r *Registry) CreateTodo(ctx context.Context, title string) (*Todo, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	t, err := r.store.Create(ctx, title)
	if err != nil {
		return nil, err
	}
	r.logger.Info("todo created", "id", t.ID)
	r.notify(EventCreated, *t)
	return t, nil
}

// UpdateTodo applies p to the todo with the given id.
func (r *Registry) UpdateTodo(ctx context.Context, id int64, p Patch) (*Todo, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	t, err := r.store.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	r.logger.Info("todo updated", "id", t.ID,
		"title_changed", p.Title != nil,
		"completed_changed", p.Completed != nil,
	)
	r.notify(EventUpdated, *t)
	return t, nil
}

// DeleteTodo removes the todo with the given id and returns it.
func (r *Registry) DeleteTodo(ctx context.Context, id int64) (*Todo, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	t, err := r.store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	r.logger.Info("todo deleted", "id", t.ID)
	r.notify(EventDeleted, *t)
	return t, nil
}

func (r *Registry) notify(typ EventType, t Todo) {
	r.mu.RLock()
	notifiers := r.notifiers
	r.mu.RUnlock()

	if len(notifiers) == 0 {
		return
	}
	ev := Event{Type: typ, Todo: t, Timestamp: now()}
	for _, n := range notifiers {
		n.Notify(ev)
	}
}
