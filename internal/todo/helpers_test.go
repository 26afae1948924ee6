package todo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/todo-api/internal/infrastructure/database"
	_ "github.com/nerrad567/todo-api/migrations"
)

// fakeClock returns a strictly increasing sequence of times, one second apart.
type fakeClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{cur: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

// storeFactory builds an empty store driven by clock.
type storeFactory func(t *testing.T, clock func() time.Time) Store

// backends lists every Store implementation; contract tests run against each.
func backends() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(_ *testing.T, clock func() time.Time) Store {
			s := NewMemoryStore()
			s.SetClock(clock)
			return s
		},
		"sqlite": func(t *testing.T, clock func() time.Time) Store {
			s := NewSQLiteStore(openTestDB(t).DB)
			s.SetClock(clock)
			return s
		},
	}
}

// openTestDB opens a uniquely named in-memory database with the todos schema.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{Name: "todo-test-" + uuid.NewString(), BusyTimeout: 5})
	if err != nil {
		t.Fatalf("database.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// recordingNotifier captures events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (n *recordingNotifier) Notify(ev Event) {
	n.mu.Lock()
	n.events = append(n.events, ev)
	n.mu.Unlock()
}

func (n *recordingNotifier) Events() []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Event(nil), n.events...)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
