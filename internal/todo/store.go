package todo

import (
	"context"
	"sync"
	"time"
)

// Store is the authoritative collection of todos.
//
// Implementations must be safe for concurrent use, keep insertion order,
// and never reuse an id.
type Store interface {
	// List returns every todo in insertion order.
	List(ctx context.Context) ([]Todo, error)

	// Get returns the todo with the given id, or ErrNotFound.
	Get(ctx context.Context, id int64) (*Todo, error)

	// Create trims title, assigns the next id and appends the new todo.
	// Returns ErrInvalidTitle when the trimmed title is empty.
	Create(ctx context.Context, title string) (*Todo, error)

	// Update applies the non-nil fields of p and stamps UpdatedAt.
	// Returns ErrNotFound, checked first, or ErrInvalidTitle without
	// mutating anything.
	Update(ctx context.Context, id int64, p Patch) (*Todo, error)

	// Delete removes the todo and returns it, or ErrNotFound.
	Delete(ctx context.Context, id int64) (*Todo, error)
}

// MemoryStore keeps todos in an ordered slice.
//
// Lookups are linear scans; the collection is expected to stay small.
//
// Thread Safety: All methods are safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	todos  []Todo
	nextID int64
	clock  func() time.Time
}

// NewMemoryStore returns an empty store whose first id is 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		clock:  now,
	}
}

// SetClock replaces the time source. Intended for tests.
func (s *MemoryStore) SetClock(clock func() time.Time) {
	s.mu.Lock()
	s.clock = clock
	s.mu.Unlock()
}

// List returns copies of all todos in insertion order.
func (s *MemoryStore) List(_ context.Context) ([]Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	todos := make([]Todo, len(s.todos))
	for i := range s.todos {
		todos[i] = s.todos[i].Clone()
	}
	return todos, nil
}

// Get returns a copy of the todo with the given id.
func (s *MemoryStore) Get(_ context.Context, id int64) (*Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	t := s.todos[i].Clone()
	return &t, nil
}

// Create appends a new todo with the next id.
func (s *MemoryStore) Create(_ context.Context, title string) (*Todo, error) {
	title, err := NormalizeTitle(title)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := Todo{
		ID:        s.nextID,
		Title:     title,
		Completed: false,
		CreatedAt: s.clock(),
	}
	s.nextID++
	s.todos = append(s.todos, t)

	c := t.Clone()
	return &c, nil
}

// Update applies p to the todo in place.
func (s *MemoryStore) Update(_ context.Context, id int64, p Patch) (*Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}

	p, err := normalizePatch(p)
	if err != nil {
		return nil, err
	}

	t := &s.todos[i]
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	updated := s.clock()
	t.UpdatedAt = &updated

	c := t.Clone()
	return &c, nil
}

// Delete detaches the todo from the collection and returns it.
func (s *MemoryStore) Delete(_ context.Context, id int64) (*Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}

	removed := s.todos[i]
	s.todos = append(s.todos[:i], s.todos[i+1:]...)
	return &removed, nil
}

// indexOf returns the slice position of id, or -1. Caller holds s.mu.
func (s *MemoryStore) indexOf(id int64) int {
	for i := range s.todos {
		if s.todos[i].ID == id {
			return i
		}
	}
	return -1
}
