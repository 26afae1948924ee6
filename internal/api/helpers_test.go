package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/todo-api/internal/infrastructure/config"
	"github.com/nerrad567/todo-api/internal/infrastructure/database"
	"github.com/nerrad567/todo-api/internal/infrastructure/logging"
	"github.com/nerrad567/todo-api/internal/todo"
	_ "github.com/nerrad567/todo-api/migrations"
)

// testAPIConfig returns an API config bound to an ephemeral local port.
func testAPIConfig() config.APIConfig {
	return config.APIConfig{
		Host: "127.0.0.1",
		Port: 0,
		Timeouts: config.APITimeoutConfig{
			Read:  5,
			Write: 5,
			Idle:  5,
		},
	}
}

func testWSConfig() config.WebSocketConfig {
	return config.WebSocketConfig{
		Enabled:        true,
		Path:           "/ws",
		MaxMessageSize: 8192,
		PingInterval:   30,
		PongTimeout:    10,
	}
}

// newTestServer creates a Server over store.
func newTestServer(t *testing.T, store todo.Store, mutate ...func(*Deps)) *Server {
	t.Helper()

	deps := Deps{
		Config:   testAPIConfig(),
		WS:       testWSConfig(),
		Logger:   logging.Discard(),
		Registry: todo.NewRegistry(store),
		Version:  "test",
	}
	for _, m := range mutate {
		m(&deps)
	}

	srv, err := New(deps)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return srv
}

// testServer creates a Server over a memory store holding the two seed todos.
func testServer(t *testing.T) *Server {
	t.Helper()
	store := todo.NewMemoryStore()
	if err := todo.Seed(context.Background(), store, todo.DefaultSeedTitles...); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return newTestServer(t, store)
}

// emptyServer creates a Server over an empty memory store.
func emptyServer(t *testing.T) *Server {
	t.Helper()
	return newTestServer(t, todo.NewMemoryStore())
}

// sqliteStore opens a uniquely named in-memory SQLite todo store.
func sqliteStore(t *testing.T) todo.Store {
	t.Helper()

	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{Name: "api-test-" + uuid.NewString(), BusyTimeout: 5})
	if err != nil {
		t.Fatalf("database.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return todo.NewSQLiteStore(db.DB)
}

// storeBackends lists the store implementations end-to-end tests run against.
func storeBackends() map[string]func(t *testing.T) todo.Store {
	return map[string]func(t *testing.T) todo.Store{
		"memory": func(*testing.T) todo.Store { return todo.NewMemoryStore() },
		"sqlite": sqliteStore,
	}
}

// do sends a request through h and returns the recorded response.
func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// rawEnvelope mirrors Envelope with undecoded data.
type rawEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Count   *int            `json:"count"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) rawEnvelope {
	t.Helper()
	var env rawEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope %q: %v", w.Body.String(), err)
	}
	return env
}

// wireTodo is a todo as seen by clients.
type wireTodo struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Completed bool    `json:"completed"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt *string `json:"updatedAt"`
}

func decodeTodo(t *testing.T, w *httptest.ResponseRecorder) wireTodo {
	t.Helper()
	env := decodeEnvelope(t, w)
	if !env.Success {
		t.Fatalf("success = false, body %s", w.Body.String())
	}
	var td wireTodo
	if err := json.Unmarshal(env.Data, &td); err != nil {
		t.Fatalf("unmarshal todo %s: %v", env.Data, err)
	}
	return td
}

func decodeTodos(t *testing.T, w *httptest.ResponseRecorder) ([]wireTodo, rawEnvelope) {
	t.Helper()
	env := decodeEnvelope(t, w)
	var todos []wireTodo
	if err := json.Unmarshal(env.Data, &todos); err != nil {
		t.Fatalf("unmarshal todos %s: %v", env.Data, err)
	}
	return todos, env
}

// expectError asserts a failed envelope with the given status and message.
func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if w.Code != status {
		t.Errorf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if env.Success {
		t.Error("success = true, want false")
	}
	if env.Error != message {
		t.Errorf("error = %q, want %q", env.Error, message)
	}
	if env.Data != nil {
		t.Errorf("data = %s, want absent", env.Data)
	}
}

// failingStore fails every operation with errStoreDown.
type failingStore struct{}

var errStoreDown = errors.New("store unavailable")

func (failingStore) List(context.Context) ([]todo.Todo, error)    { return nil, errStoreDown }
func (failingStore) Get(context.Context, int64) (*todo.Todo, error) { return nil, errStoreDown }
func (failingStore) Create(context.Context, string) (*todo.Todo, error) {
	return nil, errStoreDown
}
func (failingStore) Update(context.Context, int64, todo.Patch) (*todo.Todo, error) {
	return nil, errStoreDown
}
func (failingStore) Delete(context.Context, int64) (*todo.Todo, error) { return nil, errStoreDown }

// waitFor polls cond until it is true or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// writerFunc adapts a function to io.Writer.
type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func loggingConfig(level string) config.LoggingConfig {
	return config.LoggingConfig{Level: level, Format: "json"}
}
