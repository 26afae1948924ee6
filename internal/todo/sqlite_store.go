package todo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const selectColumns = `SELECT id, title, completed, created_at, updated_at FROM todos`

// SQLiteStore implements Store on the todos table of an in-memory SQLite
// database. The schema comes from the embedded migrations.
//
// Ordering uses the id column: AUTOINCREMENT ids grow with insertion.
type SQLiteStore struct {
	db    *sql.DB
	clock func() time.Time
}

// NewSQLiteStore creates a SQLite-backed todo store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, clock: now}
}

// SetClock replaces the time source. Intended for tests.
func (s *SQLiteStore) SetClock(clock func() time.Time) {
	s.clock = clock
}

// List returns all todos ordered by id.
func (s *SQLiteStore) List(ctx context.Context) ([]Todo, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}
	defer rows.Close()

	todos := []Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating todos: %w", err)
	}
	return todos, nil
}

// Get returns a single todo by id.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (*Todo, error) {
	return getTodo(ctx, s.db, id)
}

// Create inserts a new todo and returns it with its assigned id.
func (s *SQLiteStore) Create(ctx context.Context, title string) (*Todo, error) {
	title, err := NormalizeTitle(title)
	if err != nil {
		return nil, err
	}

	created := s.clock()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (title, completed, created_at) VALUES (?, 0, ?)`,
		title, formatTime(created))
	if err != nil {
		return nil, fmt.Errorf("inserting todo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading todo id: %w", err)
	}

	return &Todo{
		ID:        id,
		Title:     title,
		Completed: false,
		CreatedAt: created,
	}, nil
}

// Update applies p inside a transaction and returns the stored result.
func (s *SQLiteStore) Update(ctx context.Context, id int64, p Patch) (*Todo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	t, err := getTodo(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	p, err = normalizePatch(p)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	updated := s.clock()
	t.UpdatedAt = &updated

	if _, err := tx.ExecContext(ctx,
		`UPDATE todos SET title = ?, completed = ?, updated_at = ? WHERE id = ?`,
		t.Title, boolToInt(t.Completed), formatTime(updated), id,
	); err != nil {
		return nil, fmt.Errorf("updating todo %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing update: %w", err)
	}
	return t, nil
}

// Delete removes the todo and returns the row as it was.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) (*Todo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	t, err := getTodo(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("deleting todo %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing delete: %w", err)
	}
	return t, nil
}

func getTodo(ctx context.Context, q querier, id int64) (*Todo, error) {
	row := q.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// scanTodo reads one row in selectColumns order.
func scanTodo(row rowScanner) (*Todo, error) {
	var (
		t         Todo
		completed int
		createdAt string
		updatedAt sql.NullString
	)
	if err := row.Scan(&t.ID, &t.Title, &completed, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning todo: %w", err)
	}
	t.Completed = completed != 0

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at of todo %d: %w", t.ID, err)
	}
	if updatedAt.Valid {
		u, err := parseTime(updatedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing updated_at of todo %d: %w", t.ID, err)
		}
		t.UpdatedAt = &u
	}
	return &t, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
