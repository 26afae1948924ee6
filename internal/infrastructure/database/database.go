package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Database configuration constants.
const (
	// msPerSecond converts seconds to milliseconds.
	msPerSecond = 1000

	// connectionTimeout is the timeout for verifying database connectivity.
	connectionTimeout = 5 * time.Second
)

// ErrNameRequired is returned by Open when Config.Name is empty.
var ErrNameRequired = errors.New("database: name is required")

// DB wraps a sql.DB connection to a memory-only SQLite database.
type DB struct {
	*sql.DB
	name string

	// keeper holds a connection outside the pool for the lifetime of DB.
	// database/sql discards pool connections whose transaction was
	// interrupted by a cancelled context; the memory database must outlive
	// those.
	keeperDB *sql.DB
	keeper   *sql.Conn
}

// Config contains database configuration options.
type Config struct {
	// Name identifies the shared in-memory database. Connections opened with
	// the same name inside one process see the same data.
	Name string

	// BusyTimeout is the maximum time to wait for a database lock (seconds).
	BusyTimeout int
}

// Open creates a new in-memory database with the specified configuration.
//
// The pool is pinned to a single connection that never expires. A second,
// dedicated connection stays open until Close: SQLite drops a memory
// database as soon as its last connection closes.
//
// Parameters:
//   - ctx: Context for the connectivity check
//   - cfg: Database configuration
//
// Returns:
//   - *DB: Connected database wrapper
//   - error: If connection or configuration fails
func Open(ctx context.Context, cfg Config) (*DB, error) {
	if cfg.Name == "" {
		return nil, ErrNameRequired
	}

	// See: https://github.com/mattn/go-sqlite3#connection-string
	connStr := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=%d&_foreign_keys=on",
		url.PathEscape(cfg.Name),
		cfg.BusyTimeout*msPerSecond,
	)

	sqlDB, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	pingCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	keeperDB, err := sql.Open("sqlite3", connStr)
	if err != nil {
		sqlDB.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("opening database keeper: %w", err)
	}
	keeper, err := keeperDB.Conn(pingCtx)
	if err != nil {
		keeperDB.Close() //nolint:errcheck // Best effort cleanup on error path
		sqlDB.Close()    //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("holding database keeper connection: %w", err)
	}

	db := &DB{
		DB:       sqlDB,
		name:     cfg.Name,
		keeperDB: keeperDB,
		keeper:   keeper,
	}

	if err := db.PingContext(pingCtx); err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}

	return db, nil
}

// Close closes the pool and the keeper connection, discarding the contents.
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	err := db.DB.Close()
	if db.keeper != nil {
		err = errors.Join(err, db.keeper.Close(), db.keeperDB.Close())
	}
	if err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// Name returns the shared-cache name of the database.
func (db *DB) Name() string {
	return db.name
}

// HealthCheck verifies the database is accessible and functioning.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (db *DB) HealthCheck(ctx context.Context) error {
	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// BeginTx starts a new transaction with the given options.
//
// Example:
//
//	tx, err := db.BeginTx(ctx, nil)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback() // No-op if committed
//
//	// ... execute queries on tx ...
//
//	return tx.Commit()
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	return tx, nil
}
