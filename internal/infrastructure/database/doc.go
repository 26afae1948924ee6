// Package database provides the in-memory SQLite connection behind the
// sqlite todo store backend.
//
// This package manages:
//   - A named, shared-cache, memory-only SQLite database (nothing touches disk)
//   - Schema migrations embedded into the binary
//   - Connection lifecycle: the single pooled connection never expires,
//     because closing it would discard the database
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Name: "todos", BusyTimeout: 5})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql with an
// optional matching .down.sql.
package database
