// Package migrations embeds the SQL schema for the sqlite store backend.
//
// Importing the package (usually for side effects) registers the files with
// the database package.
package migrations

import (
	"embed"

	"github.com/nerrad567/todo-api/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
