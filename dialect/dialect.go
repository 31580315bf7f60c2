package dialect

import (
	"context"
)

// Dialect names for external usage.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// Driver is the interface that wraps the read access the explorer needs
// from a database driver.
type Driver interface {
	// Query executes a query that returns rows, scanned into v.
	Query(ctx context.Context, query string, args, v any) error
	// Dialect returns the dialect name of the driver.
	Dialect() string
	// Close closes the underlying connection.
	Close() error
}

// Normalize maps driver names and aliases to a dialect name.
// Unknown names are returned unchanged.
func Normalize(name string) string {
	switch name {
	case "sqlite", "sqlite3":
		return SQLite
	case "postgres", "postgresql", "pgx":
		return Postgres
	case "mysql", "mariadb":
		return MySQL
	default:
		return name
	}
}
