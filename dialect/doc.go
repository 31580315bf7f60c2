// Package dialect names the database dialects the explorer can read from
// and defines the driver contract used by the SQL entity provider.
//
// # Supported Dialects
//
//   - Postgres: PostgreSQL database
//   - MySQL: MySQL/MariaDB database
//   - SQLite: SQLite database
//
// # Driver Interface
//
//	type Driver interface {
//	    Query(ctx context.Context, query string, args, v any) error
//	    Dialect() string
//	    Close() error
//	}
//
// # Sub-packages
//
//   - dialect/sql: database/sql backed driver, statistics and debug wrappers
//   - dialect/sql/sqlgraph: tables and foreign keys exposed as entities
//   - dialect/sql/schema: foreign key inspection of a live database
package dialect
