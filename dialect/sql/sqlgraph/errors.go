package sqlgraph

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// sqlStateError is an interface for errors that provide SQLSTATE codes.
// Implemented by: pq.Error, pgx, and some MySQL drivers.
type sqlStateError interface {
	SQLState() string
}

// PostgreSQL SQLSTATE codes for references to missing objects (Class 42).
const (
	pgUndefinedTable  = "42P01"
	pgUndefinedColumn = "42703"
)

// MySQL error numbers for references to missing objects.
const (
	mysqlNoSuchTable  = 1146
	mysqlBadFieldName = 1054
)

// IsUndefinedError reports whether err resulted from a query naming a table
// or column that does not exist, i.e. a schema edge that does not match
// the database.
func IsUndefinedError(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUndefinedTable || pqErr.Code == pgUndefinedColumn
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlNoSuchTable || myErr.Number == mysqlBadFieldName
	}

	// Check for SQLSTATE code (pgx and other drivers)
	if e, ok := asError[sqlStateError](err); ok {
		if s := e.SQLState(); s == pgUndefinedTable || s == pgUndefinedColumn {
			return true
		}
	}

	// Fallback to string matching for drivers that don't implement interfaces
	return containsAny(err.Error(),
		"Error 1146",     // MySQL (string fallback)
		"Error 1054",     // MySQL (string fallback)
		"does not exist", // Postgres (string fallback)
		"no such table",  // SQLite
		"no such column", // SQLite
	)
}

// asError attempts to extract an error implementing interface T from the error chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}

// containsAny returns true if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
