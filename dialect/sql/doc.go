// Package sql adapts database/sql to the dialect.Driver contract.
//
// The explorer only reads, so a Driver exposes Query and nothing else:
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
//	rows := &sql.Rows{}
//	err = drv.Query(ctx, "SELECT * FROM books WHERE author_id = $1", []any{1}, rows)
//
// Session variables set with WithVar are applied on the connection before
// every query, which is how a Postgres search_path is selected:
//
//	ctx = sql.WithVar(ctx, "search_path", "library")
//
// StatsDriver counts queries and reports slow ones. DebugDriver logs every
// query. Both wrap any dialect.Driver and can be stacked.
package sql
