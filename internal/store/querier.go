package store

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
)

// Querier is implemented by both *sql.DB and *sql.Tx, so store functions can
// run inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// dialect builds SQLite statements for queries with optional clauses.
var dialect = goqu.Dialect("sqlite3")

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
