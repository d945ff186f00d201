package db

import (
	"database/sql"
	"testing"
)

// NewTestDB returns a private in-memory database with the schema applied. It
// is closed when the test ends.
func NewTestDB(tb testing.TB) *sql.DB {
	tb.Helper()

	database, err := Open(":memory:")
	if err != nil {
		tb.Fatalf("opening test database: %v", err)
	}
	tb.Cleanup(func() { database.Close() })

	if err := EnsureSchema(database); err != nil {
		tb.Fatalf("creating test database schema: %v", err)
	}
	return database
}
