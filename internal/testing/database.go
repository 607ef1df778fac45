package testing

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// CreateTestDB creates an in-memory SQLite test database configured like a
// production document store connection. Automatically registers cleanup
// via t.Cleanup().
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// Match the production connection's synchronous mode so durability
	// handling behaves the same under test.
	if _, err := db.Exec("PRAGMA synchronous = FULL"); err != nil {
		t.Fatalf("Failed to set synchronous mode: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
