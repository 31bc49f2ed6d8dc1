package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/formdraft/internal/db"
	"github.com/alexanderramin/formdraft/internal/kvstore"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestStore returns a SQLite-backed store on a fresh in-memory database.
func NewTestStore(t *testing.T) *kvstore.SQLiteStore {
	t.Helper()
	return kvstore.NewSQLiteStore(NewTestDB(t))
}
