package test_utils

import (
	"database/sql"
	"testing"

	"github.com/monny-app/monny/internal/database"
)

// SetupTestDB creates a new in-memory SQLite database and applies all migrations.
// Each database is completely isolated from others.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	if err := database.MigrateSQLite(db); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}
	return db
}
