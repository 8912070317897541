// Package testdb provides a shared test database helper for fast,
// realistic testing against a throwaway SQLite database.
package testdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ministryofjustice/hmpps-contacts-sync/internal/database"
)

// New creates a SQLite database in a per-test temporary directory. The
// database is automatically closed when the test finishes.
func New(t *testing.T) database.Database {
	t.Helper()
	ctx := context.Background()
	db, err := database.New(ctx, "sqlite:///"+filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("testdb.New: open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
