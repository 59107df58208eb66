// Package testutil provides shared fixtures for tests: an in-memory database,
// an in-memory key-value store and a code sender that records what it sends.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/creditbook/internal/storage"
)

// SetupTestDB creates a migrated in-memory SQLite storage that is closed
// when the test ends.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	return store
}
