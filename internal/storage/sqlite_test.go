package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/creditbook/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("creates missing directories", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "dir", "credit.db")
		store, err := NewSQLiteStorage(dbPath)
		require.NoError(t, err)
		defer func() { _ = store.Close() }()
		assert.Equal(t, dbPath, store.Path())
	})

	t.Run("rejects empty path", func(t *testing.T) {
		_, err := NewSQLiteStorage("  ")
		require.ErrorIs(t, err, ErrEmptyString)
	})

	t.Run("in-memory", func(t *testing.T) {
		store, err := NewSQLiteStorage(":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()
		require.NoError(t, store.Migrate(context.Background()))
	})
}

func TestKeyValue(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.Get(ctx, "creditApp_users")
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, store.Set(ctx, "creditApp_users", []byte(`[{"username":"admin"}]`)))
	got, err := store.Get(ctx, "creditApp_users")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"username":"admin"}]`, string(got))

	require.NoError(t, store.Set(ctx, "creditApp_users", []byte(`[]`)))
	got, err = store.Get(ctx, "creditApp_users")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got), "set overwrites")

	require.NoError(t, store.Set(ctx, "empty", nil))
	got, err = store.Get(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.ErrorIs(t, store.Set(ctx, "", []byte("x")), ErrEmptyString)
	//nolint:staticcheck // Testing nil context handling
	_, err = store.Get(nil, "k")
	require.ErrorIs(t, err, ErrNilContext)
}

func TestKeyValuePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "credit.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	require.NoError(t, reopened.Migrate(ctx))

	got, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}
