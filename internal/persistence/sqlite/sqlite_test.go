package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "listing.db")
	storage, err := Open(dsn)
	require.NoError(t, err, "open storage")
	t.Cleanup(func() {
		_ = storage.Close()
	})

	_, err = storage.Migrate(context.Background())
	require.NoError(t, err, "migrate storage")
	return storage
}

func TestMigrateIsRepeatable(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t)

	applied, err := storage.Migrate(ctx)
	require.NoError(t, err)
	assert.Zero(t, applied, "second run applies nothing")

	status, err := storage.MigrationStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "001", status.CurrentVersion)
	assert.Empty(t, status.Pending)
	require.Len(t, status.Applied, 1)
	assert.NotEmpty(t, status.Applied[0].Checksum)
}

func TestOpenInMemory(t *testing.T) {
	storage, err := Open(":memory:")
	require.NoError(t, err)
	defer storage.Close()

	applied, err := storage.Migrate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.NoError(t, storage.Ping(context.Background()))
}
