package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartsystems/chatshell/internal/infrastructure/persistence/sqlite"
	"github.com/smartsystems/chatshell/internal/logging"
)

func testCtx() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func TestStateRepository_RoundTrip(t *testing.T) {
	ctx := testCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "state", "chatshell.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlite.NewStateRepository(db)

	_, ok, err := repo.GetInt64(ctx, "last_check")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SetInt64(ctx, "last_check", 1_700_000_000_000))
	require.NoError(t, repo.SetInt64(ctx, "last_check", 1_700_000_500_000))

	v, ok, err := repo.GetInt64(ctx, "last_check")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1_700_000_500_000), v)

	require.NoError(t, repo.Delete(ctx, "last_check"))
	require.NoError(t, repo.Delete(ctx, "last_check"), "deleting twice is fine")

	_, ok, err = repo.GetInt64(ctx, "last_check")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewConnection_ReopenKeepsState(t *testing.T) {
	ctx := testCtx()
	dbPath := filepath.Join(t.TempDir(), "chatshell.db")

	db, err := sqlite.NewConnection(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, sqlite.NewStateRepository(db).SetInt64(ctx, "download_id", 12))
	require.NoError(t, db.Close())

	db, err = sqlite.NewConnection(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	v, ok, err := sqlite.NewStateRepository(db).GetInt64(ctx, "download_id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(12), v)

	version, err := sqlite.SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestNewConnection_EmptyPath(t *testing.T) {
	_, err := sqlite.NewConnection(testCtx(), "")
	assert.Error(t, err)
}
