package sqlite_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartsystems/chatshell/internal/domain/entity"
	"github.com/smartsystems/chatshell/internal/infrastructure/persistence/sqlite"
)

func TestDownloadRepository_Lifecycle(t *testing.T) {
	ctx := testCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "chatshell.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlite.NewDownloadRepository(db)

	record := &entity.DownloadRecord{
		URL:          "https://example.com/chat.apk",
		Title:        "SmartSystems Chat Update",
		Description:  "Downloading version 2.0.0",
		Destination:  "/tmp/Downloads/smartsystems-chat-2.0.0.apk",
		Status:       entity.DownloadStatusPending,
		AllowMetered: true,
		AllowRoaming: false,
	}
	id, err := repo.Create(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, id, record.ID)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, record.URL, got.URL)
	assert.Equal(t, record.Destination, got.Destination)
	assert.Equal(t, entity.DownloadStatusPending, got.Status)
	assert.True(t, got.AllowMetered)
	assert.False(t, got.AllowRoaming)
	assert.Equal(t, record.CreatedAt.UnixMilli(), got.CreatedAt.UnixMilli())

	require.NoError(t, repo.UpdateStatus(ctx, id, entity.DownloadStatusSuccessful, 2048, ""))
	got, err = repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.DownloadStatusSuccessful, got.Status)
	assert.Equal(t, int64(2048), got.Bytes)

	missing, err := repo.Get(ctx, id+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDownloadRepository_MarkInterrupted(t *testing.T) {
	ctx := testCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "chatshell.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlite.NewDownloadRepository(db)

	statuses := []entity.DownloadStatus{
		entity.DownloadStatusPending,
		entity.DownloadStatusRunning,
		entity.DownloadStatusSuccessful,
	}
	ids := make([]int64, 0, len(statuses))
	for _, status := range statuses {
		id, err := repo.Create(ctx, &entity.DownloadRecord{URL: "u", Destination: "d", Status: status})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	n, err := repo.MarkInterrupted(ctx, time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	for i, id := range ids[:2] {
		got, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, entity.DownloadStatusFailed, got.Status, "record %d", i)
		assert.Equal(t, "interrupted", got.Error)
	}
	done, err := repo.Get(ctx, ids[2])
	require.NoError(t, err)
	assert.Equal(t, entity.DownloadStatusSuccessful, done.Status)

	recent, err := repo.GetRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, ids[2], recent[0].ID)
}

func TestDownloadRepository_TouchRenewsLease(t *testing.T) {
	ctx := testCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "chatshell.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlite.NewDownloadRepository(db)

	live, err := repo.Create(ctx, &entity.DownloadRecord{URL: "u", Destination: "a", Status: entity.DownloadStatusRunning})
	require.NoError(t, err)
	stale, err := repo.Create(ctx, &entity.DownloadRecord{URL: "u", Destination: "b", Status: entity.DownloadStatusRunning})
	require.NoError(t, err)
	done, err := repo.Create(ctx, &entity.DownloadRecord{URL: "u", Destination: "c", Status: entity.DownloadStatusSuccessful})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	cutoff := time.Now()
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, repo.Touch(ctx, live))
	require.NoError(t, repo.Touch(ctx, done))

	n, err := repo.MarkInterrupted(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.Get(ctx, live)
	require.NoError(t, err)
	assert.Equal(t, entity.DownloadStatusRunning, got.Status)

	got, err = repo.Get(ctx, stale)
	require.NoError(t, err)
	assert.Equal(t, entity.DownloadStatusFailed, got.Status)
	assert.Equal(t, "interrupted", got.Error)

	got, err = repo.Get(ctx, done)
	require.NoError(t, err)
	assert.Equal(t, entity.DownloadStatusSuccessful, got.Status)
	assert.Less(t, got.UpdatedAt.UnixMilli(), cutoff.UnixMilli(), "touch leaves finished records alone")
}
