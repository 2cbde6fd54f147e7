package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smartsystems/chatshell/internal/application/port/mocks"
	"github.com/smartsystems/chatshell/internal/domain/entity"
)

var release200 = entity.ReleaseDescriptor{
	VersionName:  "2.0.0",
	VersionCode:  20000,
	DownloadURL:  "https://github.com/o/r/releases/download/v2.0.0/chat.apk",
	ReleaseNotes: "notes",
}

func newInstallUseCase(t *testing.T) (*InstallUpdateUseCase, *fakeDownloads, *mocks.MockPackageInstaller, *memStore) {
	t.Helper()
	downloads := newFakeDownloads()
	installer := mocks.NewMockPackageInstaller(t)
	store := newMemStore()
	uc := NewInstallUpdateUseCase(downloads, installer, store, DefaultInstallUpdateConfig())
	return uc, downloads, installer, store
}

func TestInstallUpdateUseCase_EnqueuesRequest(t *testing.T) {
	uc, downloads, _, store := newInstallUseCase(t)

	status := uc.DownloadAndInstall(testCtx(), release200)

	assert.Equal(t, entity.UpdateStatusDownloading, status)
	require.Len(t, downloads.requests, 1)
	req := downloads.requests[0]
	assert.Equal(t, release200.DownloadURL, req.URL)
	assert.Equal(t, "SmartSystems Chat Update", req.Title)
	assert.Equal(t, "Downloading version 2.0.0", req.Description)
	assert.Equal(t, "smartsystems-chat-2.0.0.apk", req.Filename)
	assert.True(t, req.AllowMetered)
	assert.True(t, req.AllowRoaming)

	assert.Equal(t, int64(1), store.values[KeyDownloadID])
	assert.Equal(t, 1, downloads.subscribers())
}

func TestInstallUpdateUseCase_MatchingThenMismatchedCompletion(t *testing.T) {
	uc, downloads, installer, store := newInstallUseCase(t)
	installer.On("Install", mock.Anything, "file:///downloads/1").Return(nil).Once()

	uc.DownloadAndInstall(testCtx(), release200)

	downloads.complete(testCtx(), 1, entity.DownloadStatusSuccessful)
	assert.NotPanics(t, func() {
		downloads.complete(testCtx(), 7, entity.DownloadStatusSuccessful)
	})

	installer.AssertNumberOfCalls(t, "Install", 1)
	assert.False(t, store.has(KeyDownloadID))
	assert.Equal(t, 0, downloads.subscribers(), "handler is one-shot")
}

func TestInstallUpdateUseCase_MismatchedCompletionKeepsTracking(t *testing.T) {
	uc, downloads, installer, store := newInstallUseCase(t)

	uc.DownloadAndInstall(testCtx(), release200)
	downloads.complete(testCtx(), 42, entity.DownloadStatusSuccessful)

	installer.AssertNotCalled(t, "Install", mock.Anything, mock.Anything)
	assert.Equal(t, int64(1), store.values[KeyDownloadID])
	assert.Equal(t, 1, downloads.subscribers())

	installer.On("Install", mock.Anything, "file:///downloads/1").Return(nil).Once()
	downloads.complete(testCtx(), 1, entity.DownloadStatusSuccessful)
	installer.AssertNumberOfCalls(t, "Install", 1)
}

func TestInstallUpdateUseCase_FailedDownloadSkipsInstall(t *testing.T) {
	uc, downloads, installer, store := newInstallUseCase(t)

	uc.DownloadAndInstall(testCtx(), release200)
	downloads.complete(testCtx(), 1, entity.DownloadStatusFailed)

	installer.AssertNotCalled(t, "Install", mock.Anything, mock.Anything)
	assert.False(t, store.has(KeyDownloadID))
	assert.Equal(t, 0, downloads.subscribers())
}

func TestInstallUpdateUseCase_InstallErrorIsSwallowed(t *testing.T) {
	uc, downloads, installer, store := newInstallUseCase(t)
	installer.On("Install", mock.Anything, "file:///downloads/1").
		Return(errors.New("no handler for package")).Once()

	uc.DownloadAndInstall(testCtx(), release200)
	assert.NotPanics(t, func() {
		downloads.complete(testCtx(), 1, entity.DownloadStatusSuccessful)
	})

	assert.False(t, store.has(KeyDownloadID))
}

func TestInstallUpdateUseCase_SecondDownloadReplacesHandle(t *testing.T) {
	uc, downloads, installer, store := newInstallUseCase(t)
	installer.On("Install", mock.Anything, "file:///downloads/2").Return(nil).Once()

	uc.DownloadAndInstall(testCtx(), release200)
	next := release200
	next.VersionName = "2.0.1"
	next.VersionCode = 20001
	uc.DownloadAndInstall(testCtx(), next)

	assert.Equal(t, int64(2), store.values[KeyDownloadID])
	assert.Equal(t, 1, downloads.subscribers())

	downloads.complete(testCtx(), 1, entity.DownloadStatusSuccessful)
	installer.AssertNotCalled(t, "Install", mock.Anything, "file:///downloads/1")

	downloads.complete(testCtx(), 2, entity.DownloadStatusSuccessful)
	installer.AssertNumberOfCalls(t, "Install", 1)
}

func TestInstallUpdateUseCase_EnqueueFailure(t *testing.T) {
	uc, downloads, _, store := newInstallUseCase(t)
	downloads.enqueueErr = errors.New("downloads dir not writable")

	status := uc.DownloadAndInstall(testCtx(), release200)

	assert.Equal(t, entity.UpdateStatusFailed, status)
	assert.False(t, store.has(KeyDownloadID))
	assert.Equal(t, 0, downloads.subscribers())
}

func TestInstallUpdateUseCase_PersistFailure(t *testing.T) {
	uc, downloads, _, store := newInstallUseCase(t)
	store.setErr = errors.New("read-only database")

	status := uc.DownloadAndInstall(testCtx(), release200)

	assert.Equal(t, entity.UpdateStatusFailed, status)
	assert.Equal(t, 0, downloads.subscribers())
}

func TestInstallUpdateUseCase_MissingURL(t *testing.T) {
	uc, downloads, _, _ := newInstallUseCase(t)

	status := uc.DownloadAndInstall(testCtx(), entity.ReleaseDescriptor{VersionName: "2.0.0"})

	assert.Equal(t, entity.UpdateStatusFailed, status)
	assert.Empty(t, downloads.requests)
}

func TestInstallUpdateUseCase_ResumePending(t *testing.T) {
	t.Run("finished while away installs immediately", func(t *testing.T) {
		uc, downloads, installer, store := newInstallUseCase(t)
		store.values[KeyDownloadID] = 5
		downloads.statuses[5] = entity.DownloadStatusSuccessful
		installer.On("Install", mock.Anything, "file:///downloads/5").Return(nil).Once()

		uc.ResumePending(testCtx())

		assert.False(t, store.has(KeyDownloadID))
		assert.Equal(t, 0, downloads.subscribers())
	})

	t.Run("still running waits for completion", func(t *testing.T) {
		uc, downloads, installer, store := newInstallUseCase(t)
		store.values[KeyDownloadID] = 5
		downloads.statuses[5] = entity.DownloadStatusRunning

		uc.ResumePending(testCtx())
		assert.Equal(t, 1, downloads.subscribers())
		assert.True(t, store.has(KeyDownloadID))

		installer.On("Install", mock.Anything, "file:///downloads/5").Return(nil).Once()
		downloads.complete(testCtx(), 5, entity.DownloadStatusSuccessful)
		assert.False(t, store.has(KeyDownloadID))
	})

	t.Run("unknown download is forgotten", func(t *testing.T) {
		uc, downloads, _, store := newInstallUseCase(t)
		store.values[KeyDownloadID] = 9

		uc.ResumePending(testCtx())

		assert.False(t, store.has(KeyDownloadID))
		assert.Equal(t, 0, downloads.subscribers())
	})

	t.Run("nothing tracked", func(t *testing.T) {
		uc, downloads, _, _ := newInstallUseCase(t)

		uc.ResumePending(testCtx())

		assert.Equal(t, 0, downloads.subscribers())
	})
}

func TestInstallUpdateUseCase_CloseKeepsHandle(t *testing.T) {
	uc, downloads, _, store := newInstallUseCase(t)

	uc.DownloadAndInstall(testCtx(), release200)
	uc.Close()

	assert.Equal(t, 0, downloads.subscribers())
	handle, ok, err := uc.Pending(testCtx())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1), handle.ID)
	assert.True(t, store.has(KeyDownloadID))
}
