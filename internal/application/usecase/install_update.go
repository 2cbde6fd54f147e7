package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/smartsystems/chatshell/internal/application/port"
	"github.com/smartsystems/chatshell/internal/domain/download"
	"github.com/smartsystems/chatshell/internal/domain/entity"
	"github.com/smartsystems/chatshell/internal/domain/release"
	"github.com/smartsystems/chatshell/internal/domain/repository"
	"github.com/smartsystems/chatshell/internal/logging"
)

// DefaultDownloadTitle is shown by the download manager for update packages.
const DefaultDownloadTitle = "SmartSystems Chat Update"

// InstallUpdateConfig controls how update packages are requested.
type InstallUpdateConfig struct {
	ArtifactPrefix   string
	PackageExtension string
	Title            string
	AllowMetered     bool
	AllowRoaming     bool
}

// DefaultInstallUpdateConfig returns the configuration used by the shell.
func DefaultInstallUpdateConfig() InstallUpdateConfig {
	return InstallUpdateConfig{
		ArtifactPrefix:   download.DefaultArtifactPrefix,
		PackageExtension: release.DefaultPackageExtension,
		Title:            DefaultDownloadTitle,
		AllowMetered:     true,
		AllowRoaming:     true,
	}
}

// InstallUpdateUseCase downloads a release package and hands it to the
// installer once the matching completion notification arrives.
//
// Only one update download is tracked at a time. Starting a second one
// replaces the persisted handle, so the completion of the first is ignored.
type InstallUpdateUseCase struct {
	downloads port.DownloadManager
	installer port.PackageInstaller
	state     updateState
	cfg       InstallUpdateConfig

	// mu orders handle persistence against completion handling.
	mu  sync.Mutex
	sub port.Subscription
}

// NewInstallUpdateUseCase creates a new install update use case.
func NewInstallUpdateUseCase(
	downloads port.DownloadManager,
	installer port.PackageInstaller,
	store repository.StateRepository,
	cfg InstallUpdateConfig,
) *InstallUpdateUseCase {
	defaults := DefaultInstallUpdateConfig()
	if cfg.ArtifactPrefix == "" {
		cfg.ArtifactPrefix = defaults.ArtifactPrefix
	}
	if cfg.PackageExtension == "" {
		cfg.PackageExtension = defaults.PackageExtension
	}
	if cfg.Title == "" {
		cfg.Title = defaults.Title
	}
	return &InstallUpdateUseCase{
		downloads: downloads,
		installer: installer,
		state:     updateState{store: store},
		cfg:       cfg,
	}
}

// DownloadAndInstall enqueues the package download for rel and returns without
// waiting for it. Failures are logged; the returned status only tells whether
// the download was enqueued.
func (uc *InstallUpdateUseCase) DownloadAndInstall(ctx context.Context, rel entity.ReleaseDescriptor) entity.UpdateStatus {
	log := logging.FromContext(ctx)

	if rel.DownloadURL == "" {
		log.Warn().Str("version", rel.VersionName).Msg("release has no download url")
		return entity.UpdateStatusFailed
	}

	req := port.DownloadRequest{
		URL:          rel.DownloadURL,
		Title:        uc.cfg.Title,
		Description:  "Downloading version " + rel.VersionName,
		Filename:     download.ArtifactFilename(uc.cfg.ArtifactPrefix, rel.VersionName, uc.cfg.PackageExtension),
		AllowMetered: uc.cfg.AllowMetered,
		AllowRoaming: uc.cfg.AllowRoaming,
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	// Subscribing before enqueueing means no completion can be missed; the
	// handler blocks on mu until the handle is persisted.
	uc.cancelLocked()
	sub := uc.downloads.Subscribe(uc.onCompletion)

	id, err := uc.downloads.Enqueue(ctx, req)
	if err != nil {
		sub.Cancel()
		log.Error().Err(err).Str("url", rel.DownloadURL).Msg("failed to enqueue update download")
		return entity.UpdateStatusFailed
	}

	if err := uc.state.setDownloadHandle(ctx, entity.DownloadHandle{ID: id}); err != nil {
		sub.Cancel()
		log.Error().Err(err).Int64("download_id", id).Msg("failed to persist download handle")
		return entity.UpdateStatusFailed
	}
	uc.sub = sub

	log.Info().
		Int64("download_id", id).
		Str("version", rel.VersionName).
		Str("file", req.Filename).
		Msg("update download enqueued")

	return entity.UpdateStatusDownloading
}

// ResumePending re-attaches to a download tracked by a previous process.
// A download that already finished is handled immediately; an unknown one is
// forgotten.
func (uc *InstallUpdateUseCase) ResumePending(ctx context.Context) {
	log := logging.FromContext(ctx)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	handle, ok, err := uc.state.downloadHandle(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read pending download")
		return
	}
	if !ok {
		return
	}

	uc.cancelLocked()
	uc.sub = uc.downloads.Subscribe(uc.onCompletion)

	status, err := uc.downloads.Status(ctx, handle.ID)
	switch {
	case errors.Is(err, port.ErrDownloadNotFound):
		log.Info().Int64("download_id", handle.ID).Msg("tracked download no longer exists")
		uc.releaseLocked(ctx)
	case err != nil:
		log.Warn().Err(err).Int64("download_id", handle.ID).Msg("failed to query tracked download")
	case status.IsFinal():
		uc.finishLocked(ctx, handle.ID, status)
	default:
		log.Debug().Int64("download_id", handle.ID).Str("status", string(status)).Msg("waiting for tracked download")
	}
}

// Pending returns the persisted download handle, if any.
func (uc *InstallUpdateUseCase) Pending(ctx context.Context) (entity.DownloadHandle, bool, error) {
	return uc.state.downloadHandle(ctx)
}

// Close deregisters the completion handler. The persisted handle is kept so
// the next process can resume.
func (uc *InstallUpdateUseCase) Close() {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.cancelLocked()
}

func (uc *InstallUpdateUseCase) onCompletion(ctx context.Context, completion port.DownloadCompletion) {
	log := logging.FromContext(ctx)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	handle, ok, err := uc.state.downloadHandle(ctx)
	if err != nil {
		log.Warn().Err(err).Int64("download_id", completion.ID).Msg("failed to read download handle")
		return
	}
	if !ok || handle.ID != completion.ID {
		log.Debug().Int64("download_id", completion.ID).Msg("ignoring completion of untracked download")
		return
	}

	uc.finishLocked(ctx, completion.ID, completion.Status)
}

// finishLocked installs a successful download, then deregisters and forgets
// the handle whatever the outcome.
func (uc *InstallUpdateUseCase) finishLocked(ctx context.Context, id int64, status entity.DownloadStatus) {
	log := logging.FromContext(ctx).With().Int64("download_id", id).Logger()

	if status == entity.DownloadStatusSuccessful {
		uri, err := uc.downloads.URIForDownloadedFile(ctx, id)
		if err != nil {
			log.Error().Err(err).Msg("failed to resolve downloaded package")
		} else if err := uc.installer.Install(ctx, uri); err != nil {
			log.Error().Err(err).Str("uri", uri).Msg("failed to launch package installer")
		} else {
			log.Info().Str("uri", uri).Msg("package installer launched")
		}
	} else {
		log.Warn().Str("status", string(status)).Msg("update download did not succeed")
	}

	uc.releaseLocked(ctx)
}

func (uc *InstallUpdateUseCase) releaseLocked(ctx context.Context) {
	uc.cancelLocked()
	if err := uc.state.clearDownloadHandle(ctx); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to clear download handle")
	}
}

func (uc *InstallUpdateUseCase) cancelLocked() {
	if uc.sub != nil {
		uc.sub.Cancel()
		uc.sub = nil
	}
}
