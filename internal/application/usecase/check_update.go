package usecase

import (
	"context"
	"time"

	"github.com/smartsystems/chatshell/internal/application/port"
	"github.com/smartsystems/chatshell/internal/domain/build"
	"github.com/smartsystems/chatshell/internal/domain/entity"
	"github.com/smartsystems/chatshell/internal/domain/release"
	"github.com/smartsystems/chatshell/internal/domain/repository"
	"github.com/smartsystems/chatshell/internal/logging"
)

// CheckUpdateOutput holds the result of the update check.
type CheckUpdateOutput struct {
	// Checked is false when no request was made (dev build).
	Checked bool
	// UpdateAvailable is true if a newer version exists.
	UpdateAvailable bool
	// CurrentVersion is the version of the running build.
	CurrentVersion string
	// LatestVersion is the latest published version, empty when the fetch failed.
	LatestVersion string
	// Release is set only when UpdateAvailable is true.
	Release *entity.ReleaseDescriptor
}

// CheckUpdateUseCase runs the gate, fetch and compare steps of an update cycle.
type CheckUpdateUseCase struct {
	fetcher   port.ReleaseFetcher
	state     updateState
	installed entity.InstalledVersion
	devBuild  bool
	interval  time.Duration
	now       func() time.Time
}

// NewCheckUpdateUseCase creates a new check update use case.
// A non-positive interval falls back to release.DefaultCheckInterval.
func NewCheckUpdateUseCase(
	fetcher port.ReleaseFetcher,
	store repository.StateRepository,
	buildInfo build.Info,
	interval time.Duration,
) *CheckUpdateUseCase {
	if interval <= 0 {
		interval = release.DefaultCheckInterval
	}
	return &CheckUpdateUseCase{
		fetcher:   fetcher,
		state:     updateState{store: store},
		installed: release.Installed(buildInfo.Version),
		devBuild:  buildInfo.IsDevBuild(),
		interval:  interval,
		now:       time.Now,
	}
}

// Installed returns the version identity of the running build.
func (uc *CheckUpdateUseCase) Installed() entity.InstalledVersion {
	return uc.installed
}

// LastCheck returns the persisted time of the last completed check.
// The zero time means no check ever completed.
func (uc *CheckUpdateUseCase) LastCheck(ctx context.Context) (time.Time, error) {
	state, err := uc.state.checkState(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return state.LastCheck, nil
}

// ShouldCheck reports whether the check interval elapsed since the last check.
// A storage failure opens the gate.
func (uc *CheckUpdateUseCase) ShouldCheck(ctx context.Context) bool {
	state, err := uc.state.checkState(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to read update check state")
		return true
	}
	return release.ShouldCheck(uc.now(), state.LastCheck, uc.interval)
}

// Execute fetches the latest release and compares it with the installed build.
// Fetch failures are logged and reported as "no update"; they never reach the caller.
func (uc *CheckUpdateUseCase) Execute(ctx context.Context) *CheckUpdateOutput {
	log := logging.FromContext(ctx)

	out := &CheckUpdateOutput{CurrentVersion: uc.installed.Name}
	if uc.devBuild {
		log.Debug().Msg("dev build, skipping update check")
		return out
	}
	out.Checked = true

	latest, err := uc.fetcher.FetchLatestRelease(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("update check failed, treating as no update")
		return out
	}

	if err := uc.state.advanceLastCheck(ctx, uc.now()); err != nil {
		log.Warn().Err(err).Msg("failed to record update check time")
	}

	out.LatestVersion = latest.VersionName
	out.UpdateAvailable = release.IsNewer(*latest, uc.installed)
	if out.UpdateAvailable {
		out.Release = latest
	}

	log.Debug().
		Str("current", uc.installed.Name).
		Int("current_code", uc.installed.Code).
		Str("latest", latest.VersionName).
		Int("latest_code", latest.VersionCode).
		Bool("update_available", out.UpdateAvailable).
		Msg("update check completed")

	return out
}
