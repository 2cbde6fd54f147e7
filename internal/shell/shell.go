// Package shell drives the update workflow the way the chat shell does:
// once at startup and on every scheduled tick.
package shell

import (
	"context"
	"sync"

	"github.com/smartsystems/chatshell/internal/application/port"
	"github.com/smartsystems/chatshell/internal/application/usecase"
	"github.com/smartsystems/chatshell/internal/domain/entity"
	"github.com/smartsystems/chatshell/internal/logging"
)

// UpdateChecker is the gate and check half of the workflow.
type UpdateChecker interface {
	ShouldCheck(ctx context.Context) bool
	Execute(ctx context.Context) *usecase.CheckUpdateOutput
}

// UpdateInstaller is the download and install half of the workflow.
type UpdateInstaller interface {
	DownloadAndInstall(ctx context.Context, release entity.ReleaseDescriptor) entity.UpdateStatus
	ResumePending(ctx context.Context)
}

// Options configures a Shell.
type Options struct {
	SiteURL        string
	OfflinePage    string
	CheckOnStartup bool
}

// Shell owns the update cycle. Cycles never overlap.
type Shell struct {
	checker      UpdateChecker
	installer    UpdateInstaller
	connectivity port.ConnectivityChecker
	prompter     port.UpdatePrompter
	opts         Options

	cycle sync.Mutex
	wg    sync.WaitGroup
}

// New creates a new Shell.
func New(
	checker UpdateChecker,
	installer UpdateInstaller,
	connectivity port.ConnectivityChecker,
	prompter port.UpdatePrompter,
	opts Options,
) *Shell {
	return &Shell{
		checker:      checker,
		installer:    installer,
		connectivity: connectivity,
		prompter:     prompter,
		opts:         opts,
	}
}

// Start re-attaches to a pending download and, if enabled, runs the first
// update cycle in the background.
func (s *Shell) Start(ctx context.Context) {
	s.installer.ResumePending(ctx)

	if !s.opts.CheckOnStartup {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer logging.RecoverPanic(ctx, "startup update check")
		s.RunOnce(ctx, false)
	}()
}

// Tick runs one gated update cycle. It is the cron job body in run mode.
func (s *Shell) Tick(ctx context.Context) entity.UpdateStatus {
	return s.RunOnce(ctx, false)
}

// RunOnce runs one update cycle synchronously. force skips the interval gate.
// It returns UpdateStatusUnknown when no check ran, including when another
// cycle is already in progress.
func (s *Shell) RunOnce(ctx context.Context, force bool) entity.UpdateStatus {
	if !s.cycle.TryLock() {
		logging.FromContext(ctx).Debug().Msg("update cycle already running")
		return entity.UpdateStatusUnknown
	}
	defer s.cycle.Unlock()

	ctx, _ = logging.WithCheckID(ctx)
	log := logging.FromContext(ctx)

	if !s.connectivity.IsConnected(ctx) {
		log.Debug().Msg("offline, skipping update check")
		return entity.UpdateStatusUnknown
	}
	if !force && !s.checker.ShouldCheck(ctx) {
		log.Debug().Msg("checked recently, skipping update check")
		return entity.UpdateStatusUnknown
	}

	out := s.checker.Execute(ctx)
	switch {
	case !out.Checked || out.LatestVersion == "":
		return entity.UpdateStatusUnknown
	case out.Release == nil:
		return entity.UpdateStatusUpToDate
	}

	accepted, err := s.prompter.ConfirmUpdate(ctx, *out.Release)
	if err != nil {
		log.Warn().Err(err).Msg("update prompt failed")
		return entity.UpdateStatusAvailable
	}
	if !accepted {
		log.Info().Str("version", out.Release.VersionName).Msg("update declined")
		return entity.UpdateStatusAvailable
	}

	return s.installer.DownloadAndInstall(ctx, *out.Release)
}

// Page returns the site URL when it is reachable and the offline page otherwise.
func (s *Shell) Page(ctx context.Context) string {
	if s.connectivity.IsConnected(ctx) {
		return s.opts.SiteURL
	}
	return s.opts.OfflinePage
}

// Wait blocks until the startup cycle finished.
func (s *Shell) Wait() {
	s.wg.Wait()
}
