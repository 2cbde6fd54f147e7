package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smartsystems/chatshell/internal/application/port"
	"github.com/smartsystems/chatshell/internal/cli"
	"github.com/smartsystems/chatshell/internal/cli/prompt"
	"github.com/smartsystems/chatshell/internal/cli/styles"
	"github.com/smartsystems/chatshell/internal/domain/entity"
	"github.com/smartsystems/chatshell/internal/logging"
)

var updateYes bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for and install updates",
	Long: `Check for a newer release, ask before downloading it, and hand the
finished package to the installer.

The check always runs, regardless of the check interval. Use --yes to skip
the confirmation. The command returns once the download finished and the
installer was launched; interrupting it aborts the download.`,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().BoolVarP(&updateYes, "yes", "y", false, "download without asking")
}

// promptFor picks the interactive dialog on a terminal and a fixed answer otherwise.
func promptFor(a *cli.App, yes bool) port.UpdatePrompter {
	if yes || !interactive() {
		return prompt.AutoPrompter{Accept: yes}
	}
	return prompt.NewTerminalPrompter(a.Theme, os.Stdin, os.Stdout)
}

func runUpdate(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(a.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, _ = logging.WithCheckID(ctx)

	renderer := styles.NewUpdateRenderer(a.Theme)

	outcome, err := checkWithSpinner(ctx, a, renderer, true)
	if err != nil {
		return fmt.Errorf("update check: %w", err)
	}
	if outcome.output == nil || outcome.output.Release == nil {
		fmt.Print(renderOutcome(a, renderer, outcome))
		return nil
	}

	rel := *outcome.output.Release
	fmt.Print(renderer.RenderAvailable(outcome.output.CurrentVersion, rel.VersionName, rel.ReleaseURL))

	accepted, err := promptFor(a, updateYes).ConfirmUpdate(ctx, rel)
	if err != nil {
		return fmt.Errorf("update prompt: %w", err)
	}
	if !accepted {
		fmt.Print(renderer.RenderDeclined(rel.VersionName))
		return nil
	}

	if status := a.InstallUC.DownloadAndInstall(ctx, rel); status != entity.UpdateStatusDownloading {
		fmt.Print(renderer.RenderFailed(rel.VersionName))
		return nil
	}

	view := func(spin string) string { return renderer.RenderDownloading(spin, rel.VersionName) }
	res, err := runTask(ctx, a.Theme, view, func() any {
		return waitForDownload(ctx, a.Downloads)
	})
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}

	if res.(entity.DownloadStatus) == entity.DownloadStatusSuccessful {
		fmt.Print(renderer.RenderInstallerLaunched(rel.VersionName))
	} else {
		fmt.Print(renderer.RenderFailed(rel.VersionName))
	}
	return nil
}

// downloadWaiter is the part of the download manager update blocks on.
type downloadWaiter interface {
	Wait() error
	Close() error
	Recent(ctx context.Context, limit int) ([]*entity.DownloadRecord, error)
}

// waitForDownload blocks until the enqueued transfer was recorded and its
// completion handled, then reports the newest ledger status. Transfers die
// with the process, so update must not return before this. Canceling ctx
// aborts the transfer.
func waitForDownload(ctx context.Context, downloads downloadWaiter) entity.DownloadStatus {
	log := logging.FromContext(ctx)

	done := make(chan error, 1)
	go func() { done <- downloads.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			log.Warn().Err(err).Msg("waiting for download failed")
		}
	case <-ctx.Done():
		log.Info().Msg("interrupted, aborting download")
		_ = downloads.Close()
	}

	recent, err := downloads.Recent(context.WithoutCancel(ctx), 1)
	if err != nil || len(recent) == 0 {
		log.Warn().Err(err).Msg("could not read download ledger")
		return entity.DownloadStatusFailed
	}
	return recent[0].Status
}
