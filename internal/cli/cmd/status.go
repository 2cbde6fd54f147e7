package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartsystems/chatshell/internal/cli/prompt"
	"github.com/smartsystems/chatshell/internal/cli/styles"
	"github.com/smartsystems/chatshell/internal/infrastructure/persistence/sqlite"
)

const recentDownloads = 5

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show update state and recent downloads",
	Long: `Show the installed version, when the release feed was last checked,
the download being tracked for installation and the newest entries of the
download ledger.`,
	RunE:        runStatus,
	Annotations: map[string]string{annotationDownloads: downloadsObserve},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ctx := a.Ctx()

	lastCheck, err := a.CheckUC.LastCheck(ctx)
	if err != nil {
		return fmt.Errorf("read last check: %w", err)
	}
	handle, pending, err := a.InstallUC.Pending(ctx)
	if err != nil {
		return fmt.Errorf("read pending download: %w", err)
	}
	downloads, err := a.Downloads.Recent(ctx, recentDownloads)
	if err != nil {
		return fmt.Errorf("read download ledger: %w", err)
	}
	schema, err := sqlite.SchemaVersion(ctx, a.DB())
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	page := a.NewShell(prompt.AutoPrompter{}, false).Page(ctx)
	online := page == a.Config.Shell.SiteURL

	view := styles.StatusView{
		Version:       a.CheckUC.Installed().Name,
		LastCheck:     lastCheck,
		CheckInterval: a.Config.Update.CheckInterval,
		Page:          page,
		Online:        online,
		SchemaVersion: schema,
		Downloads:     downloads,
	}
	if pending {
		view.PendingID = handle.ID
	}

	fmt.Print(styles.NewStatusRenderer(a.Theme).Render(view))
	return nil
}
