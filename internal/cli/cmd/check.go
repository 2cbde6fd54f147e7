package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartsystems/chatshell/internal/application/usecase"
	"github.com/smartsystems/chatshell/internal/cli"
	"github.com/smartsystems/chatshell/internal/cli/styles"
	"github.com/smartsystems/chatshell/internal/logging"
)

var checkForce bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a newer release is published",
	Long: `Check the release feed for a newer version without downloading it.

The check is skipped when the last successful check is more recent than
the configured check interval. Use --force to check anyway.`,
	RunE:        runCheck,
	Annotations: map[string]string{annotationDownloads: downloadsObserve},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVarP(&checkForce, "force", "f", false, "ignore the check interval")
}

// checkOutcome is the result of the gate, connectivity and fetch steps.
type checkOutcome struct {
	offline bool
	gated   bool
	output  *usecase.CheckUpdateOutput
}

func performCheck(ctx context.Context, a *cli.App, force bool) checkOutcome {
	if !a.Probe.IsConnected(ctx) {
		return checkOutcome{offline: true}
	}
	if !force && !a.CheckUC.ShouldCheck(ctx) {
		return checkOutcome{gated: true}
	}
	return checkOutcome{output: a.CheckUC.Execute(ctx)}
}

func checkWithSpinner(ctx context.Context, a *cli.App, renderer *styles.UpdateRenderer, force bool) (checkOutcome, error) {
	res, err := runTask(ctx, a.Theme, renderer.RenderChecking, func() any {
		return performCheck(ctx, a, force)
	})
	if err != nil {
		return checkOutcome{}, err
	}
	return res.(checkOutcome), nil
}

// renderOutcome renders every outcome except an available update.
func renderOutcome(a *cli.App, renderer *styles.UpdateRenderer, o checkOutcome) string {
	switch {
	case o.offline:
		return renderer.RenderSkipped("Site unreachable, update check skipped")
	case o.gated:
		return renderer.RenderSkipped(fmt.Sprintf(
			"Checked within the last %s, use --force to check now", a.Config.Update.CheckInterval))
	case !o.output.Checked:
		return renderer.RenderDevBuild()
	case o.output.LatestVersion == "":
		return renderer.RenderError(errors.New("release lookup failed, see the log for details"))
	case o.output.Release == nil:
		return renderer.RenderUpToDate(o.output.CurrentVersion)
	default:
		return renderer.RenderAvailable(o.output.CurrentVersion, o.output.LatestVersion, o.output.Release.ReleaseURL)
	}
}

func runCheck(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	ctx, _ := logging.WithCheckID(a.Ctx())
	logging.FromContext(ctx).Debug().Bool("force", checkForce).Msg("manual update check")

	renderer := styles.NewUpdateRenderer(a.Theme)
	outcome, err := checkWithSpinner(ctx, a, renderer, checkForce)
	if err != nil {
		return fmt.Errorf("update check: %w", err)
	}

	fmt.Print(renderOutcome(a, renderer, outcome))
	return nil
}
