package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smartsystems/chatshell/internal/infrastructure/config"
	"github.com/smartsystems/chatshell/internal/logging"
)

var runYes bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Keep the shell running with scheduled update checks",
	Long: `Run the shell in the foreground.

On start the shell re-attaches to a download a previous run left behind
and, when update.enable_on_startup is set, checks for updates. Afterwards
update.schedule drives further checks; each one is still subject to the
check interval. Editing update.schedule in the config file takes effect
without a restart.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "download updates without asking")
}

func runRun(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(a.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logging.FromContext(ctx)

	sh := a.NewShell(promptFor(a, runYes), a.Config.Update.EnableOnStartup)

	sched := newScheduler(func() {
		defer logging.RecoverPanic(ctx, "scheduled update check")
		status := sh.Tick(ctx)
		log.Debug().Str("status", status.String()).Msg("scheduled update cycle finished")
	})
	if err := sched.Reschedule(a.Config.Update.Schedule); err != nil {
		return err
	}

	a.ConfigManager.OnConfigChange(func(cfg *config.Config) {
		if err := sched.Reschedule(cfg.Update.Schedule); err != nil {
			log.Warn().Err(err).Msg("keeping previous update schedule")
			return
		}
		log.Info().Str("schedule", sched.Spec()).Msg("update schedule applied")
	})
	if err := a.ConfigManager.Watch(*log); err != nil {
		log.Warn().Err(err).Msg("config watch disabled")
	}

	log.Info().
		Str("version", a.CheckUC.Installed().Name).
		Str("page", sh.Page(ctx)).
		Str("schedule", sched.Spec()).
		Msg("shell started")

	sh.Start(ctx)
	sched.Start()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	sched.Stop()
	sh.Wait()
	return nil
}
