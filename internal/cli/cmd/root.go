// Package cmd provides Cobra CLI commands for chatshell.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smartsystems/chatshell/internal/cli"
	"github.com/smartsystems/chatshell/internal/domain/build"
)

// Commands annotated with downloads=observe never touch unfinished transfers.
const (
	annotationDownloads = "downloads"
	downloadsObserve    = "observe"
)

var (
	app       *cli.App
	buildInfo build.Info
	rootCmd   = &cobra.Command{
		Use:   "chatshell",
		Short: "Keep the SmartSystems Chat shell up to date",
		Long: `chatshell hosts the SmartSystems Chat site and keeps the installed
build current.

It checks the GitHub release feed at most once per check interval,
asks before downloading a newer package, and hands the finished
download to the platform installer.

Use 'chatshell run' to keep the shell running with scheduled checks,
or 'chatshell update' for a one-off check and install.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion":
				return nil
			}

			var err error
			app, err = cli.NewApp(buildInfo, cli.Options{
				ObserveDownloads: cmd.Annotations[annotationDownloads] == downloadsObserve,
			})
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				if err := app.Close(); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
			}
		},
	}
)

func init() {
	rootCmd.SilenceUsage = true
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}

func requireApp() (*cli.App, error) {
	a := GetApp()
	if a == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return a, nil
}
