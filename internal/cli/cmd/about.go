package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartsystems/chatshell/internal/cli/styles"
)

var aboutCmd = &cobra.Command{
	Use:         "about",
	Short:       "Show version and build information",
	Long:        `Display version, build info, the hosted site and the repository URL.`,
	RunE:        runAbout,
	Annotations: map[string]string{annotationDownloads: downloadsObserve},
}

func init() {
	rootCmd.AddCommand(aboutCmd)
}

func runAbout(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	fmt.Println(styles.NewAboutRenderer(a.Theme).Render(a.BuildInfo, a.Config.Shell.SiteURL))
	return nil
}
