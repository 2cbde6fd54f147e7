package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// UpdateRenderer renders update status messages with styled output.
type UpdateRenderer struct {
	theme *Theme
}

// NewUpdateRenderer creates a new update renderer with the given theme.
func NewUpdateRenderer(theme *Theme) *UpdateRenderer {
	return &UpdateRenderer{theme: theme}
}

// RenderChecking renders the "checking for updates" message.
func (*UpdateRenderer) RenderChecking(spinner string) string {
	return fmt.Sprintf("\n  %s Checking for updates...\n", spinner)
}

// RenderSkipped renders a cycle that did not reach the release API.
func (r *UpdateRenderer) RenderSkipped(reason string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Muted)
	return fmt.Sprintf("\n  %s %s\n", iconStyle.Render(IconInfo), r.theme.Subtle.Render(reason))
}

// RenderUpToDate renders the "already up to date" message.
func (r *UpdateRenderer) RenderUpToDate(version string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)

	return fmt.Sprintf(
		"\n  %s Already up to date (%s)\n",
		iconStyle.Render(IconCheck),
		r.theme.Highlight.Render(version),
	)
}

// RenderAvailable renders the "update available" message.
func (r *UpdateRenderer) RenderAvailable(current, latest, releaseURL string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	versionStyle := r.theme.Highlight

	out := fmt.Sprintf(
		"\n  %s Update available: %s %s %s\n",
		iconStyle.Render(IconRocket),
		versionStyle.Render(current),
		iconStyle.Render(IconArrow),
		versionStyle.Render(latest),
	)
	if releaseURL != "" {
		out += fmt.Sprintf("     %s\n", r.theme.Subtle.Render(releaseURL))
	}
	return out
}

// RenderDownloading renders the "downloading" message with spinner.
func (r *UpdateRenderer) RenderDownloading(spinner, version string) string {
	return fmt.Sprintf(
		"\n  %s Downloading %s...\n",
		spinner,
		r.theme.Highlight.Render(version),
	)
}

// RenderInstallerLaunched renders the success message after the package was handed off.
func (r *UpdateRenderer) RenderInstallerLaunched(version string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)

	return fmt.Sprintf(
		"\n  %s Update %s downloaded\n  %s Installer launched, confirm the installation to finish\n",
		iconStyle.Render(IconCheck),
		r.theme.Highlight.Render(version),
		iconStyle.Render(IconPackage),
	)
}

// RenderDeclined renders an update the user chose not to install.
func (r *UpdateRenderer) RenderDeclined(version string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Warning)

	return fmt.Sprintf(
		"\n  %s Update %s skipped\n",
		iconStyle.Render(IconInfo),
		r.theme.Highlight.Render(version),
	)
}

// RenderFailed renders a download that could not be started or did not complete.
func (r *UpdateRenderer) RenderFailed(version string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Error)

	return fmt.Sprintf(
		"\n  %s Download of %s failed, see the log for details\n",
		iconStyle.Render(IconX),
		r.theme.Highlight.Render(version),
	)
}

// RenderError renders an error message.
func (r *UpdateRenderer) RenderError(err error) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Error)

	return fmt.Sprintf(
		"\n  %s Update failed: %v\n",
		iconStyle.Render(IconX),
		err,
	)
}

// RenderDevBuild renders the "dev build" skip message.
func (r *UpdateRenderer) RenderDevBuild() string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Warning)
	return fmt.Sprintf(
		"\n  %s Development build - update check skipped\n",
		iconStyle.Render(IconInfo),
	)
}
