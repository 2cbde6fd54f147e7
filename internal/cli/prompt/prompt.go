// Package prompt asks the user whether an available update should be installed.
package prompt

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/smartsystems/chatshell/internal/cli/styles"
	"github.com/smartsystems/chatshell/internal/domain/entity"
	"github.com/smartsystems/chatshell/internal/logging"
)

const (
	// DialogTitle heads the update dialog.
	DialogTitle = "Update Available"

	defaultWrap = 72
)

// TerminalPrompter shows an interactive update dialog on a terminal.
type TerminalPrompter struct {
	theme *styles.Theme
	in    io.Reader
	out   io.Writer
	width int
}

// NewTerminalPrompter creates a prompter reading keys from in and drawing to out.
func NewTerminalPrompter(theme *styles.Theme, in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{theme: theme, in: in, out: out, width: defaultWrap}
}

// ConfirmUpdate implements port.UpdatePrompter.
// Canceling the dialog counts as declining.
func (p *TerminalPrompter) ConfirmUpdate(ctx context.Context, release entity.ReleaseDescriptor) (bool, error) {
	m := newDialog(p.theme, release, RenderNotes(release.ReleaseNotes, p.width))

	prog := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := prog.Run()
	if err != nil {
		return false, fmt.Errorf("update dialog: %w", err)
	}

	d, ok := final.(dialog)
	if !ok {
		return false, nil
	}
	logging.FromContext(ctx).Debug().
		Str("version", release.VersionName).
		Bool("accepted", d.confirm.Result()).
		Msg("update dialog closed")
	return d.confirm.Result(), nil
}

// AutoPrompter answers every prompt with a fixed decision. It backs
// --yes and non-interactive runs.
type AutoPrompter struct {
	Accept bool
}

// ConfirmUpdate implements port.UpdatePrompter.
func (a AutoPrompter) ConfirmUpdate(ctx context.Context, release entity.ReleaseDescriptor) (bool, error) {
	logging.FromContext(ctx).Info().
		Str("version", release.VersionName).
		Bool("accepted", a.Accept).
		Msg("update prompt answered automatically")
	return a.Accept, nil
}

// Message is the dialog question for version.
func Message(version string) string {
	return fmt.Sprintf("A new version (%s) is available. Would you like to update?", version)
}

// RenderNotes renders markdown release notes for the terminal,
// falling back to the raw text when rendering fails.
func RenderNotes(notes string, width int) string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return ""
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return notes
	}
	out, err := renderer.Render(notes)
	if err != nil {
		return notes
	}
	return strings.TrimSpace(out)
}

// dialog is the bubbletea program around the confirm component.
type dialog struct {
	confirm styles.ConfirmModel
}

func newDialog(theme *styles.Theme, release entity.ReleaseDescriptor, notes string) dialog {
	c := styles.NewConfirm(theme, DialogTitle)
	c.YesLabel = "Update"
	c.NoLabel = "Later"
	c.Body = Message(release.VersionName)
	if notes != "" {
		c.Body += "\n\n" + notes
	}
	return dialog{confirm: c}
}

func (dialog) Init() tea.Cmd {
	return nil
}

func (d dialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	d.confirm, cmd = d.confirm.Update(msg)
	if d.confirm.Done() {
		return d, tea.Quit
	}
	return d, cmd
}

func (d dialog) View() string {
	if d.confirm.Done() {
		return ""
	}
	return d.confirm.View() + "\n"
}
