package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/smartsystems/chatshell/internal/cli/styles"
)

// taskDoneMsg carries the result of the background task.
type taskDoneMsg struct {
	result any
}

// taskModel shows a spinner until its task returns.
type taskModel struct {
	spinner  spinner.Model
	view     func(spin string) string
	task     func() any
	result   any
	done     bool
	quitting bool
}

func newTaskModel(theme *styles.Theme, view func(string) string, task func() any) taskModel {
	return taskModel{
		spinner: styles.NewDefaultSpinner(theme),
		view:    view,
		task:    task,
	}
}

func (m taskModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return taskDoneMsg{result: m.task()}
	})
}

func (m taskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case taskDoneMsg:
		m.result = msg.result
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m taskModel) View() string {
	if m.done || m.quitting {
		return ""
	}
	return m.view(m.spinner.View())
}

// errTaskAborted is returned when the user quits while the task runs.
var errTaskAborted = errors.New("aborted")

// runTask runs task behind a spinner on a terminal and directly otherwise.
func runTask(ctx context.Context, theme *styles.Theme, view func(string) string, task func() any) (any, error) {
	if !interactive() {
		return task(), nil
	}

	final, err := tea.NewProgram(newTaskModel(theme, view, task), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, err
	}

	m, ok := final.(taskModel)
	if !ok || !m.done {
		return nil, errTaskAborted
	}
	return m.result, nil
}

func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}
