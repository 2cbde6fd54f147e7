// Package installer hands downloaded packages to an external install handler.
package installer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/google/shlex"

	"github.com/smartsystems/chatshell/internal/logging"
)

const (
	// DefaultCommand opens the package with the desktop's handler for its type.
	DefaultCommand = "xdg-open {uri}"

	// DefaultMIMEType is the Android package archive type.
	DefaultMIMEType = "application/vnd.android.package-archive"

	// readablePerm grants the install handler read access to the package.
	readablePerm = 0o644
)

// ErrNoInstallHandler is returned when the install command cannot be found.
var ErrNoInstallHandler = errors.New("no install handler for package type")

// CommandInstaller implements port.PackageInstaller by launching a command.
// The placeholders {uri}, {path} and {mime} are expanded in every argument.
type CommandInstaller struct {
	argv  []string
	mime  string
	start func(ctx context.Context, name string, args ...string) error
}

// NewCommandInstaller parses command with shell quoting rules.
func NewCommandInstaller(command, mimeType string) (*CommandInstaller, error) {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	if mimeType == "" {
		mimeType = DefaultMIMEType
	}

	argv, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("invalid install command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("install command %q has no program", command)
	}

	return &CommandInstaller{argv: argv, mime: mimeType, start: startDetached}, nil
}

// Install launches the handler for the package at uri without waiting for it.
func (c *CommandInstaller) Install(ctx context.Context, uri string) error {
	path, err := localPath(uri)
	if err != nil {
		return err
	}

	if err := os.Chmod(path, readablePerm); err != nil {
		return fmt.Errorf("failed to grant read access to %s: %w", path, err)
	}

	replacer := strings.NewReplacer("{uri}", uri, "{path}", path, "{mime}", c.mime)
	args := make([]string, len(c.argv))
	for i, arg := range c.argv {
		args[i] = replacer.Replace(arg)
	}

	logging.FromContext(ctx).Debug().Strs("argv", args).Msg("launching package installer")

	if err := c.start(ctx, args[0], args[1:]...); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNoInstallHandler, args[0])
		}
		return fmt.Errorf("failed to start installer: %w", err)
	}
	return nil
}

// startDetached starts the process and reaps it in the background.
func startDetached(ctx context.Context, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("installer", name).Msg("installer exited with error")
		}
	}()
	return nil
}

func localPath(uri string) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid package uri: %w", err)
	}
	if parsed.Scheme != "file" || parsed.Path == "" {
		return "", fmt.Errorf("package uri must be a file uri, got %q", uri)
	}
	return parsed.Path, nil
}
