package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	appName      = "chatshell"
	databaseName = "chatshell.sqlite"
	configName   = "config.toml"

	dirPerm = 0o755
)

// XDGDirs holds the XDG Base Directory paths for the application.
type XDGDirs struct {
	ConfigHome string
	DataHome   string
	StateHome  string
}

// GetXDGDirs returns the XDG Base Directory paths for chatshell:
// - $XDG_CONFIG_HOME/chatshell (default: ~/.config/chatshell)
// - $XDG_DATA_HOME/chatshell (default: ~/.local/share/chatshell)
// - $XDG_STATE_HOME/chatshell (default: ~/.local/state/chatshell)
func GetXDGDirs() (*XDGDirs, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	return &XDGDirs{
		ConfigHome: filepath.Join(xdgBase("XDG_CONFIG_HOME", homeDir, ".config"), appName),
		DataHome:   filepath.Join(xdgBase("XDG_DATA_HOME", homeDir, ".local", "share"), appName),
		StateHome:  filepath.Join(xdgBase("XDG_STATE_HOME", homeDir, ".local", "state"), appName),
	}, nil
}

func xdgBase(env, home string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// GetConfigDir returns the XDG config directory for chatshell.
func GetConfigDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return dirs.ConfigHome, nil
}

// GetDatabaseFile returns the path to the state database in the data directory.
func GetDatabaseFile() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return filepath.Join(dirs.DataHome, databaseName), nil
}

// GetLogFile returns the default rotated log file path in the state directory.
func GetLogFile() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return filepath.Join(dirs.StateHome, "logs", appName+".log"), nil
}

// GetDownloadDir returns the public downloads directory: $XDG_DOWNLOAD_DIR
// when set, otherwise ~/Downloads.
func GetDownloadDir() (string, error) {
	if dir := os.Getenv("XDG_DOWNLOAD_DIR"); dir != "" {
		return expandHome(dir)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// expandHome resolves the "$HOME/" form user-dirs.dirs uses.
func expandHome(dir string) (string, error) {
	for _, prefix := range []string{"$HOME/", "~/"} {
		if rest, ok := strings.CutPrefix(dir, prefix); ok {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			return filepath.Join(homeDir, rest), nil
		}
	}
	return dir, nil
}
