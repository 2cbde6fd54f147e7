package config

import "time"

// Config represents the complete configuration for chatshell.
type Config struct {
	Update   UpdateConfig   `mapstructure:"update" toml:"update"`
	Download DownloadConfig `mapstructure:"download" toml:"download"`
	Install  InstallConfig  `mapstructure:"install" toml:"install"`
	Shell    ShellConfig    `mapstructure:"shell" toml:"shell"`
	Database DatabaseConfig `mapstructure:"database" toml:"database"`
	Logging  LoggingConfig  `mapstructure:"logging" toml:"logging"`
}

// UpdateConfig controls the release check.
type UpdateConfig struct {
	// Owner and Repo select the GitHub repository releases are read from.
	Owner string `mapstructure:"owner" toml:"owner"`
	Repo  string `mapstructure:"repo" toml:"repo"`
	// APIURL overrides the latest-release endpoint derived from Owner and Repo.
	APIURL string `mapstructure:"api_url" toml:"api_url"`
	// CheckInterval is the minimum time between two checks.
	// Default: 6h
	CheckInterval  time.Duration `mapstructure:"check_interval" toml:"check_interval"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" toml:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" toml:"read_timeout"`
	// PackageExtension selects the installable asset of a release.
	// Default: .apk
	PackageExtension string `mapstructure:"package_extension" toml:"package_extension"`
	// ArtifactPrefix names downloaded packages: <prefix>-<version><ext>.
	ArtifactPrefix string `mapstructure:"artifact_prefix" toml:"artifact_prefix"`
	// EnableOnStartup checks for updates when the shell starts.
	// Default: true
	EnableOnStartup bool `mapstructure:"enable_on_startup" toml:"enable_on_startup"`
	// Schedule is the cron expression driving checks in run mode.
	Schedule string `mapstructure:"schedule" toml:"schedule"`
}

// DownloadConfig controls where and how packages are downloaded.
type DownloadConfig struct {
	// Dir is the public downloads directory. Empty means the XDG download dir.
	Dir          string `mapstructure:"dir" toml:"dir"`
	AllowMetered bool   `mapstructure:"allow_metered" toml:"allow_metered"`
	AllowRoaming bool   `mapstructure:"allow_roaming" toml:"allow_roaming"`
}

// InstallConfig controls how a downloaded package is handed to the installer.
type InstallConfig struct {
	// Command is run with {uri}, {path} and {mime} expanded.
	Command  string `mapstructure:"command" toml:"command"`
	MIMEType string `mapstructure:"mime_type" toml:"mime_type"`
}

// ShellConfig describes the hosted site the shell renders.
type ShellConfig struct {
	SiteURL      string        `mapstructure:"site_url" toml:"site_url"`
	OfflinePage  string        `mapstructure:"offline_page" toml:"offline_page"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout" toml:"probe_timeout"`
}

// DatabaseConfig locates the state database.
type DatabaseConfig struct {
	// Path defaults to $XDG_DATA_HOME/chatshell/chatshell.sqlite.
	Path string `mapstructure:"path" toml:"path"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level"`
	Format string `mapstructure:"format" toml:"format"`
	// File enables a rotated JSON log file in addition to stderr.
	File       string `mapstructure:"file" toml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" toml:"max_backups"`
}
