package config

import (
	"time"

	"github.com/smartsystems/chatshell/internal/domain/download"
	"github.com/smartsystems/chatshell/internal/domain/release"
)

const (
	defaultOwner          = "alonsobasauri"
	defaultRepo           = "smartsystems-chat-android"
	defaultSchedule       = "@every 30m"
	defaultInstallCommand = "xdg-open {uri}"
	defaultMIMEType       = "application/vnd.android.package-archive"
	defaultSiteURL        = "https://chat.smartsystems.work/"
	defaultOfflinePage    = "offline.html"
)

// DefaultConfig returns the default configuration.
// Paths left empty are resolved against the XDG directories on load.
func DefaultConfig() *Config {
	return &Config{
		Update: UpdateConfig{
			Owner:            defaultOwner,
			Repo:             defaultRepo,
			CheckInterval:    release.DefaultCheckInterval,
			ConnectTimeout:   10 * time.Second,
			ReadTimeout:      10 * time.Second,
			PackageExtension: release.DefaultPackageExtension,
			ArtifactPrefix:   download.DefaultArtifactPrefix,
			EnableOnStartup:  true,
			Schedule:         defaultSchedule,
		},
		Download: DownloadConfig{
			AllowMetered: true,
			AllowRoaming: true,
		},
		Install: InstallConfig{
			Command:  defaultInstallCommand,
			MIMEType: defaultMIMEType,
		},
		Shell: ShellConfig{
			SiteURL:      defaultSiteURL,
			OfflinePage:  defaultOfflinePage,
			ProbeTimeout: 3 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// setDefaults registers every key with viper so env overrides and the
// generated config file cover the full schema. Durations are written as
// strings to keep the TOML readable.
func (m *Manager) setDefaults() {
	d := DefaultConfig()

	m.viper.SetDefault("update.owner", d.Update.Owner)
	m.viper.SetDefault("update.repo", d.Update.Repo)
	m.viper.SetDefault("update.api_url", d.Update.APIURL)
	m.viper.SetDefault("update.check_interval", d.Update.CheckInterval.String())
	m.viper.SetDefault("update.connect_timeout", d.Update.ConnectTimeout.String())
	m.viper.SetDefault("update.read_timeout", d.Update.ReadTimeout.String())
	m.viper.SetDefault("update.package_extension", d.Update.PackageExtension)
	m.viper.SetDefault("update.artifact_prefix", d.Update.ArtifactPrefix)
	m.viper.SetDefault("update.enable_on_startup", d.Update.EnableOnStartup)
	m.viper.SetDefault("update.schedule", d.Update.Schedule)

	m.viper.SetDefault("download.dir", d.Download.Dir)
	m.viper.SetDefault("download.allow_metered", d.Download.AllowMetered)
	m.viper.SetDefault("download.allow_roaming", d.Download.AllowRoaming)

	m.viper.SetDefault("install.command", d.Install.Command)
	m.viper.SetDefault("install.mime_type", d.Install.MIMEType)

	m.viper.SetDefault("shell.site_url", d.Shell.SiteURL)
	m.viper.SetDefault("shell.offline_page", d.Shell.OfflinePage)
	m.viper.SetDefault("shell.probe_timeout", d.Shell.ProbeTimeout.String())

	m.viper.SetDefault("database.path", d.Database.Path)

	m.viper.SetDefault("logging.level", d.Logging.Level)
	m.viper.SetDefault("logging.format", d.Logging.Format)
	m.viper.SetDefault("logging.file", d.Logging.File)
	m.viper.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	m.viper.SetDefault("logging.max_backups", d.Logging.MaxBackups)
}
