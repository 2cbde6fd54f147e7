package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// validateConfig collects every invalid value into one error.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateUpdate(config)...)
	validationErrors = append(validationErrors, validateInstall(config)...)
	validationErrors = append(validationErrors, validateShell(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateUpdate(config *Config) []string {
	var validationErrors []string
	u := config.Update

	if u.APIURL == "" && (u.Owner == "" || u.Repo == "") {
		validationErrors = append(validationErrors, "update.owner and update.repo are required when update.api_url is empty")
	}
	if u.APIURL != "" {
		if msg := validateHTTPURL("update.api_url", u.APIURL); msg != "" {
			validationErrors = append(validationErrors, msg)
		}
	}
	if u.CheckInterval <= 0 {
		validationErrors = append(validationErrors, "update.check_interval must be positive")
	}
	if u.ConnectTimeout <= 0 {
		validationErrors = append(validationErrors, "update.connect_timeout must be positive")
	}
	if u.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "update.read_timeout must be positive")
	}
	if u.PackageExtension == "" || u.PackageExtension == "." {
		validationErrors = append(validationErrors, "update.package_extension must not be empty")
	}
	if strings.ContainsAny(u.ArtifactPrefix, `/\`) {
		validationErrors = append(validationErrors, "update.artifact_prefix must not contain path separators")
	}
	if u.Schedule != "" {
		if _, err := cron.ParseStandard(u.Schedule); err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("update.schedule is not a valid cron expression: %v", err))
		}
	}
	return validationErrors
}

func validateInstall(config *Config) []string {
	if strings.TrimSpace(config.Install.Command) == "" {
		return []string{"install.command must not be empty"}
	}
	return nil
}

func validateShell(config *Config) []string {
	var validationErrors []string
	if msg := validateHTTPURL("shell.site_url", config.Shell.SiteURL); msg != "" {
		validationErrors = append(validationErrors, msg)
	}
	if config.Shell.ProbeTimeout < 0 {
		validationErrors = append(validationErrors, "shell.probe_timeout must be non-negative")
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.level must be one of trace, debug, info, warn, error (got %q)", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "json", "console":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.format must be json or console (got %q)", config.Logging.Format))
	}
	if config.Logging.MaxSizeMB < 0 || config.Logging.MaxBackups < 0 {
		validationErrors = append(validationErrors, "logging.max_size_mb and logging.max_backups must be non-negative")
	}
	return validationErrors
}

func validateHTTPURL(key, raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Sprintf("%s must be an http(s) URL (got %q)", key, raw)
	}
	return ""
}
