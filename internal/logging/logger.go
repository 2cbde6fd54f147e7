// Package logging configures zerolog and carries loggers through contexts.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"

	envLevel  = "CHATSHELL_LOG_LEVEL"
	envFormat = "CHATSHELL_LOG_FORMAT"
)

// Config holds logging configuration
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string

	// File, when set, receives a JSON copy of every event, rotated by size.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     FormatConsole,
		TimeFormat: time.RFC3339,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
		Compress:   true,
	}
}

// ParseLevel maps a level name to a zerolog level.
// Unknown names yield fallback.
func ParseLevel(name string, fallback zerolog.Level) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return fallback
	}
}

// New creates a logger writing to stderr and, if cfg.File is set, to a
// rotated log file. The returned closer releases the file.
func New(cfg Config) (zerolog.Logger, io.Closer) {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg Config, stderr io.Writer) (zerolog.Logger, io.Closer) {
	var output io.Writer = stderr
	if cfg.Format != FormatJSON {
		output = zerolog.ConsoleWriter{
			Out:        stderr,
			TimeFormat: cfg.TimeFormat,
		}
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		output = zerolog.MultiLevelWriter(output, file)
		closer = file
	}

	logger := zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
	return logger, closer
}

// NewFromConfigValues creates a stderr logger from plain level and format names.
func NewFromConfigValues(level, format string) zerolog.Logger {
	cfg := DefaultConfig()
	cfg.Level = ParseLevel(level, cfg.Level)
	if format == FormatJSON {
		cfg.Format = FormatJSON
	}
	logger, _ := New(cfg)
	return logger
}

// ApplyEnv overrides cfg with environment variables
// CHATSHELL_LOG_LEVEL: trace, debug, info, warn, error
// CHATSHELL_LOG_FORMAT: json, console
func ApplyEnv(cfg Config) Config {
	if level := os.Getenv(envLevel); level != "" {
		cfg.Level = ParseLevel(level, cfg.Level)
	}
	switch format := os.Getenv(envFormat); format {
	case FormatJSON, FormatConsole:
		cfg.Format = format
	}
	return cfg
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
