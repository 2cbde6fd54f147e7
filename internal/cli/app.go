// Package cli wires the chatshell dependencies for the Cobra commands.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"

	"github.com/smartsystems/chatshell/internal/application/port"
	"github.com/smartsystems/chatshell/internal/application/usecase"
	"github.com/smartsystems/chatshell/internal/cli/styles"
	"github.com/smartsystems/chatshell/internal/domain/build"
	"github.com/smartsystems/chatshell/internal/domain/repository"
	"github.com/smartsystems/chatshell/internal/infrastructure/config"
	"github.com/smartsystems/chatshell/internal/infrastructure/connectivity"
	"github.com/smartsystems/chatshell/internal/infrastructure/download"
	"github.com/smartsystems/chatshell/internal/infrastructure/installer"
	"github.com/smartsystems/chatshell/internal/infrastructure/persistence/sqlite"
	"github.com/smartsystems/chatshell/internal/infrastructure/updater"
	"github.com/smartsystems/chatshell/internal/logging"
	"github.com/smartsystems/chatshell/internal/shell"
)

// App holds CLI dependencies.
type App struct {
	Config        *config.Config
	ConfigManager *config.Manager
	Theme         *styles.Theme
	BuildInfo     build.Info

	db        *sql.DB
	State     repository.StateRepository
	Downloads *download.Manager
	Probe     *connectivity.Probe

	// Use cases
	CheckUC   *usecase.CheckUpdateUseCase
	InstallUC *usecase.InstallUpdateUseCase

	// Context with logger
	ctx       context.Context
	cancel    context.CancelFunc
	logCloser io.Closer
}

// Options tunes how much of the workflow a command owns.
type Options struct {
	// ObserveDownloads opens the download ledger without recovering it,
	// for commands that only report state.
	ObserveDownloads bool
}

// NewApp loads the configuration and builds every dependency of the update workflow.
func NewApp(info build.Info, opts Options) (*App, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, err
	}
	if err := mgr.Load(); err != nil {
		return nil, err
	}
	cfg := mgr.Get()

	logger, logCloser := logging.New(loggingConfig(cfg))
	ctx, cancel := context.WithCancel(logging.WithContext(context.Background(), logger))

	app := &App{
		Config:        cfg,
		ConfigManager: mgr,
		Theme:         styles.NewTheme(),
		BuildInfo:     info,
		ctx:           ctx,
		cancel:        cancel,
		logCloser:     logCloser,
	}

	if mgr.Created() {
		logger.Info().Str("path", mgr.ConfigFile()).Msg("created default config")
	}

	if err := app.wire(ctx, cfg, opts); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) wire(ctx context.Context, cfg *config.Config, opts Options) error {
	log := logging.FromContext(ctx)

	db, err := sqlite.NewConnection(ctx, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.db = db
	log.Debug().Str("db_path", cfg.Database.Path).Msg("database connected")

	a.State = sqlite.NewStateRepository(db)

	a.Downloads, err = download.NewManager(ctx, sqlite.NewDownloadRepository(db), download.Options{
		Dir:     cfg.Download.Dir,
		Observe: opts.ObserveDownloads,
	})
	if err != nil {
		return fmt.Errorf("create download manager: %w", err)
	}

	pkgInstaller, err := installer.NewCommandInstaller(cfg.Install.Command, cfg.Install.MIMEType)
	if err != nil {
		return fmt.Errorf("create installer: %w", err)
	}

	a.Probe, err = connectivity.NewProbe(cfg.Shell.SiteURL, cfg.Shell.ProbeTimeout)
	if err != nil {
		return fmt.Errorf("create connectivity probe: %w", err)
	}

	apiURL := cfg.Update.APIURL
	if apiURL == "" {
		apiURL = updater.LatestReleaseURL(cfg.Update.Owner, cfg.Update.Repo)
	}
	fetcher := updater.NewGitHubFetcher(updater.Options{
		APIURL:           apiURL,
		ConnectTimeout:   cfg.Update.ConnectTimeout,
		ReadTimeout:      cfg.Update.ReadTimeout,
		PackageExtension: cfg.Update.PackageExtension,
		UserAgent:        "chatshell/" + a.BuildInfo.Version,
	})

	a.CheckUC = usecase.NewCheckUpdateUseCase(fetcher, a.State, a.BuildInfo, cfg.Update.CheckInterval)
	a.InstallUC = usecase.NewInstallUpdateUseCase(a.Downloads, pkgInstaller, a.State, usecase.InstallUpdateConfig{
		ArtifactPrefix:   cfg.Update.ArtifactPrefix,
		PackageExtension: cfg.Update.PackageExtension,
		AllowMetered:     cfg.Download.AllowMetered,
		AllowRoaming:     cfg.Download.AllowRoaming,
	})

	log.Debug().
		Str("api_url", apiURL).
		Str("download_dir", cfg.Download.Dir).
		Dur("check_interval", cfg.Update.CheckInterval).
		Msg("update workflow ready")
	return nil
}

// NewShell builds the update shell around prompter.
func (a *App) NewShell(prompter port.UpdatePrompter, checkOnStartup bool) *shell.Shell {
	return shell.New(a.CheckUC, a.InstallUC, a.Probe, prompter, shell.Options{
		SiteURL:        a.Config.Shell.SiteURL,
		OfflinePage:    a.Config.Shell.OfflinePage,
		CheckOnStartup: checkOnStartup,
	})
}

// DB returns the state database.
func (a *App) DB() *sql.DB {
	return a.db
}

// Close releases all resources. Running downloads are aborted.
func (a *App) Close() error {
	var result *multierror.Error

	if a.InstallUC != nil {
		a.InstallUC.Close()
	}
	if a.Downloads != nil {
		if err := a.Downloads.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close downloads: %w", err))
		}
	}
	if a.cancel != nil {
		a.cancel()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close database: %w", err))
		}
	}
	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close log file: %w", err))
		}
	}

	return result.ErrorOrNil()
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

func loggingConfig(cfg *config.Config) logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(cfg.Logging.Level, lc.Level)
	if cfg.Logging.Format != "" {
		lc.Format = cfg.Logging.Format
	}
	lc.File = cfg.Logging.File
	if cfg.Logging.MaxSizeMB > 0 {
		lc.MaxSizeMB = cfg.Logging.MaxSizeMB
	}
	if cfg.Logging.MaxBackups > 0 {
		lc.MaxBackups = cfg.Logging.MaxBackups
	}
	return logging.ApplyEnv(lc)
}
