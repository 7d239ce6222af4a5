package cli

import (
	stderrors "errors"
	"os"

	"github.com/glorpus-work/repofetch/internal/logger"
	"github.com/glorpus-work/repofetch/pkg/checksum"
	"github.com/glorpus-work/repofetch/pkg/config"
	"github.com/glorpus-work/repofetch/pkg/engine"
	"github.com/glorpus-work/repofetch/pkg/errors"
	"github.com/glorpus-work/repofetch/pkg/fetch"
	"github.com/glorpus-work/repofetch/pkg/mirror"
	"github.com/glorpus-work/repofetch/pkg/model"
)

// These variables will be set by the main package.
var (
	ConfigPath *string
	Verbose    *bool
	NoColor    *bool
)

// loadConfig loads the configuration and applies the global CLI flags. An
// explicit --config path must exist; a missing file at the default location
// yields the built-in defaults.
func loadConfig() (*config.Config, error) {
	configPath := ""
	if ConfigPath != nil {
		configPath = *ConfigPath
	}

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load config")
		}
	} else {
		defaultPath, pathErr := config.GetDefaultConfigPath()
		if pathErr != nil {
			return nil, errors.Wrap(pathErr, "failed to get default config path")
		}
		cfg, err = config.LoadConfig(defaultPath)
		if stderrors.Is(err, os.ErrNotExist) {
			cfg, err = config.DefaultConfig(), nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to load config")
		}
	}

	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}

	noColor := NoColor != nil && *NoColor
	logger.Init(cfg.Settings.LogLevel, noColor)

	return cfg, nil
}

// buildManager wires the transfer engine, checksum verifier and mirror
// provider into a download manager according to the configuration.
func buildManager(cfg *config.Config, progress model.ProgressFunc) *fetch.Manager {
	eng := engine.New(engine.Options{
		Concurrency: cfg.Settings.Concurrency,
		MaxRetries:  cfg.Settings.MaxRetries,
		HTTPTimeout: cfg.Settings.HTTPTimeout,
		UserAgent:   cfg.Settings.UserAgent,
		RateLimit:   cfg.Settings.RateLimit,
		LockFiles:   cfg.Settings.LockFiles,
	})
	provider := mirror.NewStaticProvider(cfg.RepoKindValue(), cfg.Mirrors)

	return fetch.New(eng, checksum.NewVerifier(), provider, fetch.Options{
		DestDir:       cfg.Settings.DestDir,
		Interruptible: cfg.Settings.Interruptible,
		Progress:      progress,
	})
}
