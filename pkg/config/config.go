// Package config provides configuration management for repofetch. It
// handles loading and validating the YAML configuration file that describes
// mirrors, destination defaults and transfer tuning.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/repofetch/pkg/errors"
	"github.com/glorpus-work/repofetch/pkg/fsutil"
	"github.com/glorpus-work/repofetch/pkg/mirror"
)

// Config represents the application configuration.
type Config struct {
	// Mirrors are the base URLs packages are fetched from, in failover order.
	Mirrors []string `yaml:"mirrors"`

	// RepoKind says what the mirrors serve; package downloads require
	// "packages".
	RepoKind string `yaml:"repo_kind"`

	// General settings
	Settings Settings `yaml:"settings"`
}

// Settings represents general application settings.
type Settings struct {
	// Destination settings
	DestDir string `yaml:"dest_dir,omitempty"`

	// Network settings
	Concurrency int           `yaml:"concurrency"`
	MaxRetries  uint64        `yaml:"max_retries"`
	RateLimit   int64         `yaml:"rate_limit"` // bytes per second, 0 = unlimited
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	UserAgent   string        `yaml:"user_agent,omitempty"`

	// Behavior settings
	LockFiles     bool `yaml:"lock_files"`
	Interruptible bool `yaml:"interruptible"`

	// Output settings
	LogLevel string `yaml:"log_level"` // panic, fatal, error, warn, info, debug, trace
}

// Default configuration values.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultMaxRetries is the default number of retries per mirror URL.
	DefaultMaxRetries = 2

	// DefaultConcurrency is the default number of parallel transfers; zero
	// lets the engine pick one from the CPU count.
	DefaultConcurrency = 0

	// AppName is the name of the application used in paths.
	AppName = "repofetch"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Mirrors:  []string{},
		RepoKind: mirror.RepoKindPackages.String(),
		Settings: Settings{
			Concurrency:   DefaultConcurrency,
			MaxRetries:    DefaultMaxRetries,
			HTTPTimeout:   DefaultHTTPTimeout,
			LockFiles:     true,
			Interruptible: true,
			LogLevel:      "info",
		},
	}
}

// GetDefaultConfigPath returns the platform-specific default config file
// location.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user config dir")
	}
	return filepath.Join(configDir, AppName, "config.yaml"), nil
}

// LoadConfig loads configuration from a file. Missing keys keep their
// default values.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", absPath)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a file, creating the parent directory if
// needed.
func (c *Config) Save(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}
	if err := os.MkdirAll(filepath.Dir(path), fsutil.DirModeSecure); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	return os.WriteFile(path, data, fsutil.FileModeSecure)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := mirror.ParseRepoKind(c.RepoKind); err != nil {
		return err
	}
	if c.Settings.HTTPTimeout < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "http_timeout cannot be negative")
	}
	if c.Settings.RateLimit < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "rate_limit cannot be negative")
	}
	if c.Settings.Concurrency < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "concurrency cannot be negative")
	}
	return nil
}

// RepoKindValue returns the parsed repository kind. Validate must have
// accepted the config first.
func (c *Config) RepoKindValue() mirror.RepoKind {
	kind, err := mirror.ParseRepoKind(c.RepoKind)
	if err != nil {
		return mirror.RepoKindUnknown
	}
	return kind
}
