// Package config loads and validates the YAML configuration file. Every
// field has a command-line flag counterpart; flags win over file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dhelbig/rexsync/pkg/plog"
	"github.com/dhelbig/rexsync/pkg/util"
)

// ConfigFileName is the default name of the configuration file.
const ConfigFileName = "rexsync.yaml"

// ErrExists is returned by WriteTemplate when the file is already present.
var ErrExists = errors.New("configuration file already exists")

type SyncConfig struct {
	// Source and Target are the roots of the one-directional pass.
	Source string `yaml:"source"`
	Target string `yaml:"target"`
	// Patterns is a semicolon-separated list of case-insensitive regular
	// expressions matched against file base names.
	Patterns string `yaml:"patterns"`
	// MaxRetries is the number of re-attempts after a failed copy.
	MaxRetries int  `yaml:"max_retries"`
	DryRun     bool `yaml:"dry_run"`
}

type PerformanceConfig struct {
	// Workers bounds how many files are copied concurrently. Zero means
	// one worker per CPU.
	Workers int `yaml:"workers"`
}

type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	Quiet bool   `yaml:"quiet"`
}

type ReportConfig struct {
	// Path, when set, receives a JSON report of every run. A .gz suffix
	// enables compression.
	Path string `yaml:"path"`
}

type Config struct {
	Sync        SyncConfig        `yaml:"sync"`
	Performance PerformanceConfig `yaml:"performance"`
	Logging     LoggingConfig     `yaml:"logging"`
	Report      ReportConfig      `yaml:"report"`
}

// NewDefault returns the configuration used when no file and no flags are
// given. Patterns defaults to matching everything.
func NewDefault() Config {
	return Config{
		Sync: SyncConfig{
			Patterns:   `.*`,
			MaxRetries: 3,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the configuration at path on top of the defaults and expands
// user-relative paths. A missing file is not an error; the defaults are
// returned untouched.
func Load(path string) (Config, error) {
	cfg := NewDefault()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.Sync.Source, err = util.ExpandPath(cfg.Sync.Source); err != nil {
		return cfg, fmt.Errorf("sync.source: %w", err)
	}
	if cfg.Sync.Target, err = util.ExpandPath(cfg.Sync.Target); err != nil {
		return cfg, fmt.Errorf("sync.target: %w", err)
	}
	if cfg.Report.Path, err = util.ExpandPath(cfg.Report.Path); err != nil {
		return cfg, fmt.Errorf("report.path: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields a sync run depends on. Path existence is not
// checked here; the engine reports that with its own error kinds.
func (c *Config) Validate() error {
	if util.IsBlank(c.Sync.Source) {
		return errors.New("sync.source must not be empty")
	}
	if util.IsBlank(c.Sync.Target) {
		return errors.New("sync.target must not be empty")
	}
	if util.IsBlank(c.Sync.Patterns) {
		return errors.New("sync.patterns must not be empty")
	}
	if c.Sync.MaxRetries < 0 {
		return fmt.Errorf("sync.max_retries must not be negative, got %d", c.Sync.MaxRetries)
	}
	if c.Performance.Workers < 0 {
		return fmt.Errorf("performance.workers must not be negative, got %d", c.Performance.Workers)
	}
	if !util.IsBlank(c.Logging.Level) {
		if _, err := plog.ParseLevel(c.Logging.Level); err != nil {
			return fmt.Errorf("logging.level: %w", err)
		}
	}
	return nil
}

// configTemplate is written by WriteTemplate. It carries comments, which a
// plain yaml.Marshal of the defaults would lose.
const configTemplate = `# rexsync configuration
sync:
  # Roots of the one-directional pass.
  source: ""
  target: ""
  # Semicolon-separated, case-insensitive regular expressions matched
  # against file base names.
  patterns: ".*"
  # Re-attempts after a failed copy, with exponential backoff.
  max_retries: 3
  dry_run: false

performance:
  # Concurrent file copies. 0 means one worker per CPU.
  workers: 0

logging:
  # One of: debug, info, warn, error.
  level: "info"
  quiet: false

report:
  # When set, a JSON report of every run is written here.
  # A .gz suffix enables compression.
  path: ""
`

// WriteTemplate creates a commented starter configuration at path. It never
// overwrites an existing file.
func WriteTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
		return fmt.Errorf("failed to create config file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(configTemplate); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
