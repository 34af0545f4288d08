package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
	"github.com/twiced-technology-gmbh/daytrack/internal/storage"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no daytrack data directory found (run 'daytrack init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config is the contents of config.yml.
type Config struct {
	Version   int             `yaml:"version"`
	Storage   StorageConfig   `yaml:"storage"`
	Timer     TimerConfig     `yaml:"timer"`
	Dashboard DashboardConfig `yaml:"dashboard"`

	// dir is the absolute path to the data directory (not serialized).
	dir string `yaml:"-"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	File    string `yaml:"file,omitempty"`
}

// TimerConfig holds timer settings.
type TimerConfig struct {
	TickInterval string `yaml:"tick_interval"`
}

// DashboardConfig holds TUI display settings.
type DashboardConfig struct {
	Filter string `yaml:"filter"`
	Quotes *bool  `yaml:"quotes,omitempty"`
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Version:   CurrentVersion,
		Storage:   StorageConfig{Backend: DefaultBackend},
		Timer:     TimerConfig{TickInterval: DefaultTickInterval},
		Dashboard: DashboardConfig{Filter: DefaultFilter, Quotes: boolPtr(true)},
	}
}

// Dir returns the absolute path to the data directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the data directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// LockPath returns the path of the advisory lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.dir, LockFileName)
}

// StorageOptions returns the options for storage.Open.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{Backend: c.Storage.Backend, File: c.Storage.File}
}

// OpenStorage opens the configured backend in the data directory.
func (c *Config) OpenStorage() (storage.KV, error) {
	kv, err := storage.Open(c.dir, c.StorageOptions())
	if err != nil {
		return nil, clierr.Wrap(clierr.PersistenceError, err, "opening %s storage", c.Storage.Backend)
	}
	return kv, nil
}

// TickInterval returns the parsed timer tick, falling back to the default.
func (c *Config) TickInterval() time.Duration {
	d, err := time.ParseDuration(c.Timer.TickInterval)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

// ShowQuotes reports whether the dashboard header shows a quote. Unset
// means yes.
func (c *Config) ShowQuotes() bool {
	return c.Dashboard.Quotes == nil || *c.Dashboard.Quotes
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if !contains(Backends, c.Storage.Backend) {
		return fmt.Errorf("%w: storage.backend %q must be one of %v", ErrInvalid, c.Storage.Backend, Backends)
	}
	d, err := time.ParseDuration(c.Timer.TickInterval)
	if err != nil {
		return fmt.Errorf("%w: invalid timer.tick_interval %q: %w", ErrInvalid, c.Timer.TickInterval, err)
	}
	if d < 100*time.Millisecond || d > time.Minute {
		return fmt.Errorf("%w: timer.tick_interval must be between 100ms and 1m", ErrInvalid)
	}
	if !contains(Filters, c.Dashboard.Filter) {
		return fmt.Errorf("%w: dashboard.filter %q must be one of %v", ErrInvalid, c.Dashboard.Filter, Filters)
	}
	return nil
}

// Init creates a data directory with a default config. It fails when a
// config already exists there.
func Init(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault()
	cfg.SetDir(absDir)

	if _, err := os.Stat(cfg.ConfigPath()); err == nil {
		return nil, clierr.Newf(clierr.StoreAlreadyExists, "daytrack already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}
	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads, migrates and validates the config in dir.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.dir = absDir

	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindDir walks upward from startDir looking for a .daytrack directory
// containing config.yml, then falls back to the user config directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the data directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if user, err := UserDir(); err == nil {
		if _, err := os.Stat(filepath.Join(user, ConfigFileName)); err == nil {
			return user, nil
		}
	}
	return "", clierr.New(clierr.StoreNotFound,
		"no daytrack data directory found (run 'daytrack init' to create one)")
}

// UserDir returns the per-user data directory, e.g. ~/.config/daytrack.
func UserDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, UserDirName), nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
