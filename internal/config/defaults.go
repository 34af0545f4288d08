// Package config handles the daytrack configuration file.
package config

const (
	// DefaultDir is the data directory name looked up from the working
	// directory upward.
	DefaultDir = ".daytrack"
	// UserDirName is the data directory under the user config dir, used when
	// no project directory is found.
	UserDirName = "daytrack"

	// ConfigFileName is the name of the config file within the data directory.
	ConfigFileName = "config.yml"
	// LockFileName guards load, mutate and save across processes.
	LockFileName = ".lock"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 2

	// DefaultBackend is the storage backend of a new data directory.
	DefaultBackend = "file"
	// DefaultTickInterval is the timer reconciliation period.
	DefaultTickInterval = "1s"
	// DefaultFilter is the dashboard's initial list filter.
	DefaultFilter = "all"
)

// Backends lists the accepted storage.backend values.
var Backends = []string{"file", "sqlite"}

// Filters lists the accepted dashboard.filter values.
var Filters = []string{"all", "pending", "completed"}

func boolPtr(v bool) *bool { return &v }
