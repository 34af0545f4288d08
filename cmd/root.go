// Package cmd implements the daytrack CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/daytrack/internal/activity"
	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
	"github.com/twiced-technology-gmbh/daytrack/internal/config"
	"github.com/twiced-technology-gmbh/daytrack/internal/filelock"
	"github.com/twiced-technology-gmbh/daytrack/internal/output"
	"github.com/twiced-technology-gmbh/daytrack/internal/storage"
	"github.com/twiced-technology-gmbh/daytrack/internal/tracker"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "daytrack",
	Short: "Plan your day, time your tasks, see where the hours went",
	Long: `daytrack keeps a list of daily tasks with planned durations and categories,
runs a live timer against one task at a time and aggregates the completed
work into per-category hours. Run daytrack without arguments for the dashboard.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to the daytrack data directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	if outputFormat() == output.FormatJSON {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// resolveDir returns the data directory: --dir, else the nearest .daytrack
// directory upward from the working directory, else the user directory.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	if dir, err := config.FindDir(cwd); err == nil {
		return dir, nil
	}
	return config.UserDir()
}

// loadConfig finds and loads the config. The user directory is created with
// defaults on first use; any other missing directory is an error.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, config.ErrNotFound) {
		return nil, err
	}

	userDir, userErr := config.UserDir()
	if userErr != nil || filepath.Clean(dir) != filepath.Clean(userDir) {
		return nil, clierr.Newf(clierr.StoreNotFound,
			"no daytrack data directory in %s (run 'daytrack init')", dir).
			WithDetails(map[string]any{"dir": dir})
	}
	return config.Init(userDir)
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// session is an opened data directory.
type session struct {
	cfg *config.Config
	kv  storage.KV
	ctl *tracker.Controller
}

// openSession opens the storage of cfg and the tracker on top of it.
// Warnings go to stderr; chatty notifications are shown only when verbose.
func openSession(cfg *config.Config, verbose bool) (*session, error) {
	kv, err := cfg.OpenStorage()
	if err != nil {
		return nil, err
	}
	ctl, err := tracker.Open(tracker.Options{
		KV:       kv,
		Interval: cfg.TickInterval(),
		Notifier: stderrNotifier(verbose),
		Logger:   activity.NewLogger(cfg.Dir(), nil),
		Filter:   cfg.Dashboard.Filter,
	})
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	return &session{cfg: cfg, kv: kv, ctl: ctl}, nil
}

func (s *session) Close() error { return s.kv.Close() }

// withSession loads the config and runs fn on an open session while holding
// the data directory lock. A failed save after fn is returned as the
// command's error; the change itself was applied in memory only.
func withSession(fn func(*session) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return filelock.With(cfg.LockPath(), func() error {
		s, err := openSession(cfg, false)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := fn(s); err != nil {
			return err
		}
		return s.ctl.PersistErr()
	})
}

// stderrNotifier prints warnings and errors to stderr, and successes too
// when verbose.
func stderrNotifier(verbose bool) tracker.Notifier {
	return tracker.NotifierFunc(func(n tracker.Notification) {
		switch n.Level {
		case tracker.LevelWarning:
			fmt.Fprintln(os.Stderr, "Warning:", n.Message)
		case tracker.LevelError:
			fmt.Fprintln(os.Stderr, "Error:", n.Message)
		default:
			if verbose {
				fmt.Fprintln(os.Stderr, n.Message)
			}
		}
	})
}

// parseIDs splits a comma-separated id list, dropping blanks and duplicates.
func parseIDs(arg string) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, part := range strings.Split(arg, ",") {
		id := strings.TrimSpace(part)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, clierr.Newf(clierr.InvalidTaskID, "no task id in %q", arg)
	}
	return ids, nil
}

// runBatch executes fn for each ID and collects results. Returns a SilentError
// with exit code 1 if any operation failed (after outputting results).
func runBatch(ids []string, fn func(string) error) error {
	results := make([]output.BatchResult, 0, len(ids))
	anyFailed := false

	for _, id := range ids {
		err := fn(id)
		if err != nil {
			anyFailed = true
			var cliErr *clierr.Error
			if errors.As(err, &cliErr) {
				results = append(results, output.BatchResult{ID: id, OK: false, Error: cliErr.Message, Code: cliErr.Code})
			} else {
				results = append(results, output.BatchResult{ID: id, OK: false, Error: err.Error()})
			}
		} else {
			results = append(results, output.BatchResult{ID: id, OK: true})
		}
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			if r.OK {
				succeeded++
			} else {
				fmt.Fprintf(os.Stderr, "Error: task %s: %s\n", r.ID, r.Error)
			}
		}
		output.Messagef(os.Stdout, "Completed %d/%d operations", succeeded, len(ids))
	}

	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}

// taskFlagAliases accepts the singular and short spellings of the task
// field flags.
func taskFlagAliases(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "cat":
		name = "category"
	case "hour", "hrs":
		name = "hours"
	case "minute", "min", "mins":
		name = "minutes"
	case "title":
		name = "name"
	}
	return pflag.NormalizedName(name)
}
