package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
	"github.com/twiced-technology-gmbh/daytrack/internal/filelock"
	"github.com/twiced-technology-gmbh/daytrack/internal/output"
	"github.com/twiced-technology-gmbh/daytrack/internal/stats"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show daily category hours and breakdown",
	Long: `Shows the hours of completed tasks per category for a day, with the
percentage breakdown. --days N shows one row per day for the N days ending
at --day. --watch keeps refreshing until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().String("day", "", "day to summarize (today, yesterday or YYYY-MM-DD)")
	statsCmd.Flags().Int("days", 1, "number of days ending at --day")
	statsCmd.Flags().BoolP("watch", "w", false, "refresh continuously")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	dayFlag, _ := cmd.Flags().GetString("day")
	days, _ := cmd.Flags().GetInt("days")
	watch, _ := cmd.Flags().GetBool("watch")
	if days < 1 {
		return clierr.Newf(clierr.InvalidInput, "--days must be at least 1, got %d", days)
	}

	if watch {
		return watchStats(dayFlag, days)
	}

	var tasks []*task.Task
	err := withSession(func(s *session) error {
		tasks = s.ctl.Tasks()
		return nil
	})
	if err != nil {
		return err
	}
	return printStats(tasks, dayFlag, days, time.Now())
}

func printStats(tasks []*task.Task, dayFlag string, days int, now time.Time) error {
	d, err := parseDay(dayFlag, now)
	if err != nil {
		return err
	}

	if days > 1 {
		rows := stats.RangeCategoryHours(tasks, d.AddDays(1-days), d)
		switch outputFormat() {
		case output.FormatJSON:
			return output.JSON(os.Stdout, rows)
		case output.FormatCompact:
			output.RangeCompact(os.Stdout, rows)
		default:
			output.RangeTable(os.Stdout, rows)
		}
		return nil
	}

	summary := stats.Summarize(tasks, d, now)
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, summary)
	case output.FormatCompact:
		output.SummaryCompact(os.Stdout, summary)
	default:
		output.SummaryTable(os.Stdout, summary)
	}
	return nil
}

// watchStats redraws the stats on every tick and whenever the saved data
// changes.
func watchStats(dayFlag string, days int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	var s *session
	err = filelock.With(cfg.LockPath(), func() error {
		var err error
		s, err = openSession(cfg, false)
		return err
	})
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var renderErr error
	err = liveLoop(ctx, s, func() bool {
		if outputFormat() != output.FormatJSON {
			fmt.Fprint(os.Stdout, "\033[H\033[2J")
		}
		renderErr = printStats(s.ctl.Tasks(), dayFlag, days, time.Now())
		return renderErr == nil
	})
	if err != nil {
		return err
	}
	return renderErr
}
