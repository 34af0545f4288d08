package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/daytrack/internal/output"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Long:  `Displays full details of a single task, including the live tracked time of a running timer.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	var t *task.Task
	err := withSession(func(s *session) error {
		var err error
		t, err = s.ctl.Resolve(args[0])
		return err
	})
	if err != nil {
		return err
	}

	now := time.Now()
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, map[string]any{
			"task":                      t,
			"status":                    t.Status(),
			"effective_tracked_minutes": t.EffectiveTrackedMinutes(now),
			"progress":                  t.Progress(now),
		})
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, t, now)
	default:
		output.TaskDetail(os.Stdout, t, now)
	}
	return nil
}
