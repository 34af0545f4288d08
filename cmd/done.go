package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/daytrack/internal/output"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
)

var doneCmd = &cobra.Command{
	Use:   "done ID[,ID,...]",
	Short: "Toggle task completion",
	Long: `Marks a pending task completed, stopping its timer, or reopens a completed task.
Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

func init() {
	rootCmd.AddCommand(doneCmd)
}

func runDone(_ *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	if len(ids) > 1 {
		return withSession(func(s *session) error {
			return runBatch(ids, func(id string) error {
				t, err := s.ctl.Resolve(id)
				if err != nil {
					return err
				}
				_, err = s.ctl.ToggleComplete(t.ID)
				return err
			})
		})
	}

	var toggled *task.Task
	err = withSession(func(s *session) error {
		t, err := s.ctl.Resolve(ids[0])
		if err != nil {
			return err
		}
		toggled, err = s.ctl.ToggleComplete(t.ID)
		return err
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, toggled)
	}
	output.Messagef(os.Stdout, "Task %s marked as %s: %s",
		output.ShortID(toggled.ID), toggled.Status(), toggled.Name)
	return nil
}
