package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/daytrack/internal/output"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all tasks",
	Long:  `Stops the running timer and deletes every task. Prompts for confirmation in interactive mode.`,
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	yes, _ := cmd.Flags().GetBool("yes")

	if !yes {
		var n int
		err := withSession(func(s *session) error {
			n = len(s.ctl.Tasks())
			return nil
		})
		if err != nil {
			return err
		}
		if n > 0 {
			ok, err := confirm(fmt.Sprintf("Delete all %d tasks? This cannot be undone.", n))
			if err != nil || !ok {
				return err
			}
		}
	}

	var cleared int
	err := withSession(func(s *session) error {
		var err error
		cleared, err = s.ctl.ClearAll()
		return err
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"status": "cleared", "deleted": cleared})
	}
	output.Messagef(os.Stdout, "Deleted %d tasks", cleared)
	return nil
}
