package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
	"github.com/twiced-technology-gmbh/daytrack/internal/output"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID[,ID,...]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Deletes a task, stopping its timer first. Prompts for confirmation in interactive mode.
Multiple IDs can be provided as a comma-separated list (requires --yes).`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}
	yes, _ := cmd.Flags().GetBool("yes")

	if len(ids) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq, "batch delete requires --yes")
	}

	if len(ids) == 1 {
		return deleteSingleTask(ids[0], yes)
	}

	return withSession(func(s *session) error {
		return runBatch(ids, func(id string) error {
			t, err := s.ctl.Resolve(id)
			if err != nil {
				return err
			}
			_, err = s.ctl.Delete(t.ID)
			return err
		})
	})
}

// deleteSingleTask handles a single task delete with confirmation and output.
// The prompt runs without the data directory lock; the task is resolved
// again once the lock is back.
func deleteSingleTask(ref string, yes bool) error {
	var id, name string
	if !yes {
		err := withSession(func(s *session) error {
			t, err := s.ctl.Resolve(ref)
			if err != nil {
				return err
			}
			id, name = t.ID, t.Name
			return nil
		})
		if err != nil {
			return err
		}
		ok, err := confirm(fmt.Sprintf("Delete task %s %q?", output.ShortID(id), name))
		if err != nil || !ok {
			return err
		}
		ref = id
	}

	err := withSession(func(s *session) error {
		t, err := s.ctl.Resolve(ref)
		if err != nil {
			return err
		}
		id, name = t.ID, t.Name
		_, err = s.ctl.Delete(t.ID)
		return err
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status": "deleted",
			"id":     id,
			"name":   name,
		})
	}
	output.Messagef(os.Stdout, "Deleted task %s: %s", output.ShortID(id), name)
	return nil
}
