package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/daytrack/internal/category"
	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
	"github.com/twiced-technology-gmbh/daytrack/internal/output"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
)

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a task",
	Long: `Changes the name, category or planned duration of a task. Only the given
fields change; tracked time, the timer and completion are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("name", "", "new name")
	editCmd.Flags().StringP("category", "c", "", "new category ("+strings.Join(category.Names(), ", ")+")")
	editCmd.Flags().IntP("hours", "H", 0, "new planned hours")
	editCmd.Flags().IntP("minutes", "m", 0, "new planned minutes")
	editCmd.Flags().SetNormalizeFunc(taskFlagAliases)
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("name") && !flags.Changed("category") &&
		!flags.Changed("hours") && !flags.Changed("minutes") {
		return clierr.New(clierr.NoChanges, "nothing to change; pass --name, --category, --hours or --minutes")
	}

	var edited *task.Task
	err := withSession(func(s *session) error {
		t, err := s.ctl.Resolve(args[0])
		if err != nil {
			return err
		}

		in := task.Input{
			Name:     t.Name,
			Category: string(t.Category),
			Hours:    t.PlannedMinutes / 60, //nolint:mnd // minutes per hour
			Minutes:  t.PlannedMinutes % 60, //nolint:mnd // minutes per hour
		}
		if flags.Changed("name") {
			in.Name, _ = flags.GetString("name")
		}
		if flags.Changed("category") {
			in.Category, _ = flags.GetString("category")
		}
		if flags.Changed("hours") {
			in.Hours, _ = flags.GetInt("hours")
		}
		if flags.Changed("minutes") {
			in.Minutes, _ = flags.GetInt("minutes")
		}

		edited, err = s.ctl.Edit(t.ID, in)
		return err
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, edited)
	}
	output.Messagef(os.Stdout, "Updated task %s: %s (%s, %s)",
		output.ShortID(edited.ID), edited.Name, edited.Category, output.FormatMinutes(edited.PlannedMinutes))
	return nil
}
