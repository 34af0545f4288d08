package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/daytrack/internal/category"
	"github.com/twiced-technology-gmbh/daytrack/internal/output"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
)

var addCmd = &cobra.Command{
	Use:     "add NAME",
	Aliases: []string{"create"},
	Short:   "Add a task for today",
	Long: `Adds a pending task with a planned duration. Without --category the
category is suggested from keywords in the name.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringP("category", "c", "", "category ("+strings.Join(category.Names(), ", ")+")")
	addCmd.Flags().IntP("hours", "H", 0, "planned hours")
	addCmd.Flags().IntP("minutes", "m", 0, "planned minutes")
	addCmd.Flags().Bool("start", false, "start the timer right away")
	addCmd.Flags().SetNormalizeFunc(taskFlagAliases)
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	cat, _ := cmd.Flags().GetString("category")
	hours, _ := cmd.Flags().GetInt("hours")
	minutes, _ := cmd.Flags().GetInt("minutes")
	start, _ := cmd.Flags().GetBool("start")

	if cat == "" {
		if c, ok := category.Suggest(name, ""); ok {
			cat = string(c)
			if outputFormat() != output.FormatJSON {
				fmt.Fprintf(os.Stderr, "Using suggested category %s\n", c.Label())
			}
		}
	}

	var created *task.Task
	err := withSession(func(s *session) error {
		t, err := s.ctl.Create(task.Input{Name: name, Category: cat, Hours: hours, Minutes: minutes})
		if err != nil {
			return err
		}
		if start {
			if t, err = s.ctl.Start(t.ID); err != nil {
				return err
			}
		}
		created = t
		return nil
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, created)
	}
	output.Messagef(os.Stdout, "Created task %s: %s (%s, %s)",
		output.ShortID(created.ID), created.Name, created.Category, output.FormatMinutes(created.PlannedMinutes))
	if created.Running() {
		output.Messagef(os.Stdout, "Timer started at %s", time.Now().Format("15:04"))
	}
	return nil
}
