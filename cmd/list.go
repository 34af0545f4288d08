package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/daytrack/internal/category"
	"github.com/twiced-technology-gmbh/daytrack/internal/output"
	"github.com/twiced-technology-gmbh/daytrack/internal/store"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long:    `Lists tasks, newest first, with optional filtering, sorting, and output format control.`,
	RunE:    runList,
}

func init() {
	listCmd.Flags().String("filter", "", "completion filter ("+strings.Join(store.Filters(), ", ")+"); defaults to dashboard.filter")
	listCmd.Flags().String("day", "", "only tasks of this day (today, yesterday or YYYY-MM-DD)")
	listCmd.Flags().StringSliceP("category", "c", nil, "filter by category (comma-separated)")
	listCmd.Flags().StringP("search", "s", "", "search task names (case-insensitive)")
	listCmd.Flags().Bool("running", false, "show only the running task")
	listCmd.Flags().String("sort", "", "sort field ("+strings.Join(store.SortFields(), ", ")+")")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	filter, _ := flags.GetString("filter")
	dayFlag, _ := flags.GetString("day")
	cats, _ := flags.GetStringSlice("category")
	search, _ := flags.GetString("search")
	running, _ := flags.GetBool("running")
	sortBy, _ := flags.GetString("sort")
	reverse, _ := flags.GetBool("reverse")
	limit, _ := flags.GetInt("limit")

	now := time.Now()
	q := store.Query{Search: search, Running: running}
	if flags.Changed("day") {
		d, err := parseDay(dayFlag, now)
		if err != nil {
			return err
		}
		q.Day = &d
	}
	for _, name := range cats {
		c, err := category.Parse(name)
		if err != nil {
			return err
		}
		q.Categories = append(q.Categories, c)
	}

	var tasks []*task.Task
	err := withSession(func(s *session) error {
		if filter == "" {
			filter = s.ctl.Filter()
		}
		var err error
		tasks, err = s.ctl.List(filter)
		return err
	})
	if err != nil {
		return err
	}

	tasks = store.Match(tasks, q)
	if sortBy != "" {
		if err := store.Sort(tasks, sortBy, reverse, now); err != nil {
			return err
		}
	}
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}

	switch outputFormat() {
	case output.FormatJSON:
		if tasks == nil {
			tasks = []*task.Task{}
		}
		return output.JSON(os.Stdout, tasks)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, tasks, now)
	default:
		output.TaskTable(os.Stdout, tasks, now)
	}
	return nil
}
