package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/daytrack/internal/output"
	"github.com/twiced-technology-gmbh/daytrack/internal/stats"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a markdown report of a day",
	Long: `Renders the day's summary, category breakdown and task list as markdown.
--raw prints the markdown source instead of rendering it for the terminal.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("day", "", "day to report (today, yesterday or YYYY-MM-DD)")
	reportCmd.Flags().Bool("raw", false, "print raw markdown")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	dayFlag, _ := cmd.Flags().GetString("day")
	raw, _ := cmd.Flags().GetBool("raw")

	now := time.Now()
	d, err := parseDay(dayFlag, now)
	if err != nil {
		return err
	}

	var tasks []*task.Task
	err = withSession(func(s *session) error {
		tasks = s.ctl.Tasks()
		return nil
	})
	if err != nil {
		return err
	}

	summary := stats.Summarize(tasks, d, now)
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"summary":  summary,
			"markdown": output.ReportMarkdown(summary, tasks, now),
		})
	}
	if raw {
		_, err := os.Stdout.WriteString(output.ReportMarkdown(summary, tasks, now))
		return err
	}
	return output.Report(os.Stdout, summary, tasks, now)
}
