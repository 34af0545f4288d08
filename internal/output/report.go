package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/twiced-technology-gmbh/daytrack/internal/stats"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
)

const reportWidth = 80

// ReportMarkdown builds the markdown day report: the summary, the category
// breakdown and every task of the day.
func ReportMarkdown(s stats.Summary, tasks []*task.Task, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Day report: %s\n\n", s.Day.Format("Monday, January 2 2006"))
	fmt.Fprintf(&b, "- **Tasks:** %d (%d completed, %d running, %d pending)\n",
		s.TotalTasks, s.Completed, s.Running, s.Pending)
	fmt.Fprintf(&b, "- **Planned:** %s\n", FormatHours(s.PlannedHours))
	fmt.Fprintf(&b, "- **Tracked:** %s\n", FormatMinutes(s.TrackedMinutes))
	fmt.Fprintf(&b, "- **Logged (completed):** %s\n\n", FormatHours(s.CompletedHours))

	b.WriteString("## Breakdown\n\n")
	if len(s.Breakdown) == 0 {
		b.WriteString("_No activities recorded today._\n\n")
	} else {
		b.WriteString("| Category | Hours | Share |\n|---|---:|---:|\n")
		for _, sh := range s.Breakdown {
			fmt.Fprintf(&b, "| %s | %s | %.1f%% |\n", sh.Category.Label(), FormatHours(sh.Hours), sh.Percent)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Tasks\n\n")
	var listed bool
	for _, t := range tasks {
		if !t.Day.Equal(s.Day) {
			continue
		}
		listed = true
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		suffix := ""
		if t.Running() {
			suffix = " ⏱ running"
		}
		fmt.Fprintf(&b, "- %s %s %s (%s)%s\n", box, t.Category.Info().Icon, t.Name, progressText(t, now), suffix)
	}
	if !listed {
		b.WriteString("_No tasks._\n")
	}
	return b.String()
}

// Report renders the markdown day report for the terminal. Without color the
// markdown is rendered with glamour's plain style.
func Report(w io.Writer, s stats.Summary, tasks []*task.Task, now time.Time) error {
	md := ReportMarkdown(s, tasks, now)

	style := "auto"
	if !colorEnabled {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(reportWidth),
	)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
