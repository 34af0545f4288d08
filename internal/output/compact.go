package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/daytrack/internal/activity"
	"github.com/twiced-technology-gmbh/daytrack/internal/stats"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
)

// TaskCompact renders tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t, now))
	}
}

// TaskDetailCompact renders a single task with timestamps in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task, now time.Time) {
	fmt.Fprintln(w, formatTaskLine(t, now))

	ts := "  day:" + t.Day.String() + " created:" + t.CreatedAt.Local().Format("2006-01-02T15:04")
	if t.TimerStartedAt != nil {
		ts += " started:" + t.TimerStartedAt.Local().Format("15:04:05")
	}
	if t.CompletedAt != nil {
		ts += " completed:" + t.CompletedAt.Local().Format("2006-01-02T15:04")
	}
	fmt.Fprintln(w, ts)
}

// SummaryCompact renders a day summary in compact format.
func SummaryCompact(w io.Writer, s stats.Summary) {
	fmt.Fprintf(w, "%s %d tasks (%d done, %d running, %d pending) tracked:%s\n",
		s.Day, s.TotalTasks, s.Completed, s.Running, s.Pending, FormatMinutes(s.TrackedMinutes))

	parts := make([]string, 0, len(s.Categories))
	for _, ct := range s.Categories {
		parts = append(parts, string(ct.Category)+"="+FormatHours(ct.Hours))
	}
	fmt.Fprintln(w, "  hours: "+strings.Join(parts, " "))

	if len(s.Breakdown) > 0 {
		shares := make([]string, 0, len(s.Breakdown))
		for _, sh := range s.Breakdown {
			shares = append(shares, fmt.Sprintf("%s=%.1f%%", sh.Category, sh.Percent))
		}
		fmt.Fprintln(w, "  share: "+strings.Join(shares, " "))
	}
}

// RangeCompact renders per-day totals in compact format.
func RangeCompact(w io.Writer, rows []stats.DayRow) {
	for _, r := range rows {
		var parts []string
		for _, ct := range r.Categories {
			if ct.Hours > 0 {
				parts = append(parts, string(ct.Category)+"="+FormatHours(ct.Hours))
			}
		}
		fmt.Fprintf(w, "%s %s %s\n", r.Day, FormatHours(r.Total), strings.Join(parts, " "))
	}
}

// LogCompact renders activity entries one per line.
func LogCompact(w io.Writer, entries []activity.Entry) {
	for _, e := range entries {
		line := e.Timestamp.Local().Format("2006-01-02T15:04:05") + " " + e.Action
		if e.TaskID != "" {
			line += " " + ShortID(e.TaskID)
		}
		if e.Detail != "" {
			line += " " + e.Detail
		}
		fmt.Fprintln(w, line)
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task, now time.Time) string {
	return ShortID(t.ID) + " [" + string(t.Category) + "/" + t.Status() + "] " + t.Name +
		" " + progressText(t, now)
}
