package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/twiced-technology-gmbh/daytrack/internal/activity"
	"github.com/twiced-technology-gmbh/daytrack/internal/category"
	"github.com/twiced-technology-gmbh/daytrack/internal/stats"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boldStyle   = lipgloss.NewStyle().Bold(true)

	statusStyles = map[string]lipgloss.Style{
		"running":   lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
		"completed": lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		"pending":   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}

	categoryStyles = func() map[string]lipgloss.Style {
		m := make(map[string]lipgloss.Style, len(category.All()))
		for _, c := range category.All() {
			m[string(c)] = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Info().Color))
		}
		return m
	}()

	colorEnabled = true
)

// DisableColor strips all styling from table output.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	boldStyle = lipgloss.NewStyle()
	statusStyles = map[string]lipgloss.Style{}
	categoryStyles = map[string]lipgloss.Style{}
	colorEnabled = false
}

// ColorEnabled reports whether DisableColor has not been called.
func ColorEnabled() bool { return colorEnabled }

// TaskTable renders tasks as a formatted table.
func TaskTable(w io.Writer, tasks []*task.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	idW, nameW, catW, statusW, progW := 10, 6, 10, 9, 18
	for _, t := range tasks {
		nameW = max(nameW, min(len(t.Name)+pad, 40)) //nolint:mnd // max name column width
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %s",
		idW, "ID", nameW, "NAME", catW, "CATEGORY", statusW, "STATUS", progW, "PROGRESS", "CREATED")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		name := t.Name
		const maxName = 38
		if len(name) > maxName {
			name = name[:maxName-3] + "..."
		}
		row := fmt.Sprintf("%-*s %s %s %s %s %s",
			idW, ShortID(t.ID),
			padRight(name, nameW),
			padRight(styledValue(string(t.Category), categoryStyles), catW),
			padRight(styledValue(t.Status(), statusStyles), statusW),
			padRight(progressText(t, now), progW),
			dimStyle.Render(TimeAgo(t.CreatedAt, now)))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail.
func TaskDetail(w io.Writer, t *task.Task, now time.Time) {
	titleLine := fmt.Sprintf("Task %s: %s", t.ID, t.Name)
	fmt.Fprintln(w, boldStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "Category", t.Category.Info().Icon+" "+styledValue(string(t.Category), categoryStyles))
	printField(w, "Status", styledValue(t.Status(), statusStyles))
	printField(w, "Planned", FormatMinutes(t.PlannedMinutes))
	printField(w, "Tracked", FormatMinutes(t.EffectiveTrackedMinutes(now)))
	filled, empty := Bar(t.Progress(now), 20) //nolint:mnd // bar width
	printField(w, "Progress", filled+dimStyle.Render(empty)+fmt.Sprintf(" %d%%", int(t.Progress(now)*100)))
	printField(w, "Day", t.Day.String())
	printField(w, "Created", t.CreatedAt.Local().Format("2006-01-02 15:04"))
	if !t.UpdatedAt.IsZero() {
		printField(w, "Updated", t.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	if t.TimerStartedAt != nil {
		printField(w, "Started", t.TimerStartedAt.Local().Format("2006-01-02 15:04:05"))
	}
	if t.CompletedAt != nil {
		printField(w, "Completed", t.CompletedAt.Local().Format("2006-01-02 15:04"))
	}
}

// SummaryTable renders a day summary with per-category hours and the
// breakdown bars.
func SummaryTable(w io.Writer, s stats.Summary) {
	fmt.Fprintln(w, boldStyle.Render("Today: "+s.Day.Format("Monday, January 2 2006")))
	fmt.Fprintf(w, "Tasks: %d (%d completed, %d running, %d pending)\n",
		s.TotalTasks, s.Completed, s.Running, s.Pending)
	fmt.Fprintf(w, "Planned: %s  Tracked: %s  Logged: %s\n\n",
		FormatHours(s.PlannedHours), FormatMinutes(s.TrackedMinutes), FormatHours(s.CompletedHours))

	header := fmt.Sprintf("%-14s %8s", "CATEGORY", "HOURS")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, ct := range s.Categories {
		const catColW = 14
		label := ct.Category.Label()
		if st, ok := categoryStyles[string(ct.Category)]; ok {
			label = st.Render(label)
		}
		fmt.Fprintf(w, "%s %8s\n", padRight(label, catColW), FormatHours(ct.Hours))
	}

	fmt.Fprintln(w)
	BreakdownBars(w, s.Breakdown)
}

// BreakdownBars renders one bar per category share.
func BreakdownBars(w io.Writer, shares []stats.Share) {
	if len(shares) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No activities recorded today"))
		return
	}
	const barW, labelW = 30, 14
	for _, sh := range shares {
		filled, empty := Bar(sh.Percent/100, barW) //nolint:mnd // percent
		if st, ok := categoryStyles[string(sh.Category)]; ok {
			filled = st.Render(filled)
		}
		label := sh.Category.Label()
		fmt.Fprintf(w, "%s %s%s %5.1f%%  %s\n",
			padRight(label, labelW), filled, dimStyle.Render(empty), sh.Percent, FormatHours(sh.Hours))
	}
}

// RangeTable renders per-day category hours.
func RangeTable(w io.Writer, rows []stats.DayRow) {
	cats := category.All()
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s", "DAY")
	for _, c := range cats {
		fmt.Fprintf(&b, " %9s", strings.ToUpper(string(c)))
	}
	fmt.Fprintf(&b, " %9s", "TOTAL")
	fmt.Fprintln(w, headerStyle.Render(b.String()))

	for _, r := range rows {
		line := fmt.Sprintf("%-12s", r.Day.String())
		for _, ct := range r.Categories {
			line += fmt.Sprintf(" %9s", FormatHours(ct.Hours))
		}
		line += fmt.Sprintf(" %9s", FormatHours(r.Total))
		fmt.Fprintln(w, line)
	}
}

// LogTable renders activity log entries.
func LogTable(w io.Writer, entries []activity.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity recorded.")
		return
	}
	header := fmt.Sprintf("%-19s %-14s %-10s %s", "TIME", "ACTION", "TASK", "DETAIL")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, e := range entries {
		fmt.Fprintf(w, "%-19s %-14s %-10s %s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Action, ShortID(e.TaskID), e.Detail)
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func progressText(t *task.Task, now time.Time) string {
	return FormatMinutes(t.EffectiveTrackedMinutes(now)) + " / " + FormatMinutes(t.PlannedMinutes)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
