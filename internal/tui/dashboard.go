// Package tui implements the interactive daytrack dashboard.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/daytrack/internal/activity"
	"github.com/twiced-technology-gmbh/daytrack/internal/output"
	"github.com/twiced-technology-gmbh/daytrack/internal/storage"
	"github.com/twiced-technology-gmbh/daytrack/internal/store"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
	"github.com/twiced-technology-gmbh/daytrack/internal/theme"
	"github.com/twiced-technology-gmbh/daytrack/internal/timer"
	"github.com/twiced-technology-gmbh/daytrack/internal/tracker"
)

// view represents the current screen state.
type view int

const (
	viewList view = iota
	viewForm
	viewConfirmDelete
	viewConfirmClear
)

// Key and layout constants.
const (
	keyEsc = "esc"

	toastDuration = 3 * time.Second
	statsWidth    = 44 // stats panel width including border
	barWidth      = 16
	rowHeight     = 2 // lines per task row
	listChrome    = 9 // header, quote, panel border and title, status bar
	narrowWidth   = 90
)

// Options configures New.
type Options struct {
	KV       storage.KV
	Logger   *activity.Logger
	Interval time.Duration
	Filter   string
	Quotes   bool
	Now      func() time.Time // defaults to time.Now
}

// Dashboard is the top-level bubbletea model. It is the tracker's Renderer
// and Notifier: every mutation and tick hands it a fresh snapshot.
type Dashboard struct {
	ctl      *tracker.Controller
	kv       storage.KV
	now      func() time.Time
	interval time.Duration
	keys     keyMap

	theme  theme.Theme
	styles styles

	snap   tracker.Snapshot
	cursor int
	offset int
	view   view
	form   *form
	width  int
	height int
	quote  string

	toast      *tracker.Notification
	toastUntil time.Time

	// Delete confirmation.
	deleteID   string
	deleteName string

	// Clear all confirmation.
	clearCount int
}

// New loads the theme, opens the tracker and returns a ready dashboard.
func New(opts Options) (*Dashboard, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Interval <= 0 {
		opts.Interval = timer.DefaultInterval
	}
	d := &Dashboard{
		kv:       opts.KV,
		now:      opts.Now,
		interval: opts.Interval,
		keys:     defaultKeys(),
	}
	if opts.Quotes {
		d.quote = randomQuote()
	}

	th, err := theme.Load(opts.KV)
	if err != nil {
		d.fail(err)
	}
	d.setTheme(th)

	ctl, err := tracker.Open(tracker.Options{
		KV:       opts.KV,
		Now:      opts.Now,
		Interval: opts.Interval,
		Renderer: d,
		Notifier: d,
		Logger:   opts.Logger,
		Filter:   opts.Filter,
	})
	if err != nil {
		return nil, err
	}
	d.ctl = ctl
	return d, nil
}

// Controller returns the tracker driven by the dashboard.
func (d *Dashboard) Controller() *tracker.Controller { return d.ctl }

// Render implements tracker.Renderer.
func (d *Dashboard) Render(s tracker.Snapshot) {
	d.snap = s
	d.clampCursor()
}

// Notify implements tracker.Notifier.
func (d *Dashboard) Notify(n tracker.Notification) {
	d.toast = &n
	d.toastUntil = d.now().Add(toastDuration)
}

func (d *Dashboard) fail(err error) {
	d.Notify(tracker.Notification{Level: tracker.LevelError, Message: err.Error()})
}

func (d *Dashboard) setTheme(t theme.Theme) {
	d.theme = t
	d.styles = newStyles(t.Palette())
}

// ReloadMsg is sent by the file watcher when the saved data changed.
type ReloadMsg struct{}

// TickMsg pulses the timer engine and refreshes the clock.
type TickMsg struct{}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg { return TickMsg{} })
}

// Init implements tea.Model.
func (d *Dashboard) Init() tea.Cmd {
	return tickCmd(d.interval)
}

// Update implements tea.Model.
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return d.handleKey(msg)
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		d.ensureVisible()
		return d, nil
	case ReloadMsg:
		if err := d.ctl.Reload(); err != nil {
			d.fail(err)
		}
		if th, err := theme.Load(d.kv); err != nil {
			d.fail(err)
		} else if th != d.theme {
			d.setTheme(th)
		}
		return d, nil
	case TickMsg:
		d.ctl.Tick()
		if d.toast != nil && !d.now().Before(d.toastUntil) {
			d.toast = nil
		}
		return d, tickCmd(d.interval)
	}
	if d.form != nil {
		return d, d.form.update(msg)
	}
	return d, nil
}

func (d *Dashboard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return d, tea.Quit
	}

	switch d.view {
	case viewForm:
		return d.handleFormKey(msg)
	case viewConfirmDelete:
		return d.handleDeleteKey(msg)
	case viewConfirmClear:
		return d.handleClearKey(msg)
	default:
		return d.handleListKey(msg)
	}
}

func (d *Dashboard) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, d.keys.Quit):
		return d, tea.Quit
	case key.Matches(msg, d.keys.Up):
		if d.cursor > 0 {
			d.cursor--
			d.ensureVisible()
		}
	case key.Matches(msg, d.keys.Down):
		if d.cursor < len(d.snap.Tasks)-1 {
			d.cursor++
			d.ensureVisible()
		}
	case key.Matches(msg, d.keys.Add):
		return d, d.openForm(nil)
	case key.Matches(msg, d.keys.Edit):
		if t := d.selected(); t != nil {
			return d, d.openForm(t)
		}
	case key.Matches(msg, d.keys.Delete):
		if t := d.selected(); t != nil {
			d.deleteID = t.ID
			d.deleteName = t.Name
			d.view = viewConfirmDelete
		}
	case key.Matches(msg, d.keys.Timer):
		d.toggleTimer()
	case key.Matches(msg, d.keys.Complete):
		if t := d.selected(); t != nil {
			if _, err := d.ctl.ToggleComplete(t.ID); err != nil {
				d.fail(err)
			}
		}
	case key.Matches(msg, d.keys.Filter):
		if err := d.ctl.SetFilter(nextFilter(d.ctl.Filter())); err != nil {
			d.fail(err)
		}
		d.cursor, d.offset = 0, 0
	case key.Matches(msg, d.keys.Theme):
		d.setTheme(d.theme.Toggle())
		if err := theme.Save(d.kv, d.theme); err != nil {
			d.fail(err)
		}
	case key.Matches(msg, d.keys.Clear):
		if n := len(d.ctl.Tasks()); n > 0 {
			d.clearCount = n
			d.view = viewConfirmClear
		}
	}
	return d, nil
}

func (d *Dashboard) toggleTimer() {
	t := d.selected()
	if t == nil {
		return
	}
	var err error
	if t.Running() {
		_, err = d.ctl.Stop(t.ID)
	} else {
		_, err = d.ctl.Start(t.ID)
	}
	if err != nil {
		d.fail(err)
	}
}

func (d *Dashboard) openForm(t *task.Task) tea.Cmd {
	d.form = newForm(t)
	d.view = viewForm
	return textinput.Blink
}

func (d *Dashboard) closeForm() {
	d.form = nil
	d.view = viewList
}

func (d *Dashboard) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := d.form
	switch msg.String() {
	case keyEsc:
		d.closeForm()
		return d, nil
	case "enter":
		d.submitForm()
		return d, nil
	case "tab", "down":
		f.next()
		return d, nil
	case "shift+tab", "up":
		f.prev()
		return d, nil
	case "left", "right":
		if f.focus == fieldCategory {
			if msg.String() == "left" {
				f.cycle(-1)
			} else {
				f.cycle(1)
			}
			return d, nil
		}
	}
	return d, f.update(msg)
}

func (d *Dashboard) submitForm() {
	in, err := d.form.input()
	if err == nil {
		if d.form.editing() {
			_, err = d.ctl.Edit(d.form.editID, in)
		} else {
			_, err = d.ctl.Create(in)
		}
	}
	if err != nil {
		d.form.err = err.Error()
		return
	}
	d.closeForm()
}

func (d *Dashboard) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if _, err := d.ctl.Delete(d.deleteID); err != nil {
			d.fail(err)
		}
		d.view = viewList
	case "n", "N", keyEsc, "q":
		d.view = viewList
	}
	return d, nil
}

func (d *Dashboard) handleClearKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if _, err := d.ctl.ClearAll(); err != nil {
			d.fail(err)
		}
		d.cursor, d.offset = 0, 0
		d.view = viewList
	case "n", "N", keyEsc, "q":
		d.view = viewList
	}
	return d, nil
}

func nextFilter(current string) string {
	filters := store.Filters()
	for i, f := range filters {
		if f == current {
			return filters[(i+1)%len(filters)]
		}
	}
	return filters[0]
}

func (d *Dashboard) selected() *task.Task {
	if d.cursor >= 0 && d.cursor < len(d.snap.Tasks) {
		return d.snap.Tasks[d.cursor]
	}
	return nil
}

func (d *Dashboard) clampCursor() {
	if d.cursor >= len(d.snap.Tasks) {
		d.cursor = len(d.snap.Tasks) - 1
	}
	if d.cursor < 0 {
		d.cursor = 0
	}
	d.ensureVisible()
}

// visibleRows returns how many task rows fit in the list panel.
func (d *Dashboard) visibleRows() int {
	if d.height == 0 {
		return len(d.snap.Tasks)
	}
	return max(1, (d.height-listChrome)/rowHeight)
}

// ensureVisible scrolls the list so the cursor row is shown.
func (d *Dashboard) ensureVisible() {
	n := d.visibleRows()
	switch {
	case d.cursor >= d.offset+n:
		d.offset = d.cursor - n + 1
	case d.cursor < d.offset:
		d.offset = d.cursor
	}
	if d.offset < 0 {
		d.offset = 0
	}
}

// View implements tea.Model.
func (d *Dashboard) View() string {
	if d.width == 0 {
		return "Loading..."
	}

	var body string
	switch d.view {
	case viewForm:
		body = d.centered(d.form.view(d.styles))
	case viewConfirmDelete:
		body = d.centered(d.viewDeleteConfirm())
	case viewConfirmClear:
		body = d.centered(d.viewClearConfirm())
	default:
		body = d.viewMain()
	}
	return lipgloss.JoinVertical(lipgloss.Left, d.viewHeader(), body, d.viewStatusBar())
}

func (d *Dashboard) centered(s string) string {
	return lipgloss.PlaceHorizontal(d.width, lipgloss.Center, "\n"+s)
}

func (d *Dashboard) viewHeader() string {
	s := d.styles
	now := d.snap.Now
	if now.IsZero() {
		now = d.now()
	}
	left := s.title.Render("⏱  daytrack")
	right := s.text.Render(now.Format("Monday, January 2, 2006")) + "  " + s.accent.Render(now.Format("15:04:05"))
	gap := max(1, d.width-lipgloss.Width(left)-lipgloss.Width(right))
	header := left + strings.Repeat(" ", gap) + right
	if d.quote != "" {
		header += "\n" + s.quote.Render(truncate(`"`+d.quote+`"`, d.width))
	}
	return header
}

func (d *Dashboard) viewMain() string {
	if d.width < narrowWidth {
		listW := d.width - 2 //nolint:mnd // panel border
		return lipgloss.JoinVertical(lipgloss.Left, d.viewTasks(listW), d.viewStats(listW))
	}
	listW := d.width - statsWidth - 2 //nolint:mnd // panel border
	return lipgloss.JoinHorizontal(lipgloss.Top, d.viewTasks(listW), d.viewStats(statsWidth-2))
}

func (d *Dashboard) viewTasks(width int) string {
	s := d.styles
	inner := width - 2 //nolint:mnd // panel padding
	title := s.title.Render(fmt.Sprintf("Tasks · %s (%d)", d.snap.Filter, len(d.snap.Tasks)))

	lines := []string{title}
	if len(d.snap.Tasks) == 0 {
		lines = append(lines, s.muted.Render("No tasks yet. Press a to add one."))
		return s.panel.Width(width).Render(strings.Join(lines, "\n"))
	}

	end := min(len(d.snap.Tasks), d.offset+d.visibleRows())
	if d.offset > 0 {
		lines = append(lines, s.muted.Render(fmt.Sprintf("  ↑ %d more", d.offset)))
	}
	for i := d.offset; i < end; i++ {
		lines = append(lines, d.renderRow(d.snap.Tasks[i], i == d.cursor, inner)...)
	}
	if rest := len(d.snap.Tasks) - end; rest > 0 {
		lines = append(lines, s.muted.Render(fmt.Sprintf("  ↓ %d more", rest)))
	}
	return s.panel.Width(width).Render(strings.Join(lines, "\n"))
}

func (d *Dashboard) renderRow(t *task.Task, active bool, width int) []string {
	s := d.styles
	now := d.snap.Now

	marker := "  "
	nameStyle := s.text
	if active {
		marker = s.accent.Render("▸ ")
		nameStyle = s.selected
	}

	var badge string
	switch t.Status() {
	case "running":
		badge = s.accent.Render("● running")
	case "completed":
		badge = s.success.Render("✓ done")
	}

	icon := categoryStyle(t.Category).Render(t.Category.Info().Icon)
	nameW := width - lipgloss.Width(badge) - 6 //nolint:mnd // marker, icon and gaps
	name := nameStyle.Render(truncate(t.Name, nameW))
	if t.Completed {
		name = nameStyle.Strikethrough(true).Render(truncate(t.Name, nameW))
	}
	first := marker + icon + " " + name
	if badge != "" {
		gap := max(1, width-lipgloss.Width(first)-lipgloss.Width(badge))
		first += strings.Repeat(" ", gap) + badge
	}

	filled, empty := output.Bar(t.Progress(now), barWidth)
	barStyle := categoryStyle(t.Category)
	if t.Completed {
		barStyle = s.success
	}
	second := "    " + barStyle.Render(filled) + s.track.Render(empty) + " " +
		s.text.Render(output.FormatMinutes(t.EffectiveTrackedMinutes(now))+" / "+output.FormatMinutes(t.PlannedMinutes)) +
		s.muted.Render(" · "+output.TimeAgo(t.CreatedAt, now))

	return []string{first, second}
}

func (d *Dashboard) viewStats(width int) string {
	s := d.styles
	today := d.snap.Today
	lines := []string{
		s.title.Render("Today"),
		fmt.Sprintf("%s %d  %s %d  %s %d",
			s.muted.Render("tasks"), today.TotalTasks,
			s.muted.Render("done"), today.Completed,
			s.muted.Render("running"), today.Running),
		s.muted.Render("tracked ") + s.text.Render(output.FormatMinutes(today.TrackedMinutes)) +
			s.muted.Render("  logged ") + s.text.Render(output.FormatHours(today.CompletedHours)),
		"",
	}

	for _, ct := range today.Categories {
		label := categoryStyle(ct.Category).Render(ct.Category.Label())
		value := output.FormatHours(ct.Hours)
		gap := max(1, width-2-lipgloss.Width(label)-lipgloss.Width(value)) //nolint:mnd // panel padding
		lines = append(lines, label+strings.Repeat(" ", gap)+value)
	}

	lines = append(lines, "", s.title.Render("Breakdown"))
	if len(today.Breakdown) == 0 {
		lines = append(lines, s.muted.Render("No activities recorded today"))
	}
	for _, sh := range today.Breakdown {
		filled, empty := output.Bar(sh.Percent/100, barWidth) //nolint:mnd // percent
		lines = append(lines, fmt.Sprintf("%s %s%s %5.1f%%",
			sh.Category.Info().Icon, categoryStyle(sh.Category).Render(filled), s.track.Render(empty), sh.Percent))
	}
	return s.panel.Width(width).Render(strings.Join(lines, "\n"))
}

func (d *Dashboard) viewStatusBar() string {
	s := d.styles
	var parts []string
	for _, b := range d.keys.help() {
		parts = append(parts, b.Help().Key+":"+b.Help().Desc)
	}
	status := s.muted.Render(truncate(strings.Join(parts, "  "), d.width))
	if d.toast != nil {
		return s.level(d.toast.Level).Render(truncate(d.toast.Message, d.width)) + "\n" + status
	}
	return status
}

func (d *Dashboard) viewDeleteConfirm() string {
	s := d.styles
	content := s.danger.Render("Delete task?") + "\n\n" +
		fmt.Sprintf("%q", d.deleteName) + "\n\n" +
		s.muted.Render("y:yes  n:no")
	return s.dialog.Render(content)
}

func (d *Dashboard) viewClearConfirm() string {
	s := d.styles
	content := s.danger.Render("Delete ALL tasks?") + "\n\n" +
		fmt.Sprintf("%d tasks will be removed. This cannot be undone.", d.clearCount) + "\n\n" +
		s.muted.Render("y:yes  n:no")
	return s.dialog.Render(content)
}

// truncate shortens s to maxLen visible cells, adding "..." when cut.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	if maxLen <= 3 { //nolint:mnd // ellipsis length
		return strings.Repeat(".", maxLen)
	}
	runes := []rune(s)
	target := len(runes)
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}
