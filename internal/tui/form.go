package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/daytrack/internal/category"
	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
)

const (
	fieldName = iota
	fieldCategory
	fieldHours
	fieldMinutes
	fieldCount
)

// form is the add/edit task dialog. The category is a selector cycled with
// left/right; the other fields are text inputs.
type form struct {
	editID    string
	name      textinput.Model
	hours     textinput.Model
	minutes   textinput.Model
	cat       int // index into category.All, -1 when unset
	suggested bool
	focus     int
	err       string
}

// newForm returns an empty add form, or an edit form prefilled from t.
func newForm(t *task.Task) *form {
	f := &form{cat: -1}

	f.name = textinput.New()
	f.name.Placeholder = "What are you working on?"
	f.name.CharLimit = 120
	f.hours = numberInput("0")
	f.minutes = numberInput("0")

	if t != nil {
		f.editID = t.ID
		f.name.SetValue(t.Name)
		f.cat = t.Category.Index()
		f.hours.SetValue(strconv.Itoa(t.PlannedMinutes / 60))   //nolint:mnd // minutes per hour
		f.minutes.SetValue(strconv.Itoa(t.PlannedMinutes % 60)) //nolint:mnd // minutes per hour
	}
	f.setFocus(fieldName)
	return f
}

func numberInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 4
	in.Width = 6
	return in
}

func (f *form) editing() bool { return f.editID != "" }

func (f *form) category() category.Category {
	all := category.All()
	if f.cat < 0 || f.cat >= len(all) {
		return ""
	}
	return all[f.cat]
}

func (f *form) setFocus(field int) {
	f.focus = (field + fieldCount) % fieldCount
	for i, in := range []*textinput.Model{&f.name, nil, &f.hours, &f.minutes} {
		if in == nil {
			continue
		}
		if i == f.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (f *form) next() { f.setFocus(f.focus + 1) }
func (f *form) prev() { f.setFocus(f.focus - 1) }

// cycle moves the category selector by delta, wrapping around.
func (f *form) cycle(delta int) {
	n := len(category.All())
	if f.cat < 0 {
		if delta > 0 {
			f.cat = 0
		} else {
			f.cat = n - 1
		}
	} else {
		f.cat = (f.cat + delta + n) % n
	}
	f.suggested = false
}

// update forwards msg to the focused text input and refreshes the category
// suggestion when the name changed.
func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case fieldName:
		before := f.name.Value()
		f.name, cmd = f.name.Update(msg)
		if f.name.Value() != before {
			f.suggest()
		}
	case fieldHours:
		f.hours, cmd = f.hours.Update(msg)
	case fieldMinutes:
		f.minutes, cmd = f.minutes.Update(msg)
	}
	return cmd
}

func (f *form) suggest() {
	if c, ok := category.Suggest(f.name.Value(), f.category()); ok {
		f.cat = c.Index()
		f.suggested = true
	}
}

// input converts the form into task input. Only the number parsing is
// checked here; the rest is validated by the tracker.
func (f *form) input() (task.Input, error) {
	hours, err := parseCount(f.hours.Value(), "hours")
	if err != nil {
		return task.Input{}, err
	}
	minutes, err := parseCount(f.minutes.Value(), "minutes")
	if err != nil {
		return task.Input{}, err
	}
	return task.Input{
		Name:     f.name.Value(),
		Category: string(f.category()),
		Hours:    hours,
		Minutes:  minutes,
	}, nil
}

func parseCount(s, field string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, clierr.Newf(clierr.InvalidDuration, "%s must be a whole number", field)
	}
	return n, nil
}

func (f *form) view(s styles) string {
	title := "Add task"
	if f.editing() {
		title = "Edit task"
	}

	label := func(field int, text string) string {
		if f.focus == field {
			return s.focused.Render(text)
		}
		return s.label.Render(text)
	}

	cat := s.muted.Render("← choose →")
	if c := f.category(); c != "" {
		cat = categoryStyle(c).Render(c.Label())
		if f.suggested {
			cat += s.muted.Render("  (suggested)")
		}
	}
	if f.focus == fieldCategory {
		cat = s.accent.Render("‹ ") + cat + s.accent.Render(" ›")
	}

	lines := []string{
		s.title.Render(title),
		"",
		label(fieldName, "Name") + f.name.View(),
		label(fieldCategory, "Category") + cat,
		label(fieldHours, "Hours") + f.hours.View(),
		label(fieldMinutes, "Minutes") + f.minutes.View(),
		"",
	}
	if f.err != "" {
		lines = append(lines, s.danger.Render(f.err), "")
	}
	lines = append(lines, s.muted.Render("tab:next  ←/→:category  enter:save  esc:cancel"))
	return s.dialog.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
