package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/daytrack/internal/category"
	"github.com/twiced-technology-gmbh/daytrack/internal/theme"
	"github.com/twiced-technology-gmbh/daytrack/internal/tracker"
)

// styles is the dashboard's lipgloss styles for one theme palette.
type styles struct {
	title    lipgloss.Style
	text     lipgloss.Style
	muted    lipgloss.Style
	quote    lipgloss.Style
	accent   lipgloss.Style
	success  lipgloss.Style
	warning  lipgloss.Style
	danger   lipgloss.Style
	selected lipgloss.Style
	panel    lipgloss.Style
	dialog   lipgloss.Style
	label    lipgloss.Style
	focused  lipgloss.Style
	track    lipgloss.Style
}

func newStyles(p theme.Palette) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		text:     lipgloss.NewStyle().Foreground(p.Text),
		muted:    lipgloss.NewStyle().Foreground(p.Muted),
		quote:    lipgloss.NewStyle().Italic(true).Foreground(p.Muted),
		accent:   lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		success:  lipgloss.NewStyle().Foreground(p.Success),
		warning:  lipgloss.NewStyle().Foreground(p.Warning),
		danger:   lipgloss.NewStyle().Foreground(p.Danger).Bold(true),
		selected: lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(1, 3), //nolint:mnd // dialog padding
		label:   lipgloss.NewStyle().Foreground(p.Muted).Width(10), //nolint:mnd // form label column
		focused: lipgloss.NewStyle().Foreground(p.Accent).Bold(true).Width(10),
		track:   lipgloss.NewStyle().Foreground(p.Track),
	}
}

// level returns the toast style of a notification level.
func (s styles) level(l tracker.Level) lipgloss.Style {
	switch l {
	case tracker.LevelSuccess:
		return s.success
	case tracker.LevelWarning:
		return s.warning
	case tracker.LevelError:
		return s.danger
	default:
		return s.accent
	}
}

func categoryStyle(c category.Category) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Info().Color))
}
