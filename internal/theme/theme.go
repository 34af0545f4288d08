// Package theme stores the light/dark display preference and the palettes
// that go with it.
package theme

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
	"github.com/twiced-technology-gmbh/daytrack/internal/storage"
)

// Theme is a display theme.
type Theme string

// Themes.
const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse validates a theme name.
func Parse(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case Light, Dark:
		return t, nil
	}
	return "", clierr.Newf(clierr.InvalidTheme, "invalid theme %q", s).
		WithDetails(map[string]any{"allowed": []string{string(Light), string(Dark)}})
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Load reads the theme slot. A missing or unrecognized value is Light.
func Load(kv storage.KV) (Theme, error) {
	data, err := kv.Get(storage.SlotTheme)
	if errors.Is(err, storage.ErrNoSlot) {
		return Light, nil
	}
	if err != nil {
		return Light, clierr.Wrap(clierr.PersistenceError, err, "loading theme")
	}
	t, perr := Parse(string(data))
	if perr != nil {
		return Light, nil
	}
	return t, nil
}

// Save writes the theme slot.
func Save(kv storage.KV, t Theme) error {
	if err := kv.Put(storage.SlotTheme, []byte(t)); err != nil {
		return clierr.Wrap(clierr.PersistenceError, err, "saving theme")
	}
	return nil
}

// Palette holds the colors used by the dashboard and the table renderer.
type Palette struct {
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Accent  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Danger  lipgloss.Color
	Track   lipgloss.Color // empty part of progress bars
}

var palettes = map[Theme]Palette{
	Light: {
		Text:    lipgloss.Color("#1e293b"),
		Muted:   lipgloss.Color("#64748b"),
		Border:  lipgloss.Color("#cbd5e1"),
		Accent:  lipgloss.Color("#6366f1"),
		Success: lipgloss.Color("#10b981"),
		Warning: lipgloss.Color("#f59e0b"),
		Danger:  lipgloss.Color("#ef4444"),
		Track:   lipgloss.Color("#e2e8f0"),
	},
	Dark: {
		Text:    lipgloss.Color("#f1f5f9"),
		Muted:   lipgloss.Color("#94a3b8"),
		Border:  lipgloss.Color("#475569"),
		Accent:  lipgloss.Color("#818cf8"),
		Success: lipgloss.Color("#34d399"),
		Warning: lipgloss.Color("#fbbf24"),
		Danger:  lipgloss.Color("#f87171"),
		Track:   lipgloss.Color("#334155"),
	},
}

// Palette returns the colors of t.
func (t Theme) Palette() Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[Light]
}
