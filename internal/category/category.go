// Package category defines the fixed task categories and the keyword
// heuristic that suggests a category from free-text task names.
package category

import (
	"strings"

	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
)

// Category identifies one of the fixed task categories.
type Category string

// The fixed category enumeration, in display order.
const (
	Study    Category = "study"
	Work     Category = "work"
	Play     Category = "play"
	Sleep    Category = "sleep"
	Exercise Category = "exercise"
	Other    Category = "other"
)

// Info holds display metadata for a category.
type Info struct {
	Name     string   `json:"name"`
	Icon     string   `json:"icon"`
	Color    string   `json:"color"`
	Keywords []string `json:"keywords,omitempty"`
}

// all lists every category in enumeration order.
var all = []Category{Study, Work, Play, Sleep, Exercise, Other}

var infos = map[Category]Info{
	Study: {
		Name:     "Study",
		Icon:     "📚",
		Color:    "#4299e1",
		Keywords: []string{"study", "learn", "read", "course", "tutorial", "homework", "assignment"},
	},
	Work: {
		Name:     "Work",
		Icon:     "💼",
		Color:    "#38b2ac",
		Keywords: []string{"work", "job", "meeting", "project", "office", "business", "client"},
	},
	Play: {
		Name:     "Play",
		Icon:     "🎮",
		Color:    "#ed8936",
		Keywords: []string{"play", "game", "fun", "entertainment", "movie", "music", "hobby"},
	},
	Sleep: {
		Name:     "Sleep",
		Icon:     "😴",
		Color:    "#9f7aea",
		Keywords: []string{"sleep", "rest", "nap", "bed", "relax"},
	},
	Exercise: {
		Name:     "Exercise",
		Icon:     "💪",
		Color:    "#48bb78",
		Keywords: []string{"exercise", "workout", "gym", "run", "walk", "sport", "fitness"},
	},
	Other: {
		Name:  "Other",
		Icon:  "📝",
		Color: "#a0aec0",
	},
}

// All returns the categories in enumeration order.
func All() []Category {
	return append([]Category{}, all...)
}

// Names returns the category identifiers as strings, in enumeration order.
func Names() []string {
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = string(c)
	}
	return names
}

// Valid reports whether c is part of the enumeration.
func (c Category) Valid() bool {
	_, ok := infos[c]
	return ok
}

// Info returns the display metadata for c. Unknown categories get the
// metadata of Other.
func (c Category) Info() Info {
	if info, ok := infos[c]; ok {
		return info
	}
	return infos[Other]
}

// Label returns "icon Name" for display.
func (c Category) Label() string {
	info := c.Info()
	return info.Icon + " " + info.Name
}

// Index returns the position of c in the enumeration, or -1.
func (c Category) Index() int {
	for i, x := range all {
		if x == c {
			return i
		}
	}
	return -1
}

// Parse validates s (case-insensitive) as a category.
func Parse(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", clierr.Newf(clierr.InvalidCategory, "invalid category %q", s).
			WithDetails(map[string]any{
				"category": s,
				"allowed":  Names(),
			})
	}
	return c, nil
}

// Suggest returns the first category whose keyword list has a substring
// match in text. When selected already names a valid category the caller has
// made an explicit choice and no suggestion is made. Other has no keywords
// and is never suggested.
func Suggest(text string, selected Category) (Category, bool) {
	if selected.Valid() {
		return "", false
	}
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return "", false
	}
	for _, c := range all {
		for _, kw := range infos[c].Keywords {
			if strings.Contains(lower, kw) {
				return c, true
			}
		}
	}
	return "", false
}
