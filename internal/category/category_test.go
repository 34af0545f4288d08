package category

import (
	"testing"

	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
)

func TestSuggest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text   string
		want   Category
		wantOK bool
	}{
		{"Read chapter 3", Study, true},
		{"xyz", "", false},
		{"Client MEETING", Work, true},
		{"Watch a movie", Play, true},
		{"Afternoon nap", Sleep, true},
		{"Gym session", Exercise, true},
		{"", "", false},
		// "homework" contains "work" but study comes first in the enumeration.
		{"finish homework", Study, true},
		// "running" contains "run"; exercise is the only match.
		{"morning running", Exercise, true},
	}

	for _, tt := range tests {
		got, ok := Suggest(tt.text, "")
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Suggest(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSuggestSkipsWhenSelected(t *testing.T) {
	t.Parallel()
	if got, ok := Suggest("Read chapter 3", Work); ok {
		t.Errorf("expected no suggestion with explicit selection, got %q", got)
	}
	// An invalid selection does not count as an explicit choice.
	if got, ok := Suggest("Read chapter 3", "bogus"); !ok || got != Study {
		t.Errorf("Suggest with invalid selection = (%q, %v)", got, ok)
	}
}

func TestOtherIsNeverSuggested(t *testing.T) {
	t.Parallel()
	if len(Other.Info().Keywords) != 0 {
		t.Fatal("other must have no keywords")
	}
	if got, ok := Suggest("other stuff", ""); ok {
		t.Errorf("unexpected suggestion %q", got)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()
	c, err := Parse(" Study ")
	if err != nil || c != Study {
		t.Fatalf("Parse = (%q, %v)", c, err)
	}
	if _, err := Parse("nap"); !clierr.HasCode(err, clierr.InvalidCategory) {
		t.Errorf("expected INVALID_CATEGORY, got %v", err)
	}
}

func TestEnumerationOrder(t *testing.T) {
	t.Parallel()
	want := []string{"study", "work", "play", "sleep", "exercise", "other"}
	got := Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
		if Category(want[i]).Index() != i {
			t.Errorf("Index(%q) = %d", want[i], Category(want[i]).Index())
		}
	}
}
