package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/daytrack/internal/category"
	"github.com/twiced-technology-gmbh/daytrack/internal/storage"
	"github.com/twiced-technology-gmbh/daytrack/internal/testutil"
	"github.com/twiced-technology-gmbh/daytrack/internal/theme"
	"github.com/twiced-technology-gmbh/daytrack/internal/tracker"
)

func newDashboard(t *testing.T) (*Dashboard, *testutil.MemKV, *testutil.Clock) {
	t.Helper()
	kv := testutil.NewMemKV()
	clock := testutil.NewClock(time.Date(2026, 10, 15, 9, 0, 0, 0, time.Local))
	d, err := New(Options{KV: kv, Now: clock.Now, Interval: time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return d, kv, clock
}

func press(d *Dashboard, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		d.Update(msg)
	}
}

func TestAddTaskWithSuggestedCategory(t *testing.T) {
	t.Parallel()
	d, _, _ := newDashboard(t)

	press(d, "a", "Morning gym")
	if d.view != viewForm {
		t.Fatalf("view = %v, want form", d.view)
	}
	if got := d.form.category(); got != category.Exercise || !d.form.suggested {
		t.Fatalf("suggested category = %q (%v), want exercise", got, d.form.suggested)
	}

	press(d, "tab", "tab", "1", "enter")
	if d.view != viewList {
		t.Fatalf("form not closed: %s", d.form.err)
	}
	tasks := d.Controller().Tasks()
	if len(tasks) != 1 || tasks[0].PlannedMinutes != 60 || tasks[0].Category != category.Exercise {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
	if d.toast == nil || d.toast.Level != tracker.LevelSuccess {
		t.Errorf("expected success toast, got %+v", d.toast)
	}
}

func TestFormKeepsErrorsInDialog(t *testing.T) {
	t.Parallel()
	d, _, _ := newDashboard(t)

	press(d, "a", "Something", "enter")
	if d.view != viewForm || d.form.err == "" {
		t.Fatalf("expected validation error in form, view=%v err=%q", d.view, d.form.err)
	}
	if len(d.Controller().Tasks()) != 0 {
		t.Error("invalid form must not create a task")
	}

	press(d, "esc")
	if d.view != viewList {
		t.Errorf("esc should close the form")
	}
}

func TestTimerAndCompletionKeys(t *testing.T) {
	t.Parallel()
	d, _, clock := newDashboard(t)

	press(d, "a", "Write report", "tab", "right", "right", "tab", "2", "enter")
	id := d.Controller().Tasks()[0].ID

	press(d, "s")
	if d.Controller().Active() != id {
		t.Fatalf("timer not started, active=%q", d.Controller().Active())
	}

	clock.Advance(3 * time.Minute)
	d.Update(TickMsg{})
	if !strings.Contains(d.View(), "3m / 2h") {
		t.Errorf("view does not show live tracked time:\n%s", d.View())
	}

	press(d, " ")
	got := d.Controller().Tasks()[0]
	if !got.Completed || got.Running() || got.TrackedMinutes != 3 {
		t.Errorf("after completion: %+v", got)
	}
}

func TestDeleteAndClearConfirmations(t *testing.T) {
	t.Parallel()
	d, _, _ := newDashboard(t)
	press(d, "a", "Read book", "tab", "tab", "1", "enter")
	press(d, "a", "Nap", "tab", "tab", "tab", "20", "enter")
	if n := len(d.Controller().Tasks()); n != 2 {
		t.Fatalf("tasks = %d, want 2", n)
	}

	press(d, "d", "n")
	if len(d.Controller().Tasks()) != 2 {
		t.Fatal("declined delete removed a task")
	}
	press(d, "d", "y")
	if len(d.Controller().Tasks()) != 1 {
		t.Fatal("confirmed delete kept the task")
	}

	press(d, "C", "y")
	if len(d.Controller().Tasks()) != 0 {
		t.Fatal("clear all kept tasks")
	}
}

func TestFilterAndThemeKeys(t *testing.T) {
	t.Parallel()
	d, kv, _ := newDashboard(t)

	press(d, "f")
	if d.Controller().Filter() != "pending" {
		t.Errorf("filter = %q, want pending", d.Controller().Filter())
	}

	press(d, "t")
	if d.theme != theme.Dark {
		t.Errorf("theme = %q, want dark", d.theme)
	}
	if got := string(kv.Slots[storage.SlotTheme]); got != "dark" {
		t.Errorf("saved theme = %q", got)
	}
}

func TestReloadAppliesExternalTheme(t *testing.T) {
	t.Parallel()
	d, kv, _ := newDashboard(t)
	if d.theme != theme.Light {
		t.Fatalf("initial theme = %q", d.theme)
	}

	kv.Slots[storage.SlotTheme] = []byte("dark")
	d.Update(ReloadMsg{})
	if d.theme != theme.Dark {
		t.Errorf("theme after reload = %q, want dark", d.theme)
	}
}

func TestToastExpires(t *testing.T) {
	t.Parallel()
	d, _, clock := newDashboard(t)
	d.Notify(tracker.Notification{Level: tracker.LevelInfo, Message: "hello"})

	clock.Advance(time.Second)
	d.Update(TickMsg{})
	if d.toast == nil {
		t.Fatal("toast expired too early")
	}
	clock.Advance(toastDuration)
	d.Update(TickMsg{})
	if d.toast != nil {
		t.Error("toast should have expired")
	}
}
