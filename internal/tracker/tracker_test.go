package tracker

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/daytrack/internal/activity"
	"github.com/twiced-technology-gmbh/daytrack/internal/category"
	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
	"github.com/twiced-technology-gmbh/daytrack/internal/storage"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
	"github.com/twiced-technology-gmbh/daytrack/internal/testutil"
)

var morning = time.Date(2026, 10, 15, 8, 0, 0, 0, time.Local)

type recorder struct {
	snapshots []Snapshot
	notes     []Notification
}

func (r *recorder) Render(s Snapshot) { r.snapshots = append(r.snapshots, s) }
func (r *recorder) Notify(n Notification) { r.notes = append(r.notes, n) }
func (r *recorder) last() Snapshot { return r.snapshots[len(r.snapshots)-1] }
func (r *recorder) lastNote() Notification { return r.notes[len(r.notes)-1] }

type harness struct {
	clock *testutil.Clock
	kv    *testutil.MemKV
	rec   *recorder
	c     *Controller
}

func open(t *testing.T, kv *testutil.MemKV) *harness {
	t.Helper()
	h := &harness{clock: testutil.NewClock(morning), kv: kv, rec: &recorder{}}
	c, err := Open(Options{
		KV:       kv,
		Now:      h.clock.Now,
		Interval: time.Second,
		Renderer: h.rec,
		Notifier: h.rec,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	h.c = c
	return h
}

func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.c.Tick()
}

func (h *harness) saved(t *testing.T) []task.Task {
	t.Helper()
	var out []task.Task
	if err := json.Unmarshal(h.kv.Slots[storage.SlotTasks], &out); err != nil {
		t.Fatalf("decoding saved tasks: %v", err)
	}
	return out
}

func mustCreate(t *testing.T, h *harness, name, cat string, hours, minutes int) *task.Task {
	t.Helper()
	tk, err := h.c.Create(task.Input{Name: name, Category: cat, Hours: hours, Minutes: minutes})
	if err != nil {
		t.Fatalf("Create(%s): %v", name, err)
	}
	return tk
}

func TestCreatePersistsAndRenders(t *testing.T) {
	t.Parallel()
	h := open(t, testutil.NewMemKV())

	tk := mustCreate(t, h, "Read chapter 3", "study", 1, 30)
	if tk.PlannedMinutes != 90 || tk.TrackedMinutes != 0 || tk.Completed || tk.Running() {
		t.Errorf("new task = %+v", tk)
	}
	if tk.Day.String() != "2026-10-15" {
		t.Errorf("day = %s", tk.Day)
	}
	if saved := h.saved(t); len(saved) != 1 || saved[0].ID != tk.ID {
		t.Errorf("saved = %+v", saved)
	}
	if len(h.rec.last().Tasks) != 1 {
		t.Error("render did not include the new task")
	}
	if n := h.rec.lastNote(); n.Level != LevelSuccess || !strings.Contains(n.Message, "Read chapter 3") {
		t.Errorf("notification = %+v", n)
	}
}

func TestCreateValidationLeavesStoreUnchanged(t *testing.T) {
	t.Parallel()
	h := open(t, testutil.NewMemKV())
	puts := h.kv.Puts

	if _, err := h.c.Create(task.Input{Name: "", Category: "work", Hours: 1}); !clierr.HasCode(err, clierr.InvalidInput) {
		t.Errorf("empty name: %v", err)
	}
	if _, err := h.c.Create(task.Input{Name: "x", Category: "", Hours: 1}); !clierr.HasCode(err, clierr.InvalidCategory) {
		t.Errorf("no category: %v", err)
	}
	if _, err := h.c.Create(task.Input{Name: "x", Category: "work"}); !clierr.HasCode(err, clierr.InvalidDuration) {
		t.Errorf("zero duration: %v", err)
	}
	if len(h.c.Tasks()) != 0 || h.kv.Puts != puts {
		t.Error("failed validation must not change or persist the store")
	}
}

func TestEditKeepsTimerState(t *testing.T) {
	t.Parallel()
	h := open(t, testutil.NewMemKV())
	tk := mustCreate(t, h, "Gym", "exercise", 1, 0)
	h.c.Start(tk.ID)
	h.advance(12 * time.Minute)
	h.c.Stop(tk.ID)
	h.c.Start(tk.ID)

	edited, err := h.c.Edit(tk.ID, task.Input{Name: "Gym legs", Category: "exercise", Hours: 2})
	if err != nil {
		t.Fatal(err)
	}
	if edited.Name != "Gym legs" || edited.PlannedMinutes != 120 {
		t.Errorf("edited = %+v", edited)
	}
	if edited.TrackedMinutes != 12 || !edited.Running() || edited.Completed {
		t.Errorf("edit touched timer fields: %+v", edited)
	}
	if _, err := h.c.Edit("missing", task.Input{Name: "x", Category: "work", Hours: 1}); !clierr.HasCode(err, clierr.TaskNotFound) {
		t.Errorf("missing: %v", err)
	}
}

func TestStartSwitchesTasks(t *testing.T) {
	t.Parallel()
	h := open(t, testutil.NewMemKV())
	a := mustCreate(t, h, "A", "work", 2, 0)
	b := mustCreate(t, h, "B", "work", 2, 0)

	h.c.Start(b.ID)
	h.advance(4 * time.Minute)
	if _, err := h.c.Start(a.ID); err != nil {
		t.Fatal(err)
	}

	saved := h.saved(t)
	for _, s := range saved {
		switch s.ID {
		case a.ID:
			if !s.Running() {
				t.Error("A should be running")
			}
		case b.ID:
			if s.Running() || s.TrackedMinutes != 4 {
				t.Errorf("B = %+v", s)
			}
		}
	}
	if h.c.Active() != a.ID {
		t.Errorf("active = %q", h.c.Active())
	}
}

func TestAutoCompletePersistsAndNotifies(t *testing.T) {
	t.Parallel()
	h := open(t, testutil.NewMemKV())
	tk := mustCreate(t, h, "Nap", "sleep", 0, 10)
	h.c.Start(tk.ID)

	for i := 0; i < 10; i++ {
		h.advance(time.Minute)
	}

	saved := h.saved(t)[0]
	if !saved.Completed || saved.Running() || saved.TrackedMinutes < 10 {
		t.Errorf("saved = %+v", saved)
	}
	if n := h.rec.lastNote(); !strings.Contains(n.Message, "completed") {
		t.Errorf("last notification = %+v", n)
	}
	today := h.rec.last().Today
	if today.Completed != 1 || today.Categories[3].Hours == 0 {
		t.Errorf("today = %+v", today)
	}
}

func TestDeleteRunningTask(t *testing.T) {
	t.Parallel()
	h := open(t, testutil.NewMemKV())
	a := mustCreate(t, h, "A", "work", 1, 0)
	b := mustCreate(t, h, "B", "play", 1, 0)
	h.c.Start(a.ID)
	h.advance(2 * time.Minute)

	if _, err := h.c.Delete(a.ID); err != nil {
		t.Fatal(err)
	}
	if h.c.Active() != "" {
		t.Error("deleted task left an active timer")
	}
	notes := len(h.rec.notes)
	h.advance(5 * time.Second)
	if len(h.rec.notes) != notes {
		t.Errorf("tick after delete produced notifications: %+v", h.rec.notes[notes:])
	}

	if _, err := h.c.Start(b.ID); err != nil {
		t.Fatal(err)
	}
	for _, n := range h.rec.notes[notes:] {
		if strings.Contains(n.Message, `"A"`) {
			t.Errorf("start touched deleted task: %+v", n)
		}
	}
	if _, err := h.c.Delete(a.ID); !clierr.HasCode(err, clierr.TaskNotFound) {
		t.Errorf("second delete: %v", err)
	}
}

func TestToggleCompleteStopsTimer(t *testing.T) {
	t.Parallel()
	h := open(t, testutil.NewMemKV())
	tk := mustCreate(t, h, "Essay", "study", 1, 0)
	h.c.Start(tk.ID)
	h.advance(3 * time.Minute)

	done, err := h.c.ToggleComplete(tk.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !done.Completed || done.Running() || done.TrackedMinutes != 3 || done.CompletedAt == nil {
		t.Errorf("completed = %+v", done)
	}
	if h.c.Active() != "" {
		t.Error("timer still active")
	}

	if _, err := h.c.Start(tk.ID); !clierr.HasCode(err, clierr.AlreadyCompleted) {
		t.Errorf("start completed: %v", err)
	}

	reopened, _ := h.c.ToggleComplete(tk.ID)
	if reopened.Completed || reopened.CompletedAt != nil || reopened.TrackedMinutes != 3 {
		t.Errorf("reopened = %+v", reopened)
	}
	if _, err := h.c.Start(tk.ID); err != nil {
		t.Errorf("start after reopen: %v", err)
	}
}

func TestStopIdleIsNoop(t *testing.T) {
	t.Parallel()
	h := open(t, testutil.NewMemKV())
	tk := mustCreate(t, h, "A", "work", 1, 0)
	puts := h.kv.Puts

	res, err := h.c.Stop(tk.ID)
	if err != nil || res.WasRunning {
		t.Fatalf("Stop = %+v, %v", res, err)
	}
	if h.kv.Puts != puts {
		t.Error("no-op stop should not persist")
	}
}

func TestPersistenceFailureKeepsMemory(t *testing.T) {
	t.Parallel()
	h := open(t, testutil.NewMemKV())
	h.kv.FailWrites = true

	tk, err := h.c.Create(task.Input{Name: "Offline", Category: "other", Minutes: 15})
	if err != nil {
		t.Fatalf("Create should succeed in memory: %v", err)
	}
	if !clierr.HasCode(h.c.PersistErr(), clierr.PersistenceError) {
		t.Errorf("PersistErr = %v", h.c.PersistErr())
	}
	if n := h.rec.lastNote(); n.Level != LevelSuccess {
		t.Errorf("last note = %+v", n)
	}
	var warned bool
	for _, n := range h.rec.notes {
		warned = warned || n.Level == LevelWarning
	}
	if !warned {
		t.Error("expected a persistence warning")
	}
	if _, err := h.c.Resolve(tk.ID); err != nil {
		t.Error("task lost from memory")
	}

	h.kv.FailWrites = false
	mustCreate(t, h, "Online", "other", 0, 5)
	if h.c.PersistErr() != nil || len(h.saved(t)) != 2 {
		t.Error("next successful save should recover durability")
	}
}

func TestOpenRestoresRunningTask(t *testing.T) {
	t.Parallel()
	kv := testutil.NewMemKV()
	started := morning.Add(-5 * time.Minute)
	records := []map[string]any{
		{"id": "a", "name": "Run", "category": "exercise", "plannedMinutes": 60,
			"timerState": "running", "timerStartedAt": started, "createdAt": morning.Add(-time.Hour)},
		{"id": "b", "name": "Also running", "category": "work", "plannedMinutes": 60,
			"timerState": "running", "timerStartedAt": started, "createdAt": morning.Add(-time.Hour)},
	}
	data, _ := json.Marshal(records)
	kv.Slots[storage.SlotTasks] = data

	h := open(t, kv)
	if h.c.Active() != "a" {
		t.Fatalf("active = %q, want a", h.c.Active())
	}
	snap := h.rec.last()
	var run *task.Task
	for _, tk := range snap.Tasks {
		if tk.ID == "a" {
			run = tk
		}
	}
	if run == nil || run.EffectiveTrackedMinutes(snap.Now) < 5 {
		t.Errorf("restored task = %+v", run)
	}
	if h.rec.notes[0].Level != LevelWarning {
		t.Errorf("expected corrupt-state warning, got %+v", h.rec.notes)
	}
	for _, s := range h.saved(t) {
		if s.ID == "b" && s.Running() {
			t.Error("extra running task should be saved idle")
		}
	}
}

func TestOpenCorruptSlotStartsEmpty(t *testing.T) {
	t.Parallel()
	kv := testutil.NewMemKV()
	kv.Slots[storage.SlotTasks] = []byte("[{]")
	h := open(t, kv)
	if len(h.c.Tasks()) != 0 || len(h.rec.notes) == 0 || h.rec.notes[0].Level != LevelWarning {
		t.Errorf("tasks=%d notes=%+v", len(h.c.Tasks()), h.rec.notes)
	}
}

func TestOpenKeepsValidSiblingsOfBadRecord(t *testing.T) {
	t.Parallel()
	kv := testutil.NewMemKV()
	raw := `[{"id":"a","name":"Read","category":"study","plannedMinutes":60,"completed":true},
		{"id":"b","name":"Gym","category":"exercise","plannedMinutes":30,"trackedMinutes":"5"}]`
	kv.Slots[storage.SlotTasks] = []byte(raw)

	h := open(t, kv)
	if len(h.c.Tasks()) != 1 {
		t.Fatalf("tasks = %d, want 1", len(h.c.Tasks()))
	}
	saved := h.saved(t)
	if len(saved) != 1 || saved[0].ID != "a" || !saved[0].Completed {
		t.Errorf("saved = %+v", saved)
	}
	if string(kv.Slots[storage.SlotTasksBackup]) != raw {
		t.Error("damaged slot was not backed up")
	}
}

func TestClearAll(t *testing.T) {
	t.Parallel()
	h := open(t, testutil.NewMemKV())
	a := mustCreate(t, h, "A", "work", 1, 0)
	mustCreate(t, h, "B", "work", 1, 0)
	h.c.Start(a.ID)

	n, err := h.c.ClearAll()
	if err != nil || n != 2 {
		t.Fatalf("ClearAll = %d, %v", n, err)
	}
	if h.c.Active() != "" || len(h.saved(t)) != 0 {
		t.Error("clear left state behind")
	}
}

func TestListAndFilter(t *testing.T) {
	t.Parallel()
	h := open(t, testutil.NewMemKV())
	a := mustCreate(t, h, "A", "work", 1, 0)
	h.clock.Advance(time.Minute)
	b := mustCreate(t, h, "B", "play", 1, 0)
	h.c.ToggleComplete(a.ID)

	all, _ := h.c.List("all")
	if len(all) != 2 || all[0].ID != b.ID {
		t.Errorf("all not newest first: %v", all)
	}
	if err := h.c.SetFilter("completed"); err != nil {
		t.Fatal(err)
	}
	if snap := h.rec.last(); len(snap.Tasks) != 1 || snap.Tasks[0].ID != a.ID {
		t.Errorf("filtered snapshot = %+v", snap.Tasks)
	}
	if err := h.c.SetFilter("bogus"); !clierr.HasCode(err, clierr.InvalidFilter) {
		t.Errorf("bad filter: %v", err)
	}
}

func TestReloadPicksUpExternalChanges(t *testing.T) {
	t.Parallel()
	kv := testutil.NewMemKV()
	h := open(t, kv)
	mustCreate(t, h, "A", "work", 1, 0)

	other := open(t, kv)
	mustCreate(t, other, "B", "study", 1, 0)

	if err := h.c.Reload(); err != nil {
		t.Fatal(err)
	}
	if len(h.c.Tasks()) != 2 {
		t.Errorf("tasks after reload = %d", len(h.c.Tasks()))
	}
}

func TestActivityLogged(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	clock := testutil.NewClock(morning)
	c, err := Open(Options{KV: testutil.NewMemKV(), Now: clock.Now, Logger: activity.NewLogger(dir, clock.Now)})
	if err != nil {
		t.Fatal(err)
	}
	tk, _ := c.Create(task.Input{Name: "Log me", Category: string(category.Other), Minutes: 5})
	c.Delete(tk.ID)

	entries, _ := activity.Read(dir, 0)
	if len(entries) != 2 || entries[0].Action != "create" || entries[1].Action != "delete" {
		t.Errorf("entries = %+v", entries)
	}
}
