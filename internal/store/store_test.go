package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/daytrack/internal/category"
	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
	"github.com/twiced-technology-gmbh/daytrack/internal/storage"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
	"github.com/twiced-technology-gmbh/daytrack/internal/testutil"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.Local)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	kv := testutil.NewMemKV()

	a := task.New("Read", category.Study, 60, now.Add(-time.Hour))
	b := task.New("Gym", category.Exercise, 45, now)
	started := now
	b.TimerState = task.TimerRunning
	b.TimerStartedAt = &started
	b.TrackedMinutes = 5

	if err := Save(kv, New(a, b)); err != nil {
		t.Fatal(err)
	}
	s, warnings, err := Load(kv, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	all := s.All()
	if len(all) != 2 || all[0].ID != a.ID || all[1].ID != b.ID {
		t.Fatalf("order not preserved: %+v", all)
	}
	got := all[1]
	if !got.Running() || !got.TimerStartedAt.Equal(started) || got.TrackedMinutes != 5 {
		t.Errorf("running task not restored: %+v", got)
	}
}

func TestLoadMissingSlot(t *testing.T) {
	t.Parallel()
	s, warnings, err := Load(testutil.NewMemKV(), now)
	if err != nil || len(warnings) != 0 || s.Len() != 0 {
		t.Fatalf("got %v %v %v", s, warnings, err)
	}
}

func TestLoadCorruptSlotResets(t *testing.T) {
	t.Parallel()
	kv := testutil.NewMemKV()
	kv.Slots[storage.SlotTasks] = []byte("{not json")

	s, warnings, err := Load(kv, now)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Error("expected empty store")
	}
	if len(warnings) != 1 || !clierr.HasCode(warnings[0], clierr.CorruptState) {
		t.Errorf("warnings = %v", warnings)
	}
	if string(kv.Slots[storage.SlotTasksBackup]) != "{not json" {
		t.Errorf("backup = %q", kv.Slots[storage.SlotTasksBackup])
	}
}

func TestLoadWrongTypedRecordKeepsSiblings(t *testing.T) {
	t.Parallel()
	kv := testutil.NewMemKV()
	raw := `[
		{"id":"a","name":"Read","category":"study","plannedMinutes":60,"completed":true},
		{"id":"b","name":"Gym","category":"exercise","plannedMinutes":30,"trackedMinutes":"5"},
		{"id":"c","name":"Write","category":"work","plannedMinutes":45}
	]`
	kv.Slots[storage.SlotTasks] = []byte(raw)

	s, warnings, err := Load(kv, now)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if _, ok := s.Get("a"); !ok {
		t.Error("task a was dropped")
	}
	if _, ok := s.Get("c"); !ok {
		t.Error("task c was dropped")
	}
	if len(warnings) != 1 || !clierr.HasCode(warnings[0], clierr.CorruptState) {
		t.Errorf("warnings = %v", warnings)
	}
	if string(kv.Slots[storage.SlotTasksBackup]) != raw {
		t.Error("original slot was not backed up")
	}
	if string(kv.Slots[storage.SlotTasks]) != raw {
		t.Error("Load must not rewrite the tasks slot")
	}
}

func TestLoadCleanSlotSkipsBackup(t *testing.T) {
	t.Parallel()
	kv := testutil.NewMemKV()
	kv.Slots[storage.SlotTasks] = []byte(`[{"id":"a","name":"Read","category":"study","plannedMinutes":60}]`)

	if _, _, err := Load(kv, now); err != nil {
		t.Fatal(err)
	}
	if kv.Puts != 0 {
		t.Errorf("puts = %d, want 0", kv.Puts)
	}
}

func TestLoadFailsWhenBackupFails(t *testing.T) {
	t.Parallel()
	kv := testutil.NewMemKV()
	kv.Slots[storage.SlotTasks] = []byte(`{"not":"an array"}`)
	kv.FailWrites = true

	if _, _, err := Load(kv, now); !clierr.HasCode(err, clierr.PersistenceError) {
		t.Fatalf("expected PERSISTENCE_ERROR, got %v", err)
	}
	if string(kv.Slots[storage.SlotTasks]) != `{"not":"an array"}` {
		t.Error("tasks slot changed")
	}
}

func TestLoadDropsBadRecords(t *testing.T) {
	t.Parallel()
	kv := testutil.NewMemKV()
	records := []map[string]any{
		{"id": "a", "name": "ok", "category": "work", "plannedMinutes": 30},
		{"id": "b", "name": "", "category": "work", "plannedMinutes": 30},
		{"id": "c", "name": "bad cat", "category": "naps", "plannedMinutes": 30},
		{"id": "a", "name": "dup", "category": "work", "plannedMinutes": 30},
	}
	data, _ := json.Marshal(records)
	kv.Slots[storage.SlotTasks] = data

	s, warnings, err := Load(kv, now)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	if len(warnings) != 3 {
		t.Errorf("warnings = %d, want 3", len(warnings))
	}
}

func TestSaveFailureIsPersistenceError(t *testing.T) {
	t.Parallel()
	kv := testutil.NewMemKV()
	kv.FailWrites = true
	err := Save(kv, New())
	if !clierr.HasCode(err, clierr.PersistenceError) {
		t.Fatalf("err = %v", err)
	}
}

func TestSaveEmptyWritesArray(t *testing.T) {
	t.Parallel()
	kv := testutil.NewMemKV()
	if err := Save(kv, New()); err != nil {
		t.Fatal(err)
	}
	if string(kv.Slots[storage.SlotTasks]) != "[]" {
		t.Errorf("slot = %s", kv.Slots[storage.SlotTasks])
	}
}

func TestResolvePrefix(t *testing.T) {
	t.Parallel()
	a := &task.Task{ID: "cs1abc"}
	b := &task.Task{ID: "cs1abd"}
	c := &task.Task{ID: "d9zz"}
	s := New(a, b, c)

	if got, err := s.Resolve("d9"); err != nil || got != c {
		t.Errorf("Resolve(d9) = %v, %v", got, err)
	}
	if got, err := s.Resolve("cs1abd"); err != nil || got != b {
		t.Errorf("exact resolve = %v, %v", got, err)
	}
	if _, err := s.Resolve("cs1"); !clierr.HasCode(err, clierr.AmbiguousTaskID) {
		t.Errorf("expected ambiguous, got %v", err)
	}
	if _, err := s.Resolve("zz"); !clierr.HasCode(err, clierr.TaskNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, err := s.Resolve(" "); !clierr.HasCode(err, clierr.InvalidTaskID) {
		t.Errorf("expected invalid id, got %v", err)
	}
}

func TestFilteredNewestFirst(t *testing.T) {
	t.Parallel()
	old := &task.Task{ID: "1", CreatedAt: now.Add(-2 * time.Hour)}
	mid := &task.Task{ID: "2", CreatedAt: now.Add(-time.Hour), Completed: true}
	recent := &task.Task{ID: "3", CreatedAt: now}
	s := New(old, mid, recent)

	all, _ := s.Filtered(FilterAll)
	if ids(all) != "321" {
		t.Errorf("all = %s", ids(all))
	}
	pending, _ := s.Filtered(FilterPending)
	if ids(pending) != "31" {
		t.Errorf("pending = %s", ids(pending))
	}
	done, _ := s.Filtered(FilterCompleted)
	if ids(done) != "2" {
		t.Errorf("completed = %s", ids(done))
	}
	if _, err := s.Filtered("later"); !clierr.HasCode(err, clierr.InvalidFilter) {
		t.Errorf("expected INVALID_FILTER, got %v", err)
	}
}

func TestRemoveAndRunning(t *testing.T) {
	t.Parallel()
	a := &task.Task{ID: "a", TimerState: task.TimerRunning}
	b := &task.Task{ID: "b"}
	s := New(a, b)
	if got := s.Running(); len(got) != 1 || got[0] != a {
		t.Errorf("Running = %v", got)
	}
	if !s.Remove("a") || s.Remove("a") {
		t.Error("Remove should succeed once")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d", s.Len())
	}
}

func ids(ts []*task.Task) string {
	var out string
	for _, t := range ts {
		out += t.ID
	}
	return out
}
