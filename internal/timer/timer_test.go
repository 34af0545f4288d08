package timer

import (
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/daytrack/internal/category"
	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
	"github.com/twiced-technology-gmbh/daytrack/internal/store"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
	"github.com/twiced-technology-gmbh/daytrack/internal/testutil"
)

var start = time.Date(2026, 10, 15, 9, 0, 0, 0, time.Local)

type rig struct {
	clock *testutil.Clock
	sched *PulseScheduler
	store *store.Store
	eng   *Engine
	auto  []StopResult
}

func newRig(tasks ...*task.Task) *rig {
	r := &rig{clock: testutil.NewClock(start), store: store.New(tasks...)}
	r.sched = NewPulseScheduler(r.clock.Now)
	r.eng = NewEngine(r.store, r.sched, r.clock.Now, time.Second)
	r.eng.OnAutoStop(func(res StopResult) { r.auto = append(r.auto, res) })
	return r
}

// advance moves the clock and pulses the scheduler like the host loop does.
func (r *rig) advance(d time.Duration) {
	r.clock.Advance(d)
	r.sched.Pulse(r.clock.Now())
}

func newTask(name string, planned int) *task.Task {
	return task.New(name, category.Work, planned, start.Add(-time.Hour))
}

func TestStartStopsPreviousTask(t *testing.T) {
	t.Parallel()
	a, b := newTask("A", 120), newTask("B", 120)
	r := newRig(a, b)

	if _, _, err := r.eng.Start(b.ID); err != nil {
		t.Fatal(err)
	}
	r.advance(7*time.Minute + 20*time.Second)

	_, prev, err := r.eng.Start(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if b.Running() || b.TrackedMinutes != 7 {
		t.Errorf("B: state=%s tracked=%d, want idle/7", b.TimerState, b.TrackedMinutes)
	}
	if prev == nil || prev.Task != b || prev.Added != 7 {
		t.Errorf("previous = %+v", prev)
	}
	if !a.Running() || r.eng.Active() != a.ID {
		t.Errorf("A should be active, active=%q", r.eng.Active())
	}
	if len(r.store.Running()) != 1 {
		t.Errorf("running = %d, want 1", len(r.store.Running()))
	}
	if r.sched.Pending() != 1 {
		t.Errorf("pending ticks = %d, want 1", r.sched.Pending())
	}
}

func TestStartErrors(t *testing.T) {
	t.Parallel()
	done := newTask("done", 10)
	done.MarkCompleted(true, start)
	r := newRig(done)

	if _, _, err := r.eng.Start("nope"); !clierr.HasCode(err, clierr.TaskNotFound) {
		t.Errorf("missing: %v", err)
	}
	if _, _, err := r.eng.Start(done.ID); !clierr.HasCode(err, clierr.AlreadyCompleted) {
		t.Errorf("completed: %v", err)
	}
	if done.Running() {
		t.Error("completed task must not run")
	}
}

func TestStartRunningTaskIsNoop(t *testing.T) {
	t.Parallel()
	a := newTask("A", 120)
	r := newRig(a)
	r.eng.Start(a.ID)
	first := *a.TimerStartedAt

	r.advance(3 * time.Minute)
	if _, prev, err := r.eng.Start(a.ID); err != nil || prev != nil {
		t.Fatalf("restart: prev=%v err=%v", prev, err)
	}
	if !a.TimerStartedAt.Equal(first) {
		t.Error("restart must not reset the session start")
	}
}

func TestStopIdleIsNoop(t *testing.T) {
	t.Parallel()
	a := newTask("A", 60)
	a.TrackedMinutes = 12
	r := newRig(a)

	res, err := r.eng.Stop(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.WasRunning || a.TrackedMinutes != 12 {
		t.Errorf("stop on idle changed state: %+v tracked=%d", res, a.TrackedMinutes)
	}
	if _, err := r.eng.Stop("missing"); !clierr.HasCode(err, clierr.TaskNotFound) {
		t.Errorf("missing: %v", err)
	}
}

func TestTrackedMinutesMonotonic(t *testing.T) {
	t.Parallel()
	a := newTask("A", 1000)
	r := newRig(a)

	sessions := []time.Duration{30 * time.Second, 2*time.Minute + 59*time.Second, 0, 61 * time.Minute}
	prev := 0
	for _, d := range sessions {
		r.eng.Start(a.ID)
		r.advance(d)
		r.eng.Stop(a.ID)
		if a.TrackedMinutes < prev {
			t.Fatalf("tracked decreased: %d -> %d", prev, a.TrackedMinutes)
		}
		prev = a.TrackedMinutes
	}
	if a.TrackedMinutes != 0+2+0+61 {
		t.Errorf("tracked = %d, want 63", a.TrackedMinutes)
	}
}

func TestAutoCompletionOnTick(t *testing.T) {
	t.Parallel()
	a := newTask("A", 10)
	r := newRig(a)
	r.eng.Start(a.ID)

	r.advance(9*time.Minute + 59*time.Second)
	if !a.Running() {
		t.Fatal("stopped too early")
	}
	r.advance(time.Second)

	if a.Running() || !a.Completed || a.TrackedMinutes < 10 {
		t.Errorf("after 10m: state=%s completed=%v tracked=%d", a.TimerState, a.Completed, a.TrackedMinutes)
	}
	if len(r.auto) != 1 || !r.auto[0].Completed {
		t.Errorf("auto stops = %+v", r.auto)
	}
	if r.eng.Active() != "" || r.sched.Pending() != 0 {
		t.Error("tick should be cancelled after completion")
	}
}

func TestStopAutoCompletes(t *testing.T) {
	t.Parallel()
	a := newTask("A", 5)
	a.TrackedMinutes = 3
	r := newRig(a)
	r.eng.Start(a.ID)
	r.clock.Advance(2 * time.Minute)

	res, _ := r.eng.Stop(a.ID)
	if !res.Completed || !a.Completed || a.CompletedAt == nil {
		t.Errorf("expected completion on stop: %+v", res)
	}
}

func TestRestoreResumesAndReconciles(t *testing.T) {
	t.Parallel()
	a := newTask("A", 60)
	started := start.Add(-5 * time.Minute)
	a.TimerState = task.TimerRunning
	a.TimerStartedAt = &started
	r := newRig(a)

	if warnings := r.eng.Restore(); len(warnings) != 0 {
		t.Fatalf("warnings: %v", warnings)
	}
	if r.eng.Active() != a.ID || !a.Running() {
		t.Fatal("task should be resumed")
	}
	if got := a.EffectiveTrackedMinutes(r.clock.Now()); got < 5 {
		t.Errorf("effective = %d, want >= 5", got)
	}
}

func TestRestoreCompletesOfflineOverrun(t *testing.T) {
	t.Parallel()
	a := newTask("A", 10)
	started := start.Add(-25 * time.Minute)
	a.TimerState = task.TimerRunning
	a.TimerStartedAt = &started
	r := newRig(a)

	r.eng.Restore()
	if a.Running() || !a.Completed || a.TrackedMinutes != 25 {
		t.Errorf("state=%s completed=%v tracked=%d", a.TimerState, a.Completed, a.TrackedMinutes)
	}
	if r.sched.Pending() != 0 {
		t.Error("no tick should remain")
	}
}

func TestRestoreForcesExtraRunningIdle(t *testing.T) {
	t.Parallel()
	started := start.Add(-3 * time.Minute)
	a, b, c := newTask("A", 60), newTask("B", 60), newTask("C", 60)
	for _, tk := range []*task.Task{a, b} {
		s := started
		tk.TimerState = task.TimerRunning
		tk.TimerStartedAt = &s
	}
	c.TimerState = task.TimerRunning
	c.Completed = true
	r := newRig(c, a, b)

	warnings := r.eng.Restore()
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v", warnings)
	}
	for _, w := range warnings {
		if !clierr.HasCode(w, clierr.CorruptState) {
			t.Errorf("warning code: %v", w)
		}
	}
	if r.eng.Active() != a.ID || b.Running() || c.Running() {
		t.Errorf("active=%q b=%s c=%s", r.eng.Active(), b.TimerState, c.TimerState)
	}
	if b.TrackedMinutes != 0 {
		t.Error("forced-idle session must be dropped")
	}
}

func TestDeletedTaskTickIsDropped(t *testing.T) {
	t.Parallel()
	a, b := newTask("A", 60), newTask("B", 60)
	r := newRig(a, b)
	r.eng.Start(a.ID)

	r.store.Remove(a.ID)
	r.advance(time.Second)
	if r.eng.Active() != "" || r.sched.Pending() != 0 {
		t.Fatalf("dangling tick: active=%q pending=%d", r.eng.Active(), r.sched.Pending())
	}

	_, prev, err := r.eng.Start(b.ID)
	if err != nil || prev != nil {
		t.Errorf("start after delete: prev=%v err=%v", prev, err)
	}
}

func TestPulseSchedulerCancelAndLatePulse(t *testing.T) {
	t.Parallel()
	clock := testutil.NewClock(start)
	s := NewPulseScheduler(clock.Now)
	count := 0
	cancel := s.Schedule(time.Second, func() { count++ })

	if s.Pulse(start.Add(500*time.Millisecond)) != 0 {
		t.Error("fired before due")
	}
	if s.Pulse(start.Add(10*time.Second)) != 1 || count != 1 {
		t.Errorf("late pulse should fire once, count=%d", count)
	}
	cancel()
	cancel()
	if s.Pulse(start.Add(time.Hour)) != 0 || s.Pending() != 0 {
		t.Error("cancelled entry fired")
	}
}
