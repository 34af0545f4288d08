// Package timer runs the single live timer: starting and stopping sessions,
// folding elapsed time into tracked time, and auto-completing a task once
// its planned duration is reached.
package timer

import (
	"time"

	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
	"github.com/twiced-technology-gmbh/daytrack/internal/store"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
)

// DefaultInterval is the reconciliation tick period.
const DefaultInterval = time.Second

// StopResult describes what Stop did.
type StopResult struct {
	Task       *task.Task `json:"task"`
	WasRunning bool       `json:"was_running"`
	Added      int        `json:"added_minutes"` // minutes folded into tracked time
	Completed  bool       `json:"completed"`     // auto-completed by this stop
}

// Engine owns the running timer. At most one task runs at a time and only
// the engine knows which one.
type Engine struct {
	store    *store.Store
	sched    Scheduler
	now      func() time.Time
	interval time.Duration

	active string
	cancel Cancel

	onAutoStop func(StopResult)
}

// NewEngine returns an engine over s. interval <= 0 uses DefaultInterval.
func NewEngine(s *store.Store, sched Scheduler, now func() time.Time, interval time.Duration) *Engine {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Engine{store: s, sched: sched, now: now, interval: interval}
}

// OnAutoStop registers fn to run when a tick stops a task that reached its
// planned time.
func (e *Engine) OnAutoStop(fn func(StopResult)) {
	e.onAutoStop = fn
}

// SetStore points the engine at a new store, dropping any live tick. Call
// Restore afterwards.
func (e *Engine) SetStore(s *store.Store) {
	e.Reset()
	e.store = s
}

// Active returns the id of the running task, or "".
func (e *Engine) Active() string { return e.active }

// Reset cancels the tick and forgets the active task without touching any
// task.
func (e *Engine) Reset() {
	e.cancelTick()
	e.active = ""
}

// Start starts id's timer, stopping whichever task was running before.
// Starting the task that is already running changes nothing.
func (e *Engine) Start(id string) (*task.Task, *StopResult, error) {
	t, ok := e.store.Get(id)
	if !ok {
		return nil, nil, task.NotFound(id)
	}
	if t.Completed {
		return nil, nil, task.AlreadyCompleted(t)
	}
	if t.Running() && e.active == id {
		return t, nil, nil
	}

	var previous *StopResult
	for _, other := range e.store.Running() {
		if other.ID == id {
			continue
		}
		res, err := e.Stop(other.ID)
		if err != nil {
			return nil, nil, err
		}
		if previous == nil {
			previous = &res
		}
	}

	if !t.Running() {
		now := e.now()
		t.TimerState = task.TimerRunning
		t.TimerStartedAt = &now
		t.UpdatedAt = now
	}
	e.schedule(id)
	return t, previous, nil
}

// Stop folds the session's whole minutes into tracked time and idles the
// timer. Stopping an idle task is a no-op.
func (e *Engine) Stop(id string) (StopResult, error) {
	t, ok := e.store.Get(id)
	if !ok {
		if e.active == id {
			e.Reset()
		}
		return StopResult{}, task.NotFound(id)
	}
	if e.active == id {
		e.Reset()
	}
	if !t.Running() {
		return StopResult{Task: t}, nil
	}

	now := e.now()
	res := StopResult{Task: t, WasRunning: true, Added: t.ElapsedMinutes(now)}
	t.TrackedMinutes += res.Added
	t.TimerState = task.TimerIdle
	t.TimerStartedAt = nil
	t.UpdatedAt = now
	if !t.Completed && t.TrackedMinutes >= t.PlannedMinutes {
		t.MarkCompleted(true, now)
		res.Completed = true
	}
	return res, nil
}

// Reconcile stops id once its effective time reaches its planned time. It
// reports whether a stop happened. A vanished or idle task just loses its
// tick.
func (e *Engine) Reconcile(id string) (StopResult, bool) {
	t, ok := e.store.Get(id)
	if !ok || !t.Running() {
		if e.active == id {
			e.Reset()
		}
		return StopResult{}, false
	}
	if t.EffectiveTrackedMinutes(e.now()) < t.PlannedMinutes {
		return StopResult{}, false
	}
	res, err := e.Stop(id)
	if err != nil {
		return StopResult{}, false
	}
	return res, true
}

// Restore re-arms the timer after a load. The first running task in store
// order keeps running; any other running task, and any running task that is
// completed or has no start instant, is forced idle with its session
// dropped. The surviving task is reconciled at once so offline time can
// complete it.
func (e *Engine) Restore() []error {
	e.Reset()

	var warnings []error
	now := e.now()
	forceIdle := func(t *task.Task, reason string) {
		t.TimerState = task.TimerIdle
		t.TimerStartedAt = nil
		t.UpdatedAt = now
		warnings = append(warnings, clierr.Newf(clierr.CorruptState,
			"timer of %q was reset: %s", t.Name, reason).
			WithDetails(map[string]any{"id": t.ID}))
	}

	for _, t := range e.store.Running() {
		switch {
		case t.Completed:
			forceIdle(t, "task is already completed")
		case t.TimerStartedAt == nil:
			forceIdle(t, "no start time was saved")
		}
	}

	running := e.store.Running()
	if len(running) == 0 {
		return warnings
	}
	for _, t := range running[1:] {
		forceIdle(t, "another timer was already running")
	}

	id := running[0].ID
	e.schedule(id)
	e.tick(id)
	return warnings
}

func (e *Engine) schedule(id string) {
	e.cancelTick()
	e.active = id
	e.cancel = e.sched.Schedule(e.interval, func() { e.tick(id) })
}

func (e *Engine) tick(id string) {
	res, stopped := e.Reconcile(id)
	if stopped && e.onAutoStop != nil {
		e.onAutoStop(res)
	}
}

func (e *Engine) cancelTick() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}
