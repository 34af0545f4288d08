// Package tracker is the lifecycle controller. It owns the task store and
// the timer engine, applies every user operation to both, persists after
// each mutation and pushes the result to a display.
package tracker

import (
	"fmt"
	"time"

	"github.com/twiced-technology-gmbh/daytrack/internal/activity"
	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
	"github.com/twiced-technology-gmbh/daytrack/internal/day"
	"github.com/twiced-technology-gmbh/daytrack/internal/stats"
	"github.com/twiced-technology-gmbh/daytrack/internal/storage"
	"github.com/twiced-technology-gmbh/daytrack/internal/store"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
	"github.com/twiced-technology-gmbh/daytrack/internal/timer"
)

// Activity log actions.
const (
	actionCreate   = "create"
	actionEdit     = "edit"
	actionDelete   = "delete"
	actionComplete = "complete"
	actionReopen   = "reopen"
	actionStart    = "start"
	actionStop     = "stop"
	actionAuto     = "auto-complete"
	actionClear    = "clear"
)

// Options configures Open.
type Options struct {
	KV       storage.KV
	Now      func() time.Time // defaults to time.Now
	Interval time.Duration    // reconciliation tick, defaults to timer.DefaultInterval
	Renderer Renderer
	Notifier Notifier
	Logger   *activity.Logger
	Filter   string // list filter used by Snapshot
}

// Controller applies operations to the store and engine. It is not safe for
// concurrent use; drive it from one goroutine.
type Controller struct {
	kv       storage.KV
	now      func() time.Time
	store    *store.Store
	sched    *timer.PulseScheduler
	engine   *timer.Engine
	renderer Renderer
	notifier Notifier
	log      *activity.Logger
	filter   string

	persistErr error
}

// Open loads the tasks slot, restores a running timer and renders once.
// Recoverable problems with the saved data are reported through the
// Notifier; only a failing read is an error.
func Open(opts Options) (*Controller, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Filter == "" {
		opts.Filter = store.FilterAll
	}
	c := &Controller{
		kv:       opts.KV,
		now:      opts.Now,
		renderer: opts.Renderer,
		notifier: opts.Notifier,
		log:      opts.Logger,
		filter:   opts.Filter,
	}
	if c.renderer == nil {
		c.renderer = discard{}
	}
	if c.notifier == nil {
		c.notifier = discard{}
	}

	s, warnings, err := store.Load(c.kv, c.now())
	if err != nil {
		return nil, err
	}
	c.store = s
	c.sched = timer.NewPulseScheduler(c.now)
	c.engine = timer.NewEngine(s, c.sched, c.now, opts.Interval)
	c.engine.OnAutoStop(c.autoStopped)

	c.restore(warnings)
	return c, nil
}

func (c *Controller) restore(loadWarnings []error) {
	warnings := append(loadWarnings, c.engine.Restore()...)
	for _, w := range warnings {
		c.notify(LevelWarning, w.Error())
	}
	if len(warnings) > 0 {
		c.persist()
	}
	c.refresh()
}

// Reload re-reads the tasks slot, replacing the in-memory store, and
// restores the timer. Used when another process changed the saved data.
func (c *Controller) Reload() error {
	s, warnings, err := store.Load(c.kv, c.now())
	if err != nil {
		return err
	}
	c.store = s
	c.engine.SetStore(s)
	c.restore(warnings)
	return nil
}

// Create validates in and adds a new idle, pending task scoped to today.
func (c *Controller) Create(in task.Input) (*task.Task, error) {
	f, err := task.Validate(in)
	if err != nil {
		return nil, err
	}
	t := task.New(f.Name, f.Category, f.PlannedMinutes, c.now())
	c.store.Insert(t)

	c.log.Record(actionCreate, t.ID, t.Name)
	c.persist()
	c.notify(LevelSuccess, fmt.Sprintf("Task %q added", t.Name))
	c.refresh()
	return t.Clone(), nil
}

// Edit replaces the name, category and planned duration of id. Tracked
// time, timer state and completion are left alone.
func (c *Controller) Edit(id string, in task.Input) (*task.Task, error) {
	f, err := task.Validate(in)
	if err != nil {
		return nil, err
	}
	t, ok := c.store.Get(id)
	if !ok {
		return nil, task.NotFound(id)
	}
	t.Name = f.Name
	t.Category = f.Category
	t.PlannedMinutes = f.PlannedMinutes
	t.UpdatedAt = c.now()

	c.log.Record(actionEdit, t.ID, t.Name)
	c.persist()
	c.notify(LevelSuccess, fmt.Sprintf("Task %q updated", t.Name))
	c.refresh()
	return t.Clone(), nil
}

// Delete removes id, stopping its timer first when it is running.
func (c *Controller) Delete(id string) (*task.Task, error) {
	t, ok := c.store.Get(id)
	if !ok {
		return nil, task.NotFound(id)
	}
	if t.Running() || c.engine.Active() == id {
		if _, err := c.engine.Stop(id); err != nil {
			return nil, err
		}
	}
	c.store.Remove(id)

	c.log.Record(actionDelete, t.ID, t.Name)
	c.persist()
	c.notify(LevelSuccess, fmt.Sprintf("Task %q deleted", t.Name))
	c.refresh()
	return t.Clone(), nil
}

// ToggleComplete flips completion of id. Completing a running task stops
// its timer first; if that stop already completes it, the task stays
// completed.
func (c *Controller) ToggleComplete(id string) (*task.Task, error) {
	t, ok := c.store.Get(id)
	if !ok {
		return nil, task.NotFound(id)
	}

	completing := !t.Completed
	if completing && t.Running() {
		if _, err := c.engine.Stop(id); err != nil {
			return nil, err
		}
	}
	if t.Completed != completing {
		t.MarkCompleted(completing, c.now())
	}

	action, status := actionComplete, "completed"
	if !completing {
		action, status = actionReopen, "pending"
	}
	c.log.Record(action, t.ID, t.Name)
	c.persist()
	c.notify(LevelSuccess, fmt.Sprintf("Task marked as %s", status))
	c.refresh()
	return t.Clone(), nil
}

// Start runs id's timer, stopping any other running task.
func (c *Controller) Start(id string) (*task.Task, error) {
	if t, ok := c.store.Get(id); ok && t.Running() && c.engine.Active() == id {
		c.notify(LevelInfo, fmt.Sprintf("Timer already running for %q", t.Name))
		return t.Clone(), nil
	}

	t, previous, err := c.engine.Start(id)
	if err != nil {
		return nil, err
	}
	if previous != nil && previous.WasRunning {
		c.stopped(*previous, actionStop)
	}

	c.log.Record(actionStart, t.ID, t.Name)
	c.persist()
	c.notify(LevelSuccess, fmt.Sprintf("Timer started for %q", t.Name))
	c.refresh()
	return t.Clone(), nil
}

// Stop stops id's timer. Stopping an idle task changes nothing.
func (c *Controller) Stop(id string) (timer.StopResult, error) {
	res, err := c.engine.Stop(id)
	if err != nil {
		return res, err
	}
	if !res.WasRunning {
		c.notify(LevelInfo, fmt.Sprintf("Timer for %q is not running", res.Task.Name))
		return cloneResult(res), nil
	}
	c.stopped(res, actionStop)
	c.persist()
	c.refresh()
	return cloneResult(res), nil
}

// ClearAll stops the running timer and deletes every task. It returns the
// number of tasks removed.
func (c *Controller) ClearAll() (int, error) {
	if id := c.engine.Active(); id != "" {
		if _, err := c.engine.Stop(id); err != nil && !clierr.HasCode(err, clierr.TaskNotFound) {
			return 0, err
		}
	}
	c.engine.Reset()
	n := c.store.Len()
	c.store.Clear()

	c.log.Record(actionClear, "", fmt.Sprintf("%d tasks", n))
	c.persist()
	c.notify(LevelSuccess, "All data cleared")
	c.refresh()
	return n, nil
}

// Tick runs due reconciliation and refreshes the display. The host calls it
// on its own cadence.
func (c *Controller) Tick() {
	c.sched.Pulse(c.now())
	c.refresh()
}

// Resolve finds a task by id or unique id prefix.
func (c *Controller) Resolve(ref string) (*task.Task, error) {
	t, err := c.store.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// List returns copies of the tasks matching filter, newest first.
func (c *Controller) List(filter string) ([]*task.Task, error) {
	tasks, err := c.store.Filtered(filter)
	if err != nil {
		return nil, err
	}
	return cloneAll(tasks), nil
}

// Tasks returns copies of all tasks in store order.
func (c *Controller) Tasks() []*task.Task {
	return cloneAll(c.store.All())
}

// Filter returns the Snapshot filter.
func (c *Controller) Filter() string { return c.filter }

// SetFilter changes the Snapshot filter and refreshes.
func (c *Controller) SetFilter(filter string) error {
	if _, err := c.store.Filtered(filter); err != nil {
		return err
	}
	c.filter = filter
	c.refresh()
	return nil
}

// Active returns the id of the running task, or "".
func (c *Controller) Active() string { return c.engine.Active() }

// PersistErr returns the error of the most recent save, or nil once a save
// succeeds again.
func (c *Controller) PersistErr() error { return c.persistErr }

// Snapshot returns the current display state.
func (c *Controller) Snapshot() Snapshot {
	now := c.now()
	tasks, err := c.store.Filtered(c.filter)
	if err != nil {
		tasks, _ = c.store.Filtered(store.FilterAll)
	}
	return Snapshot{
		Now:    now,
		Filter: c.filter,
		Active: c.engine.Active(),
		Tasks:  cloneAll(tasks),
		Today:  stats.Summarize(c.store.All(), day.Of(now), now),
	}
}

func (c *Controller) autoStopped(res timer.StopResult) {
	c.stopped(res, actionAuto)
	c.persist()
}

func (c *Controller) stopped(res timer.StopResult, action string) {
	t := res.Task
	if res.Completed {
		action = actionAuto
	}
	c.log.Record(action, t.ID, fmt.Sprintf("+%dm", res.Added))
	if res.Completed {
		c.notify(LevelSuccess, fmt.Sprintf("Task %q completed! 🎉", t.Name))
		return
	}
	c.notify(LevelInfo, fmt.Sprintf("Timer stopped for %q", t.Name))
}

// persist saves the whole store. A failure leaves memory as the source of
// truth and is reported as a warning; the next successful save recovers.
func (c *Controller) persist() {
	c.persistErr = store.Save(c.kv, c.store)
	if c.persistErr != nil {
		c.notify(LevelWarning, "Error saving data: "+c.persistErr.Error())
	}
}

func (c *Controller) notify(level Level, msg string) {
	c.notifier.Notify(Notification{Level: level, Message: msg})
}

func (c *Controller) refresh() {
	c.renderer.Render(c.Snapshot())
}

func cloneAll(tasks []*task.Task) []*task.Task {
	out := make([]*task.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

func cloneResult(res timer.StopResult) timer.StopResult {
	if res.Task != nil {
		res.Task = res.Task.Clone()
	}
	return res
}
