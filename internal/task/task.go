// Package task defines the tracked task entity and its time arithmetic.
package task

import (
	"time"

	"github.com/rs/xid"

	"github.com/twiced-technology-gmbh/daytrack/internal/category"
	"github.com/twiced-technology-gmbh/daytrack/internal/day"
)

// TimerState is the state of a task's timer.
type TimerState string

// Timer states.
const (
	TimerIdle    TimerState = "idle"
	TimerRunning TimerState = "running"
)

// Task is a logged activity with a planned duration and tracked time.
type Task struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Category       category.Category `json:"category"`
	PlannedMinutes int               `json:"plannedMinutes"`
	TrackedMinutes int               `json:"trackedMinutes"`
	TimerState     TimerState        `json:"timerState"`
	TimerStartedAt *time.Time        `json:"timerStartedAt"`
	Completed      bool              `json:"completed"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt,omitempty"`
	CompletedAt    *time.Time        `json:"completedAt,omitempty"`
	Day            day.Day           `json:"day"`
}

// NewID returns a fresh opaque task identifier.
func NewID() string {
	return xid.New().String()
}

// New builds an idle, pending task created at now. Inputs are not validated;
// use Validate first.
func New(name string, cat category.Category, plannedMinutes int, now time.Time) *Task {
	return &Task{
		ID:             NewID(),
		Name:           name,
		Category:       cat,
		PlannedMinutes: plannedMinutes,
		TimerState:     TimerIdle,
		CreatedAt:      now,
		UpdatedAt:      now,
		Day:            day.Of(now),
	}
}

// Running reports whether the task's timer is running.
func (t *Task) Running() bool {
	return t.TimerState == TimerRunning
}

// ElapsedMinutes returns the whole minutes of the in-progress session at now,
// or 0 when the timer is idle. Clock skew never yields negative time.
func (t *Task) ElapsedMinutes(now time.Time) int {
	if !t.Running() || t.TimerStartedAt == nil {
		return 0
	}
	elapsed := now.Sub(*t.TimerStartedAt)
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed / time.Minute)
}

// EffectiveTrackedMinutes is tracked time plus the in-progress session.
func (t *Task) EffectiveTrackedMinutes(now time.Time) int {
	return t.TrackedMinutes + t.ElapsedMinutes(now)
}

// Progress returns effective tracked time as a fraction of planned time,
// clamped to [0, 1].
func (t *Task) Progress(now time.Time) float64 {
	if t.PlannedMinutes <= 0 {
		return 0
	}
	p := float64(t.EffectiveTrackedMinutes(now)) / float64(t.PlannedMinutes)
	if p > 1 {
		return 1
	}
	return p
}

// Status returns "running", "completed", or "pending".
func (t *Task) Status() string {
	switch {
	case t.Running():
		return "running"
	case t.Completed:
		return "completed"
	default:
		return "pending"
	}
}

// Clone returns a deep copy of t.
func (t *Task) Clone() *Task {
	c := *t
	if t.TimerStartedAt != nil {
		started := *t.TimerStartedAt
		c.TimerStartedAt = &started
	}
	if t.CompletedAt != nil {
		done := *t.CompletedAt
		c.CompletedAt = &done
	}
	return &c
}

// MarkCompleted sets or clears the completion flag and its timestamp.
func (t *Task) MarkCompleted(done bool, now time.Time) {
	t.Completed = done
	if done {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	t.UpdatedAt = now
}
