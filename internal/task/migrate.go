package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/daytrack/internal/category"
	"github.com/twiced-technology-gmbh/daytrack/internal/day"
)

// Record is the stored shape of a task. Every field except the name is
// optional so that records written by older versions, including exports of
// the browser dashboard, still decode.
type Record struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	PlannedMinutes *int       `json:"plannedMinutes"`
	TrackedMinutes *int       `json:"trackedMinutes"`
	TimerState     *string    `json:"timerState"`
	TimerStartedAt *time.Time `json:"timerStartedAt"`
	Completed      *bool      `json:"completed"`
	CreatedAt      *time.Time `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt"`
	CompletedAt    *time.Time `json:"completedAt"`
	Day            string     `json:"day"`

	// Browser dashboard fields.
	TotalMinutes   *int   `json:"totalMinutes"`
	Hours          *int   `json:"hours"`
	Minutes        *int   `json:"minutes"`
	IsTimerRunning *bool  `json:"isTimerRunning"`
	TimerStartTime *int64 `json:"timerStartTime"` // epoch milliseconds
	Date           string `json:"date"`
}

// ErrBadRecord is wrapped by Migrate when a record cannot be brought into a
// usable shape.
var ErrBadRecord = errors.New("malformed task record")

// Migrate normalizes a stored record into the current Task shape, filling
// every missing optional field with its default. now is used for fields that
// can only be derived from the current time (a missing creation time).
func Migrate(r Record, now time.Time) (*Task, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: missing name (id %q)", ErrBadRecord, r.ID)
	}

	cat := category.Category(strings.ToLower(strings.TrimSpace(r.Category)))
	if !cat.Valid() {
		return nil, fmt.Errorf("%w: %q has unknown category %q", ErrBadRecord, name, r.Category)
	}

	planned := plannedFromRecord(r)
	if planned <= 0 {
		return nil, fmt.Errorf("%w: %q has no planned duration", ErrBadRecord, name)
	}

	t := &Task{
		ID:             r.ID,
		Name:           name,
		Category:       cat,
		PlannedMinutes: planned,
		TimerState:     TimerIdle,
	}
	if t.ID == "" {
		t.ID = NewID()
	}

	if r.TrackedMinutes != nil && *r.TrackedMinutes > 0 {
		t.TrackedMinutes = *r.TrackedMinutes
	}
	if r.Completed != nil {
		t.Completed = *r.Completed
	}
	t.CompletedAt = r.CompletedAt

	running := false
	switch {
	case r.TimerState != nil:
		running = TimerState(*r.TimerState) == TimerRunning
	case r.IsTimerRunning != nil:
		running = *r.IsTimerRunning
	}
	if running {
		t.TimerState = TimerRunning
	}
	switch {
	case r.TimerStartedAt != nil:
		started := *r.TimerStartedAt
		t.TimerStartedAt = &started
	case r.TimerStartTime != nil:
		started := time.UnixMilli(*r.TimerStartTime)
		t.TimerStartedAt = &started
	}
	if !t.Running() {
		t.TimerStartedAt = nil
	}

	t.CreatedAt = now
	if r.CreatedAt != nil {
		t.CreatedAt = *r.CreatedAt
	}
	t.UpdatedAt = t.CreatedAt
	if r.UpdatedAt != nil {
		t.UpdatedAt = *r.UpdatedAt
	}

	t.Day = recordDay(r, t.CreatedAt)
	return t, nil
}

func plannedFromRecord(r Record) int {
	switch {
	case r.PlannedMinutes != nil:
		return *r.PlannedMinutes
	case r.TotalMinutes != nil:
		return *r.TotalMinutes
	case r.Hours != nil || r.Minutes != nil:
		var h, m int
		if r.Hours != nil {
			h = *r.Hours
		}
		if r.Minutes != nil {
			m = *r.Minutes
		}
		return h*60 + m //nolint:mnd // minutes per hour
	}
	return 0
}

func recordDay(r Record, created time.Time) day.Day {
	for _, s := range []string{r.Day, r.Date} {
		if s == "" {
			continue
		}
		if d, err := day.Parse(s); err == nil {
			return d
		}
	}
	return day.Of(created.Local())
}
