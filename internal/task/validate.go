package task

import (
	"strings"

	"github.com/twiced-technology-gmbh/daytrack/internal/category"
	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
)

// Input is the user-editable part of a task.
type Input struct {
	Name     string
	Category string
	Hours    int
	Minutes  int
}

// Fields is a validated Input.
type Fields struct {
	Name           string
	Category       category.Category
	PlannedMinutes int
}

// Validate checks user input and returns the normalized fields. Errors are
// INVALID_INPUT, INVALID_CATEGORY or INVALID_DURATION.
func Validate(in Input) (Fields, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Fields{}, clierr.New(clierr.InvalidInput, "task name is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return Fields{}, clierr.New(clierr.InvalidCategory, "category is required").
			WithDetails(map[string]any{"allowed": category.Names()})
	}
	cat, err := category.Parse(in.Category)
	if err != nil {
		return Fields{}, err
	}
	planned, err := PlannedMinutes(in.Hours, in.Minutes)
	if err != nil {
		return Fields{}, err
	}
	return Fields{Name: name, Category: cat, PlannedMinutes: planned}, nil
}

// PlannedMinutes combines hours and minutes, rejecting negative or zero
// durations.
func PlannedMinutes(hours, minutes int) (int, error) {
	if hours < 0 || minutes < 0 {
		return 0, clierr.Newf(clierr.InvalidDuration,
			"duration cannot be negative (%dh %dm)", hours, minutes).
			WithDetails(map[string]any{"hours": hours, "minutes": minutes})
	}
	total := hours*60 + minutes //nolint:mnd // minutes per hour
	if total == 0 {
		return 0, clierr.New(clierr.InvalidDuration, "please enter a duration").
			WithDetails(map[string]any{"hours": hours, "minutes": minutes})
	}
	return total, nil
}

// ValidateID returns a CLIError for malformed task ID input.
func ValidateID(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q", input).
		WithDetails(map[string]any{"input": input})
}

// NotFound returns the CLIError for a task id that does not exist.
func NotFound(id string) *clierr.Error {
	return clierr.Newf(clierr.TaskNotFound, "task not found: %s", id).
		WithDetails(map[string]any{"id": id})
}

// AlreadyCompleted returns the CLIError for starting a completed task.
func AlreadyCompleted(t *Task) *clierr.Error {
	return clierr.Newf(clierr.AlreadyCompleted,
		"task %q is completed; mark it pending before starting a timer", t.Name).
		WithDetails(map[string]any{"id": t.ID})
}
