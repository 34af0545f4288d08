package store

import (
	"sort"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/daytrack/internal/category"
	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
	"github.com/twiced-technology-gmbh/daytrack/internal/day"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
)

// Query narrows a task list beyond the completion filter. Zero fields do
// not filter.
type Query struct {
	Day        *day.Day
	Categories []category.Category
	Search     string // case-insensitive substring of the name
	Running    bool   // only the running task
}

// Match returns the tasks matching every criterion of q (AND logic).
func Match(tasks []*task.Task, q Query) []*task.Task {
	var out []*task.Task
	for _, t := range tasks {
		if q.matches(t) {
			out = append(out, t)
		}
	}
	return out
}

func (q Query) matches(t *task.Task) bool {
	if q.Day != nil && !t.Day.Equal(*q.Day) {
		return false
	}
	if len(q.Categories) > 0 && !containsCategory(q.Categories, t.Category) {
		return false
	}
	if q.Search != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(q.Search)) {
		return false
	}
	if q.Running && !t.Running() {
		return false
	}
	return true
}

func containsCategory(cats []category.Category, c category.Category) bool {
	for _, x := range cats {
		if x == c {
			return true
		}
	}
	return false
}

// Sort fields accepted by Sort.
const (
	SortCreated  = "created"
	SortName     = "name"
	SortCategory = "category"
	SortPlanned  = "planned"
	SortProgress = "progress"
)

// SortFields lists the accepted sort fields.
func SortFields() []string {
	return []string{SortCreated, SortName, SortCategory, SortPlanned, SortProgress}
}

// Sort orders tasks by field, ascending unless reverse. Categories sort in
// enumeration order and progress is measured at now.
func Sort(tasks []*task.Task, field string, reverse bool, now time.Time) error {
	if !validSortField(field) {
		return clierr.Newf(clierr.InvalidInput, "invalid sort field %q; valid: %s",
			field, strings.Join(SortFields(), ", "))
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if reverse {
			return compareTasks(tasks[j], tasks[i], field, now)
		}
		return compareTasks(tasks[i], tasks[j], field, now)
	})
	return nil
}

func validSortField(field string) bool {
	for _, f := range SortFields() {
		if f == field {
			return true
		}
	}
	return false
}

func compareTasks(a, b *task.Task, field string, now time.Time) bool {
	switch field {
	case SortName:
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	case SortCategory:
		return a.Category.Index() < b.Category.Index()
	case SortPlanned:
		return a.PlannedMinutes < b.PlannedMinutes
	case SortProgress:
		return a.Progress(now) < b.Progress(now)
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}
