// Package stats aggregates completed tasks into per-category hours for a day
// and derives the percentage breakdown shown by the dashboard.
//
// Hours come from each completed task's planned duration, not its tracked
// time.
package stats

import (
	"time"

	"github.com/twiced-technology-gmbh/daytrack/internal/category"
	"github.com/twiced-technology-gmbh/daytrack/internal/day"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
)

// CategoryHours maps every category to its hours. Maps built by this package
// always contain all categories.
type CategoryHours map[category.Category]float64

// Total sums all categories.
func (h CategoryHours) Total() float64 {
	var sum float64
	for _, v := range h {
		sum += v
	}
	return sum
}

// CategoryTotal is one category's hours, used where order matters.
type CategoryTotal struct {
	Category category.Category `json:"category"`
	Hours    float64           `json:"hours"`
}

// Ordered returns the hours in category enumeration order.
func (h CategoryHours) Ordered() []CategoryTotal {
	out := make([]CategoryTotal, 0, len(category.All()))
	for _, c := range category.All() {
		out = append(out, CategoryTotal{Category: c, Hours: h[c]})
	}
	return out
}

func emptyHours() CategoryHours {
	h := make(CategoryHours, len(category.All()))
	for _, c := range category.All() {
		h[c] = 0
	}
	return h
}

// DailyCategoryHours sums planned hours of the completed tasks scoped to d.
func DailyCategoryHours(tasks []*task.Task, d day.Day) CategoryHours {
	h := emptyHours()
	for _, t := range tasks {
		if !t.Completed || !t.Day.Equal(d) {
			continue
		}
		h[t.Category] += float64(t.PlannedMinutes) / 60 //nolint:mnd // minutes per hour
	}
	return h
}

// Share is one slice of the percentage breakdown.
type Share struct {
	Category category.Category `json:"category"`
	Hours    float64           `json:"hours"`
	Percent  float64           `json:"percent"`
}

// PercentageBreakdown returns each non-zero category's share of the total,
// in enumeration order. It is empty when the total is zero.
func PercentageBreakdown(h CategoryHours) []Share {
	total := h.Total()
	if total <= 0 {
		return nil
	}
	var out []Share
	for _, c := range category.All() {
		if h[c] <= 0 {
			continue
		}
		out = append(out, Share{Category: c, Hours: h[c], Percent: h[c] / total * 100}) //nolint:mnd // percent
	}
	return out
}

// Summary is the day overview rendered by the dashboard, stats and report.
type Summary struct {
	Day            day.Day         `json:"day"`
	TotalTasks     int             `json:"total_tasks"`
	Completed      int             `json:"completed"`
	Running        int             `json:"running"`
	Pending        int             `json:"pending"`
	PlannedHours   float64         `json:"planned_hours"`
	TrackedMinutes int             `json:"tracked_minutes"`
	CompletedHours float64         `json:"completed_hours"`
	Categories     []CategoryTotal `json:"categories"`
	Breakdown      []Share         `json:"breakdown"`
}

// Summarize computes the Summary of d. Tracked minutes include the live
// session of a running task at now.
func Summarize(tasks []*task.Task, d day.Day, now time.Time) Summary {
	hours := DailyCategoryHours(tasks, d)
	s := Summary{
		Day:            d,
		CompletedHours: hours.Total(),
		Categories:     hours.Ordered(),
		Breakdown:      PercentageBreakdown(hours),
	}
	if s.Breakdown == nil {
		s.Breakdown = []Share{}
	}

	var planned int
	for _, t := range tasks {
		if !t.Day.Equal(d) {
			continue
		}
		s.TotalTasks++
		planned += t.PlannedMinutes
		s.TrackedMinutes += t.EffectiveTrackedMinutes(now)
		switch t.Status() {
		case "running":
			s.Running++
		case "completed":
			s.Completed++
		default:
			s.Pending++
		}
	}
	s.PlannedHours = float64(planned) / 60 //nolint:mnd // minutes per hour
	return s
}

// DayRow is one day of a range report.
type DayRow struct {
	Day        day.Day         `json:"day"`
	Total      float64         `json:"total"`
	Categories []CategoryTotal `json:"categories"`
}

// RangeCategoryHours returns one row per day from from to to inclusive, in
// date order. An inverted range is empty.
func RangeCategoryHours(tasks []*task.Task, from, to day.Day) []DayRow {
	var rows []DayRow
	for d := from; !d.After(to.Time); d = d.AddDays(1) {
		h := DailyCategoryHours(tasks, d)
		rows = append(rows, DayRow{Day: d, Total: h.Total(), Categories: h.Ordered()})
	}
	return rows
}
