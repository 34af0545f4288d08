// Package day provides a calendar-day value that marshals as YYYY-MM-DD.
package day

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const format = "2006-01-02"

// legacyFormat is the "Tue Oct 15 2026" form written by the browser dashboard.
const legacyFormat = "Mon Jan 02 2006"

// Day is a calendar day in local time. The zero value is "no day".
type Day struct {
	time.Time
}

// New creates a Day from year, month, day.
func New(year int, month time.Month, d int) Day {
	return Day{time.Date(year, month, d, 0, 0, 0, 0, time.Local)}
}

// Of returns the calendar day containing t, in t's location.
func Of(t time.Time) Day {
	return Day{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())}
}

// Today returns today's date.
func Today() Day {
	return Of(time.Now())
}

// Parse parses a YYYY-MM-DD string into a Day. The legacy "Mon Jan 02 2006"
// form is accepted so older saved records load unchanged.
func Parse(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(format, s, time.Local); err == nil {
		return Day{t}, nil
	}
	if t, err := time.ParseInLocation(legacyFormat, s, time.Local); err == nil {
		return Day{t}, nil
	}
	return Day{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
}

// String returns the day as YYYY-MM-DD, or "" for the zero Day.
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(format)
}

// Equal reports whether d and o are the same calendar day.
func (d Day) Equal(o Day) bool {
	return d.Year() == o.Year() && d.Month() == o.Month() && d.Time.Day() == o.Time.Day()
}

// AddDays returns the day n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return Day{d.AddDate(0, 0, n)}
}

// MarshalJSON implements json.Marshaler.
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler. An empty string decodes to the
// zero Day.
func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Day{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
