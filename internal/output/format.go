package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minutesPerHour = 60

// FormatMinutes renders minutes as "45m", "2h" or "1h 30m".
func FormatMinutes(total int) string {
	h, m := total/minutesPerHour, total%minutesPerHour
	switch {
	case h == 0:
		return strconv.Itoa(m) + "m"
	case m == 0:
		return strconv.Itoa(h) + "h"
	default:
		return strconv.Itoa(h) + "h " + strconv.Itoa(m) + "m"
	}
}

// FormatHours renders fractional hours: "0h", "30m" below an hour, else one
// decimal place.
func FormatHours(hours float64) string {
	switch {
	case hours == 0:
		return "0h"
	case hours < 1:
		return strconv.Itoa(int(hours*minutesPerHour+0.5)) + "m"
	default:
		return strconv.FormatFloat(hours, 'f', 1, 64) + "h"
	}
}

// TimeAgo renders how long ago t was, relative to now.
func TimeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour") + " ago"
	default:
		return plural(int(d/(24*time.Hour)), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Bar renders a fixed-width progress bar for a fraction in [0, 1].
func Bar(fraction float64, width int) (filled, empty string) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	n := int(fraction*float64(width) + 0.5)
	return strings.Repeat("█", n), strings.Repeat("░", width-n)
}

// ShortID returns the first characters of an id for display.
func ShortID(id string) string {
	const n = 8
	if len(id) <= n {
		return id
	}
	return id[:n]
}
