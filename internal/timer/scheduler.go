package timer

import (
	"sort"
	"time"
)

// Cancel stops a scheduled callback. Calling it more than once is safe.
type Cancel func()

// Scheduler runs fire every interval until cancelled.
type Scheduler interface {
	Schedule(interval time.Duration, fire func()) Cancel
}

type pulseEntry struct {
	interval time.Duration
	due      time.Time
	fire     func()
}

// PulseScheduler is a Scheduler driven by its host: callbacks only run from
// Pulse, so they execute on whatever goroutine owns the host loop.
type PulseScheduler struct {
	now     func() time.Time
	entries map[int]*pulseEntry
	nextID  int
}

// NewPulseScheduler returns a scheduler that computes due times with now.
func NewPulseScheduler(now func() time.Time) *PulseScheduler {
	return &PulseScheduler{now: now, entries: make(map[int]*pulseEntry)}
}

// Schedule registers fire to run every interval, first at now+interval.
func (p *PulseScheduler) Schedule(interval time.Duration, fire func()) Cancel {
	id := p.nextID
	p.nextID++
	p.entries[id] = &pulseEntry{interval: interval, due: p.now().Add(interval), fire: fire}
	return func() { delete(p.entries, id) }
}

// Pulse fires every callback due at or before now. A late pulse fires each
// callback once, not once per missed interval.
func (p *PulseScheduler) Pulse(now time.Time) int {
	ids := make([]int, 0, len(p.entries))
	for id, e := range p.entries {
		if !e.due.After(now) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	fired := 0
	for _, id := range ids {
		e, ok := p.entries[id]
		if !ok {
			continue // cancelled by an earlier callback
		}
		e.due = now.Add(e.interval)
		e.fire()
		fired++
	}
	return fired
}

// Pending returns the number of scheduled callbacks.
func (p *PulseScheduler) Pending() int { return len(p.entries) }
