// Package testutil holds fakes shared by package tests.
package testutil

import (
	"errors"
	"time"

	"github.com/twiced-technology-gmbh/daytrack/internal/storage"
)

// Clock is a manually advanced clock.
type Clock struct {
	t time.Time
}

// NewClock returns a clock frozen at t.
func NewClock(t time.Time) *Clock { return &Clock{t: t} }

// Now returns the current fake time.
func (c *Clock) Now() time.Time { return c.t }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) { c.t = t }

// ErrWrite is returned by MemKV.Put while FailWrites is set.
var ErrWrite = errors.New("disk full")

// MemKV is an in-memory storage.KV.
type MemKV struct {
	Slots      map[string][]byte
	Puts       int
	FailWrites bool
}

// NewMemKV returns an empty MemKV.
func NewMemKV() *MemKV {
	return &MemKV{Slots: map[string][]byte{}}
}

// Get implements storage.KV.
func (m *MemKV) Get(slot string) ([]byte, error) {
	v, ok := m.Slots[slot]
	if !ok {
		return nil, storage.ErrNoSlot
	}
	return v, nil
}

// Put implements storage.KV.
func (m *MemKV) Put(slot string, value []byte) error {
	if m.FailWrites {
		return ErrWrite
	}
	m.Puts++
	m.Slots[slot] = append([]byte(nil), value...)
	return nil
}

// Path implements storage.KV.
func (m *MemKV) Path() string { return "memory" }

// Close implements storage.KV.
func (m *MemKV) Close() error { return nil }
