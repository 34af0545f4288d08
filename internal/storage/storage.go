// Package storage is the persistence boundary: a small durable key-value
// store addressed by named slots.
package storage

import (
	"errors"
	"fmt"
)

// Slot names.
const (
	SlotTasks = "tasks"
	SlotTheme = "theme"

	// SlotTasksBackup keeps the last tasks slot that failed to load cleanly.
	SlotTasksBackup = "tasks.corrupt"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrNoSlot is returned by Get when a slot has never been written.
var ErrNoSlot = errors.New("slot not found")

// KV is a durable key-value store of named slots.
type KV interface {
	Get(slot string) ([]byte, error)
	Put(slot string, value []byte) error
	// Path is the file or database backing the store, for display.
	Path() string
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	// File overrides the default file name of the backend (tasks file for
	// the file backend, database file for sqlite). Relative to the data dir.
	File string
}

// Open opens the backend named in opts rooted at dir.
func Open(dir string, opts Options) (KV, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileKV(dir, opts.File), nil
	case BackendSQLite:
		return OpenSQLite(dir, opts.File)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
