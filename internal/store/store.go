// Package store holds the ordered task collection and moves it in and out of
// the tasks slot of a storage.KV.
package store

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
	"github.com/twiced-technology-gmbh/daytrack/internal/storage"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
)

// Store is the in-memory, insertion-ordered list of tasks. It is not safe
// for concurrent use.
type Store struct {
	tasks []*task.Task
}

// New returns a store holding tasks in the given order.
func New(tasks ...*task.Task) *Store {
	return &Store{tasks: tasks}
}

// All returns the tasks in store order. The slice is a copy; the tasks are not.
func (s *Store) All() []*task.Task {
	out := make([]*task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int { return len(s.tasks) }

// Get returns the task with id.
func (s *Store) Get(id string) (*task.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// Insert appends t.
func (s *Store) Insert(t *task.Task) {
	s.tasks = append(s.tasks, t)
}

// Remove deletes the task with id and reports whether it existed.
func (s *Store) Remove(id string) bool {
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops every task.
func (s *Store) Clear() {
	s.tasks = nil
}

// Running returns the tasks whose timer is running, in store order.
func (s *Store) Running() []*task.Task {
	var out []*task.Task
	for _, t := range s.tasks {
		if t.Running() {
			out = append(out, t)
		}
	}
	return out
}

// Resolve finds a task by exact id or unique id prefix.
func (s *Store) Resolve(ref string) (*task.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, task.ValidateID(ref)
	}
	if t, ok := s.Get(ref); ok {
		return t, nil
	}
	var matches []*task.Task
	for _, t := range s.tasks {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return nil, task.NotFound(ref)
	case 1:
		return matches[0], nil
	}
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	return nil, clierr.Newf(clierr.AmbiguousTaskID, "task id %q matches %d tasks", ref, len(matches)).
		WithDetails(map[string]any{"input": ref, "matches": ids})
}

// Filter values for Filtered.
const (
	FilterAll       = "all"
	FilterPending   = "pending"
	FilterCompleted = "completed"
)

// Filters lists the accepted filter names.
func Filters() []string {
	return []string{FilterAll, FilterPending, FilterCompleted}
}

// Filtered returns the tasks matching filter, newest first.
func (s *Store) Filtered(filter string) ([]*task.Task, error) {
	var out []*task.Task
	for _, t := range s.tasks {
		switch filter {
		case "", FilterAll:
		case FilterPending:
			if t.Completed {
				continue
			}
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		default:
			return nil, clierr.Newf(clierr.InvalidFilter, "invalid filter %q", filter).
				WithDetails(map[string]any{"allowed": Filters()})
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Load reads the tasks slot and migrates every record. A missing slot yields
// an empty store. Records that cannot be decoded or migrated are dropped,
// and a slot that is not a JSON array resets to empty; both are reported as
// warnings rather than errors. Before anything is dropped the original bytes
// are copied to the tasks backup slot. A failing read, or a failing backup,
// returns an error so that damaged data is never overwritten.
func Load(kv storage.KV, now time.Time) (*Store, []error, error) {
	data, err := kv.Get(storage.SlotTasks)
	if errors.Is(err, storage.ErrNoSlot) {
		return New(), nil, nil
	}
	if err != nil {
		return nil, nil, clierr.Wrap(clierr.PersistenceError, err, "loading tasks")
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return New(), nil, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		if err := backup(kv, data); err != nil {
			return nil, nil, err
		}
		return New(), []error{clierr.Wrap(clierr.CorruptState, err,
			"saved tasks are unreadable, starting empty (copy kept in %s slot)", storage.SlotTasksBackup)}, nil
	}

	var warnings []error
	s := New()
	seen := make(map[string]bool, len(raw))
	for i, msg := range raw {
		var r task.Record
		if err := json.Unmarshal(msg, &r); err != nil {
			warnings = append(warnings, clierr.Wrap(clierr.CorruptState, err, "dropped saved task #%d", i+1))
			continue
		}
		t, err := task.Migrate(r, now)
		if err != nil {
			warnings = append(warnings, clierr.Wrap(clierr.CorruptState, err, "dropped saved task"))
			continue
		}
		if seen[t.ID] {
			warnings = append(warnings, clierr.Newf(clierr.CorruptState,
				"dropped saved task %q: duplicate id %s", t.Name, t.ID))
			continue
		}
		seen[t.ID] = true
		s.Insert(t)
	}
	if len(warnings) > 0 {
		if err := backup(kv, data); err != nil {
			return nil, nil, err
		}
	}
	return s, warnings, nil
}

func backup(kv storage.KV, data []byte) error {
	if err := kv.Put(storage.SlotTasksBackup, data); err != nil {
		return clierr.Wrap(clierr.PersistenceError, err, "saved tasks are damaged and could not be backed up")
	}
	return nil
}

// Save writes every task to the tasks slot.
func Save(kv storage.KV, s *Store) error {
	tasks := s.tasks
	if tasks == nil {
		tasks = []*task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return clierr.Wrap(clierr.PersistenceError, err, "encoding tasks")
	}
	if err := kv.Put(storage.SlotTasks, data); err != nil {
		return clierr.Wrap(clierr.PersistenceError, err, "saving tasks to %s", kv.Path())
	}
	return nil
}
