package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const defaultTasksFile = "tasks.json"

// FileKV stores each slot in its own file inside a directory.
type FileKV struct {
	dir   string
	files map[string]string
}

// NewFileKV returns a FileKV rooted at dir. tasksFile, when non-empty,
// replaces the default tasks.json name.
func NewFileKV(dir, tasksFile string) *FileKV {
	if tasksFile == "" {
		tasksFile = defaultTasksFile
	}
	return &FileKV{
		dir: dir,
		files: map[string]string{
			SlotTasks:       tasksFile,
			SlotTheme:       "theme",
			SlotTasksBackup: tasksFile + ".corrupt",
		},
	}
}

func (f *FileKV) slotPath(slot string) string {
	name, ok := f.files[slot]
	if !ok {
		name = slot
	}
	return filepath.Join(f.dir, name)
}

// Get reads a slot file.
func (f *FileKV) Get(slot string) ([]byte, error) {
	data, err := os.ReadFile(f.slotPath(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSlot
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", slot, err)
	}
	return data, nil
}

// Put writes a slot file atomically via a temp file and rename.
func (f *FileKV) Put(slot string, value []byte) error {
	path := f.slotPath(slot)
	tmp, err := os.CreateTemp(f.dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("writing slot %s: %w", slot, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing slot %s: %w", slot, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing slot %s: %w", slot, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing slot %s: %w", slot, err)
	}
	return nil
}

// Path returns the tasks file path.
func (f *FileKV) Path() string {
	return f.slotPath(SlotTasks)
}

// Close is a no-op.
func (f *FileKV) Close() error { return nil }
