// Package filelock serializes load, mutate and save cycles of separate
// daytrack processes sharing one data directory.
package filelock

import (
	"errors"
	"os"
)

const lockFileMode = 0o600

// ErrBusy is returned by TryLock when another process holds the lock.
var ErrBusy = errors.New("data directory is locked by another daytrack process")

// Lock acquires an exclusive advisory lock on the file at path, creating
// it if needed. Other callers block until the returned unlock runs.
func Lock(path string) (unlock func() error, err error) {
	return acquire(path, lockFile)
}

// TryLock is Lock without waiting: it returns ErrBusy when the lock is held.
func TryLock(path string) (unlock func() error, err error) {
	return acquire(path, tryLockFile)
}

func acquire(path string, lock func(*os.File) error) (func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock file lives in the data dir
	if err != nil {
		return nil, err
	}
	if err := lock(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	return func() error {
		unlockErr := unlockFile(f)
		closeErr := f.Close()
		if unlockErr != nil {
			return unlockErr
		}
		return closeErr
	}, nil
}

// With runs fn while holding the lock at path. fn's error wins over an
// unlock error.
func With(path string, fn func() error) error {
	unlock, err := Lock(path)
	if err != nil {
		return err
	}
	return run(unlock, fn)
}

// TryWith runs fn only if the lock at path is free right now. It reports
// whether fn ran; a busy lock is not an error.
func TryWith(path string, fn func() error) (bool, error) {
	unlock, err := TryLock(path)
	if errors.Is(err, ErrBusy) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, run(unlock, fn)
}

func run(unlock func() error, fn func() error) error {
	fnErr := fn()
	unlockErr := unlock()
	if fnErr != nil {
		return fnErr
	}
	return unlockErr
}
