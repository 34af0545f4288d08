//go:build windows

package filelock

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/windows"
)

const (
	exclusiveLock   = 0x00000002
	failImmediately = 0x00000001
	retryInterval   = 5 * time.Millisecond
)

// lockFile polls tryLockFile. A blocking LockFileEx would pin the OS thread
// while another daytrack process holds the data directory.
func lockFile(f *os.File) error {
	for {
		err := tryLockFile(f)
		if !errors.Is(err, ErrBusy) {
			return err
		}
		time.Sleep(retryInterval)
	}
}

func tryLockFile(f *os.File) error {
	err := windows.LockFileEx(windows.Handle(f.Fd()), exclusiveLock|failImmediately, 0, 1, 0, new(windows.Overlapped))
	if errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
		return ErrBusy
	}
	return err
}

func unlockFile(f *os.File) error {
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, 1, 0, new(windows.Overlapped))
}
