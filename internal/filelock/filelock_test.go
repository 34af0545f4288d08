package filelock

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

func TestWithSerializes(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".lock")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := With(path, func() error {
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			if err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if maxSeen != 1 {
		t.Errorf("max concurrent holders = %d, want 1", maxSeen)
	}
}

func TestWithReturnsFnError(t *testing.T) {
	t.Parallel()
	want := errors.New("boom")
	if err := With(filepath.Join(t.TempDir(), ".lock"), func() error { return want }); !errors.Is(err, want) {
		t.Errorf("err = %v", err)
	}
}

func TestLockMissingDir(t *testing.T) {
	t.Parallel()
	if _, err := Lock(filepath.Join(t.TempDir(), "nope", ".lock")); err == nil {
		t.Error("expected error")
	}
}

func TestTryWithSkipsWhileHeld(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".lock")

	unlock, err := Lock(path)
	if err != nil {
		t.Fatal(err)
	}
	ran, err := TryWith(path, func() error { return nil })
	if err != nil || ran {
		t.Fatalf("TryWith while held: ran=%v err=%v", ran, err)
	}
	if _, err := TryLock(path); !errors.Is(err, ErrBusy) {
		t.Errorf("TryLock while held = %v, want ErrBusy", err)
	}

	if err := unlock(); err != nil {
		t.Fatal(err)
	}
	ran, err = TryWith(path, func() error { return nil })
	if err != nil || !ran {
		t.Errorf("TryWith after unlock: ran=%v err=%v", ran, err)
	}
}
