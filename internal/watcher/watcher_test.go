package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherDebouncesRelevantFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	fired := make(chan struct{}, 10)

	w, err := New(dir, []string{"tasks.json"}, func() { fired <- struct{}{} })
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, nil)

	if err := os.WriteFile(filepath.Join(dir, "activity.jsonl"), []byte("{}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(filepath.Join(dir, "tasks.json"), []byte("[]"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("callback not invoked")
	}
	select {
	case <-fired:
		t.Error("burst of writes should fire once")
	case <-time.After(3 * debounceDelay):
	}
}
