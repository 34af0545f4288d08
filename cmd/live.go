package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/twiced-technology-gmbh/daytrack/internal/filelock"
	"github.com/twiced-technology-gmbh/daytrack/internal/storage"
	"github.com/twiced-technology-gmbh/daytrack/internal/watcher"
)

// watchFiles returns the base names of the files holding kv's slots.
func watchFiles(kv storage.KV) []string {
	return []string{filepath.Base(kv.Path()), storage.SlotTheme}
}

// liveLoop ticks the session's tracker until ctx is done or step returns
// false. Changes written by other processes are picked up through the
// watcher. Every tick and reload holds the data directory lock. A tick that
// finds the lock busy is skipped.
func liveLoop(ctx context.Context, s *session, step func() bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reload := make(chan struct{}, 1)
	w, err := watcher.New(s.cfg.Dir(), watchFiles(s.kv), func() {
		select {
		case reload <- struct{}{}:
		default:
		}
	})
	if err == nil {
		defer w.Close()
		go w.Run(ctx, func(err error) {
			fmt.Fprintln(os.Stderr, "Warning: watching data directory:", err)
		})
	}

	ticker := time.NewTicker(s.cfg.TickInterval())
	defer ticker.Stop()

	if !step() {
		return nil
	}
	for {
		var err error
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			var ticked bool
			ticked, err = filelock.TryWith(s.cfg.LockPath(), func() error {
				s.ctl.Tick()
				return nil
			})
			if err == nil && !ticked {
				continue
			}
		case <-reload:
			err = filelock.With(s.cfg.LockPath(), s.ctl.Reload)
		}
		if err != nil {
			return err
		}
		if !step() {
			return nil
		}
	}
}
