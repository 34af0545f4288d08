package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/daytrack/internal/activity"
	"github.com/twiced-technology-gmbh/daytrack/internal/filelock"
	"github.com/twiced-technology-gmbh/daytrack/internal/storage"
	"github.com/twiced-technology-gmbh/daytrack/internal/tui"
	"github.com/twiced-technology-gmbh/daytrack/internal/watcher"
)

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	kv, err := cfg.OpenStorage()
	if err != nil {
		return err
	}
	defer kv.Close()

	var model *tui.Dashboard
	err = filelock.With(cfg.LockPath(), func() error {
		var err error
		model, err = tui.New(tui.Options{
			KV:       kv,
			Logger:   activity.NewLogger(cfg.Dir(), nil),
			Interval: cfg.TickInterval(),
			Filter:   cfg.Dashboard.Filter,
			Quotes:   cfg.ShowQuotes(),
		})
		return err
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, cfg.Dir(), kv, p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return model.Controller().PersistErr()
}

func startTUIWatcher(ctx context.Context, dir string, kv storage.KV, p *tea.Program) {
	w, err := watcher.New(dir, watchFiles(kv), func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		return // non-fatal: the dashboard works without live refresh
	}
	defer w.Close()
	w.Run(ctx, nil)
}
