package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
	"github.com/twiced-technology-gmbh/daytrack/internal/filelock"
	"github.com/twiced-technology-gmbh/daytrack/internal/output"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
	"github.com/twiced-technology-gmbh/daytrack/internal/timer"
)

var startCmd = &cobra.Command{
	Use:   "start ID",
	Short: "Start the timer of a task",
	Long: `Starts the timer of a task, stopping whichever timer was running before.
With --follow the command stays in the foreground and shows the live progress
until the task stops or is completed; Ctrl+C detaches and leaves the timer running.`,
	Args: cobra.ExactArgs(1),
	RunE: runStart,
}

var stopCmd = &cobra.Command{
	Use:   "stop [ID]",
	Short: "Stop the running timer",
	Long:  `Stops the timer of the given task, or of the running task when no ID is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStop,
}

func init() {
	startCmd.Flags().BoolP("follow", "f", false, "stay in the foreground and show live progress")
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	var started *task.Task
	err := withSession(func(s *session) error {
		t, err := s.ctl.Resolve(args[0])
		if err != nil {
			return err
		}
		started, err = s.ctl.Start(t.ID)
		return err
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, started); err != nil {
			return err
		}
	} else {
		output.Messagef(os.Stdout, "Timer started for %s: %s", output.ShortID(started.ID), started.Name)
	}

	follow, _ := cmd.Flags().GetBool("follow")
	if !follow {
		return nil
	}
	return followTask(started.ID)
}

// followTask prints the live progress of id until its timer stops or the
// user interrupts.
func followTask(id string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	var s *session
	err = filelock.With(cfg.LockPath(), func() error {
		var err error
		s, err = openSession(cfg, true)
		return err
	})
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var last *task.Task
	err = liveLoop(ctx, s, func() bool {
		t, err := s.ctl.Resolve(id)
		if err != nil {
			return false
		}
		last = t
		if !t.Running() {
			return false
		}
		now := time.Now()
		filled, empty := output.Bar(t.Progress(now), 24) //nolint:mnd // bar width
		fmt.Fprintf(os.Stderr, "\r⏱  %s  %s%s  %s / %s ",
			t.Name, filled, empty,
			output.FormatMinutes(t.EffectiveTrackedMinutes(now)), output.FormatMinutes(t.PlannedMinutes))
		return true
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	switch {
	case last == nil:
		fmt.Fprintln(os.Stderr, "Task was deleted.")
	case last.Running():
		fmt.Fprintln(os.Stderr, "Detached; the timer keeps running. Stop it with 'daytrack stop'.")
	case last.Completed:
		fmt.Fprintf(os.Stderr, "Task %q completed.\n", last.Name)
	default:
		fmt.Fprintf(os.Stderr, "Timer stopped for %q.\n", last.Name)
	}
	return s.ctl.PersistErr()
}

func runStop(_ *cobra.Command, args []string) error {
	var res timer.StopResult
	err := withSession(func(s *session) error {
		id := s.ctl.Active()
		if len(args) == 1 {
			t, err := s.ctl.Resolve(args[0])
			if err != nil {
				return err
			}
			id = t.ID
		}
		if id == "" {
			return clierr.New(clierr.TaskNotFound, "no timer is running")
		}
		var err error
		res, err = s.ctl.Stop(id)
		return err
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, res)
	}
	t := res.Task
	switch {
	case !res.WasRunning:
		output.Messagef(os.Stdout, "Timer for %s was not running", t.Name)
	case res.Completed:
		output.Messagef(os.Stdout, "Task %s completed: %s (%s tracked)",
			output.ShortID(t.ID), t.Name, output.FormatMinutes(t.TrackedMinutes))
	default:
		output.Messagef(os.Stdout, "Timer stopped for %s: %s (+%s, %s / %s)",
			output.ShortID(t.ID), t.Name, output.FormatMinutes(res.Added),
			output.FormatMinutes(t.TrackedMinutes), output.FormatMinutes(t.PlannedMinutes))
	}
	return nil
}
