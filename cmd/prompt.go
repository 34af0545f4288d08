package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
	"github.com/twiced-technology-gmbh/daytrack/internal/day"
)

// confirm asks a yes/no question. Tests replace it.
var confirm = promptYesNo

// promptYesNo asks on the terminal. Without a terminal it fails with
// CONFIRMATION_REQUIRED so scripts must pass --yes.
func promptYesNo(question string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, clierr.New(clierr.ConfirmationReq,
			"cannot prompt for confirmation (not a terminal); use --yes")
	}
	fmt.Fprintf(os.Stderr, "%s [y/N] ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(os.Stderr, "Canceled.")
		return false, nil
	}
	return true, nil
}

// parseDay reads a --day flag: empty or "today", "yesterday", or YYYY-MM-DD.
func parseDay(s string, now time.Time) (day.Day, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return day.Of(now), nil
	case "yesterday":
		return day.Of(now).AddDays(-1), nil
	}
	d, err := day.Parse(s)
	if err != nil {
		return day.Day{}, clierr.New(clierr.InvalidDate, err.Error()).
			WithDetails(map[string]any{"day": s})
	}
	return d, nil
}
