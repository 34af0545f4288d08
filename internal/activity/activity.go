// Package activity keeps the append-only activity log of task mutations.
package activity

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	logFileName   = "activity.jsonl"
	logFileMode   = 0o600
	maxLogEntries = 10000 // truncate oldest entries when log exceeds this size
)

// Entry is a single activity log line.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	TaskID    string    `json:"task_id,omitempty"`
	Detail    string    `json:"detail"`
}

// Path returns the log file path inside dir.
func Path(dir string) string {
	return filepath.Join(dir, logFileName)
}

// Append writes entry to the log in dir, truncating the oldest entries once
// the log grows past maxLogEntries.
func Append(dir string, entry Entry) error {
	path := Path(dir)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode) //nolint:gosec // log path from trusted data dir
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling log entry: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing log entry: %w", err)
	}

	_ = truncateIfNeeded(path)
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // trusted path
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func truncateIfNeeded(path string) error {
	lines, err := readLines(path)
	if err != nil {
		return err
	}
	if len(lines) <= maxLogEntries {
		return nil
	}
	lines = lines[len(lines)-maxLogEntries:]

	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(buf.String()), logFileMode)
}

// Read returns up to limit of the most recent entries, oldest first. A
// missing log is empty. Lines that do not decode are skipped. limit <= 0
// returns everything.
func Read(dir string, limit int) ([]Entry, error) {
	lines, err := readLines(Path(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading activity log: %w", err)
	}
	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}

	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		var e Entry
		if json.Unmarshal([]byte(line), &e) == nil {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// Logger records mutations under a data directory. The zero Logger, or one
// with an empty dir, records nothing.
type Logger struct {
	dir string
	now func() time.Time
}

// NewLogger returns a Logger writing to dir.
func NewLogger(dir string, now func() time.Time) *Logger {
	if now == nil {
		now = time.Now
	}
	return &Logger{dir: dir, now: now}
}

// Record appends an entry. Errors are discarded because logging should
// never fail a command.
func (l *Logger) Record(action, taskID, detail string) {
	if l == nil || l.dir == "" {
		return
	}
	_ = Append(l.dir, Entry{
		Timestamp: l.now(),
		Action:    action,
		TaskID:    taskID,
		Detail:    detail,
	})
}
