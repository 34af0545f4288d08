package tracker

import (
	"time"

	"github.com/twiced-technology-gmbh/daytrack/internal/stats"
	"github.com/twiced-technology-gmbh/daytrack/internal/task"
)

// Level is the severity of a Notification.
type Level string

// Notification levels.
const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a short message for the user.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier displays notifications.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) { f(n) }

// Snapshot is everything a display needs to draw the current state.
type Snapshot struct {
	Now    time.Time     `json:"now"`
	Filter string        `json:"filter"`
	Active string        `json:"active,omitempty"`
	Tasks  []*task.Task  `json:"tasks"`
	Today  stats.Summary `json:"today"`
}

// Renderer receives a Snapshot after every mutation and every tick.
type Renderer interface {
	Render(Snapshot)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Snapshot)

// Render calls f(s).
func (f RendererFunc) Render(s Snapshot) { f(s) }

type discard struct{}

func (discard) Notify(Notification) {}
func (discard) Render(Snapshot) {}
