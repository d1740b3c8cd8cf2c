package focus

import (
	"fmt"
	"time"
)

// Mode is the kind of countdown the timer is running.
type Mode string

const (
	ModeFocus      Mode = "focus"
	ModeShortBreak Mode = "shortBreak"
	ModeLongBreak  Mode = "longBreak"
)

var Modes = []Mode{ModeFocus, ModeShortBreak, ModeLongBreak}

func (m Mode) Valid() bool {
	switch m {
	case ModeFocus, ModeShortBreak, ModeLongBreak:
		return true
	}
	return false
}

// Label is the human readable name of the mode.
func (m Mode) Label() string {
	switch m {
	case ModeShortBreak:
		return "Short Break"
	case ModeLongBreak:
		return "Long Break"
	default:
		return "Focus"
	}
}

// Status is the run state of the timer, independent of its mode.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityNormal || p == PriorityHigh
}

func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q (want normal or high)", s)
	}
	return p, nil
}

type SoundOption string

const (
	SoundBell         SoundOption = "bell"
	SoundChime        SoundOption = "chime"
	SoundNotification SoundOption = "notification"
)

var SoundOptions = []SoundOption{SoundBell, SoundChime, SoundNotification}

func (o SoundOption) Valid() bool {
	switch o {
	case SoundBell, SoundChime, SoundNotification:
		return true
	}
	return false
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggled returns the other theme.
func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Priority    Priority   `json:"priority"`
}

func (t Task) clone() Task {
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		t.CompletedAt = &at
	}
	return t
}

// TaskPatch carries the fields an edit changes; nil fields are left alone.
type TaskPatch struct {
	Title    *string
	Priority *Priority
}

// DailyStat holds the counters of one calendar day.
type DailyStat struct {
	Date               string `json:"date"` // YYYY-MM-DD
	FocusMinutes       int    `json:"focusMinutes"`
	TasksCompleted     int    `json:"tasksCompleted"`
	PomodorosCompleted int    `json:"pomodorosCompleted"`
}

// Session is one entry of the completed-session log.
type Session struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	FocusMinutes int       `json:"focusMinutes"`
	BreakMinutes int       `json:"breakMinutes"`
	Completed    bool      `json:"completed"`
}

// Completion describes a phase that a tick drove to zero.
type Completion struct {
	Mode        Mode // the phase that finished
	Next        Mode // the phase the timer switched to
	AutoStarted bool
	Session     *Session // set when a focus phase finished
	At          time.Time
}
