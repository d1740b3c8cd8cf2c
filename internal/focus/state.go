// Package focus holds the pomodoro timer, the task list and the statistics
// aggregate, tied together by State.
//
// State is a plain value owned by one caller; it does no locking and no I/O.
// internal/app wraps it with a mutex and persistence.
package focus

import (
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/focusbuddy/internal/daterange"
)

// State is the whole application state.
type State struct {
	Settings Settings
	Theme    Theme
	Timer    Timer
	Tasks    *TaskList
	Stats    *Stats
}

// NewState returns the state of a fresh install.
func NewState() *State {
	s := DefaultSettings()
	return &State{
		Settings: s,
		Theme:    ThemeLight,
		Timer:    NewTimer(s),
		Tasks:    NewTaskList(),
		Stats:    NewStats(),
	}
}

func (s *State) Start() { s.Timer.Start() }

func (s *State) Pause() { s.Timer.Pause() }

func (s *State) Reset() { s.Timer.Reset(s.Settings) }

func (s *State) SwitchMode(m Mode) { s.Timer.SwitchMode(m, s.Settings) }

// Tick advances a running timer by one second. When the countdown reaches
// zero the completion is recorded and the timer switches to the next phase
// (and starts it if the matching auto-start setting is on) before Tick
// returns, so no caller ever observes a stale zero.
func (s *State) Tick(now time.Time) (Completion, bool) {
	if !s.Timer.countdown() {
		return Completion{}, false
	}

	c := Completion{Mode: s.Timer.Mode, At: now}
	autoStart := s.Settings.AutoStartPomodoros
	next := ModeFocus

	if s.Timer.Mode == ModeFocus {
		session := s.Timer.CurrentSession
		s.recordPomodoroCompletion(now)

		rec := Session{
			ID:           uuid.New().String(),
			Date:         now,
			FocusMinutes: s.Settings.FocusDuration,
			Completed:    true,
		}
		s.Stats.addSession(rec)
		c.Session = &rec

		interval := s.Settings.LongBreakInterval
		if interval < 1 {
			interval = DefaultSettings().LongBreakInterval
		}
		next = ModeShortBreak
		if session%interval == 0 {
			next = ModeLongBreak
		}
		autoStart = s.Settings.AutoStartBreaks
	}

	s.Timer.SwitchMode(next, s.Settings)
	if autoStart {
		s.Timer.Start()
	}
	c.Next = next
	c.AutoStarted = autoStart
	return c, true
}

func (s *State) recordPomodoroCompletion(now time.Time) {
	s.Stats.RecordPomodoroCompletion(now, s.Settings.FocusDuration)
	s.Timer.CurrentSession++
}

// AddTask creates an open task.
func (s *State) AddTask(title string, priority Priority, now time.Time) Task {
	return s.Tasks.Add(title, priority, now)
}

// ToggleTask flips a task and credits today's statistics when it becomes
// completed. Reopening a task does not remove the credit.
func (s *State) ToggleTask(id string, now time.Time) (Task, error) {
	t, completedNow, err := s.Tasks.Toggle(id, now)
	if err != nil {
		return Task{}, err
	}
	if completedNow {
		s.Stats.RecordTaskCompletion(now)
	}
	return t, nil
}

func (s *State) DeleteTask(id string) error { return s.Tasks.Delete(id) }

func (s *State) EditTask(id string, p TaskPatch) (Task, error) { return s.Tasks.Edit(id, p) }

// StatsForPeriod answers a range query against now.
func (s *State) StatsForPeriod(p daterange.Period, now time.Time) PeriodStats {
	return s.Stats.ForPeriod(p, now)
}

func (s *State) ClearAllStats() { s.Stats.Clear() }

// UpdateSettings validates and merges p. On error nothing changes.
func (s *State) UpdateSettings(p SettingsPatch) error {
	next, err := s.Settings.Apply(p)
	if err != nil {
		return err
	}
	s.Settings = next
	s.Timer.fit(next)
	return nil
}

// ResetSettings restores DefaultSettings.
func (s *State) ResetSettings() {
	s.Settings = DefaultSettings()
	s.Timer.fit(s.Settings)
}

func (s *State) SetTheme(t Theme) {
	if t.Valid() {
		s.Theme = t
	}
}

func (s *State) ToggleTheme() Theme {
	s.Theme = s.Theme.Toggled()
	return s.Theme
}
