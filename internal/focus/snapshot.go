package focus

import "slices"

// Snapshot is the persisted subset of State. The timer's run state is
// deliberately absent: a restored State always starts idle on a full focus
// phase.
type Snapshot struct {
	Theme              Theme       `json:"theme"`
	Tasks              []Task      `json:"tasks"`
	DailyStats         []DailyStat `json:"dailyStats"`
	Sessions           []Session   `json:"sessions"`
	PomodorosCompleted int         `json:"pomodorosCompleted"`
	Settings
}

// DefaultSnapshot is what an empty store loads as.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Theme:      ThemeLight,
		Tasks:      []Task{},
		DailyStats: []DailyStat{},
		Sessions:   []Session{},
		Settings:   DefaultSettings(),
	}
}

// Snapshot copies the persisted parts of s.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Theme:              s.Theme,
		Tasks:              s.Tasks.All(),
		DailyStats:         s.Stats.Daily(),
		Sessions:           s.Stats.Sessions(),
		PomodorosCompleted: s.Stats.PomodorosCompleted(),
		Settings:           s.Settings,
	}
}

// Restore builds a State from snap. Invalid settings or theme fall back to
// their defaults; the timer starts idle at the full focus duration.
func Restore(snap Snapshot) *State {
	st := NewState()
	if snap.Theme.Valid() {
		st.Theme = snap.Theme
	}
	if snap.Settings.Validate() == nil {
		st.Settings = snap.Settings
	}
	st.Timer = NewTimer(st.Settings)

	for _, t := range snap.Tasks {
		st.Tasks.tasks = append(st.Tasks.tasks, t.clone())
	}
	st.Stats.daily = slices.Clone(snap.DailyStats)
	st.Stats.sessions = slices.Clone(snap.Sessions)
	st.Stats.pomodorosCompleted = max(snap.PomodorosCompleted, 0)
	return st
}
