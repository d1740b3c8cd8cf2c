package focus

// Timer is the countdown state machine. Mode and Status vary independently;
// TimeLeft is in seconds and never exceeds the configured length of Mode.
type Timer struct {
	Mode           Mode
	Status         Status
	TimeLeft       int
	CurrentSession int
	TotalSessions  int
}

// NewTimer returns an idle focus timer at full duration.
func NewTimer(s Settings) Timer {
	return Timer{
		Mode:           ModeFocus,
		Status:         StatusIdle,
		TimeLeft:       s.DurationOf(ModeFocus),
		CurrentSession: 1,
		TotalSessions:  s.LongBreakInterval,
	}
}

// Start runs the timer from idle or paused. Starting a running timer is a no-op.
func (t *Timer) Start() {
	if t.Status == StatusRunning {
		return
	}
	t.Status = StatusRunning
}

// Pause only has an effect on a running timer.
func (t *Timer) Pause() {
	if t.Status != StatusRunning {
		return
	}
	t.Status = StatusPaused
}

// Reset stops the timer and refills the current mode.
func (t *Timer) Reset(s Settings) {
	t.Status = StatusIdle
	t.TimeLeft = s.DurationOf(t.Mode)
}

// SwitchMode moves to m, idle and full. It does not refuse while running;
// keeping the user from switching mid-countdown is up to the caller.
func (t *Timer) SwitchMode(m Mode, s Settings) {
	t.Mode = m
	t.Status = StatusIdle
	t.TimeLeft = s.DurationOf(m)
}

// countdown decrements a running timer by one second and reports whether it
// has just reached zero.
func (t *Timer) countdown() bool {
	if t.Status != StatusRunning || t.TimeLeft <= 0 {
		return false
	}
	t.TimeLeft--
	return t.TimeLeft == 0
}

// fit re-applies the duration invariant after the settings changed.
func (t *Timer) fit(s Settings) {
	t.TotalSessions = s.LongBreakInterval
	full := s.DurationOf(t.Mode)
	if t.Status == StatusIdle || t.TimeLeft > full {
		t.TimeLeft = full
	}
}

// Progress is the elapsed fraction of the current phase in [0, 1].
func (t Timer) Progress(s Settings) float64 {
	full := s.DurationOf(t.Mode)
	if full <= 0 {
		return 0
	}
	p := float64(full-t.TimeLeft) / float64(full)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

func (t Timer) Running() bool { return t.Status == StatusRunning }
