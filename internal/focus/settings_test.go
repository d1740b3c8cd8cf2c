package focus

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	want := Settings{25, 5, 15, false, false, 4, SoundBell}
	if s != want {
		t.Fatalf("got %+v, want %+v", s, want)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestValidateBounds(t *testing.T) {
	tests := []struct {
		name    string
		patch   SettingsPatch
		wantErr string
	}{
		{"focus too low", SettingsPatch{FocusDuration: ptr(0)}, "focusDuration must be between 1 and 120"},
		{"focus too high", SettingsPatch{FocusDuration: ptr(121)}, "focusDuration"},
		{"short too high", SettingsPatch{ShortBreakDuration: ptr(31)}, "shortBreakDuration must be between 1 and 30"},
		{"long too low", SettingsPatch{LongBreakDuration: ptr(4)}, "longBreakDuration must be between 5 and 60"},
		{"interval too low", SettingsPatch{LongBreakInterval: ptr(1)}, "longBreakInterval must be between 2 and 10"},
		{"bad sound", SettingsPatch{SoundOption: ptr(SoundOption("gong"))}, "soundOption must be one of"},
		{"focus max ok", SettingsPatch{FocusDuration: ptr(120)}, ""},
		{"interval max ok", SettingsPatch{LongBreakInterval: ptr(10)}, ""},
		{"chime ok", SettingsPatch{SoundOption: ptr(SoundChime)}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DefaultSettings().Apply(tt.patch)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidSettings) {
				t.Fatalf("expected ErrInvalidSettings, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestApplyKeepsSettingsOnError(t *testing.T) {
	s := DefaultSettings()
	got, err := s.Apply(SettingsPatch{FocusDuration: ptr(50), LongBreakInterval: ptr(99)})
	if err == nil {
		t.Fatal("expected error")
	}
	if got != s {
		t.Fatalf("failed apply should return the unchanged settings, got %+v", got)
	}
}

func TestUpdateSettingsRejectedLeavesStateUntouched(t *testing.T) {
	st := NewState()
	before := st.Settings
	if err := st.UpdateSettings(SettingsPatch{FocusDuration: ptr(500)}); err == nil {
		t.Fatal("expected validation error")
	}
	if st.Settings != before || st.Timer.TimeLeft != 25*60 {
		t.Fatal("rejected settings must not reach the state")
	}
}

func TestUpdateSettingsIdleRefillsTimer(t *testing.T) {
	st := NewState()
	if err := st.UpdateSettings(SettingsPatch{FocusDuration: ptr(50)}); err != nil {
		t.Fatal(err)
	}
	if st.Timer.TimeLeft != 50*60 {
		t.Fatalf("idle timer should pick up the new duration, got %d", st.Timer.TimeLeft)
	}
}

func TestUpdateSettingsRunningKeepsProgress(t *testing.T) {
	st := NewState()
	st.Start()
	tickN(st, 60)
	if err := st.UpdateSettings(SettingsPatch{FocusDuration: ptr(50)}); err != nil {
		t.Fatal(err)
	}
	if st.Timer.TimeLeft != 25*60-60 {
		t.Fatalf("running timer should keep its countdown, got %d", st.Timer.TimeLeft)
	}
}

func TestUpdateSettingsRunningClampsToShorterDuration(t *testing.T) {
	st := NewState()
	st.Start()
	if err := st.UpdateSettings(SettingsPatch{FocusDuration: ptr(10)}); err != nil {
		t.Fatal(err)
	}
	if st.Timer.TimeLeft != 10*60 {
		t.Fatalf("timeLeft should be clamped to the new duration, got %d", st.Timer.TimeLeft)
	}
	if st.Timer.Status != StatusRunning {
		t.Fatal("clamping should not stop the timer")
	}
}

func TestUpdateSettingsTracksTotalSessions(t *testing.T) {
	st := NewState()
	_ = st.UpdateSettings(SettingsPatch{LongBreakInterval: ptr(6)})
	if st.Timer.TotalSessions != 6 {
		t.Fatalf("expected totalSessions 6, got %d", st.Timer.TotalSessions)
	}
}

func TestResetSettings(t *testing.T) {
	st := NewState()
	_ = st.UpdateSettings(SettingsPatch{FocusDuration: ptr(45), AutoStartBreaks: ptr(true), SoundOption: ptr(SoundChime)})
	st.ResetSettings()
	if st.Settings != DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", st.Settings)
	}
	if st.Timer.TimeLeft != 25*60 {
		t.Fatalf("idle timer should refill to default, got %d", st.Timer.TimeLeft)
	}
}

func TestSettingsPatchEmpty(t *testing.T) {
	if !(SettingsPatch{}).Empty() {
		t.Fatal("zero patch should be empty")
	}
	if (SettingsPatch{AutoStartBreaks: ptr(false)}).Empty() {
		t.Fatal("patch with a field should not be empty")
	}
}
