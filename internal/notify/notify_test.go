package notify

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/sadopc/focusbuddy/internal/focus"
)

var focusDone = focus.Completion{Mode: focus.ModeFocus, Next: focus.ModeLongBreak}

func TestBellPatterns(t *testing.T) {
	tests := []struct {
		sound focus.SoundOption
		want  string
	}{
		{focus.SoundBell, "\a"},
		{focus.SoundChime, "\a\a"},
		{focus.SoundNotification, "\a\a\a"},
		{"unknown", "\a"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := NewBell(&buf).Notify(context.Background(), focusDone, tt.sound); err != nil {
			t.Fatal(err)
		}
		if buf.String() != tt.want {
			t.Errorf("%s: got %q, want %q", tt.sound, buf.String(), tt.want)
		}
	}
}

func TestMessage(t *testing.T) {
	if got := Message(focusDone); got != "Focus session complete. Time for a long break." {
		t.Fatalf("unexpected message %q", got)
	}
	brk := focus.Completion{Mode: focus.ModeShortBreak, Next: focus.ModeFocus}
	if got := Message(brk); !strings.Contains(got, "Back to focus") {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestNewCommandBlank(t *testing.T) {
	if NewCommand("   ") != nil {
		t.Fatal("blank command line should yield nil")
	}
	c := NewCommand("notify-send -u low")
	if len(c.Args) != 3 || c.Args[0] != "notify-send" {
		t.Fatalf("unexpected args %v", c.Args)
	}
}

func TestCommandRuns(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	c := &Command{Args: []string{"sh", "-c", `test "$FOCUSBUDDY_MODE" = focus && test -n "$0"`}}
	if err := c.Notify(context.Background(), focusDone, focus.SoundBell); err != nil {
		t.Fatalf("command should succeed: %v", err)
	}

	fail := NewCommand("sh -c false")
	if err := fail.Notify(context.Background(), focusDone, focus.SoundBell); err == nil {
		t.Fatal("expected error from failing command")
	}
}

type failing struct{ err error }

func (f failing) Notify(context.Context, focus.Completion, focus.SoundOption) error { return f.err }

func TestMultiJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	var buf bytes.Buffer
	m := Multi{NewBell(&buf), failing{boom}, Nop{}}
	err := m.Notify(context.Background(), focusDone, focus.SoundChime)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if buf.String() != "\a\a" {
		t.Fatal("a failing notifier must not stop the others")
	}
}
