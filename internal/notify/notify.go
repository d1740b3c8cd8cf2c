// Package notify tells the user that a timer phase has finished.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/sadopc/focusbuddy/internal/focus"
)

// Notifier matches app.Notifier.
type Notifier interface {
	Notify(ctx context.Context, c focus.Completion, sound focus.SoundOption) error
}

// Nop ignores every completion.
type Nop struct{}

func (Nop) Notify(context.Context, focus.Completion, focus.SoundOption) error { return nil }

// Bell rings the terminal bell. Each sound option maps to a different
// number of rings.
type Bell struct {
	mu  sync.Mutex
	out io.Writer
}

// NewBell writes to out, or to stderr when out is nil.
func NewBell(out io.Writer) *Bell {
	if out == nil {
		out = os.Stderr
	}
	return &Bell{out: out}
}

// Pattern is what Bell writes for sound.
func Pattern(sound focus.SoundOption) string {
	switch sound {
	case focus.SoundChime:
		return "\a\a"
	case focus.SoundNotification:
		return "\a\a\a"
	default:
		return "\a"
	}
}

func (b *Bell) Notify(_ context.Context, _ focus.Completion, sound focus.SoundOption) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := io.WriteString(b.out, Pattern(sound))
	return err
}

// DefaultCommandTimeout bounds a single Command run.
const DefaultCommandTimeout = 10 * time.Second

// Command runs an external program on completion, for example
// "notify-send focusbuddy". The completion is described by environment
// variables FOCUSBUDDY_MODE, FOCUSBUDDY_NEXT, FOCUSBUDDY_SOUND and
// FOCUSBUDDY_MESSAGE.
type Command struct {
	Args    []string
	Timeout time.Duration
}

// NewCommand splits line on whitespace. An empty line yields nil.
func NewCommand(line string) *Command {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	return &Command{Args: args, Timeout: DefaultCommandTimeout}
}

func (c *Command) Notify(ctx context.Context, done focus.Completion, sound focus.SoundOption) error {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg := Message(done)
	cmd := exec.CommandContext(ctx, c.Args[0], append(c.Args[1:], msg)...)
	cmd.Env = append(os.Environ(),
		"FOCUSBUDDY_MODE="+string(done.Mode),
		"FOCUSBUDDY_NEXT="+string(done.Next),
		"FOCUSBUDDY_SOUND="+string(sound),
		"FOCUSBUDDY_MESSAGE="+msg,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("run %s: %w: %s", c.Args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Message is the one-line text shown for a completion.
func Message(done focus.Completion) string {
	if done.Mode == focus.ModeFocus {
		return fmt.Sprintf("Focus session complete. Time for a %s.", strings.ToLower(done.Next.Label()))
	}
	return "Break is over. Back to focus."
}

// Multi fans a completion out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, done focus.Completion, sound focus.SoundOption) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, done, sound); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
