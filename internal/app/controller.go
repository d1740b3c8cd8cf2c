// Package app owns the application state for the TUI and the CLI. Every
// operation runs under one lock; mutations of persisted data are saved
// before the lock is released.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sadopc/focusbuddy/internal/daterange"
	"github.com/sadopc/focusbuddy/internal/focus"
)

// ErrBlankTitle is returned when a task title is empty after trimming.
var ErrBlankTitle = errors.New("task title cannot be empty")

// Persister stores snapshots. *store.Store satisfies it.
type Persister interface {
	Save(focus.Snapshot) error
}

// Notifier is told about every completed phase.
type Notifier interface {
	Notify(ctx context.Context, c focus.Completion, sound focus.SoundOption) error
}

type Controller struct {
	mu       sync.Mutex
	state    *focus.State
	store    Persister
	notifier Notifier
	logger   *log.Logger
	now      func() time.Time
}

type Option func(*Controller)

func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New restores snap into a fresh controller. A nil Persister keeps
// everything in memory.
func New(snap focus.Snapshot, p Persister, opts ...Option) *Controller {
	c := &Controller{
		state:  focus.Restore(snap),
		store:  p,
		logger: log.New(os.Stderr, "focusbuddy: ", log.LstdFlags),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// save must be called with mu held.
func (c *Controller) save() {
	if c.store == nil {
		return
	}
	if err := c.store.Save(c.state.Snapshot()); err != nil {
		c.logger.Printf("save state: %v", err)
	}
}

// ============================================================
// Timer
// ============================================================

func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Start()
}

func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Pause()
}

// Toggle starts an idle or paused timer and pauses a running one.
func (c *Controller) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Timer.Running() {
		c.state.Pause()
	} else {
		c.state.Start()
	}
}

func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Reset()
}

func (c *Controller) SwitchMode(m focus.Mode) error {
	if !m.Valid() {
		return fmt.Errorf("switch mode: unknown mode %q", m)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SwitchMode(m)
	return nil
}

// Tick advances the timer by one second. A completed phase is saved before
// Tick returns; the notifier is not run, callers pass the completion to
// Notify off their event loop.
func (c *Controller) Tick() (focus.Completion, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	done, ok := c.state.Tick(c.now())
	if ok {
		c.save()
	}
	return done, ok
}

// Notify tells the notifier about done using the current sound setting.
// It blocks for as long as the notifier does; failures are logged.
func (c *Controller) Notify(ctx context.Context, done focus.Completion) {
	if c.notifier == nil {
		return
	}
	c.mu.Lock()
	sound := c.state.Settings.SoundOption
	c.mu.Unlock()

	if err := c.notifier.Notify(ctx, done, sound); err != nil {
		c.logger.Printf("notify %s completion: %v", done.Mode, err)
	}
}

func (c *Controller) Timer() focus.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Timer
}

// Progress is the elapsed fraction of the current phase, 0 to 1.
func (c *Controller) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Timer.Progress(c.state.Settings)
}

// ============================================================
// Tasks
// ============================================================

func (c *Controller) AddTask(title string, priority focus.Priority) (focus.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return focus.Task{}, ErrBlankTitle
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.state.AddTask(title, priority, c.now())
	c.save()
	return t, nil
}

func (c *Controller) ToggleTask(id string) (focus.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, err := c.state.ToggleTask(id, c.now())
	if err != nil {
		return focus.Task{}, err
	}
	c.save()
	return t, nil
}

func (c *Controller) DeleteTask(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.state.DeleteTask(id); err != nil {
		return err
	}
	c.save()
	return nil
}

func (c *Controller) EditTask(id string, p focus.TaskPatch) (focus.Task, error) {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return focus.Task{}, ErrBlankTitle
		}
		p.Title = &title
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return focus.Task{}, fmt.Errorf("edit task: unknown priority %q", *p.Priority)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	t, err := c.state.EditTask(id, p)
	if err != nil {
		return focus.Task{}, err
	}
	c.save()
	return t, nil
}

// ResolveTask maps a user reference (id, 1-based position or unique id
// prefix) to a task id.
func (c *Controller) ResolveTask(ref string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Tasks.Resolve(ref)
}

func (c *Controller) Tasks(f focus.TaskFilter) []focus.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Tasks.Filter(f)
}

// TaskProgress reports completed and total task counts and the rounded
// completion percentage.
func (c *Controller) TaskProgress() (done, total, percent int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l := c.state.Tasks
	return l.CompletedCount(), l.Len(), l.CompletedPercentage()
}

// ============================================================
// Statistics
// ============================================================

func (c *Controller) StatsForPeriod(p daterange.Period) focus.PeriodStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.StatsForPeriod(p, c.now())
}

// Recent sums the last days days, today included.
func (c *Controller) Recent(days int) focus.PeriodStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Stats.Recent(c.now(), days)
}

func (c *Controller) Sessions() []focus.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Stats.Sessions()
}

func (c *Controller) PomodorosCompleted() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Stats.PomodorosCompleted()
}

// ClearAllStats wipes daily stats, the session log and the lifetime
// counter. Callers confirm with the user first.
func (c *Controller) ClearAllStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ClearAllStats()
	c.save()
}

// ============================================================
// Settings and theme
// ============================================================

func (c *Controller) Settings() focus.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Settings
}

func (c *Controller) UpdateSettings(p focus.SettingsPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.state.UpdateSettings(p); err != nil {
		return err
	}
	c.save()
	return nil
}

func (c *Controller) ResetSettings() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ResetSettings()
	c.save()
}

func (c *Controller) Theme() focus.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Theme
}

func (c *Controller) SetTheme(t focus.Theme) error {
	if !t.Valid() {
		return fmt.Errorf("set theme: unknown theme %q (want light or dark)", t)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetTheme(t)
	c.save()
	return nil
}

func (c *Controller) ToggleTheme() focus.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.state.ToggleTheme()
	c.save()
	return t
}

// Now reads the controller's clock.
func (c *Controller) Now() time.Time {
	return c.now()
}

// Snapshot returns the persisted view of the current state.
func (c *Controller) Snapshot() focus.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Snapshot()
}
