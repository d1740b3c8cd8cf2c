package app

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sadopc/focusbuddy/internal/daterange"
	"github.com/sadopc/focusbuddy/internal/focus"
	"github.com/sadopc/focusbuddy/internal/store"
)

var fixedNow = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)

type recordingStore struct {
	mu    sync.Mutex
	saves []focus.Snapshot
	err   error
}

func (r *recordingStore) Save(s focus.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, s)
	return r.err
}

func (r *recordingStore) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

type recordingNotifier struct {
	got   []focus.Completion
	sound []focus.SoundOption
	err   error
}

func (n *recordingNotifier) Notify(_ context.Context, c focus.Completion, s focus.SoundOption) error {
	n.got = append(n.got, c)
	n.sound = append(n.sound, s)
	return n.err
}

// newTestController starts from a one-minute focus phase so a full
// pomodoro takes 60 ticks.
func newTestController(t *testing.T, opts ...Option) (*Controller, *recordingStore, *bytes.Buffer) {
	t.Helper()
	snap := focus.DefaultSnapshot()
	snap.FocusDuration = 1
	snap.ShortBreakDuration = 1
	p := &recordingStore{}
	var buf bytes.Buffer
	opts = append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(log.New(&buf, "", 0)),
	}, opts...)
	return New(snap, p, opts...), p, &buf
}

func tickN(c *Controller, n int) (focus.Completion, bool) {
	var done focus.Completion
	var ok bool
	for range n {
		if d, fired := c.Tick(); fired {
			done, ok = d, true
			c.Notify(context.Background(), d)
		}
	}
	return done, ok
}

func TestTickSavesOnlyOnCompletion(t *testing.T) {
	c, p, _ := newTestController(t)
	c.Start()
	tickN(c, 59)
	if p.count() != 0 {
		t.Fatalf("countdown ticks should not save, got %d saves", p.count())
	}
	done, ok := tickN(c, 1)
	if !ok || done.Mode != focus.ModeFocus || done.Next != focus.ModeShortBreak {
		t.Fatalf("unexpected completion %+v ok=%v", done, ok)
	}
	if p.count() != 1 {
		t.Fatalf("completion should save once, got %d", p.count())
	}
	saved := p.saves[0]
	if saved.PomodorosCompleted != 1 || len(saved.Sessions) != 1 || len(saved.DailyStats) != 1 {
		t.Fatalf("saved snapshot missing completion: %+v", saved)
	}

	tm := c.Timer()
	if tm.Mode != focus.ModeShortBreak || tm.Status != focus.StatusIdle || tm.CurrentSession != 2 {
		t.Fatalf("unexpected timer after completion: %+v", tm)
	}
}

func TestNotifierReceivesCompletionAndSound(t *testing.T) {
	n := &recordingNotifier{}
	c, _, _ := newTestController(t, WithNotifier(n))
	if err := c.UpdateSettings(focus.SettingsPatch{SoundOption: ptr(focus.SoundChime)}); err != nil {
		t.Fatal(err)
	}
	c.Start()
	tickN(c, 60)
	if len(n.got) != 1 || n.got[0].Mode != focus.ModeFocus || n.sound[0] != focus.SoundChime {
		t.Fatalf("unexpected notifications %+v %v", n.got, n.sound)
	}
}

func TestNotifierFailureIsLoggedAndIgnored(t *testing.T) {
	n := &recordingNotifier{err: errors.New("speaker on fire")}
	c, p, logs := newTestController(t, WithNotifier(n))
	c.Start()
	_, ok := tickN(c, 60)
	if !ok {
		t.Fatal("completion should still fire")
	}
	if c.Timer().Mode != focus.ModeShortBreak || c.PomodorosCompleted() != 1 {
		t.Fatal("notifier failure must not affect the state")
	}
	if p.count() != 1 {
		t.Fatal("state should still be saved")
	}
	if !strings.Contains(logs.String(), "speaker on fire") {
		t.Fatalf("expected failure in log, got %q", logs.String())
	}
}

func TestTickLeavesNotifyToCaller(t *testing.T) {
	n := &recordingNotifier{}
	c, _, _ := newTestController(t, WithNotifier(n))
	c.Start()
	var fired int
	for range 60 {
		if _, ok := c.Tick(); ok {
			fired++
		}
	}
	if fired != 1 {
		t.Fatalf("expected one completion, got %d", fired)
	}
	if len(n.got) != 0 {
		t.Fatal("Tick must not run the notifier")
	}
}

func TestSaveFailureIsLoggedAndStateKept(t *testing.T) {
	c, p, logs := newTestController(t)
	p.err = errors.New("disk full")
	task, err := c.AddTask("write", focus.PriorityNormal)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Tasks(focus.TaskFilter{})) != 1 || task.ID == "" {
		t.Fatal("in-memory state should keep the task")
	}
	if !strings.Contains(logs.String(), "save state: disk full") {
		t.Fatalf("expected save failure in log, got %q", logs.String())
	}
}

func TestTimerOperationsDoNotSave(t *testing.T) {
	c, p, _ := newTestController(t)
	c.Start()
	c.Pause()
	c.Toggle()
	c.Reset()
	if err := c.SwitchMode(focus.ModeLongBreak); err != nil {
		t.Fatal(err)
	}
	if p.count() != 0 {
		t.Fatalf("run state is not persisted, got %d saves", p.count())
	}
	if err := c.SwitchMode("nap"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestToggleStartsAndPauses(t *testing.T) {
	c, _, _ := newTestController(t)
	c.Toggle()
	if c.Timer().Status != focus.StatusRunning {
		t.Fatal("toggle should start an idle timer")
	}
	c.Toggle()
	if c.Timer().Status != focus.StatusPaused {
		t.Fatal("toggle should pause a running timer")
	}
}

func TestTaskLifecycle(t *testing.T) {
	c, p, _ := newTestController(t)

	if _, err := c.AddTask("   ", focus.PriorityNormal); !errors.Is(err, ErrBlankTitle) {
		t.Fatalf("expected ErrBlankTitle, got %v", err)
	}
	if p.count() != 0 {
		t.Fatal("rejected task should not save")
	}

	task, err := c.AddTask("  Write report ", focus.PriorityHigh)
	if err != nil {
		t.Fatal(err)
	}
	if task.Title != "Write report" {
		t.Fatalf("title should be trimmed, got %q", task.Title)
	}

	id, err := c.ResolveTask("1")
	if err != nil || id != task.ID {
		t.Fatalf("resolve by index: %q %v", id, err)
	}

	done, err := c.ToggleTask(task.ID)
	if err != nil || !done.Completed {
		t.Fatalf("toggle: %+v %v", done, err)
	}
	if got := c.StatsForPeriod(daterange.Daily); got.TasksCompleted != 1 {
		t.Fatalf("task completion should count today, got %+v", got)
	}
	if d, total, pct := c.TaskProgress(); d != 1 || total != 1 || pct != 100 {
		t.Fatalf("progress = %d/%d %d%%", d, total, pct)
	}

	blank := " "
	if _, err := c.EditTask(task.ID, focus.TaskPatch{Title: &blank}); !errors.Is(err, ErrBlankTitle) {
		t.Fatalf("expected ErrBlankTitle on edit, got %v", err)
	}
	title := "Write summary"
	edited, err := c.EditTask(task.ID, focus.TaskPatch{Title: &title})
	if err != nil || edited.Title != title {
		t.Fatalf("edit: %+v %v", edited, err)
	}

	if err := c.DeleteTask(task.ID); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteTask(task.ID); !errors.Is(err, focus.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if p.count() != 4 {
		t.Fatalf("expected 4 saves (add, toggle, edit, delete), got %d", p.count())
	}
}

func TestSettingsAndTheme(t *testing.T) {
	c, p, _ := newTestController(t)

	err := c.UpdateSettings(focus.SettingsPatch{FocusDuration: ptr(0)})
	if !errors.Is(err, focus.ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
	if p.count() != 0 {
		t.Fatal("rejected settings should not save")
	}

	if err := c.UpdateSettings(focus.SettingsPatch{FocusDuration: ptr(40)}); err != nil {
		t.Fatal(err)
	}
	if c.Settings().FocusDuration != 40 || c.Timer().TimeLeft != 40*60 {
		t.Fatal("idle timer should follow the new duration")
	}
	c.ResetSettings()
	if c.Settings() != focus.DefaultSettings() {
		t.Fatal("reset should restore defaults")
	}

	if err := c.SetTheme("sepia"); err == nil {
		t.Fatal("expected error for unknown theme")
	}
	if c.ToggleTheme() != focus.ThemeDark || c.Theme() != focus.ThemeDark {
		t.Fatal("toggle should switch to dark")
	}
	if err := c.SetTheme(focus.ThemeLight); err != nil {
		t.Fatal(err)
	}
	if c.Snapshot().Theme != focus.ThemeLight {
		t.Fatal("snapshot should carry the theme")
	}
}

func TestClearAllStats(t *testing.T) {
	c, p, _ := newTestController(t)
	c.Start()
	tickN(c, 60)
	c.ClearAllStats()
	if c.PomodorosCompleted() != 0 || len(c.Sessions()) != 0 || !c.StatsForPeriod(daterange.Weekly).Empty() {
		t.Fatal("stats should be cleared")
	}
	if c.Recent(7).FocusMinutes != 0 {
		t.Fatal("recent window should be empty")
	}
	if p.count() != 2 {
		t.Fatalf("expected completion and clear saves, got %d", p.count())
	}
}

func TestConcurrentTicksCompleteOnce(t *testing.T) {
	c, _, _ := newTestController(t)
	c.Start()

	var wg sync.WaitGroup
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				c.Tick()
			}
		}()
	}
	wg.Wait()

	if c.PomodorosCompleted() != 1 {
		t.Fatalf("60 ticks should complete exactly one pomodoro, got %d", c.PomodorosCompleted())
	}
}

func TestPersistsThroughStore(t *testing.T) {
	s, err := store.NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	c := New(focus.DefaultSnapshot(), s, WithClock(func() time.Time { return fixedNow }))
	if _, err := c.AddTask("persist me", focus.PriorityNormal); err != nil {
		t.Fatal(err)
	}
	snap, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	reloaded := New(snap, s)
	tasks := reloaded.Tasks(focus.TaskFilter{})
	if len(tasks) != 1 || tasks[0].Title != "persist me" {
		t.Fatalf("task not persisted: %+v", tasks)
	}
}

func ptr[T any](v T) *T { return &v }
