package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusbuddy/internal/app"
	"github.com/sadopc/focusbuddy/internal/daterange"
	"github.com/sadopc/focusbuddy/internal/focus"
)

type timerModel struct {
	ctl    *app.Controller
	width  int
	height int

	bar progress.Model
}

func newTimerModel(c *app.Controller) timerModel {
	return timerModel{
		ctl: c,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
	t.bar.Width = max(10, min(w-16, 60))
}

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, nil
	}
	switch {
	case key.Matches(km, keys.Toggle):
		t.ctl.Toggle()
	case key.Matches(km, keys.Reset):
		t.ctl.Reset()
	case key.Matches(km, keys.Focus):
		return t, t.switchMode(focus.ModeFocus)
	case key.Matches(km, keys.ShortBreak):
		return t, t.switchMode(focus.ModeShortBreak)
	case key.Matches(km, keys.LongBreak):
		return t, t.switchMode(focus.ModeLongBreak)
	}
	return t, nil
}

func (t timerModel) switchMode(m focus.Mode) tea.Cmd {
	if err := t.ctl.SwitchMode(m); err != nil {
		return errorCmd(err)
	}
	return statusCmd("Switched to "+m.Label(), false)
}

func (t timerModel) view() string {
	w := t.width - 4
	tm := t.ctl.Timer()

	clock := modeStyle(tm.Mode).Width(max(w-6, 10)).Align(lipgloss.Center).
		Render(formatClock(tm.TimeLeft))

	var state string
	switch tm.Status {
	case focus.StatusRunning:
		state = successStyle.Render("running")
	case focus.StatusPaused:
		state = warningStyle.Render("paused")
	default:
		state = mutedStyle.Render("ready")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		t.renderModeTabs(tm.Mode),
		"",
		clock,
		state,
		"",
		t.bar.ViewAs(t.ctl.Progress()),
		"",
		renderSessionDots(tm),
	)

	controls := mutedStyle.Render("space: start/pause  r: reset  f/b/B: focus, short, long")

	return lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center, content, "", controls)),
		t.renderToday(w),
	)
}

func (t timerModel) renderModeTabs(active focus.Mode) string {
	var tabs []string
	for _, m := range focus.Modes {
		if m == active {
			tabs = append(tabs, activeTabStyle.Render(m.Label()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(m.Label()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

// renderSessionDots shows progress through the current long-break cycle.
func renderSessionDots(tm focus.Timer) string {
	total := max(tm.TotalSessions, 1)
	done := (tm.CurrentSession - 1) % total
	var parts []string
	for i := range total {
		switch {
		case i < done:
			parts = append(parts, successStyle.Render("●"))
		case i == done && tm.Mode == focus.ModeFocus && tm.Status != focus.StatusIdle:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  session %d", tm.CurrentSession))
	return strings.Join(parts, " ") + counter
}

func (t timerModel) renderToday(w int) string {
	today := t.ctl.StatsForPeriod(daterange.Daily)
	done, total, pct := t.ctl.TaskProgress()

	rows := []string{
		titleStyle.Render("Today"),
		fmt.Sprintf("  Focus     %s", highlightStyle.Render(formatMinutes(today.FocusMinutes))),
		fmt.Sprintf("  Pomodoros %s", highlightStyle.Render(fmt.Sprint(today.Pomodoros))),
		fmt.Sprintf("  Tasks     %s", highlightStyle.Render(fmt.Sprintf("%d/%d done (%d%%)", done, total, pct))),
		mutedStyle.Render(fmt.Sprintf("  %d pomodoros all time", t.ctl.PomodorosCompleted())),
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
