package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusbuddy/internal/app"
	"github.com/sadopc/focusbuddy/internal/daterange"
	"github.com/sadopc/focusbuddy/internal/focus"
)

var periodNames = map[daterange.Period]string{
	daterange.Daily:     "Today",
	daterange.Weekly:    "Week",
	daterange.Monthly:   "Month",
	daterange.Quarterly: "Quarter",
	daterange.Semester:  "Semester",
}

type statsModel struct {
	ctl    *app.Controller
	width  int
	height int

	period int // index into daterange.Periods

	formActive bool
	form       *huh.Form
	confirm    *bool
}

func newStatsModel(c *app.Controller) statsModel {
	confirm := false
	return statsModel{
		ctl:     c,
		period:  1, // weekly
		confirm: &confirm,
	}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s statsModel) current() daterange.Period {
	return daterange.Periods[s.period]
}

func (s statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	n := len(daterange.Periods)
	switch {
	case key.Matches(km, keys.Left):
		s.period = (s.period + n - 1) % n
	case key.Matches(km, keys.Right):
		s.period = (s.period + 1) % n
	case key.Matches(km, keys.Clear):
		return s.showConfirm()
	}
	return s, nil
}

func (s statsModel) showConfirm() (statsModel, tea.Cmd) {
	*s.confirm = false
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Clear all statistics?").
				Description("Daily totals, the session log and the pomodoro counter are deleted. Tasks are kept.").
				Affirmative("Clear").
				Negative("Cancel").
				Value(s.confirm),
		),
	).WithShowHelp(true)
	s.formActive = true
	return s, s.form.Init()
}

func (s statsModel) updateForm(msg tea.Msg) (statsModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		s.formActive = false
		s.form = nil
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if *s.confirm {
			s.ctl.ClearAllStats()
			return s, statusCmd("Statistics cleared", false)
		}
		return s, nil
	}
	return s, cmd
}

func (s statsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		return activePanelStyle.Width(w).Render(s.form.View())
	}

	ps := s.ctl.StatsForPeriod(s.current())

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Stats"), "  ", s.renderPeriodTabs(),
	)
	label := mutedStyle.Render("  " + ps.Range.Label)

	var body string
	if ps.Empty() {
		body = mutedStyle.Render("  No data for this period")
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left,
			s.renderChart(ps, w),
			"",
			renderTotals(ps),
		)
	}

	recent := s.ctl.Recent(7)
	footer := mutedStyle.Render(fmt.Sprintf("  Last 7 days: %s focus, %d pomodoros, %d tasks",
		formatMinutes(recent.FocusMinutes), recent.Pomodoros, recent.TasksCompleted))

	nav := mutedStyle.Render("  ←/→: period  c: clear all")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, label, "", body, "", footer, "", nav),
	)
}

func (s statsModel) renderPeriodTabs() string {
	var tabs []string
	for i, p := range daterange.Periods {
		if i == s.period {
			tabs = append(tabs, activeTabStyle.Render(periodNames[p]))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(periodNames[p]))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

// renderChart draws focus minutes per day. Long periods keep the most
// recent days that fit the width.
func (s statsModel) renderChart(ps focus.PeriodStats, w int) string {
	chartWidth := max(w-8, 20)
	chartHeight := 10
	if s.height > 30 {
		chartHeight = 14
	}

	days := chartDays(ps, daterange.DayKey(s.ctl.Now()))
	if maxBars := chartWidth / 7; len(days) > maxBars {
		days = days[len(days)-maxBars:]
	}

	bars := make([]barchart.BarData, 0, len(days))
	style := lipgloss.NewStyle().Foreground(colorPrimary)
	for _, d := range days {
		bars = append(bars, barchart.BarData{
			Label: dayLabel(d.Date),
			Values: []barchart.BarValue{{
				Name:  "focus",
				Value: float64(d.FocusMinutes),
				Style: style,
			}},
		})
	}

	chart := barchart.New(chartWidth, chartHeight)
	chart.PushAll(bars)
	chart.Draw()
	return chart.View()
}

// chartDays lists every day of the period up to today, with zero entries
// for days that have no record.
func chartDays(ps focus.PeriodStats, today string) []focus.DailyStat {
	recorded := make(map[string]focus.DailyStat, len(ps.Days))
	for _, d := range ps.Days {
		recorded[d.Date] = d
	}
	var days []focus.DailyStat
	for _, key := range ps.Range.Days() {
		if key > today {
			break
		}
		d, ok := recorded[key]
		if !ok {
			d = focus.DailyStat{Date: key}
		}
		days = append(days, d)
	}
	return days
}

// dayLabel turns "2026-10-18" into "10/18".
func dayLabel(key string) string {
	if len(key) != len("2006-01-02") {
		return key
	}
	return key[5:7] + "/" + key[8:]
}

func renderTotals(ps focus.PeriodStats) string {
	avg := ps.Averages()
	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %-16s %10s %12s", "", "Total", "Per day")),
		mutedStyle.Render("  " + strings.Repeat("─", 40)),
		fmt.Sprintf("  %-16s %10s %12s", "Focus", formatMinutes(ps.FocusMinutes), formatMinutes(avg.FocusMinutes)),
		fmt.Sprintf("  %-16s %10d %12d", "Pomodoros", ps.Pomodoros, avg.Pomodoros),
		fmt.Sprintf("  %-16s %10d %12d", "Tasks completed", ps.TasksCompleted, avg.TasksCompleted),
		fmt.Sprintf("  %-16s %10d", "Active days", ps.ActiveDays),
	}
	return strings.Join(rows, "\n")
}
