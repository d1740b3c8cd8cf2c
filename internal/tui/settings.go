package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusbuddy/internal/app"
	"github.com/sadopc/focusbuddy/internal/focus"
)

type settingsModel struct {
	ctl    *app.Controller
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	focusMin     *string
	shortMin     *string
	longMin      *string
	interval     *string
	autoBreaks   *bool
	autoPomodoro *bool
	sound        *focus.SoundOption
}

func newSettingsModel(c *app.Controller) settingsModel {
	fm, sm, lm, iv := "", "", "", ""
	ab, ap := false, false
	snd := focus.SoundBell
	return settingsModel{
		ctl:          c,
		focusMin:     &fm,
		shortMin:     &sm,
		longMin:      &lm,
		interval:     &iv,
		autoBreaks:   &ab,
		autoPomodoro: &ap,
		sound:        &snd,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Enter), key.Matches(km, keys.Edit):
			return s.showForm()
		case key.Matches(km, keys.Reset):
			s.ctl.ResetSettings()
			return s, statusCmd("Settings reset to defaults", false)
		}
	}
	return s, nil
}

// boundedInt validates a minutes or count field against focus.Bounds.
func boundedInt(name string) func(string) error {
	b := focus.Bounds[name]
	return func(v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.New("enter a whole number")
		}
		if n < b.Min || n > b.Max {
			return fmt.Errorf("must be between %d and %d", b.Min, b.Max)
		}
		return nil
	}
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	cur := s.ctl.Settings()
	*s.focusMin = strconv.Itoa(cur.FocusDuration)
	*s.shortMin = strconv.Itoa(cur.ShortBreakDuration)
	*s.longMin = strconv.Itoa(cur.LongBreakDuration)
	*s.interval = strconv.Itoa(cur.LongBreakInterval)
	*s.autoBreaks = cur.AutoStartBreaks
	*s.autoPomodoro = cur.AutoStartPomodoros
	*s.sound = cur.SoundOption

	soundOptions := make([]huh.Option[focus.SoundOption], len(focus.SoundOptions))
	for i, o := range focus.SoundOptions {
		soundOptions[i] = huh.NewOption(string(o), o)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Focus (min)").Value(s.focusMin).Validate(boundedInt("focusDuration")),
			huh.NewInput().Title("Short break (min)").Value(s.shortMin).Validate(boundedInt("shortBreakDuration")),
			huh.NewInput().Title("Long break (min)").Value(s.longMin).Validate(boundedInt("longBreakDuration")),
			huh.NewInput().Title("Pomodoros before long break").Value(s.interval).Validate(boundedInt("longBreakInterval")),
		).Title("Timer"),
		huh.NewGroup(
			huh.NewConfirm().Title("Auto-start breaks").Value(s.autoBreaks),
			huh.NewConfirm().Title("Auto-start pomodoros").Value(s.autoPomodoro),
			huh.NewSelect[focus.SoundOption]().Title("Sound").Options(soundOptions...).Value(s.sound),
		).Title("Behaviour"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
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
		if err := s.ctl.UpdateSettings(s.patch()); err != nil {
			return s, errorCmd(err)
		}
		return s, statusCmd("Settings saved", false)
	}
	return s, cmd
}

// patch converts the form values. Fields that do not parse are left out;
// the form validators normally catch them first.
func (s settingsModel) patch() focus.SettingsPatch {
	atoi := func(v string) *int {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		return &n
	}
	ab, ap, snd := *s.autoBreaks, *s.autoPomodoro, *s.sound
	return focus.SettingsPatch{
		FocusDuration:      atoi(*s.focusMin),
		ShortBreakDuration: atoi(*s.shortMin),
		LongBreakDuration:  atoi(*s.longMin),
		LongBreakInterval:  atoi(*s.interval),
		AutoStartBreaks:    &ab,
		AutoStartPomodoros: &ap,
		SoundOption:        &snd,
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", s.form.View()),
		)
	}

	cur := s.ctl.Settings()
	rows := []string{titleStyle.Render("Settings"), ""}
	for _, kv := range settingRows(cur, s.ctl.Theme()) {
		label := lipgloss.NewStyle().Width(28).Render(kv[0])
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(kv[1])))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: edit  r: reset to defaults  t: toggle theme"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRows(s focus.Settings, theme focus.Theme) [][2]string {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	return [][2]string{
		{"Focus", fmt.Sprintf("%d min", s.FocusDuration)},
		{"Short break", fmt.Sprintf("%d min", s.ShortBreakDuration)},
		{"Long break", fmt.Sprintf("%d min", s.LongBreakDuration)},
		{"Pomodoros before long break", strconv.Itoa(s.LongBreakInterval)},
		{"Auto-start breaks", onOff(s.AutoStartBreaks)},
		{"Auto-start pomodoros", onOff(s.AutoStartPomodoros)},
		{"Sound", string(s.SoundOption)},
		{"Theme", string(theme)},
	}
}
