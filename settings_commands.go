package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sadopc/focusbuddy/internal/app"
	"github.com/sadopc/focusbuddy/internal/focus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change timer settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	Args:  cobra.NoArgs,
	RunE: withSession(func(cmd *cobra.Command, _ []string, s *session) error {
		return printSettings(cmd.OutOrStdout(), s.ctl)
	}),
}

// settings set
var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change one or more settings",
	Long: `Change one or more settings.

Only the flags given are changed. Durations are minutes. Values outside
the allowed range are rejected and nothing is saved.`,
	Example: `  focusbuddy settings set --focus 50 --short-break 10
  focusbuddy settings set --auto-breaks --sound chime`,
	Args: cobra.NoArgs,
	RunE: withSession(runSettingsSet),
}

var settingsSetFlags = struct {
	focus, shortBreak, longBreak, interval int
	autoBreaks, autoPomodoros             bool
	sound                                 string
}{}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	Args:  cobra.NoArgs,
	RunE: withSession(func(cmd *cobra.Command, _ []string, s *session) error {
		s.ctl.ResetSettings()
		fmt.Fprintln(cmd.OutOrStdout(), "Settings reset to defaults.")
		return printSettings(cmd.OutOrStdout(), s.ctl)
	}),
}

// theme
var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|toggle]",
	Short:     "Show or change the UI theme",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(focus.ThemeLight), string(focus.ThemeDark), "toggle"},
	RunE:      withSession(runTheme),
}

func init() {
	rootCmd.AddCommand(settingsCmd, themeCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsResetCmd)
	addSettingsFlags(settingsSetCmd.Flags())
}

func addSettingsFlags(fs *pflag.FlagSet) {
	d := focus.DefaultSettings()
	f := &settingsSetFlags
	fs.IntVar(&f.focus, "focus", d.FocusDuration, boundHelp("Focus length in minutes", "focusDuration"))
	fs.IntVar(&f.shortBreak, "short-break", d.ShortBreakDuration, boundHelp("Short break in minutes", "shortBreakDuration"))
	fs.IntVar(&f.longBreak, "long-break", d.LongBreakDuration, boundHelp("Long break in minutes", "longBreakDuration"))
	fs.IntVar(&f.interval, "interval", d.LongBreakInterval, boundHelp("Pomodoros before a long break", "longBreakInterval"))
	fs.BoolVar(&f.autoBreaks, "auto-breaks", d.AutoStartBreaks, "Start breaks automatically")
	fs.BoolVar(&f.autoPomodoros, "auto-pomodoros", d.AutoStartPomodoros, "Start focus sessions automatically after a break")
	fs.StringVar(&f.sound, "sound", string(d.SoundOption), "Completion sound (bell, chime, notification)")
}

func boundHelp(text, name string) string {
	b := focus.Bounds[name]
	return fmt.Sprintf("%s (%d-%d)", text, b.Min, b.Max)
}

// settingsPatch turns the flags that were set on the command line into a patch.
func settingsPatch(fs *pflag.FlagSet) (focus.SettingsPatch, error) {
	f := settingsSetFlags
	var p focus.SettingsPatch
	if fs.Changed("focus") {
		p.FocusDuration = &f.focus
	}
	if fs.Changed("short-break") {
		p.ShortBreakDuration = &f.shortBreak
	}
	if fs.Changed("long-break") {
		p.LongBreakDuration = &f.longBreak
	}
	if fs.Changed("interval") {
		p.LongBreakInterval = &f.interval
	}
	if fs.Changed("auto-breaks") {
		p.AutoStartBreaks = &f.autoBreaks
	}
	if fs.Changed("auto-pomodoros") {
		p.AutoStartPomodoros = &f.autoPomodoros
	}
	if fs.Changed("sound") {
		snd := focus.SoundOption(strings.ToLower(f.sound))
		if !snd.Valid() {
			return p, fmt.Errorf("unknown sound %q (want bell, chime or notification)", f.sound)
		}
		p.SoundOption = &snd
	}
	if p.Empty() {
		return p, errors.New("no settings given; see focusbuddy settings set --help")
	}
	return p, nil
}

func runSettingsSet(cmd *cobra.Command, _ []string, s *session) error {
	p, err := settingsPatch(cmd.Flags())
	if err != nil {
		return err
	}
	if err := s.ctl.UpdateSettings(p); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Settings saved.")
	return printSettings(cmd.OutOrStdout(), s.ctl)
}

func printSettings(w io.Writer, c *app.Controller) error {
	st := c.Settings()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "focus\t%d min\n", st.FocusDuration)
	fmt.Fprintf(tw, "short-break\t%d min\n", st.ShortBreakDuration)
	fmt.Fprintf(tw, "long-break\t%d min\n", st.LongBreakDuration)
	fmt.Fprintf(tw, "interval\t%d\n", st.LongBreakInterval)
	fmt.Fprintf(tw, "auto-breaks\t%t\n", st.AutoStartBreaks)
	fmt.Fprintf(tw, "auto-pomodoros\t%t\n", st.AutoStartPomodoros)
	fmt.Fprintf(tw, "sound\t%s\n", st.SoundOption)
	fmt.Fprintf(tw, "theme\t%s\n", c.Theme())
	return tw.Flush()
}

func runTheme(cmd *cobra.Command, args []string, s *session) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		fmt.Fprintln(out, s.ctl.Theme())
		return nil
	}
	if args[0] == "toggle" {
		fmt.Fprintf(out, "Theme set to %s.\n", s.ctl.ToggleTheme())
		return nil
	}
	if err := s.ctl.SetTheme(focus.Theme(args[0])); err != nil {
		return err
	}
	fmt.Fprintf(out, "Theme set to %s.\n", args[0])
	return nil
}
