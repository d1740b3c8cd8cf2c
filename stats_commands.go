package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/sadopc/focusbuddy/internal/daterange"
	"github.com/sadopc/focusbuddy/internal/focus"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [period]",
	Short: "Show focus statistics for a period",
	Long: `Show focus statistics for a period.

[period] is one of daily, weekly, monthly, quarterly or semester
(default weekly). Averages are per day with at least one pomodoro.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withSession(runStats),
}

// stats recent
var statsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show totals for the last few days",
	Args:  cobra.NoArgs,
	RunE:  withSession(runStatsRecent),
}

var (
	statsRecentDays     int
	statsRecentSessions int
)

// stats clear
var statsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all statistics (tasks are kept)",
	Args:  cobra.NoArgs,
	RunE:  withSession(runStatsClear),
}

var statsClearYes bool

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.AddCommand(statsRecentCmd, statsClearCmd)

	statsRecentCmd.Flags().IntVarP(&statsRecentDays, "days", "n", 7, "Number of days, including today")
	statsRecentCmd.Flags().IntVar(&statsRecentSessions, "sessions", 5, "Number of recent sessions to list")
	statsClearCmd.Flags().BoolVarP(&statsClearYes, "yes", "y", false, "Confirm deletion")
}

func runStats(cmd *cobra.Command, args []string, s *session) error {
	period := daterange.Weekly
	if len(args) == 1 {
		p, err := daterange.ParsePeriod(args[0])
		if err != nil {
			return err
		}
		period = p
	}
	return printPeriod(cmd.OutOrStdout(), s.ctl.StatsForPeriod(period))
}

func runStatsRecent(cmd *cobra.Command, _ []string, s *session) error {
	if statsRecentDays < 1 {
		return errors.New("--days must be at least 1")
	}
	out := cmd.OutOrStdout()
	ps := s.ctl.Recent(statsRecentDays)
	if err := printPeriod(out, ps); err != nil {
		return err
	}
	if statsRecentSessions <= 0 {
		return nil
	}

	var sessions []focus.Session
	for _, sess := range s.ctl.Sessions() {
		if ps.Range.Contains(sess.Date) {
			sessions = append(sessions, sess)
		}
	}
	if len(sessions) == 0 {
		return nil
	}
	if len(sessions) > statsRecentSessions {
		sessions = sessions[len(sessions)-statsRecentSessions:]
	}
	fmt.Fprintln(out, "\nRecent sessions:")
	for i := len(sessions) - 1; i >= 0; i-- {
		sess := sessions[i]
		fmt.Fprintf(out, "  %s  %d min focus, %d min break\n",
			humanize.Time(sess.Date), sess.FocusMinutes, sess.BreakMinutes)
	}
	return nil
}

func runStatsClear(cmd *cobra.Command, _ []string, s *session) error {
	if !statsClearYes {
		return errors.New("refusing to clear statistics without --yes")
	}
	s.ctl.ClearAllStats()
	fmt.Fprintln(cmd.OutOrStdout(), "Statistics cleared.")
	return nil
}

func printPeriod(w io.Writer, ps focus.PeriodStats) error {
	fmt.Fprintln(w, ps.Range.Label)
	if ps.Empty() {
		fmt.Fprintln(w, "No data for this period.")
		return nil
	}

	avg := ps.Averages()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tTotal\tPer day\t")
	fmt.Fprintf(tw, "Focus\t%s\t%s\t\n", formatMinutes(ps.FocusMinutes), formatMinutes(avg.FocusMinutes))
	fmt.Fprintf(tw, "Pomodoros\t%d\t%d\t\n", ps.Pomodoros, avg.Pomodoros)
	fmt.Fprintf(tw, "Tasks completed\t%d\t%d\t\n", ps.TasksCompleted, avg.TasksCompleted)
	fmt.Fprintf(tw, "Active days\t%d\t\t\n", ps.ActiveDays)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tFOCUS\tPOMODOROS\tTASKS")
	for _, d := range ps.Days {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", d.Date, formatMinutes(d.FocusMinutes), d.PomodorosCompleted, d.TasksCompleted)
	}
	return tw.Flush()
}
