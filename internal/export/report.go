package export

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/focusbuddy/internal/focus"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var Formats = []Format{FormatCSV, FormatJSON, FormatYAML}

func ParseFormat(s string) (Format, error) {
	switch s {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv, json or yaml)", s)
}

// Report is the document written by the JSON and YAML exporters.
type Report struct {
	ExportedAt         string         `json:"exported_at" yaml:"exported_at"`
	PomodorosCompleted int            `json:"pomodoros_completed" yaml:"pomodoros_completed"`
	Settings           reportSettings `json:"settings" yaml:"settings"`
	Daily              []reportDay    `json:"daily_stats" yaml:"daily_stats"`
	Sessions           []reportSess   `json:"sessions" yaml:"sessions"`
	Tasks              []reportTask   `json:"tasks" yaml:"tasks"`
}

type reportSettings struct {
	FocusMinutes       int    `json:"focus_minutes" yaml:"focus_minutes"`
	ShortBreakMinutes  int    `json:"short_break_minutes" yaml:"short_break_minutes"`
	LongBreakMinutes   int    `json:"long_break_minutes" yaml:"long_break_minutes"`
	LongBreakInterval  int    `json:"long_break_interval" yaml:"long_break_interval"`
	AutoStartBreaks    bool   `json:"auto_start_breaks" yaml:"auto_start_breaks"`
	AutoStartPomodoros bool   `json:"auto_start_pomodoros" yaml:"auto_start_pomodoros"`
	Sound              string `json:"sound" yaml:"sound"`
}

type reportDay struct {
	Date               string `json:"date" yaml:"date"`
	FocusMinutes       int    `json:"focus_minutes" yaml:"focus_minutes"`
	Focus              string `json:"focus" yaml:"focus"`
	PomodorosCompleted int    `json:"pomodoros_completed" yaml:"pomodoros_completed"`
	TasksCompleted     int    `json:"tasks_completed" yaml:"tasks_completed"`
}

type reportSess struct {
	ID           string `json:"id" yaml:"id"`
	CompletedAt  string `json:"completed_at" yaml:"completed_at"`
	FocusMinutes int    `json:"focus_minutes" yaml:"focus_minutes"`
	BreakMinutes int    `json:"break_minutes,omitempty" yaml:"break_minutes,omitempty"`
}

type reportTask struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Priority    string `json:"priority" yaml:"priority"`
	Completed   bool   `json:"completed" yaml:"completed"`
	CreatedAt   string `json:"created_at" yaml:"created_at"`
	CompletedAt string `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// NewReport flattens snap. Timestamps are RFC3339 in local time.
func NewReport(snap focus.Snapshot, now time.Time) Report {
	r := Report{
		ExportedAt:         now.UTC().Format(time.RFC3339),
		PomodorosCompleted: snap.PomodorosCompleted,
		Settings: reportSettings{
			FocusMinutes:       snap.FocusDuration,
			ShortBreakMinutes:  snap.ShortBreakDuration,
			LongBreakMinutes:   snap.LongBreakDuration,
			LongBreakInterval:  snap.LongBreakInterval,
			AutoStartBreaks:    snap.AutoStartBreaks,
			AutoStartPomodoros: snap.AutoStartPomodoros,
			Sound:              string(snap.SoundOption),
		},
		Daily:    []reportDay{},
		Sessions: []reportSess{},
		Tasks:    []reportTask{},
	}
	for _, d := range snap.DailyStats {
		r.Daily = append(r.Daily, reportDay{
			Date:               d.Date,
			FocusMinutes:       d.FocusMinutes,
			Focus:              formatMinutes(d.FocusMinutes),
			PomodorosCompleted: d.PomodorosCompleted,
			TasksCompleted:     d.TasksCompleted,
		})
	}
	for _, s := range snap.Sessions {
		r.Sessions = append(r.Sessions, reportSess{
			ID:           s.ID,
			CompletedAt:  s.Date.Local().Format(time.RFC3339),
			FocusMinutes: s.FocusMinutes,
			BreakMinutes: s.BreakMinutes,
		})
	}
	for _, t := range snap.Tasks {
		rt := reportTask{
			ID:        t.ID,
			Title:     t.Title,
			Priority:  string(t.Priority),
			Completed: t.Completed,
			CreatedAt: t.CreatedAt.Local().Format(time.RFC3339),
		}
		if t.CompletedAt != nil {
			rt.CompletedAt = t.CompletedAt.Local().Format(time.RFC3339)
		}
		r.Tasks = append(r.Tasks, rt)
	}
	return r
}

// Write renders snap to w in format f. CSV carries the daily statistics
// only; JSON and YAML carry the full Report.
func Write(w io.Writer, f Format, snap focus.Snapshot, now time.Time) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, snap.DailyStats)
	case FormatJSON:
		return WriteJSON(w, NewReport(snap, now))
	case FormatYAML:
		return WriteYAML(w, NewReport(snap, now))
	}
	return fmt.Errorf("unknown export format %q", f)
}

// ToFile is Write into a newly created file at path.
func ToFile(path string, f Format, snap focus.Snapshot, now time.Time) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s file: %w", f, err)
	}
	if err := Write(file, f, snap, now); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// formatMinutes renders minutes as HH:MM.
func formatMinutes(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
