package focus

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/sadopc/focusbuddy/internal/daterange"
)

// Stats folds completion events into per-day counters and keeps the
// completed-session log and the lifetime pomodoro counter.
type Stats struct {
	daily              []DailyStat
	sessions           []Session
	pomodorosCompleted int
}

func NewStats() *Stats {
	return &Stats{}
}

// RecordPomodoroCompletion credits one pomodoro and focusMinutes to the day of now.
func (st *Stats) RecordPomodoroCompletion(now time.Time, focusMinutes int) {
	day := st.day(daterange.DayKey(now))
	day.PomodorosCompleted++
	day.FocusMinutes += focusMinutes
	st.pomodorosCompleted++
}

// RecordTaskCompletion credits one completed task to the day of now. Callers
// invoke it on a task's false->true transition only; un-completing a task
// never takes the credit back.
func (st *Stats) RecordTaskCompletion(now time.Time) {
	st.day(daterange.DayKey(now)).TasksCompleted++
}

// day returns the record for key, creating it on first use.
func (st *Stats) day(key string) *DailyStat {
	for i := range st.daily {
		if st.daily[i].Date == key {
			return &st.daily[i]
		}
	}
	st.daily = append(st.daily, DailyStat{Date: key})
	return &st.daily[len(st.daily)-1]
}

func (st *Stats) addSession(s Session) {
	st.sessions = append(st.sessions, s)
}

// Clear drops every daily record, the session log and the lifetime counter.
func (st *Stats) Clear() {
	st.daily = nil
	st.sessions = nil
	st.pomodorosCompleted = 0
}

func (st *Stats) PomodorosCompleted() int { return st.pomodorosCompleted }

// Daily returns a copy of all day records sorted by date.
func (st *Stats) Daily() []DailyStat {
	out := slices.Clone(st.daily)
	sortByDate(out)
	return out
}

// Sessions returns a copy of the completed-session log in completion order.
func (st *Stats) Sessions() []Session {
	return slices.Clone(st.sessions)
}

// PeriodStats is the answer to a range query.
type PeriodStats struct {
	Range          daterange.Range
	FocusMinutes   int
	Pomodoros      int
	TasksCompleted int
	ActiveDays     int // days with at least one pomodoro
	Days           []DailyStat
}

// Averages are per active day, rounded to the nearest integer.
type Averages struct {
	FocusMinutes   int
	Pomodoros      int
	TasksCompleted int
}

func (p PeriodStats) Averages() Averages {
	if p.ActiveDays == 0 {
		return Averages{}
	}
	div := func(n int) int {
		return int(math.Round(float64(n) / float64(p.ActiveDays)))
	}
	return Averages{
		FocusMinutes:   div(p.FocusMinutes),
		Pomodoros:      div(p.Pomodoros),
		TasksCompleted: div(p.TasksCompleted),
	}
}

// Empty reports whether no day in the range has a record.
func (p PeriodStats) Empty() bool {
	return len(p.Days) == 0
}

// ForPeriod resolves period against now and sums the records inside it.
func (st *Stats) ForPeriod(period daterange.Period, now time.Time) PeriodStats {
	return st.inRange(daterange.ForPeriod(period, now))
}

// Recent sums the last n days ending today.
func (st *Stats) Recent(now time.Time, n int) PeriodStats {
	return st.inRange(daterange.LastDays(now, n))
}

func (st *Stats) inRange(r daterange.Range) PeriodStats {
	out := PeriodStats{Range: r}
	for _, d := range st.daily {
		if !r.ContainsDay(d.Date) {
			continue
		}
		out.FocusMinutes += d.FocusMinutes
		out.Pomodoros += d.PomodorosCompleted
		out.TasksCompleted += d.TasksCompleted
		if d.PomodorosCompleted > 0 {
			out.ActiveDays++
		}
		out.Days = append(out.Days, d)
	}
	sortByDate(out.Days)
	return out
}

func sortByDate(days []DailyStat) {
	slices.SortFunc(days, func(a, b DailyStat) int {
		return strings.Compare(a.Date, b.Date)
	})
}
