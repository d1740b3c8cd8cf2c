// Package daterange maps statistics periods to calendar day ranges.
//
// All functions are pure functions of the supplied "now" and operate in that
// value's location, so a day key always names the local calendar day the user
// saw on their clock.
package daterange

import (
	"fmt"
	"strings"
	"time"
)

// Period selects the calendar window a statistics query covers.
type Period string

const (
	Daily     Period = "daily"
	Weekly    Period = "weekly"
	Monthly   Period = "monthly"
	Quarterly Period = "quarterly"
	Semester  Period = "semester"
)

// Periods lists every period in display order.
var Periods = []Period{Daily, Weekly, Monthly, Quarterly, Semester}

func (p Period) Valid() bool {
	switch p {
	case Daily, Weekly, Monthly, Quarterly, Semester:
		return true
	}
	return false
}

// ParsePeriod accepts a period name case-insensitively. A few short aliases
// ("today", "week", "month", "quarter") are accepted for the CLI.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day", "today":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "monthly", "month":
		return Monthly, nil
	case "quarterly", "quarter":
		return Quarterly, nil
	case "semester", "half":
		return Semester, nil
	}
	return "", fmt.Errorf("unknown period %q (want one of daily, weekly, monthly, quarterly, semester)", s)
}

const dayLayout = "2006-01-02"

// DayKey returns the canonical YYYY-MM-DD identifier of the calendar day t
// falls on, in t's own location.
func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

// ParseDayKey parses a key produced by DayKey as midnight in loc.
func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dayLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day key %q: %w", key, err)
	}
	return t, nil
}

// Range is an inclusive window: Start is 00:00:00 of the first day and End is
// the last instant of the final day.
type Range struct {
	Start time.Time
	End   time.Time
	Label string
}

// ForPeriod resolves p against now. Unknown periods resolve to today.
func ForPeriod(p Period, now time.Time) Range {
	switch p {
	case Weekly:
		return Week(now)
	case Monthly:
		return Month(now)
	case Quarterly:
		return Quarter(now)
	case Semester:
		return Half(now)
	default:
		return Today(now)
	}
}

// Today covers the calendar day containing now.
func Today(now time.Time) Range {
	start := startOfDay(now)
	return Range{
		Start: start,
		End:   endOfDay(start),
		Label: start.Format("Monday, January 2, 2006"),
	}
}

// Week covers Monday through Sunday of the ISO week containing now.
func Week(now time.Time) Range {
	today := startOfDay(now)
	weekday := int(today.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := today.AddDate(0, 0, -(weekday - 1))
	sunday := monday.AddDate(0, 0, 6)
	return Range{
		Start: monday,
		End:   endOfDay(sunday),
		Label: fmt.Sprintf("%s - %s", monday.Format("Jan 2"), sunday.Format("Jan 2, 2006")),
	}
}

// Month covers the first through the last day of now's month.
func Month(now time.Time) Range {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)
	return Range{
		Start: first,
		End:   endOfDay(last),
		Label: first.Format("January 2006"),
	}
}

// Quarter covers the calendar quarter (Jan-Mar, Apr-Jun, Jul-Sep, Oct-Dec)
// containing now.
func Quarter(now time.Time) Range {
	q := (int(now.Month()) - 1) / 3
	first := time.Date(now.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 3, -1)
	return Range{
		Start: first,
		End:   endOfDay(last),
		Label: fmt.Sprintf("Q%d %d", q+1, now.Year()),
	}
}

// Half covers January-June or July-December, whichever contains now.
func Half(now time.Time) Range {
	startMonth, name := time.January, "First"
	if now.Month() > time.June {
		startMonth, name = time.July, "Second"
	}
	first := time.Date(now.Year(), startMonth, 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 6, -1)
	return Range{
		Start: first,
		End:   endOfDay(last),
		Label: fmt.Sprintf("%s Semester %d", name, now.Year()),
	}
}

// LastDays covers the n calendar days ending today (n >= 1).
func LastDays(now time.Time, n int) Range {
	if n < 1 {
		n = 1
	}
	today := startOfDay(now)
	first := today.AddDate(0, 0, -(n - 1))
	return Range{
		Start: first,
		End:   endOfDay(today),
		Label: fmt.Sprintf("%s - %s", first.Format("Jan 2"), today.Format("Jan 2, 2006")),
	}
}

// ContainsDay reports whether the day named by key lies within r. Comparison
// is done on whole days so time-of-day never excludes a boundary day. Keys
// that do not parse are outside every range.
func (r Range) ContainsDay(key string) bool {
	day, err := ParseDayKey(key, r.Start.Location())
	if err != nil {
		return false
	}
	return !day.Before(startOfDay(r.Start)) && !day.After(startOfDay(r.End))
}

// Contains reports whether t falls on a day within r.
func (r Range) Contains(t time.Time) bool {
	return r.ContainsDay(DayKey(t.In(r.Start.Location())))
}

// Days returns the key of every day in r in ascending order.
func (r Range) Days() []string {
	var keys []string
	last := startOfDay(r.End)
	for d := startOfDay(r.Start); !d.After(last); d = d.AddDate(0, 0, 1) {
		keys = append(keys, DayKey(d))
	}
	return keys
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
