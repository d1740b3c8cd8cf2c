package daterange

import (
	"testing"
	"time"
)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestDayKey(t *testing.T) {
	tests := []struct {
		t    time.Time
		want string
	}{
		{at(2026, time.October, 18, 0, 0), "2026-10-18"},
		{at(2026, time.October, 18, 23, 59), "2026-10-18"},
		{at(2026, time.January, 1, 12, 0), "2026-01-01"},
	}
	for _, tt := range tests {
		if got := DayKey(tt.t); got != tt.want {
			t.Errorf("DayKey(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestDayKeyUsesLocalCalendarDay(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("EST", -5*3600)
	ts := time.Date(2026, time.March, 9, 23, 30, 0, 0, loc)
	if got := DayKey(ts); got != "2026-03-09" {
		t.Fatalf("expected local day 2026-03-09, got %s", got)
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in   string
		want Period
	}{
		{"daily", Daily},
		{"TODAY", Daily},
		{" week ", Weekly},
		{"monthly", Monthly},
		{"quarter", Quarterly},
		{"semester", Semester},
	}
	for _, tt := range tests {
		got, err := ParsePeriod(tt.in)
		if err != nil {
			t.Fatalf("ParsePeriod(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParsePeriod(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if _, err := ParsePeriod("yearly"); err == nil {
		t.Fatal("expected error for unknown period")
	}
}

func TestToday(t *testing.T) {
	r := ForPeriod(Daily, at(2026, time.October, 18, 15, 4))
	if !r.Start.Equal(at(2026, time.October, 18, 0, 0)) {
		t.Fatalf("unexpected start %v", r.Start)
	}
	if DayKey(r.End) != "2026-10-18" || r.End.Hour() != 23 || r.End.Minute() != 59 || r.End.Second() != 59 {
		t.Fatalf("unexpected end %v", r.End)
	}
	if r.Label != "Sunday, October 18, 2026" {
		t.Fatalf("unexpected label %q", r.Label)
	}
}

func TestWeekMondayToSunday(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantStart string
		wantEnd   string
	}{
		{"sunday", at(2026, time.October, 18, 9, 0), "2026-10-12", "2026-10-18"},
		{"monday", at(2026, time.October, 12, 0, 0), "2026-10-12", "2026-10-18"},
		{"wednesday", at(2026, time.October, 14, 12, 0), "2026-10-12", "2026-10-18"},
		{"across month", at(2026, time.October, 1, 8, 0), "2026-09-28", "2026-10-04"},
		{"across year", at(2026, time.January, 1, 8, 0), "2025-12-29", "2026-01-04"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ForPeriod(Weekly, tt.now)
			if DayKey(r.Start) != tt.wantStart || DayKey(r.End) != tt.wantEnd {
				t.Fatalf("got %s..%s, want %s..%s", DayKey(r.Start), DayKey(r.End), tt.wantStart, tt.wantEnd)
			}
			if r.Start.Weekday() != time.Monday {
				t.Fatalf("week should start on Monday, got %v", r.Start.Weekday())
			}
		})
	}
	if got := Week(at(2026, time.October, 18, 9, 0)).Label; got != "Oct 12 - Oct 18, 2026" {
		t.Fatalf("unexpected week label %q", got)
	}
}

func TestMonth(t *testing.T) {
	r := ForPeriod(Monthly, at(2028, time.February, 10, 0, 0))
	if DayKey(r.Start) != "2028-02-01" || DayKey(r.End) != "2028-02-29" {
		t.Fatalf("leap february: got %s..%s", DayKey(r.Start), DayKey(r.End))
	}
	if r.Label != "February 2028" {
		t.Fatalf("unexpected label %q", r.Label)
	}
}

func TestQuarter(t *testing.T) {
	tests := []struct {
		month     time.Month
		wantStart string
		wantEnd   string
		wantLabel string
	}{
		{time.January, "2026-01-01", "2026-03-31", "Q1 2026"},
		{time.March, "2026-01-01", "2026-03-31", "Q1 2026"},
		{time.April, "2026-04-01", "2026-06-30", "Q2 2026"},
		{time.September, "2026-07-01", "2026-09-30", "Q3 2026"},
		{time.December, "2026-10-01", "2026-12-31", "Q4 2026"},
	}
	for _, tt := range tests {
		r := ForPeriod(Quarterly, at(2026, tt.month, 15, 10, 0))
		if DayKey(r.Start) != tt.wantStart || DayKey(r.End) != tt.wantEnd || r.Label != tt.wantLabel {
			t.Errorf("%v: got %s..%s %q", tt.month, DayKey(r.Start), DayKey(r.End), r.Label)
		}
	}
}

func TestSemester(t *testing.T) {
	first := ForPeriod(Semester, at(2026, time.June, 30, 23, 0))
	if DayKey(first.Start) != "2026-01-01" || DayKey(first.End) != "2026-06-30" {
		t.Fatalf("first semester: got %s..%s", DayKey(first.Start), DayKey(first.End))
	}
	if first.Label != "First Semester 2026" {
		t.Fatalf("unexpected label %q", first.Label)
	}
	second := ForPeriod(Semester, at(2026, time.July, 1, 0, 0))
	if DayKey(second.Start) != "2026-07-01" || DayKey(second.End) != "2026-12-31" {
		t.Fatalf("second semester: got %s..%s", DayKey(second.Start), DayKey(second.End))
	}
	if second.Label != "Second Semester 2026" {
		t.Fatalf("unexpected label %q", second.Label)
	}
}

func TestContainsDayInclusiveBoundaries(t *testing.T) {
	r := ForPeriod(Weekly, at(2026, time.October, 14, 12, 0))
	for _, key := range []string{"2026-10-12", "2026-10-15", "2026-10-18"} {
		if !r.ContainsDay(key) {
			t.Errorf("expected %s inside week", key)
		}
	}
	for _, key := range []string{"2026-10-11", "2026-10-19", "not-a-date", ""} {
		if r.ContainsDay(key) {
			t.Errorf("expected %q outside week", key)
		}
	}
}

func TestContainsTimestampLateOnLastDay(t *testing.T) {
	r := ForPeriod(Daily, at(2026, time.October, 18, 8, 0))
	if !r.Contains(time.Date(2026, time.October, 18, 23, 59, 59, 999, time.UTC)) {
		t.Fatal("last instant of the day should be inside the daily range")
	}
	if r.Contains(at(2026, time.October, 19, 0, 0)) {
		t.Fatal("next midnight should be outside the daily range")
	}
}

func TestDays(t *testing.T) {
	days := Week(at(2026, time.October, 18, 9, 0)).Days()
	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}
	if days[0] != "2026-10-12" || days[6] != "2026-10-18" {
		t.Fatalf("unexpected days %v", days)
	}
}

func TestLastDays(t *testing.T) {
	r := LastDays(at(2026, time.October, 18, 9, 0), 7)
	if DayKey(r.Start) != "2026-10-12" || DayKey(r.End) != "2026-10-18" {
		t.Fatalf("got %s..%s", DayKey(r.Start), DayKey(r.End))
	}
	if got := LastDays(at(2026, time.October, 18, 9, 0), 0); DayKey(got.Start) != "2026-10-18" {
		t.Fatalf("n<1 should clamp to today, got %s", DayKey(got.Start))
	}
}
