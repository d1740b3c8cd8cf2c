package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/focusbuddy/internal/daterange"
	"github.com/sadopc/focusbuddy/internal/focus"
)

// StorageKey is the kv key holding the application document.
const StorageKey = "focus-buddy-storage"

const documentVersion = 0

type document struct {
	State   focus.Snapshot `json:"state"`
	Version int            `json:"version"`
}

// Save overwrites the stored document with snap.
func (s *Store) Save(snap focus.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	return s.Set(StorageKey, string(data))
}

// Load reads the stored document. It always returns a usable snapshot: an
// empty store yields focus.DefaultSnapshot, and any entries that could not
// be decoded are replaced by defaults or dropped. A non-nil error reports
// what was lost; callers log it and carry on.
func (s *Store) Load() (focus.Snapshot, error) {
	raw, err := s.Get(StorageKey)
	if errors.Is(err, sql.ErrNoRows) {
		return focus.DefaultSnapshot(), nil
	}
	if err != nil {
		return focus.DefaultSnapshot(), fmt.Errorf("load document: %w", err)
	}
	return Decode([]byte(raw))
}

// Encode renders snap as the persisted JSON document.
func Encode(snap focus.Snapshot) ([]byte, error) {
	if snap.Tasks == nil {
		snap.Tasks = []focus.Task{}
	}
	if snap.DailyStats == nil {
		snap.DailyStats = []focus.DailyStat{}
	}
	if snap.Sessions == nil {
		snap.Sessions = []focus.Session{}
	}
	data, err := json.Marshal(document{State: snap, Version: documentVersion})
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

// Decode parses a persisted document field by field. See Load for the
// fallback rules.
func Decode(data []byte) (focus.Snapshot, error) {
	snap := focus.DefaultSnapshot()

	var env struct {
		State json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return snap, fmt.Errorf("decode document: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(env.State, &fields); err != nil {
		return snap, fmt.Errorf("decode state: %w", err)
	}

	d := &decoder{fields: fields}

	decodeField(d, "theme", &snap.Theme, focus.Theme.Valid)
	decodeField(d, "pomodorosCompleted", &snap.PomodorosCompleted, func(n int) bool { return n >= 0 })

	decodeField(d, "focusDuration", &snap.FocusDuration, inBounds("focusDuration"))
	decodeField(d, "shortBreakDuration", &snap.ShortBreakDuration, inBounds("shortBreakDuration"))
	decodeField(d, "longBreakDuration", &snap.LongBreakDuration, inBounds("longBreakDuration"))
	decodeField(d, "longBreakInterval", &snap.LongBreakInterval, inBounds("longBreakInterval"))
	decodeField(d, "autoStartBreaks", &snap.AutoStartBreaks, nil)
	decodeField(d, "autoStartPomodoros", &snap.AutoStartPomodoros, nil)
	decodeField(d, "soundOption", &snap.SoundOption, focus.SoundOption.Valid)

	snap.Tasks = d.tasks()
	snap.DailyStats = d.dailyStats()
	snap.Sessions = d.sessions()

	return snap, errors.Join(d.problems...)
}

type decoder struct {
	fields   map[string]json.RawMessage
	problems []error
}

func (d *decoder) warnf(format string, args ...any) {
	d.problems = append(d.problems, fmt.Errorf(format, args...))
}

// decodeField copies fields[name] into dst when it is present, decodes and
// passes ok. Anything else leaves the default in place.
func decodeField[T any](d *decoder, name string, dst *T, ok func(T) bool) {
	raw, present := d.fields[name]
	if !present {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		d.warnf("%s: %v; using default", name, err)
		return
	}
	if ok != nil && !ok(v) {
		d.warnf("%s: invalid value %v; using default", name, v)
		return
	}
	*dst = v
}

func inBounds(name string) func(int) bool {
	b := focus.Bounds[name]
	return func(n int) bool { return n >= b.Min && n <= b.Max }
}

// list splits an array field into its raw elements.
func (d *decoder) list(name string) []json.RawMessage {
	raw, present := d.fields[name]
	if !present {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		d.warnf("%s: %v; using empty list", name, err)
		return nil
	}
	return items
}

type taskRecord struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"createdAt"`
	CompletedAt *string `json:"completedAt"`
	Priority    string  `json:"priority"`
}

func (d *decoder) tasks() []focus.Task {
	out := []focus.Task{}
	seen := make(map[string]bool)
	for i, raw := range d.list("tasks") {
		var rec taskRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			d.warnf("tasks[%d]: %v; skipped", i, err)
			continue
		}
		if rec.ID == "" || seen[rec.ID] {
			d.warnf("tasks[%d]: missing or duplicate id; skipped", i)
			continue
		}
		created, err := parseTime(rec.CreatedAt)
		if err != nil {
			d.warnf("tasks[%d]: createdAt: %v; skipped", i, err)
			continue
		}
		t := focus.Task{
			ID:        rec.ID,
			Title:     rec.Title,
			Completed: rec.Completed,
			CreatedAt: created,
			Priority:  focus.Priority(rec.Priority),
		}
		if !t.Priority.Valid() {
			t.Priority = focus.PriorityNormal
		}
		if rec.CompletedAt != nil && rec.Completed {
			if at, err := parseTime(*rec.CompletedAt); err == nil {
				t.CompletedAt = &at
			} else {
				d.warnf("tasks[%d]: completedAt: %v; dropped", i, err)
			}
		}
		seen[rec.ID] = true
		out = append(out, t)
	}
	return out
}

func (d *decoder) dailyStats() []focus.DailyStat {
	out := []focus.DailyStat{}
	index := make(map[string]int)
	for i, raw := range d.list("dailyStats") {
		var rec focus.DailyStat
		if err := json.Unmarshal(raw, &rec); err != nil {
			d.warnf("dailyStats[%d]: %v; skipped", i, err)
			continue
		}
		if _, err := daterange.ParseDayKey(rec.Date, time.UTC); err != nil {
			d.warnf("dailyStats[%d]: %v; skipped", i, err)
			continue
		}
		rec.FocusMinutes = max(rec.FocusMinutes, 0)
		rec.TasksCompleted = max(rec.TasksCompleted, 0)
		rec.PomodorosCompleted = max(rec.PomodorosCompleted, 0)

		if j, ok := index[rec.Date]; ok {
			out[j].FocusMinutes += rec.FocusMinutes
			out[j].TasksCompleted += rec.TasksCompleted
			out[j].PomodorosCompleted += rec.PomodorosCompleted
			continue
		}
		index[rec.Date] = len(out)
		out = append(out, rec)
	}
	return out
}

type sessionRecord struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	FocusMinutes int    `json:"focusMinutes"`
	BreakMinutes int    `json:"breakMinutes"`
	Completed    bool   `json:"completed"`
}

func (d *decoder) sessions() []focus.Session {
	out := []focus.Session{}
	for i, raw := range d.list("sessions") {
		var rec sessionRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			d.warnf("sessions[%d]: %v; skipped", i, err)
			continue
		}
		at, err := parseTime(rec.Date)
		if err != nil {
			d.warnf("sessions[%d]: date: %v; skipped", i, err)
			continue
		}
		out = append(out, focus.Session{
			ID:           rec.ID,
			Date:         at,
			FocusMinutes: max(rec.FocusMinutes, 0),
			BreakMinutes: max(rec.BreakMinutes, 0),
			Completed:    rec.Completed,
		})
	}
	return out
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing timestamp")
	}
	return time.Parse(time.RFC3339Nano, s)
}
