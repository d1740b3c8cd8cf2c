package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/focusbuddy/internal/focus"
)

var exportNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func sampleSnapshot() focus.Snapshot {
	done := exportNow.Add(-time.Hour)
	snap := focus.DefaultSnapshot()
	snap.PomodorosCompleted = 3
	snap.DailyStats = []focus.DailyStat{
		{Date: "2026-10-17", FocusMinutes: 50, PomodorosCompleted: 2, TasksCompleted: 1},
		{Date: "2026-10-18", FocusMinutes: 75, PomodorosCompleted: 3},
	}
	snap.Sessions = []focus.Session{
		{ID: "s1", Date: exportNow.Add(-2 * time.Hour), FocusMinutes: 25, Completed: true},
	}
	snap.Tasks = []focus.Task{
		{ID: "t1", Title: `Write "report", part 1`, CreatedAt: exportNow.Add(-3 * time.Hour), Priority: focus.PriorityHigh},
		{ID: "t2", Title: "Email", Completed: true, CreatedAt: exportNow.Add(-3 * time.Hour), CompletedAt: &done, Priority: focus.PriorityNormal},
	}
	return snap
}

// ============================================================
// CSV
// ============================================================

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, sampleSnapshot(), exportNow); err != nil {
		t.Fatalf("Write csv: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 rows (1 header + 2 data), got %d", len(records))
	}
	for i, h := range csvHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}
	row := records[2]
	if row[0] != "2026-10-18" || row[1] != "75" || row[2] != "01:15" || row[3] != "3" || row[4] != "0" {
		t.Fatalf("unexpected row %v", row)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	records, _ := csv.NewReader(&buf).ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

// ============================================================
// JSON
// ============================================================

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, sampleSnapshot(), exportNow); err != nil {
		t.Fatalf("Write json: %v", err)
	}

	var r Report
	if err := json.Unmarshal(buf.Bytes(), &r); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if r.ExportedAt != "2026-10-18T12:00:00Z" {
		t.Fatalf("exported_at = %q", r.ExportedAt)
	}
	if r.PomodorosCompleted != 3 || len(r.Daily) != 2 || len(r.Sessions) != 1 || len(r.Tasks) != 2 {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.Tasks[0].Title != `Write "report", part 1` || r.Tasks[0].CompletedAt != "" {
		t.Fatalf("open task exported wrong: %+v", r.Tasks[0])
	}
	if _, err := time.Parse(time.RFC3339, r.Tasks[1].CompletedAt); err != nil {
		t.Fatalf("completed_at is not RFC3339: %q", r.Tasks[1].CompletedAt)
	}
	if r.Settings.FocusMinutes != 25 || r.Settings.Sound != "bell" {
		t.Fatalf("settings = %+v", r.Settings)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Fatal("JSON should be indented")
	}
}

func TestWriteJSONEmptyListsAreArrays(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, focus.DefaultSnapshot(), exportNow); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"daily_stats": []`, `"sessions": []`, `"tasks": []`} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("expected %s in %s", key, buf.String())
		}
	}
}

// ============================================================
// YAML
// ============================================================

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatYAML, sampleSnapshot(), exportNow); err != nil {
		t.Fatalf("Write yaml: %v", err)
	}
	var r Report
	if err := yaml.Unmarshal(buf.Bytes(), &r); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if len(r.Daily) != 2 || r.Daily[0].Focus != "00:50" {
		t.Fatalf("daily stats = %+v", r.Daily)
	}
	if r.Tasks[0].Priority != "high" {
		t.Fatalf("tasks = %+v", r.Tasks)
	}
	if !strings.Contains(buf.String(), "daily_stats:") {
		t.Fatal("expected snake_case keys")
	}
}

// ============================================================
// Files and formats
// ============================================================

func TestToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := ToFile(path, FormatYAML, sampleSnapshot(), exportNow); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "exported_at:") {
		t.Fatalf("unexpected file content %q", data)
	}
}

func TestToFileBadPath(t *testing.T) {
	err := ToFile("/nonexistent/dir/file.csv", FormatCSV, sampleSnapshot(), exportNow)
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		mins int
		want string
	}{
		{0, "00:00"},
		{25, "00:25"},
		{60, "01:00"},
		{135, "02:15"},
		{1500, "25:00"},
	}
	for _, tt := range tests {
		if got := formatMinutes(tt.mins); got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.mins, got, tt.want)
		}
	}
}
