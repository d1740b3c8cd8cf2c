package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/sadopc/focusbuddy/internal/focus"
)

var csvHeader = []string{"Date", "Focus (min)", "Focus", "Pomodoros", "Tasks completed"}

// WriteCSV writes one row per day.
func WriteCSV(w io.Writer, days []focus.DailyStat) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, d := range days {
		row := []string{
			d.Date,
			strconv.Itoa(d.FocusMinutes),
			formatMinutes(d.FocusMinutes),
			strconv.Itoa(d.PomodorosCompleted),
			strconv.Itoa(d.TasksCompleted),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
