package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/julianstephens/habitlog/internal/models"
)

func ToCSV(out io.Writer, logs []models.DailyLog, names Names) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"ID", "Date", "Habit ID", "Habit", "Status", "Trigger ID", "Trigger", "Note"}); err != nil {
		return err
	}

	for _, l := range logs {
		triggerID := ""
		if l.TriggerID != nil {
			triggerID = strconv.FormatInt(*l.TriggerID, 10)
		}
		note := ""
		if l.Note != nil {
			note = *l.Note
		}

		row := []string{
			strconv.FormatInt(l.ID, 10),
			l.Date,
			strconv.FormatInt(l.HabitID, 10),
			names.habit(l.HabitID),
			string(l.Status),
			triggerID,
			names.trigger(l.TriggerID),
			note,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
