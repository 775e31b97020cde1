package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/julianstephens/habitlog/internal/models"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Entries    []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	HabitID   int64  `json:"habit_id"`
	Habit     string `json:"habit"`
	Status    string `json:"status"`
	TriggerID *int64 `json:"trigger_id,omitempty"`
	Trigger   string `json:"trigger,omitempty"`
	Note      string `json:"note,omitempty"`
}

// now is swapped in tests.
var now = time.Now

func ToJSON(w io.Writer, logs []models.DailyLog, names Names) error {
	export := jsonExport{
		ExportedAt: now().UTC().Format(time.RFC3339),
		Count:      len(logs),
		Entries:    make([]jsonEntry, 0, len(logs)),
	}

	for _, l := range logs {
		entry := jsonEntry{
			ID:        l.ID,
			Date:      l.Date,
			HabitID:   l.HabitID,
			Habit:     names.habit(l.HabitID),
			Status:    string(l.Status),
			TriggerID: l.TriggerID,
			Trigger:   names.trigger(l.TriggerID),
		}
		if l.Note != nil {
			entry.Note = *l.Note
		}
		export.Entries = append(export.Entries, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(export); err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	return nil
}
