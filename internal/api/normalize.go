package api

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/julianstephens/habitlog/internal/models"
)

// relationID decodes a foreign key the backend may send as a number, a
// numeric string, or null.
type relationID struct {
	Valid bool
	Value int64
}

func (r *relationID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = relationID{}
		return nil
	}

	s := string(bytes.Trim(b, `"`))
	if s == "" {
		*r = relationID{}
		return nil
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int64(f)) {
			return fmt.Errorf("invalid relation id %s", b)
		}
		v = int64(f)
	}
	*r = relationID{Valid: true, Value: v}
	return nil
}

func (r relationID) ptr() *int64 {
	if !r.Valid {
		return nil
	}
	v := r.Value
	return &v
}

// wireLog is a log as the backend sends it. The relation may arrive as
// habit/trigger, habit_id/trigger_id, or both.
type wireLog struct {
	ID        int64            `json:"id"`
	Habit     relationID       `json:"habit"`
	HabitID   relationID       `json:"habit_id"`
	Date      string           `json:"date"`
	Status    models.LogStatus `json:"status"`
	Note      *string          `json:"note"`
	Trigger   relationID       `json:"trigger"`
	TriggerID relationID       `json:"trigger_id"`
}

// normalizeLog maps the backend shape onto the canonical DailyLog.
// The *_id field wins when both spellings are present.
func normalizeLog(w wireLog) models.DailyLog {
	habit := w.HabitID
	if !habit.Valid {
		habit = w.Habit
	}
	trigger := w.TriggerID
	if !trigger.Valid {
		trigger = w.Trigger
	}

	return models.DailyLog{
		ID:        w.ID,
		HabitID:   habit.Value,
		Date:      w.Date,
		Status:    w.Status,
		Note:      w.Note,
		TriggerID: trigger.ptr(),
	}
}

func normalizeLogs(ws []wireLog) []models.DailyLog {
	out := make([]models.DailyLog, 0, len(ws))
	for _, w := range ws {
		out = append(out, normalizeLog(w))
	}
	return out
}

// createLogPayload is the body the backend expects on POST /logs/.
type createLogPayload struct {
	Habit   int64            `json:"habit"`
	Date    string           `json:"date"`
	Status  models.LogStatus `json:"status"`
	Note    *string          `json:"note,omitempty"`
	Trigger *int64           `json:"trigger,omitempty"`
}

func toCreatePayload(in models.LogInput) createLogPayload {
	return createLogPayload{
		Habit:   in.HabitID,
		Date:    in.Date,
		Status:  in.Status,
		Note:    in.Note,
		Trigger: in.TriggerID,
	}
}

// toPatchPayload includes only the fields the patch sets. ClearTrigger
// sends an explicit null so the server drops the relation.
func toPatchPayload(p models.LogPatch) map[string]any {
	out := map[string]any{}
	if p.HabitID != nil {
		out["habit"] = *p.HabitID
	}
	if p.Date != nil {
		out["date"] = *p.Date
	}
	if p.Status != nil {
		out["status"] = *p.Status
	}
	if p.Note != nil {
		out["note"] = *p.Note
	}
	switch {
	case p.TriggerID != nil:
		out["trigger"] = *p.TriggerID
	case p.ClearTrigger:
		out["trigger"] = nil
	}
	return out
}
