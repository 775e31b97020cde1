package models

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// LogStatus is the outcome recorded for a habit on a given day.
type LogStatus string

const (
	StatusSuccess LogStatus = "success"
	StatusRelapse LogStatus = "relapse"
)

// ParseLogStatus validates a status string.
func ParseLogStatus(s string) (LogStatus, error) {
	switch LogStatus(s) {
	case StatusSuccess, StatusRelapse:
		return LogStatus(s), nil
	default:
		return "", fmt.Errorf("invalid status %q (expected %q or %q)", s, StatusSuccess, StatusRelapse)
	}
}

// DailyLog is the canonical in-process shape of a log entry. Whatever field
// names the backend uses, every DailyLog carries HabitID and TriggerID.
type DailyLog struct {
	ID        int64     `json:"id"`
	HabitID   int64     `json:"habit_id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Status    LogStatus `json:"status"`
	Note      *string   `json:"note,omitempty"`
	TriggerID *int64    `json:"trigger_id,omitempty"` // only meaningful for relapses
}

// LogInput is the body of a log create or upsert.
type LogInput struct {
	HabitID   int64
	Date      string
	Status    LogStatus
	Note      *string
	TriggerID *int64
}

// LogPatch is a partial log update. Nil fields are left untouched.
// ClearTrigger sends an explicit null for the trigger relation.
type LogPatch struct {
	HabitID      *int64
	Date         *string
	Status       *LogStatus
	Note         *string
	TriggerID    *int64
	ClearTrigger bool
}

// PatchFromInput turns a full input into a patch that sets every field,
// clearing the trigger when the input has none.
func PatchFromInput(in LogInput) LogPatch {
	habitID := in.HabitID
	date := in.Date
	status := in.Status
	return LogPatch{
		HabitID:      &habitID,
		Date:         &date,
		Status:       &status,
		Note:         in.Note,
		TriggerID:    in.TriggerID,
		ClearTrigger: in.TriggerID == nil,
	}
}

// SortLogsByDateDesc orders logs newest day first, then by descending ID.
func SortLogsByDateDesc(logs []DailyLog) {
	slices.SortStableFunc(logs, func(a, b DailyLog) int {
		if c := strings.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
