package models

import "time"

// Habit is something the user wants to quit or build.
type Habit struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	StartDate string     `json:"start_date"` // YYYY-MM-DD
	GoalDays  int        `json:"goal_days"`
	IsActive  bool       `json:"is_active"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// HabitInput is the body of a habit create call.
type HabitInput struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	GoalDays  int    `json:"goal_days"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

// HabitPatch is a partial habit update. Nil fields are left untouched.
type HabitPatch struct {
	Name      *string `json:"name,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	GoalDays  *int    `json:"goal_days,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p HabitPatch) Empty() bool {
	return p.Name == nil && p.StartDate == nil && p.GoalDays == nil && p.IsActive == nil
}

// HabitStats is computed by the server for a single habit and never mutated locally.
type HabitStats struct {
	Streak             int `json:"streak"`
	TotalSuccessDays   int `json:"total_success_days"`
	TotalRelapseCount  int `json:"total_relapse_count"`
	GoalDays           int `json:"goal_days"`
	ProgressPercentage int `json:"progress_percentage"`
}

// Trigger is a named cause the user can attach to a relapse.
type Trigger struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// TriggerInput is used for both trigger create and update.
type TriggerInput struct {
	Name string `json:"name"`
}
