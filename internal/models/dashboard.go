package models

// DashboardItem pairs an active habit with its server-computed stats.
type DashboardItem struct {
	Habit Habit      `json:"habit"`
	Stats HabitStats `json:"stats"`
}

// DashboardSummary aggregates the stats of all active habits.
type DashboardSummary struct {
	ActiveCount           int             `json:"active_count"`
	TotalSuccessDays      int             `json:"total_success_days"`
	TotalRelapseCount     int             `json:"total_relapse_count"`
	AvgProgressPercentage int             `json:"avg_progress_percentage"`
	BestStreak            int             `json:"best_streak"`
	Items                 []DashboardItem `json:"items"`
}
