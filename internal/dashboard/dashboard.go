// Package dashboard derives the summary shown on the dashboard from the
// per-habit stats the server computes.
package dashboard

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/habitlog/internal/models"
)

// maxConcurrentStats bounds the parallel stats requests.
const maxConcurrentStats = 8

// HabitSource is the subset of the habits client the dashboard needs.
type HabitSource interface {
	Active(ctx context.Context) ([]models.Habit, error)
	Stats(ctx context.Context, id int64) (models.HabitStats, error)
}

// Aggregate summarizes items. The average progress is rounded to the nearest
// integer, and every field is zero for an empty set.
func Aggregate(items []models.DashboardItem) models.DashboardSummary {
	summary := models.DashboardSummary{
		ActiveCount: len(items),
		Items:       items,
	}
	if summary.Items == nil {
		summary.Items = []models.DashboardItem{}
	}
	if len(items) == 0 {
		return summary
	}

	progress := 0
	for _, item := range items {
		summary.TotalSuccessDays += item.Stats.TotalSuccessDays
		summary.TotalRelapseCount += item.Stats.TotalRelapseCount
		if item.Stats.Streak > summary.BestStreak {
			summary.BestStreak = item.Stats.Streak
		}
		progress += item.Stats.ProgressPercentage
	}
	summary.AvgProgressPercentage = int(math.Round(float64(progress) / float64(len(items))))

	return summary
}

// Load fetches the active habits and their stats, then aggregates them.
// Stats are fetched in parallel; the first failure cancels the rest and is
// returned. Items keep the order of the active list.
func Load(ctx context.Context, src HabitSource) (models.DashboardSummary, error) {
	habits, err := src.Active(ctx)
	if err != nil {
		return models.DashboardSummary{}, fmt.Errorf("failed to load active habits: %w", err)
	}

	items := make([]models.DashboardItem, len(habits))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentStats)

	for i, h := range habits {
		g.Go(func() error {
			stats, err := src.Stats(gctx, h.ID)
			if err != nil {
				return fmt.Errorf("failed to load stats for habit %d: %w", h.ID, err)
			}
			items[i] = models.DashboardItem{Habit: h, Stats: stats}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.DashboardSummary{}, err
	}

	return Aggregate(items), nil
}
