package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitlog/internal/api"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/tokens"
)

func item(name string, streak, success, relapse, progress int) models.DashboardItem {
	return models.DashboardItem{
		Habit: models.Habit{Name: name, IsActive: true},
		Stats: models.HabitStats{
			Streak:             streak,
			TotalSuccessDays:   success,
			TotalRelapseCount:  relapse,
			ProgressPercentage: progress,
		},
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name  string
		items []models.DashboardItem
		want  models.DashboardSummary
	}{
		{
			name:  "two habits",
			items: []models.DashboardItem{item("a", 7, 21, 3, 80), item("b", 3, 5, 1, 40)},
			want: models.DashboardSummary{
				ActiveCount:           2,
				TotalSuccessDays:      26,
				TotalRelapseCount:     4,
				BestStreak:            7,
				AvgProgressPercentage: 60,
			},
		},
		{
			name: "empty",
			want: models.DashboardSummary{},
		},
		{
			name:  "average rounds half up",
			items: []models.DashboardItem{item("a", 0, 0, 0, 50), item("b", 0, 0, 0, 51)},
			want:  models.DashboardSummary{ActiveCount: 2, AvgProgressPercentage: 51},
		},
		{
			name:  "average rounds down",
			items: []models.DashboardItem{item("a", 1, 1, 0, 10), item("b", 2, 1, 0, 10), item("c", 0, 0, 2, 11)},
			want:  models.DashboardSummary{ActiveCount: 3, TotalSuccessDays: 2, TotalRelapseCount: 2, BestStreak: 2, AvgProgressPercentage: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.items)
			assert.Equal(t, tt.want.ActiveCount, got.ActiveCount)
			assert.Equal(t, tt.want.TotalSuccessDays, got.TotalSuccessDays)
			assert.Equal(t, tt.want.TotalRelapseCount, got.TotalRelapseCount)
			assert.Equal(t, tt.want.BestStreak, got.BestStreak)
			assert.Equal(t, tt.want.AvgProgressPercentage, got.AvgProgressPercentage)
			assert.NotNil(t, got.Items)
			assert.Len(t, got.Items, len(tt.items))
		})
	}
}

type stubSource struct {
	habits   []models.Habit
	stats    map[int64]models.HabitStats
	statsErr map[int64]error
	calls    atomic.Int32
}

func (s *stubSource) Active(context.Context) ([]models.Habit, error) {
	return s.habits, nil
}

func (s *stubSource) Stats(_ context.Context, id int64) (models.HabitStats, error) {
	s.calls.Add(1)
	if err := s.statsErr[id]; err != nil {
		return models.HabitStats{}, err
	}
	return s.stats[id], nil
}

func TestLoadKeepsOrder(t *testing.T) {
	src := &stubSource{
		habits: []models.Habit{{ID: 3, Name: "c"}, {ID: 1, Name: "a"}, {ID: 2, Name: "b"}},
		stats: map[int64]models.HabitStats{
			1: {Streak: 1, ProgressPercentage: 10},
			2: {Streak: 2, ProgressPercentage: 20},
			3: {Streak: 3, ProgressPercentage: 30},
		},
	}

	summary, err := Load(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, summary.Items, 3)
	for i, want := range []int64{3, 1, 2} {
		assert.Equal(t, want, summary.Items[i].Habit.ID)
		assert.Equal(t, int(want), summary.Items[i].Stats.Streak)
	}
	assert.Equal(t, 3, summary.BestStreak)
	assert.Equal(t, 20, summary.AvgProgressPercentage)
	assert.Equal(t, int32(3), src.calls.Load())
}

func TestLoadPropagatesStatsError(t *testing.T) {
	boom := errors.New("boom")
	src := &stubSource{
		habits:   []models.Habit{{ID: 1}, {ID: 2}},
		stats:    map[int64]models.HabitStats{1: {}},
		statsErr: map[int64]error{2: boom},
	}

	_, err := Load(context.Background(), src)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "habit 2")
}

func TestLoadNoActiveHabits(t *testing.T) {
	summary, err := Load(context.Background(), &stubSource{})
	require.NoError(t, err)
	assert.Zero(t, summary.ActiveCount)
	assert.Zero(t, summary.AvgProgressPercentage)
	assert.Empty(t, summary.Items)
}

func TestLoadAgainstAPI(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/habits/active/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"No sugar","start_date":"2025-01-01","goal_days":21,"is_active":true},
			{"id":2,"name":"Read","start_date":"2025-02-01","goal_days":5,"is_active":true}]`))
	})
	r.Get("/habits/{id}/stats/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch chi.URLParam(req, "id") {
		case "1":
			_, _ = w.Write([]byte(`{"streak":7,"total_success_days":21,"total_relapse_count":3,"goal_days":21,"progress_percentage":80}`))
		case "2":
			_, _ = w.Write([]byte(`{"streak":3,"total_success_days":5,"total_relapse_count":1,"goal_days":5,"progress_percentage":40}`))
		default:
			http.NotFound(w, req)
		}
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	store := tokens.NewMemoryStore()
	require.NoError(t, store.Set(models.TokenPair{Access: "a", Refresh: "r"}))
	client := api.New(srv.URL, store, nil)

	summary, err := Load(context.Background(), client.Habits())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ActiveCount)
	assert.Equal(t, 26, summary.TotalSuccessDays)
	assert.Equal(t, 4, summary.TotalRelapseCount)
	assert.Equal(t, 7, summary.BestStreak)
	assert.Equal(t, 60, summary.AvgProgressPercentage)
	assert.Equal(t, "No sugar", summary.Items[0].Habit.Name)
}
