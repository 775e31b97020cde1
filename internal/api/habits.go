package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/julianstephens/habitlog/internal/models"
)

// Habits groups the /habits/ endpoints.
type Habits struct {
	c *Client
}

func (c *Client) Habits() Habits {
	return Habits{c: c}
}

func (h Habits) List(ctx context.Context) ([]models.Habit, error) {
	var out []models.Habit
	if err := h.c.Do(ctx, http.MethodGet, "/habits/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Active lists habits the server reports as active.
func (h Habits) Active(ctx context.Context) ([]models.Habit, error) {
	var out []models.Habit
	if err := h.c.Do(ctx, http.MethodGet, "/habits/active/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (h Habits) Create(ctx context.Context, in models.HabitInput) (models.Habit, error) {
	var out models.Habit
	err := h.c.Do(ctx, http.MethodPost, "/habits/", in, &out)
	return out, err
}

func (h Habits) Update(ctx context.Context, id int64, patch models.HabitPatch) (models.Habit, error) {
	var out models.Habit
	err := h.c.Do(ctx, http.MethodPatch, habitPath(id), patch, &out)
	return out, err
}

func (h Habits) Remove(ctx context.Context, id int64) error {
	return h.c.Do(ctx, http.MethodDelete, habitPath(id), nil, nil)
}

func (h Habits) Stats(ctx context.Context, id int64) (models.HabitStats, error) {
	var out models.HabitStats
	err := h.c.Do(ctx, http.MethodGet, habitPath(id)+"stats/", nil, &out)
	return out, err
}

// Dashboard fetches the summary computed by the server.
func (h Habits) Dashboard(ctx context.Context) (models.DashboardSummary, error) {
	var out models.DashboardSummary
	err := h.c.Do(ctx, http.MethodGet, "/habits/dashboard/", nil, &out)
	return out, err
}

func habitPath(id int64) string {
	return fmt.Sprintf("/habits/%d/", id)
}
