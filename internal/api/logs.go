package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/julianstephens/habitlog/internal/models"
)

// ErrOverwriteDeclined is returned by UpsertConfirm when the caller refuses
// to overwrite an existing entry for the same day.
var ErrOverwriteDeclined = errors.New("existing entry left unchanged")

// Logs groups the /logs/ endpoints. Every log crossing this boundary is
// normalized to the canonical DailyLog shape.
type Logs struct {
	c *Client
}

func (c *Client) Logs() Logs {
	return Logs{c: c}
}

// List returns all logs, or only those of habitID when it is non-nil.
func (l Logs) List(ctx context.Context, habitID *int64) ([]models.DailyLog, error) {
	path := "/logs/"
	if habitID != nil {
		path += "?" + url.Values{"habit_id": {strconv.FormatInt(*habitID, 10)}}.Encode()
	}

	var raw []wireLog
	if err := l.c.Do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return normalizeLogs(raw), nil
}

func (l Logs) Create(ctx context.Context, in models.LogInput) (models.DailyLog, error) {
	var raw wireLog
	if err := l.c.Do(ctx, http.MethodPost, "/logs/", toCreatePayload(in), &raw); err != nil {
		return models.DailyLog{}, err
	}
	return normalizeLog(raw), nil
}

func (l Logs) Update(ctx context.Context, id int64, patch models.LogPatch) (models.DailyLog, error) {
	var raw wireLog
	if err := l.c.Do(ctx, http.MethodPatch, logPath(id), toPatchPayload(patch), &raw); err != nil {
		return models.DailyLog{}, err
	}
	return normalizeLog(raw), nil
}

func (l Logs) Remove(ctx context.Context, id int64) error {
	return l.c.Do(ctx, http.MethodDelete, logPath(id), nil, nil)
}

// FindByDate returns the habit's log for date, or nil when there is none.
func (l Logs) FindByDate(ctx context.Context, habitID int64, date string) (*models.DailyLog, error) {
	logs, err := l.List(ctx, &habitID)
	if err != nil {
		return nil, err
	}
	for i := range logs {
		if logs[i].Date == date {
			return &logs[i], nil
		}
	}
	return nil, nil
}

// UpsertResult is the stored log and whether it was newly created.
type UpsertResult struct {
	Log     models.DailyLog
	Created bool
}

// Upsert updates the habit's entry for in.Date if one exists and creates
// one otherwise. It is not atomic: two concurrent upserts for the same
// habit and day can both create.
func (l Logs) Upsert(ctx context.Context, in models.LogInput) (UpsertResult, error) {
	return l.UpsertConfirm(ctx, in, nil)
}

// UpsertConfirm is Upsert with a hook that may refuse to overwrite an
// existing entry, in which case ErrOverwriteDeclined is returned.
func (l Logs) UpsertConfirm(ctx context.Context, in models.LogInput, confirm func(existing models.DailyLog) bool) (UpsertResult, error) {
	existing, err := l.FindByDate(ctx, in.HabitID, in.Date)
	if err != nil {
		return UpsertResult{}, err
	}

	if existing == nil {
		created, err := l.Create(ctx, in)
		if err != nil {
			return UpsertResult{}, err
		}
		return UpsertResult{Log: created, Created: true}, nil
	}

	if confirm != nil && !confirm(*existing) {
		return UpsertResult{Log: *existing}, ErrOverwriteDeclined
	}

	updated, err := l.Update(ctx, existing.ID, models.PatchFromInput(in))
	if err != nil {
		return UpsertResult{}, err
	}
	return UpsertResult{Log: updated}, nil
}

func logPath(id int64) string {
	return fmt.Sprintf("/logs/%d/", id)
}
