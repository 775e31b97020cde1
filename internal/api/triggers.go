package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/julianstephens/habitlog/internal/models"
)

// Triggers groups the /triggers/ endpoints.
type Triggers struct {
	c *Client
}

func (c *Client) Triggers() Triggers {
	return Triggers{c: c}
}

func (t Triggers) List(ctx context.Context) ([]models.Trigger, error) {
	var out []models.Trigger
	if err := t.c.Do(ctx, http.MethodGet, "/triggers/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t Triggers) Create(ctx context.Context, in models.TriggerInput) (models.Trigger, error) {
	var out models.Trigger
	err := t.c.Do(ctx, http.MethodPost, "/triggers/", in, &out)
	return out, err
}

func (t Triggers) Update(ctx context.Context, id int64, in models.TriggerInput) (models.Trigger, error) {
	var out models.Trigger
	err := t.c.Do(ctx, http.MethodPatch, triggerPath(id), in, &out)
	return out, err
}

func (t Triggers) Remove(ctx context.Context, id int64) error {
	return t.c.Do(ctx, http.MethodDelete, triggerPath(id), nil, nil)
}

func triggerPath(id int64) string {
	return fmt.Sprintf("/triggers/%d/", id)
}
