package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/julianstephens/habitlog/internal/events"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/models"
)

// Auth groups account and session operations.
type Auth struct {
	c *Client
}

func (c *Client) Auth() Auth {
	return Auth{c: c}
}

// Register creates an account. It does not log in.
func (a Auth) Register(ctx context.Context, username, password string) error {
	creds := models.Credentials{Username: username, Password: password}
	return a.c.Do(ctx, http.MethodPost, "/auth/register/", creds, nil, WithoutAuth())
}

// Login exchanges credentials for a token pair and persists it.
func (a Auth) Login(ctx context.Context, username, password string) (models.TokenPair, error) {
	creds := models.Credentials{Username: username, Password: password}

	var pair models.TokenPair
	if err := a.c.Do(ctx, http.MethodPost, "/auth/token/", creds, &pair, WithoutAuth()); err != nil {
		return models.TokenPair{}, err
	}
	if pair.Access == "" || pair.Refresh == "" {
		return models.TokenPair{}, fmt.Errorf("token endpoint returned an incomplete token pair")
	}

	if err := a.c.tokens.Set(pair); err != nil {
		return models.TokenPair{}, fmt.Errorf("failed to store tokens: %w", err)
	}
	logger.Info("logged in", "username", username)
	return pair, nil
}

// Logout clears the stored tokens and publishes an explicit logout.
// The logout is published even if clearing fails.
func (a Auth) Logout() error {
	err := a.c.tokens.Clear()
	if err != nil {
		logger.Error("failed to clear tokens", "error", err)
		err = fmt.Errorf("failed to clear tokens: %w", err)
	}
	a.c.bus.Publish(events.ReasonExplicit)
	return err
}
