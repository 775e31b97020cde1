// Package api is the authenticated client for the habit tracker REST service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/events"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/tokens"
)

const refreshPath = "/auth/token/refresh/"

// Client sends JSON requests to the API, attaching the stored access token
// and refreshing it once when the server answers 401.
//
// Concurrent requests that hit 401 at the same time each refresh on their
// own; the server does not rotate refresh tokens so this is harmless.
type Client struct {
	baseURL   string
	http      *http.Client
	tokens    tokens.Store
	bus       *events.Broadcaster
	userAgent string
	requestID func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every HTTP exchange, including the refresh call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a client for the API rooted at baseURL. The bus may be nil.
func New(baseURL string, store tokens.Store, bus *events.Broadcaster, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: constants.DefaultTimeout},
		tokens:    store,
		bus:       bus,
		userAgent: constants.AppName + "/" + constants.Version,
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestOption adjusts a single call.
type RequestOption func(*requestConfig)

type requestConfig struct {
	headers http.Header
	noAuth  bool
}

// WithHeader adds a header to the call. Authorization cannot be overridden.
func WithHeader(key, value string) RequestOption {
	return func(rc *requestConfig) { rc.headers.Add(key, value) }
}

// WithoutAuth sends the call without a token and skips the 401 refresh step.
// Used for the register and token endpoints.
func WithoutAuth() RequestOption {
	return func(rc *requestConfig) { rc.noAuth = true }
}

// Do sends a request with an optional JSON body and decodes a JSON response into out.
//
// A 401 triggers exactly one refresh; if that succeeds the call is retried once
// with the new token and the retried response is final. When no refresh token
// is stored or the refresh endpoint rejects it, the token store is cleared, a
// logout is published, and ErrUnauthorized is returned. Transport and decode
// failures during the refresh are returned as is and keep the stored pair.
// A 204 or empty body leaves out untouched.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	rc := requestConfig{headers: http.Header{}}
	for _, opt := range opts {
		opt(&rc)
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	token := ""
	if !rc.noAuth {
		token = tokens.AccessToken(c.tokens)
	}

	resp, err := c.send(ctx, method, path, payload, token, rc.headers)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && !rc.noAuth {
		drain(resp)

		newAccess, err := c.refresh(ctx)
		if errors.Is(err, errRefreshRejected) {
			c.endSession()
			return ErrUnauthorized
		}
		if err != nil {
			return err
		}

		resp, err = c.send(ctx, method, path, payload, newAccess, rc.headers)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	return decode(resp, out)
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string, headers http.Header) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	for key, values := range headers {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Del(constants.HeaderAuthorization)
	if token != "" {
		req.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}
	if req.Header.Get(constants.HeaderRequestID) == "" {
		req.Header.Set(constants.HeaderRequestID, c.requestID())
	}
	if c.userAgent != "" {
		req.Header.Set(constants.HeaderUserAgent, c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug("request failed", "method", method, "path", path, "request_id", req.Header.Get(constants.HeaderRequestID), "error", err)
		return nil, fmt.Errorf("request failed: %w", err)
	}

	logger.Debug("request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", req.Header.Get(constants.HeaderRequestID),
		"duration", time.Since(start),
	)
	return resp, nil
}

// errRefreshRejected means the session has no usable refresh credential.
var errRefreshRejected = errors.New("refresh token missing or rejected")

// refresh exchanges the stored refresh token for a new access token.
// Only errRefreshRejected ends the session; transport and decode failures
// leave the stored pair untouched.
func (c *Client) refresh(ctx context.Context) (string, error) {
	refresh := tokens.RefreshToken(c.tokens)
	if refresh == "" {
		logger.Debug("no refresh token stored")
		return "", errRefreshRejected
	}

	payload, err := json.Marshal(map[string]string{"refresh": refresh})
	if err != nil {
		return "", fmt.Errorf("failed to encode refresh request: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, refreshPath, payload, "", nil)
	if err != nil {
		logger.Warn("token refresh failed", "error", err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("token refresh rejected", "status", resp.StatusCode)
		return "", errRefreshRejected
	}

	var out struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		logger.Warn("token refresh returned an unreadable body", "error", err)
		return "", &InvalidResponseError{Status: resp.StatusCode, Err: err}
	}
	if out.Access == "" {
		logger.Warn("token refresh returned no access token")
		return "", &InvalidResponseError{Status: resp.StatusCode, Err: errors.New("missing access token")}
	}

	// A logout may have cleared the store while the refresh was in flight.
	current := tokens.RefreshToken(c.tokens)
	if current == "" {
		logger.Info("refresh token removed during refresh, discarding new access token")
		return "", errRefreshRejected
	}

	if err := c.tokens.Set(models.TokenPair{Access: out.Access, Refresh: current}); err != nil {
		logger.Warn("failed to persist refreshed access token", "error", err)
		return "", fmt.Errorf("failed to persist refreshed access token: %w", err)
	}

	logger.Info("access token refreshed")
	return out.Access, nil
}

func (c *Client) endSession() {
	if err := c.tokens.Clear(); err != nil {
		logger.Error("failed to clear tokens", "error", err)
	}
	logger.Info("session ended", "reason", events.ReasonRefreshFailed)
	c.bus.Publish(events.ReasonRefreshFailed)
}

func decode(resp *http.Response, out any) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		raw = nil
	}
	text := string(raw)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := text
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &HTTPError{Status: resp.StatusCode, Body: msg}
	}

	if resp.StatusCode == http.StatusNoContent || strings.TrimSpace(text) == "" {
		return nil
	}

	if out == nil {
		if !json.Valid(raw) {
			return &InvalidResponseError{Status: resp.StatusCode, Err: fmt.Errorf("malformed JSON body")}
		}
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &InvalidResponseError{Status: resp.StatusCode, Err: err}
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
