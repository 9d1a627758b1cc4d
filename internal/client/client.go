package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"focustrack/internal/engine"
	"focustrack/internal/model"
	"focustrack/internal/streak"
)

// Error is an API failure decoded from the server's error envelope.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Code)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Client talks to the focustrack server. It satisfies the engine's session
// emitter and sequence deleter and the streak tracker's sources.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type authResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	return c.authenticate(ctx, "/api/auth/login", email, password)
}

func (c *Client) Register(ctx context.Context, email, password string) (string, error) {
	return c.authenticate(ctx, "/api/auth/register", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (string, error) {
	var resp authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, path, nil, body, &resp); err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.Token, nil
}

type sessionEnvelope struct {
	Session model.FocusSession `json:"session"`
}

// EmitSession logs a finished interval and returns the created record id.
func (c *Client) EmitSession(ctx context.Context, interval engine.Interval) (string, error) {
	var resp sessionEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/sessions", nil, interval, &resp); err != nil {
		return "", err
	}
	return resp.Session.ID, nil
}

// DeleteSequence removes every record logged under sequenceID.
func (c *Client) DeleteSequence(ctx context.Context, sequenceID string) (int, error) {
	var resp struct {
		Deleted int `json:"deleted"`
	}
	path := "/api/sessions/sequences/" + url.PathEscape(sequenceID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

// Sessions lists the user's records newest first.
func (c *Client) Sessions(ctx context.Context, since time.Time, limit int) ([]model.FocusSession, error) {
	query := url.Values{}
	if !since.IsZero() {
		query.Set("since", since.UTC().Format(time.RFC3339))
	}
	if limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}
	var resp struct {
		Sessions []model.FocusSession `json:"sessions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/sessions", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// ListSessions feeds the streak tracker.
func (c *Client) ListSessions(ctx context.Context, since time.Time) ([]streak.Record, error) {
	sessions, err := c.Sessions(ctx, since, 0)
	if err != nil {
		return nil, err
	}
	records := make([]streak.Record, 0, len(sessions))
	for _, s := range sessions {
		records = append(records, streak.Record{StartTime: s.StartTime, DurationSeconds: s.DurationSeconds})
	}
	return records, nil
}

func (c *Client) PausePeriods(ctx context.Context) ([]model.PausePeriod, error) {
	var resp struct {
		PausePeriods []model.PausePeriod `json:"pausePeriods"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/pause-periods", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.PausePeriods, nil
}

// ListPausePeriods feeds the streak tracker.
func (c *Client) ListPausePeriods(ctx context.Context) ([]streak.PausePeriod, error) {
	periods, err := c.PausePeriods(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]streak.PausePeriod, 0, len(periods))
	for _, p := range periods {
		out = append(out, streak.PausePeriod{Start: streak.Date(p.StartDate), End: streak.Date(p.EndDate)})
	}
	return out, nil
}

func (c *Client) CreatePausePeriod(ctx context.Context, start, end streak.Date, reason string) (model.PausePeriod, error) {
	var resp struct {
		PausePeriod model.PausePeriod `json:"pausePeriod"`
	}
	body := map[string]string{"startDate": start.String(), "endDate": end.String(), "reason": reason}
	if err := c.do(ctx, http.MethodPost, "/api/pause-periods", nil, body, &resp); err != nil {
		return model.PausePeriod{}, err
	}
	return resp.PausePeriod, nil
}

func (c *Client) DeletePausePeriod(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/pause-periods/"+url.PathEscape(id), nil, nil, nil)
}

// Streak asks the server for the streak as of today, judged in the server's
// reference zone.
func (c *Client) Streak(ctx context.Context, today streak.Date) (streak.Result, error) {
	query := url.Values{}
	if today != "" {
		query.Set("today", today.String())
	}
	var resp streak.Result
	if err := c.do(ctx, http.MethodGet, "/api/stats/streak", query, nil, &resp); err != nil {
		return streak.Result{}, err
	}
	return resp, nil
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &Error{Status: resp.StatusCode, Code: "http_error", Message: http.StatusText(resp.StatusCode)}
		var envelope errorEnvelope
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error.Code != "" {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
