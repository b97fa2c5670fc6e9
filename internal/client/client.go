// Package client is a typed HTTP client for the putter API.
package client

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

	"github.com/eeturonkko/putter/internal/domain"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("putter api: %s", http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("putter api: %s", e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsValidation reports whether err is a 400 from the API.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest
}

// SessionDetail is a session with its putts and totals.
type SessionDetail struct {
	domain.Session
	Stats domain.Stats `json:"stats"`
}

// Client talks to one putter server as one owner. Requests are never retried.
type Client struct {
	baseURL string
	owner   string
	header  string
	token   string
	hc      *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithUserHeader changes the identity header name.
func WithUserHeader(name string) Option {
	return func(c *Client) { c.header = name }
}

// WithBearerToken sends an Authorization bearer token on every request.
func WithBearerToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a Client for baseURL acting as owner.
func New(baseURL, owner string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		owner:   owner,
		header:  "x-user-id",
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health reports whether the server answers its health probe.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return err
	}
	if !out.OK {
		return errors.New("putter api: unhealthy")
	}
	return nil
}

// ListSessions returns the owner's sessions, newest first.
func (c *Client) ListSessions(ctx context.Context) ([]domain.SessionSummary, error) {
	var out []domain.SessionSummary
	if err := c.do(ctx, http.MethodGet, "/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSession creates a session.
func (c *Client) CreateSession(ctx context.Context, name, date string) (*domain.SessionSummary, error) {
	var out domain.SessionSummary
	body := map[string]string{"name": name, "date": date}
	if err := c.do(ctx, http.MethodPost, "/sessions", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSession fetches a session with its putts ordered by distance.
func (c *Client) GetSession(ctx context.Context, id int64) (*SessionDetail, error) {
	var out SessionDetail
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/sessions/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSession deletes a session and all of its putts.
func (c *Client) DeleteSession(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/sessions/%d", id), nil, nil)
}

// AddPutt records a distance in a session.
func (c *Client) AddPutt(ctx context.Context, sessionID int64, p domain.NewPutt) (*domain.PuttRecord, error) {
	var out domain.PuttRecord
	body := map[string]int{"distance_m": p.DistanceM, "attempts": p.Attempts, "makes": p.Makes}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/sessions/%d/putts", sessionID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePutt sends only the fields set in patch.
func (c *Client) UpdatePutt(ctx context.Context, sessionID, puttID int64, patch domain.PuttPatch) (*domain.PuttRecord, error) {
	body := map[string]int{}
	if patch.Attempts != nil {
		body["attempts"] = *patch.Attempts
	}
	if patch.Makes != nil {
		body["makes"] = *patch.Makes
	}

	var out domain.PuttRecord
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/sessions/%d/putts/%d", sessionID, puttID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePutt removes a putt record from a session.
func (c *Client) DeletePutt(ctx context.Context, sessionID, puttID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/sessions/%d/putts/%d", sessionID, puttID), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.owner != "" {
		req.Header.Set(c.header, c.owner)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var e struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e) == nil {
			apiErr.Message = e.Error
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
