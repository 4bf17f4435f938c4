// Package httpstore implements the remote capability surface against the
// hosted backend service's REST API. It owns no protocol of its own; every
// method is a thin request/response translation.
package httpstore

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
	"sync"
	"time"

	"glimpse/internal/observability"
	"glimpse/internal/remote"
)

// Config identifies the hosted project this client talks to.
type Config struct {
	Endpoint   string
	ProjectID  string
	APIKey     string
	DatabaseID string
}

// Client is a remote.Store backed by the hosted service. Like the vendor's
// browser SDK it holds at most one active session; CreateSession installs it
// and DeleteSession clears it.
type Client struct {
	cfg  Config
	http *http.Client

	mu        sync.RWMutex
	sessionID string
	secret    string

	authLog *observability.RemoteLogger
	docLog  *observability.RemoteLogger
	blobLog *observability.RemoteLogger
}

var _ remote.Store = (*Client)(nil)

// New creates a client for the given project configuration.
func New(cfg Config) (*Client, error) {
	if _, err := url.ParseRequestURI(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("invalid remote endpoint %q: %w", cfg.Endpoint, err)
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: 30 * time.Second},
		authLog: observability.NewRemoteLogger("auth"),
		docLog:  observability.NewRemoteLogger("documents"),
		blobLog: observability.NewRemoteLogger("storage"),
	}, nil
}

func (c *Client) setSession(id, secret string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = id
	c.secret = secret
}

func (c *Client) session() (string, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID, c.secret
}

// apiError is the service's error envelope.
type apiError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	u := strings.TrimRight(c.cfg.Endpoint, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Glimpse-Project", c.cfg.ProjectID)
	if c.cfg.APIKey != "" {
		req.Header.Set("X-Glimpse-Key", c.cfg.APIKey)
	}
	if _, secret := c.session(); secret != "" {
		req.Header.Set("X-Glimpse-Session", secret)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", remote.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response for %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}
	return c.do(ctx, method, path, query, reader, "application/json", out)
}

func statusError(resp *http.Response) error {
	var envelope apiError
	_ = json.NewDecoder(resp.Body).Decode(&envelope)
	msg := envelope.Message
	if msg == "" {
		msg = resp.Status
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", remote.ErrNotFound, msg)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", remote.ErrUnauthorized, msg)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", remote.ErrConflict, msg)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s", remote.ErrUnavailable, msg)
	default:
		return errors.New(msg)
	}
}
