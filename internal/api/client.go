// Package api is the client edge of the remote backend: one HTTP client
// that attaches the session credential, plus per-kind response adapters
// that normalize the backend's inconsistent listing shapes. It performs
// no retries, no caching, and no request coalescing.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/denifrahman/deni-crm/internal/config"
	"github.com/denifrahman/deni-crm/internal/domain"
	"github.com/google/uuid"
)

// Client talks to the deni-crm backend API.
type Client struct {
	cfg      config.Config
	http     *http.Client
	observer Observer
}

// NewClient creates a Client for the configured backend.
func NewClient(cfg config.Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// writeAck is the backend's envelope for write responses. Successes carry
// a human-readable confirmation in data; failures carry message.
type writeAck struct {
	Data    string `json:"data"`
	Message string `json:"message"`
}

// do issues one request and decodes a JSON response into out (skipped when
// out is nil). The bearer token is attached even when empty; the backend,
// not the client, decides whether that is acceptable.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	start := time.Now()
	reqID := uuid.New().String()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	u := c.cfg.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("X-Request-Id", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(method, path, 0, start, reqID, err)
		if ctx.Err() != nil {
			return ErrTimeout
		}
		var netErr *net.OpError
		if errors.As(err, &netErr) {
			return ErrUnreachable
		}
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(method, path, resp.StatusCode, start, reqID, err)
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var ack writeAck
		_ = json.Unmarshal(respBody, &ack)
		ue := &UpstreamError{Status: resp.StatusCode, Message: ack.Message}
		c.observe(method, path, resp.StatusCode, start, reqID, ue)
		return ue
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			c.observe(method, path, resp.StatusCode, start, reqID, err)
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	c.observe(method, path, resp.StatusCode, start, reqID, nil)
	return nil
}

// doRaw issues one request and returns the response body verbatim.
// Used for the spreadsheet export, whose payload is binary.
func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	start := time.Now()
	reqID := uuid.New().String()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	u := c.cfg.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("X-Request-Id", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(method, path, 0, start, reqID, err)
		if ctx.Err() != nil {
			return nil, ErrTimeout
		}
		return nil, ErrUnreachable
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(method, path, resp.StatusCode, start, reqID, err)
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		ue := &UpstreamError{Status: resp.StatusCode}
		c.observe(method, path, resp.StatusCode, start, reqID, ue)
		return nil, ue
	}

	c.observe(method, path, resp.StatusCode, start, reqID, nil)
	return data, nil
}

func (c *Client) observe(method, path string, status int, start time.Time, reqID string, err error) {
	ev := CallEvent{
		Method:    method,
		Path:      path,
		Status:    status,
		LatencyMs: time.Since(start).Milliseconds(),
		RequestID: reqID,
		Success:   err == nil,
	}
	if err != nil {
		ev.Err = err.Error()
	}
	c.observer.OnCallComplete(ev)
}

// filterQuery serializes listing filter state the way the backend expects.
// All parameters are always present, matching the listing contract.
func filterQuery(f domain.Filter) url.Values {
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", f.Page))
	q.Set("size", fmt.Sprintf("%d", f.Size))
	q.Set("search", f.Search)
	q.Set("startDate", f.StartDate)
	q.Set("endDate", f.EndDate)
	return q
}
