// Package gateway wraps every outbound call the storefront makes to the REST
// backend. Calls attach the bearer token, raise a loading notice that is
// always dismissed, and turn the backend envelope into a Result or an Error.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// maxBodySize caps how much of a backend response is read.
const maxBodySize = 4 << 20

// TokenSource yields the bearer token for the request bound to ctx, or "".
type TokenSource interface {
	Token(ctx context.Context) string
}

// Notifier shows user-facing notices. Loading returns an id that Dismiss
// accepts.
type Notifier interface {
	Loading(ctx context.Context, text string) string
	Dismiss(ctx context.Context, id string)
	Success(ctx context.Context, text string)
	Error(ctx context.Context, text string)
}

// Client talks to the backend rooted at BaseURL.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource
	Notifier   Notifier
	Logger     zerolog.Logger
	Metrics    *Metrics
}

// New creates a client with a 30 second timeout and no notifications.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Logger:     zerolog.Nop(),
	}
}

type nopNotifier struct{}

func (nopNotifier) Loading(context.Context, string) string { return "" }
func (nopNotifier) Dismiss(context.Context, string)        {}
func (nopNotifier) Success(context.Context, string)        {}
func (nopNotifier) Error(context.Context, string)          {}

func (c *Client) notifier() Notifier {
	if c.Notifier == nil {
		return nopNotifier{}
	}
	return c.Notifier
}

func (c *Client) headers(ctx context.Context) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	if c.Tokens != nil {
		if token := c.Tokens.Token(ctx); token != "" {
			h.Set("Authorization", "Bearer "+token)
		}
	}
	return h
}

// send performs the HTTP exchange and returns the status code and raw body.
// Only transport problems are reported here.
func (c *Client) send(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, &Error{Kind: KindTransport, Err: fmt.Errorf("failed to marshal request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return 0, nil, &Error{Kind: KindTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header = c.headers(ctx)

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	c.Logger.Debug().Str("method", method).Str("path", path).Msg("backend request")

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, nil, &Error{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, &Error{Kind: KindTransport, StatusCode: resp.StatusCode, Err: err}
	}
	return resp.StatusCode, raw, nil
}

// report notifies and logs a failed call and counts it.
func (c *Client) report(ctx context.Context, method, path string, err error) {
	c.notifier().Error(ctx, err.Error())

	ev := c.Logger.Warn().Str("method", method).Str("path", path)
	if gerr, ok := err.(*Error); ok {
		ev = ev.Str("kind", gerr.Kind.String()).Int("status", gerr.StatusCode)
		c.Metrics.observe(method, gerr.Kind.String())
	}
	ev.Err(err).Msg("backend request failed")
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
