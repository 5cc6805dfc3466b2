package gateway

import (
	"context"
	"encoding/json"
	"net/http"
)

// Get fetches path and returns the decoded envelope. Failures are notified
// and logged, and Get returns nil instead of an error.
func Get[T any](ctx context.Context, c *Client, path, loadingText string) *Result[T] {
	n := c.notifier()
	id := n.Loading(ctx, or(loadingText, "Loading..."))
	defer n.Dismiss(ctx, id)

	status, raw, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		c.report(ctx, http.MethodGet, path, err)
		return nil
	}

	env, err := decode[T](status, raw, "Failed to fetch data.", false)
	if err != nil {
		c.report(ctx, http.MethodGet, path, err)
		return nil
	}

	c.Metrics.observe(http.MethodGet, outcomeSuccess)

	res := &Result[T]{Status: env.Status, Message: env.message()}
	if env.Data != nil {
		res.Data = *env.Data
	}
	return res
}

// Post sends body to path and returns the envelope data. Unlike the other
// methods it hands failures back to the caller after notifying them.
func Post[T any](ctx context.Context, c *Client, path string, body any, submitText, successText string) (T, error) {
	var out T

	n := c.notifier()
	id := n.Loading(ctx, or(submitText, "Submitting"))
	defer n.Dismiss(ctx, id)

	status, raw, err := c.send(ctx, http.MethodPost, path, body)
	if err != nil {
		c.report(ctx, http.MethodPost, path, err)
		return out, err
	}

	env, err := decode[T](status, raw, "Server error", false)
	if err != nil {
		c.report(ctx, http.MethodPost, path, err)
		return out, err
	}

	if env.Data != nil {
		out = *env.Data
	} else if s, ok := any(&out).(*string); ok {
		*s = NoDataReturned
	}

	c.Metrics.observe(http.MethodPost, outcomeSuccess)
	n.Success(ctx, or(env.message(), or(successText, "Submitted")))
	return out, nil
}

// Put sends body to path. Failures are notified and swallowed.
func Put(ctx context.Context, c *Client, path string, body any, submitText, successText string) {
	n := c.notifier()
	id := n.Loading(ctx, or(submitText, "Updating"))
	defer n.Dismiss(ctx, id)

	status, raw, err := c.send(ctx, http.MethodPut, path, body)
	if err != nil {
		c.report(ctx, http.MethodPut, path, err)
		return
	}

	env, err := decode[json.RawMessage](status, raw, "Server error", false)
	if err != nil {
		c.report(ctx, http.MethodPut, path, err)
		return
	}

	c.Metrics.observe(http.MethodPut, outcomeSuccess)
	n.Success(ctx, or(env.message(), or(successText, "Updated")))
}

// Delete removes the resource at path. An empty or non-JSON success body is
// accepted. Failures are notified and swallowed.
func Delete(ctx context.Context, c *Client, path, submitText, successText string) {
	n := c.notifier()
	id := n.Loading(ctx, or(submitText, "Deleting"))
	defer n.Dismiss(ctx, id)

	status, raw, err := c.send(ctx, http.MethodDelete, path, nil)
	if err != nil {
		c.report(ctx, http.MethodDelete, path, err)
		return
	}

	if _, err := decode[json.RawMessage](status, raw, "Server error", true); err != nil {
		c.report(ctx, http.MethodDelete, path, err)
		return
	}

	c.Metrics.observe(http.MethodDelete, outcomeSuccess)
	n.Success(ctx, or(successText, "Deleted"))
}
