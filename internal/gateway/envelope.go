package gateway

import (
	"encoding/json"
	"fmt"
)

// Status is the envelope outcome tag.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFail    Status = "fail"
)

// NoDataReturned stands in for an omitted data field when the caller asked
// for a string.
const NoDataReturned = "No data returned"

// Envelope is the backend response body.
type Envelope[T any] struct {
	Status  Status          `json:"status"`
	Data    *T              `json:"data,omitempty"`
	Message *string         `json:"message,omitempty"`
	Detail  json.RawMessage `json:"detail,omitempty"`
}

// Result is the decoded outcome handed back to callers.
type Result[T any] struct {
	Status  Status
	Data    T
	Message string
}

// OK reports whether r holds a successful response. A nil Result is not OK.
func (r *Result[T]) OK() bool {
	return r != nil && r.Status == StatusSuccess
}

// message prefers the envelope message, then a string detail (the shape
// FastAPI style backends use for errors).
func (e Envelope[T]) message() string {
	if e.Message != nil && *e.Message != "" {
		return *e.Message
	}
	var detail string
	if len(e.Detail) > 0 && json.Unmarshal(e.Detail, &detail) == nil {
		return detail
	}
	return ""
}

// decode interprets a response. lenient accepts an empty or malformed body on
// a 2xx status, which DELETE endpoints commonly return.
func decode[T any](status int, raw []byte, fallback string, lenient bool) (Envelope[T], error) {
	var env Envelope[T]

	var parseErr error
	if len(raw) > 0 {
		parseErr = json.Unmarshal(raw, &env)
	} else if !lenient {
		parseErr = fmt.Errorf("empty response body")
	}

	if status < 200 || status > 299 {
		return env, &Error{Kind: KindHTTP, StatusCode: status, Message: or(env.message(), fallback)}
	}

	if parseErr != nil {
		if lenient {
			return Envelope[T]{Status: StatusSuccess}, nil
		}
		return env, &Error{Kind: KindTransport, StatusCode: status, Err: fmt.Errorf("failed to decode response: %w", parseErr)}
	}

	if env.Status == StatusFail {
		return env, &Error{Kind: KindBusiness, StatusCode: status, Message: or(env.message(), fallback)}
	}
	return env, nil
}
