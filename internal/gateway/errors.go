package gateway

import "fmt"

// Kind classifies a failed call.
type Kind int

const (
	// KindTransport covers network, DNS and body parsing problems.
	KindTransport Kind = iota
	// KindHTTP is a non-2xx response.
	KindHTTP
	// KindBusiness is a 2xx response whose envelope says "fail".
	KindBusiness
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	case KindBusiness:
		return "business"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by Post and passed to the Notifier for every failure.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

// Error returns the text shown to the user.
func (e *Error) Error() string {
	if e.Kind == KindTransport {
		if e.Err == nil {
			return "An error occurred: " + e.Message
		}
		return "An error occurred: " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
