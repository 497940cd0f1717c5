package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable covers every failure to get an HTTP response at all:
	// connection refused, DNS, TLS, timeouts.
	ErrUnavailable = errors.New("server unavailable")

	// ErrMalformedResponse is a 2xx response whose body is not what the
	// endpoint promises.
	ErrMalformedResponse = errors.New("malformed server response")
)

// ProviderError is a non-2xx answer from the server. Message is either the
// server's own error text or, for a body that is not JSON, synthesized from
// the status line.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

func newStatusError(status int, statusText string) *ProviderError {
	return &ProviderError{
		Status:  status,
		Message: fmt.Sprintf("server error: %d %s", status, statusText),
	}
}
