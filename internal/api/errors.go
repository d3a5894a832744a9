package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// StatusError indicates the backend answered with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

// Error returns the response body text, or "API error: <status>" when the
// body is empty.
func (e *StatusError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("API error: %d", e.StatusCode)
}

// TransportError indicates the request never produced a response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: backend unreachable: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedError indicates a 2xx response whose body could not be decoded
// or did not match the expected shape.
type MalformedError struct {
	Op      string
	Content []byte
	Err     error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a request that ran out of time.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
