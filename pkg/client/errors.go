// Package client is a typed Go client for the CRM API. It distinguishes
// transport failures from server rejections from undecodable responses so
// callers can decide what is retryable and what is a bug.
package client

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError means the request never produced an HTTP response: DNS
// failure, refused connection, timeout or cancellation. There is no status
// code to report.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response from the server, carrying the decoded
// error envelope when one was present.
type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server returned %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// ParseError is a 2xx response whose body did not match the expected shape.
// It is never silently treated as an empty result.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not decode response from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError is a request rejected client side before any network
// traffic happened.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsRetryable reports whether the failure is transient: transport errors
// and 5xx responses may succeed on retry, everything else will not.
func IsRetryable(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status >= http.StatusInternalServerError ||
			httpErr.Status == http.StatusTooManyRequests
	}

	return false
}
