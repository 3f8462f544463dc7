package fetch

import (
	"errors"
	"fmt"
)

// ErrTimeout indicates a timeout while issuing a request.
type ErrTimeout struct {
	Err error
}

func (e ErrTimeout) Error() string {
	return fmt.Errorf("timeout: %w", e.Err).Error()
}

func (e ErrTimeout) Unwrap() error {
	return e.Err
}

// ErrNetwork indicates a network connectivity failure.
type ErrNetwork struct {
	Err error
}

func (e ErrNetwork) Error() string {
	return fmt.Errorf("network: %w", e.Err).Error()
}

func (e ErrNetwork) Unwrap() error {
	return e.Err
}

// ErrBlocked indicates the target detected automated traffic, either via an
// HTTP 403/429 response or a block page served with status 200.
type ErrBlocked struct {
	StatusCode int
	Reason     string
}

func (e ErrBlocked) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("blocked: %s", e.Reason)
	}
	return fmt.Sprintf("blocked: http status %d", e.StatusCode)
}

// ErrHTTPStatus indicates a non-2xx response outside the blocking statuses.
type ErrHTTPStatus struct {
	StatusCode int
}

func (e ErrHTTPStatus) Error() string {
	return fmt.Sprintf("http status %d", e.StatusCode)
}

// IsBlocked reports whether err carries a block/rate-limit classification.
func IsBlocked(err error) bool {
	var blocked ErrBlocked
	return errors.As(err, &blocked)
}

// ErrorTypeLabel maps a fetch error to its metrics label.
func ErrorTypeLabel(err error) string {
	if err == nil {
		return "none"
	}
	var timeout ErrTimeout
	if errors.As(err, &timeout) {
		return "timeout"
	}
	var network ErrNetwork
	if errors.As(err, &network) {
		return "network"
	}
	var blocked ErrBlocked
	if errors.As(err, &blocked) {
		return "blocked"
	}
	var status ErrHTTPStatus
	if errors.As(err, &status) {
		return "http_status"
	}
	return "other"
}
