package service

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to HTTP callers. Every error returned by the upstream
// client and the transformer wraps exactly one of these.
var (
	ErrUpstreamFailure       = errors.New("UpstreamFailure")
	ErrAuthenticationFailure = errors.New("AuthenticationFailure")
	ErrInconsistency         = errors.New("Inconsistency")
)

// UpstreamStatusError represents a non-success HTTP response from the
// booking provider.
type UpstreamStatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s: upstream returned status %d", e.Endpoint, e.StatusCode)
}

func (e *UpstreamStatusError) Unwrap() error { return ErrUpstreamFailure }

// KindOf returns the kind name carried by err. Errors of unknown origin are
// reported as upstream failures.
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrAuthenticationFailure):
		return ErrAuthenticationFailure.Error()
	case errors.Is(err, ErrInconsistency):
		return ErrInconsistency.Error()
	default:
		return ErrUpstreamFailure.Error()
	}
}

func inconsistent(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInconsistency, fmt.Sprintf(format, args...))
}
