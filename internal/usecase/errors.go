package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrRunInProgress         = errors.New("run already in progress")
	// ErrUpstreamTransient marks upstream failures worth retrying: throttling, 5xx and network errors.
	ErrUpstreamTransient = errors.New("upstream transient failure")
)

// IsRetryable reports whether a provider failure may succeed on another attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrRunInProgress) {
		return false
	}
	return true
}
