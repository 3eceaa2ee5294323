package moderator

import "errors"

// ErrNotConfigured is returned when no text-completion client was bound at
// construction time. It is a server-side configuration problem, never
// retried internally.
var ErrNotConfigured = errors.New("moderator: completion client is not configured; guidance cannot be generated")

// UpstreamError reports a failed call to the text-completion service, so
// callers can distinguish provider failures from configuration problems.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return "moderator: guidance completion failed: " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Err }
