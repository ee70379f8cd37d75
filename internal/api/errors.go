package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachable indicates the upstream API could not be contacted.
	ErrUnreachable = errors.New("upstream api unreachable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("api request timed out")
)

// UpstreamError is a non-success HTTP status from the backend, carrying
// the upstream-provided message when the body decoded.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("upstream status %d", e.Status)
}

// UpstreamMessage returns the backend's failure message from err, or a
// generic fallback. Used verbatim in user-facing notifications.
func UpstreamMessage(err error) string {
	var ue *UpstreamError
	if errors.As(err, &ue) && ue.Message != "" {
		return ue.Message
	}
	return err.Error()
}
