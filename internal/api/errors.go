package api

import (
	"errors"
	"fmt"
)

// ErrUnexpectedStatus is the cause of a RemoteFailure built from a non-2xx response
var ErrUnexpectedStatus = errors.New("unexpected status")

// RemoteFailure is the single error type returned by every gateway call.
type RemoteFailure struct {
	Resource   string
	StatusCode int    // zero when no response was received
	Detail     string // server supplied detail, if any
	Cause      error
}

func (e *RemoteFailure) Error() string {
	msg := fmt.Sprintf("%s request failed", e.Resource)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	} else if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RemoteFailure) Unwrap() error {
	return e.Cause
}

// IsRemoteFailure reports whether err came from the gateway, and for which
// resource.
func IsRemoteFailure(err error) (*RemoteFailure, bool) {
	var failure *RemoteFailure
	if errors.As(err, &failure) {
		return failure, true
	}
	return nil, false
}
