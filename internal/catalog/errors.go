package catalog

import (
	"context"
	"errors"
	"fmt"
)

// RemoteError reports a non-2xx response or a transport failure. StatusCode
// is zero when no response was received.
type RemoteError struct {
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error: %d", e.StatusCode)
	}
	if e.Err != nil {
		return "API error: " + e.Err.Error()
	}
	return "API error"
}

func (e *RemoteError) Unwrap() error { return e.Err }

// CancelledError reports that the caller abandoned the request. It is never
// shown to the user.
type CancelledError struct {
	Err error
}

func (e *CancelledError) Error() string { return "request cancelled" }

func (e *CancelledError) Unwrap() error { return e.Err }

// IsCancelled reports whether err is, or wraps, a CancelledError.
func IsCancelled(err error) bool {
	var ce *CancelledError
	return errors.As(err, &ce)
}

// classify maps a failure on ctx to the error taxonomy. A cancelled context
// always wins over whatever error the transport produced.
func classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled) {
		return &CancelledError{Err: context.Canceled}
	}
	return &RemoteError{Err: err}
}
