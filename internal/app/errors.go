package app

import (
	"errors"
	"fmt"
)

// ErrAuthRequired marks an action that needs a credential while none is held.
// The UI shows a login prompt for it instead of an error banner.
var ErrAuthRequired = errors.New("login required")

// RequestError is a non-2xx backend response. Detail carries the backend's
// own message when the error body had one.
type RequestError struct {
	Status int
	Detail string
}

func (e *RequestError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("request failed: status %d", e.Status)
	}
	return fmt.Sprintf("request failed: status %d: %s", e.Status, e.Detail)
}

// ValidationError is a client-side rejection; nothing was sent to the backend.
type ValidationError struct {
	Filename string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Filename, e.Reason)
}

// Detail extracts a user-facing message from any failure returned by the
// client: the backend detail when present, the raw error text otherwise.
func Detail(err error) string {
	var re *RequestError
	if errors.As(err, &re) && re.Detail != "" {
		return re.Detail
	}
	return err.Error()
}
