package transport

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable      = errors.New("server unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("resource not found")
	ErrValidation       = errors.New("invalid request parameters")
	ErrServer           = errors.New("internal server error")
	ErrUnexpectedStatus = errors.New("request failed")

	ErrResponseTooLarge = errors.New("response body too large")
)

// StatusError is returned for every failed call. Kind is one of the
// sentinels above, so callers match with errors.Is.
type StatusError struct {
	// Status is the HTTP status, 0 when no response arrived.
	Status int
	// Message is the human readable notice shown to the user.
	Message string
	Kind    error
	// Err is the underlying transport error, if any.
	Err error
}

func (e *StatusError) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Kind, e.Err)
		}
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
}

func (e *StatusError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

// MessageOf returns the user-facing message carried by err, falling back to
// err.Error().
func MessageOf(err error) string {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
