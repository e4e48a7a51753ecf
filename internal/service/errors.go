package service

import (
	"errors"
	"fmt"
)

// ErrGeocodeFailed is returned when a required geocode lookup fails.
var ErrGeocodeFailed = errors.New("could not locate address")

// ErrNotConfigured is returned when an operation needs a provider that has no credentials.
var ErrNotConfigured = errors.New("provider not configured")

// ValidationError describes a request the service refuses to value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
