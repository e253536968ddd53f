// Package simerr defines the error taxonomy shared by all simulation stages.
//
// Stages that receive well-formed input from upstream code fail fast with one
// of these sentinel kinds; stages that operate on best-effort telemetry
// substitute defaults instead of returning them.
package simerr

import (
	"errors"
	"fmt"
)

// ErrInvalidInput indicates a stage input with the wrong shape or type,
// e.g. a nil threat collection or a position with NaN coordinates.
var ErrInvalidInput = errors.New("invalid input")

// ErrMissingField indicates a required field absent under a strict policy.
var ErrMissingField = errors.New("missing required field")

// ErrDomainRange indicates an out-of-domain numeric input,
// e.g. negative fuel or non-positive thrust.
var ErrDomainRange = errors.New("value out of domain range")

// InvalidInput wraps ErrInvalidInput with context about the offending input.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}

// MissingField wraps ErrMissingField with the name of the absent field.
func MissingField(field string) error {
	return fmt.Errorf("%q: %w", field, ErrMissingField)
}

// DomainRange wraps ErrDomainRange with context about the offending value.
func DomainRange(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrDomainRange)
}
