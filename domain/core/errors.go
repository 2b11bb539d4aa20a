package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrInvalidParameter covers out-of-range fractions, impossible
	// weightings and requested missing counts exceeding the row count.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnknownMechanism is returned for unsupported mechanism or
	// functional-form tags.
	ErrUnknownMechanism = errors.New("unknown mechanism")

	// ErrMissingField is returned when a referenced field is absent from
	// the observation table.
	ErrMissingField = errors.New("field not found")

	// ErrEmptyTable is returned when an operation requires at least one row.
	ErrEmptyTable = errors.New("table has no rows")
)

// Error constructors with context

func NewInvalidParameterError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, reason)
}

func NewInvalidParameterErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

func NewUnknownMechanismError(tag string) error {
	return fmt.Errorf("%w: %q", ErrUnknownMechanism, tag)
}

func NewMissingFieldError(field string) error {
	return fmt.Errorf("%w: %q", ErrMissingField, field)
}

// Error checking helpers

func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}

func IsUnknownMechanism(err error) bool {
	return errors.Is(err, ErrUnknownMechanism)
}

func IsMissingField(err error) bool {
	return errors.Is(err, ErrMissingField)
}
