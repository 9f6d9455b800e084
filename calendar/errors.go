package calendar

import (
	"errors"
	"fmt"
)

// ErrMalformedDate is the sentinel for unparseable date input. Match with
// errors.Is; use errors.As with *MalformedDateError to recover the input.
var ErrMalformedDate = errors.New("malformed date")

// MalformedDateError reports a date value that could not be canonicalized.
// Dates are never silently defaulted: a bad value always surfaces here.
type MalformedDateError struct {
	Input string
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("malformed date: %q", e.Input)
}

func (e *MalformedDateError) Unwrap() error { return ErrMalformedDate }
