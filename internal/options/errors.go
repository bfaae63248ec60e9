package options

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownOption = errors.New("option error")
	ErrMissingValue  = errors.New("option requires a value")
	ErrTrailingArgs  = errors.New("command line argument error")
	ErrInvalidNumber = errors.New("invalid number")
)

// UsageError is a user input error. The caller prints Msg followed by the
// usage text and exits with status 1.
type UsageError struct {
	Msg string
	Err error
}

func (e *UsageError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func usageErrorf(err error, format string, args ...any) *UsageError {
	return &UsageError{Msg: fmt.Sprintf(format, args...), Err: err}
}
