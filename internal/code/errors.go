package code

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrRange         = errors.New("range error")
	ErrFormat        = errors.New("format error")
	ErrRoundTrip     = errors.New("round trip error")
)

// Error reports a failure together with the pattern and the value that
// triggered it.
type Error struct {
	Pattern string
	Value   string
	Err     error
	Detail  string
}

func (e *Error) Error() string {
	name := e.Pattern
	if name == "" {
		name = "<unnamed>"
	}
	if e.Detail == "" {
		return fmt.Sprintf("%s |> %v: %q", name, e.Err, e.Value)
	}
	return fmt.Sprintf("%s |> %v: %q: %s", name, e.Err, e.Value, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind error, pattern string, value any, format string, a ...any) *Error {
	return &Error{
		Pattern: pattern,
		Value:   fmt.Sprint(value),
		Err:     kind,
		Detail:  fmt.Sprintf(format, a...),
	}
}

// RoundTripError builds the error raised when decoding an encoded value
// does not give the value back.
func RoundTripError(pattern string, want, have uint64) error {
	return newError(ErrRoundTrip, pattern, want, "decoded back as %d", have)
}
