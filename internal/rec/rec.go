// Package rec turns panics into errors.
package rec

import (
	"fmt"
	"runtime/debug"
)

func rec(r any) error {
	if r == nil {
		return nil
	}
	if err, ok := r.(error); ok {
		return fmt.Errorf("recovered panic: %w\n%s", err, debug.Stack())
	}
	return fmt.Errorf("recovered panic: %v\n%s", r, debug.Stack())
}

// Error recovers a panic and stores it in err. Use it deferred.
func Error(err *error) {
	if r := rec(recover()); r != nil {
		*err = r
	}
}

// Wrap is Error with a message: a recovered panic, or a non-nil *err, is
// wrapped with format and a, the error being appended as last argument.
func Wrap(err *error, format string, a ...any) {
	if r := rec(recover()); r != nil {
		*err = fmt.Errorf(format, append(a, r)...)
	} else if *err != nil {
		*err = fmt.Errorf(format, append(a, *err)...)
	}
}
