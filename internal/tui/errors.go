package tui

import (
	"errors"
	"fmt"
)

// ErrInterrupted is returned by App.Run when the user pressed ctrl+c. It
// is a normal way out, not a failure.
var ErrInterrupted = errors.New("interrupted")

// errRequestFailed marks a spinner job whose request came back empty-handed.
var errRequestFailed = errors.New("request failed")

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}
