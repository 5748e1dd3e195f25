package desktop

import (
	"errors"
	"fmt"
)

// ErrAborted matches every AbortedError.
var ErrAborted = errors.New("typing aborted by user (fail-safe)")

// FocusError means the foreground window is not the target editor.
type FocusError struct {
	Reason string
	Title  string // observed foreground title, if any
	Err    error
}

func (e *FocusError) Error() string {
	msg := "focus check failed: " + e.Reason
	if e.Title != "" {
		msg += fmt.Sprintf(" (foreground: %q)", e.Title)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FocusError) Unwrap() error { return e.Err }

// InjectionError is a keystroke synthesis failure at rune Offset of the text.
type InjectionError struct {
	Offset int
	Rune   rune
	Err    error
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("typing error at rune %d (%q): %v", e.Offset, e.Rune, e.Err)
}

func (e *InjectionError) Unwrap() error { return e.Err }

// AbortedError is raised when the operator parks the pointer in a screen corner while typing.
type AbortedError struct {
	Offset int
	At     Point
}

func (e *AbortedError) Error() string {
	return fmt.Sprintf("%v: pointer at (%d,%d) after %d runes", ErrAborted, e.At.X, e.At.Y, e.Offset)
}

func (e *AbortedError) Unwrap() error { return ErrAborted }
