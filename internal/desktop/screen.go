// Package desktop talks to the interactive desktop session: it reads the
// foreground window, watches the pointer and synthesizes keystrokes.
//
// Everything platform specific sits behind Screen. Only Windows has a real
// implementation; other platforms get a Screen whose calls fail with ErrUnsupported.
package desktop

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrUnsupported is returned by every Screen call on platforms without desktop automation.
var ErrUnsupported = fmt.Errorf("desktop automation is not available on %s: %w", runtime.GOOS, errors.ErrUnsupported)

// Point is a pointer position in screen pixels.
type Point struct {
	X, Y int
}

// Size is the primary screen size in pixels.
type Size struct {
	Width, Height int
}

// Window describes a top-level window.
type Window struct {
	Handle uintptr
	Title  string
}

// Screen is the platform seam for focus queries and keyboard synthesis.
type Screen interface {
	// Foreground returns the window that currently has keyboard focus,
	// or nil when there is none.
	Foreground() (*Window, error)
	CursorPos() (Point, error)
	ScreenSize() (Size, error)

	// KeyRune types r as a Unicode character, independent of keyboard layout.
	KeyRune(r rune) error
	KeyEnter() error
	KeyTab() error
}

// corners returns the fail-safe trigger points of a screen.
func corners(s Size) [4]Point {
	right, bottom := s.Width-1, s.Height-1
	return [4]Point{
		{0, 0},
		{right, 0},
		{0, bottom},
		{right, bottom},
	}
}

// InCorner reports whether p sits on one of the four corners of a screen of size s.
func InCorner(p Point, s Size) bool {
	for _, c := range corners(s) {
		if p == c {
			return true
		}
	}
	return false
}
