package desktop

import (
	"context"
	"strings"

	"entrybot/internal/config"
	"entrybot/internal/logging"
)

// FocusVerifier checks that the editor owns the foreground before any keystroke is sent.
type FocusVerifier struct {
	screen Screen
	title  string
}

// NewFocusVerifier creates a verifier matching cfg.Editor.WindowTitle.
func NewFocusVerifier(screen Screen, cfg *config.Config) *FocusVerifier {
	return &FocusVerifier{screen: screen, title: cfg.Editor.WindowTitle}
}

// Verify fails with a *FocusError unless the foreground window title contains
// the configured title. Matching is case-sensitive.
func (v *FocusVerifier) Verify(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w, err := v.screen.Foreground()
	if err != nil {
		return &FocusError{Reason: "foreground window query failed", Err: err}
	}
	if w == nil {
		return &FocusError{Reason: "no foreground window"}
	}
	if !strings.Contains(w.Title, v.title) {
		return &FocusError{Reason: "active window is not " + v.title, Title: w.Title}
	}

	logging.DesktopDebug("Foreground window %q accepted", w.Title)
	return nil
}
