package desktop

import (
	"context"
	"time"

	"entrybot/internal/config"
	"entrybot/internal/logging"
)

// Injector types text into the focused window one rune at a time.
type Injector struct {
	screen   Screen
	sleeper  Sleeper
	interval time.Duration
	failSafe bool
}

// NewInjector creates an Injector paced by cfg.Typing. A nil sleeper uses TimerSleeper.
func NewInjector(screen Screen, cfg *config.Config, sleeper Sleeper) *Injector {
	if sleeper == nil {
		sleeper = TimerSleeper{}
	}
	return &Injector{
		screen:   screen,
		sleeper:  sleeper,
		interval: cfg.GetTypingInterval(),
		failSafe: cfg.Typing.FailSafe,
	}
}

// Type sends text as keystrokes. Newlines become Enter, tabs become Tab and
// carriage returns are dropped.
//
// With the fail-safe on, the pointer is checked before every rune; a pointer in
// any screen corner stops typing with an *AbortedError. Synthesis failures are
// reported as *InjectionError. Text typed before a failure stays in the window.
func (in *Injector) Type(ctx context.Context, text string) error {
	var size Size
	if in.failSafe {
		s, err := in.screen.ScreenSize()
		if err != nil {
			return &InjectionError{Err: err}
		}
		size = s
	}

	offset := 0
	for _, r := range text {
		if err := ctx.Err(); err != nil {
			return err
		}

		if in.failSafe {
			pos, err := in.screen.CursorPos()
			if err != nil {
				return &InjectionError{Offset: offset, Rune: r, Err: err}
			}
			if InCorner(pos, size) {
				logging.DesktopWarn("Fail-safe triggered at (%d,%d), %d runes typed", pos.X, pos.Y, offset)
				return &AbortedError{Offset: offset, At: pos}
			}
		}

		var err error
		switch r {
		case '\r':
			offset++
			continue
		case '\n':
			err = in.screen.KeyEnter()
		case '\t':
			err = in.screen.KeyTab()
		default:
			err = in.screen.KeyRune(r)
		}
		if err != nil {
			return &InjectionError{Offset: offset, Rune: r, Err: err}
		}
		offset++

		if err := in.sleeper.Sleep(ctx, in.interval); err != nil {
			return err
		}
	}

	logging.DesktopDebug("Typed %d runes", offset)
	return nil
}
