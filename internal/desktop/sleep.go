package desktop

import (
	"context"
	"time"
)

// Sleeper pauses between desktop actions.
type Sleeper interface {
	// Sleep blocks for d or until ctx is done, whichever comes first.
	// It returns ctx.Err() when the wait was cut short.
	Sleep(ctx context.Context, d time.Duration) error
}

// TimerSleeper is the wall-clock Sleeper.
type TimerSleeper struct{}

func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
