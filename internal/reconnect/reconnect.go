package reconnect

import (
	"context"
	"time"
)

// Schedule defines the backoff durations for successive attempts while no
// bridge instance answers.
var Schedule = []time.Duration{
	time.Second, time.Second, time.Second,
	5 * time.Second, 5 * time.Second, 5 * time.Second,
	15 * time.Second, 15 * time.Second, 15 * time.Second,
}

// Delay returns the backoff duration for the given attempt.
// Attempts beyond the length of the schedule default to 30 seconds.
func Delay(attempt int) time.Duration {
	if attempt < len(Schedule) {
		return Schedule[attempt]
	}
	return 30 * time.Second
}

// Loop calls fn, then waits and calls it again until ctx is done. fn
// reports whether it made progress; progress resets the backoff and the
// next call comes after steady instead.
func Loop(ctx context.Context, steady time.Duration, fn func(context.Context) bool) error {
	attempt := 0
	for {
		wait := steady
		if fn(ctx) {
			attempt = 0
		} else {
			wait = Delay(attempt)
			attempt++
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
