// Package retry repeats operations failing transiently.
package retry

import (
	"context"
	"errors"
	"time"
)

// ErrRetry tells Blocking to try again. Wrap it to keep the cause.
var ErrRetry = errors.New("retry")

// Backoff waits before the next attempt.
//
// It returns ctx.Err() when ctx is done before the wait ends.
type Backoff func(ctx context.Context) error

// StaticBackoff waits for interval every time.
func StaticBackoff(interval time.Duration) Backoff {
	return ExponentialBackoff(interval, 1, interval)
}

// ExponentialBackoff waits for initial at first, and r times longer each time,
// up to max.
func ExponentialBackoff(initial time.Duration, r float64, max time.Duration) Backoff {
	interval := min(initial, max)
	return func(ctx context.Context) error {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		interval = min(time.Duration(float64(interval)*r), max)
		return nil
	}
}

// Blocking calls f until it returns nil or an error not wrapping ErrRetry.
// Attempts after the first wait for b.
//
// When ctx is done while waiting, Blocking returns the last value of f
// and the error of ctx joined with the last error of f.
func Blocking[T any](ctx context.Context, b Backoff, f func(context.Context) (T, error)) (T, error) {
	for {
		last, err := f(ctx)
		if err == nil || !errors.Is(err, ErrRetry) {
			return last, err
		}
		if berr := b(ctx); berr != nil {
			return last, errors.Join(berr, err)
		}
	}
}
