// Package loop runs a task repeatedly, threading its result into the next run.
package loop

import (
	"context"
	"fmt"
	"time"
)

// Next tells Start what to do after a task run.
//
// The zero value is Continue(0).
type Next struct {
	err      error
	quit     bool
	interval time.Duration
}

func (n Next) String() string {
	switch {
	case n.err != nil:
		return fmt.Sprintf("[break] with error: %v", n.err)
	case n.quit:
		return "[break] without error"
	default:
		return fmt.Sprintf("[continue] interval: %s", n.interval)
	}
}

// Continue runs the task again after interval.
func Continue(interval time.Duration) Next {
	return Next{interval: interval}
}

// Break stops the loop. err is returned from Start as is; it can be nil.
func Break(err error) Next {
	return Next{quit: true, err: err}
}

// Task takes the value returned from its previous run (or the initial value)
// and returns a new value with what to do next.
type Task[T any] func(context.Context, T) (T, Next)

// Start runs task until it breaks or ctx is done.
//
// The first run gets init. Each later run gets the value returned by the run
// before. Start returns the last value together with the error of Break, or
// ctx.Err() when ctx is done in the middle.
//
// For example, warming a cache once a day:
//
//	loop.Start(ctx, 0, func(ctx context.Context, runs int) (int, loop.Next) {
//		if err := warm(ctx); err != nil {
//			return runs, loop.Break(err)
//		}
//		return runs + 1, loop.Continue(24 * time.Hour)
//	})
func Start[T any](ctx context.Context, init T, task Task[T], options ...Option) (T, error) {
	if err := ctx.Err(); err != nil {
		return init, err
	}

	value := init
	for {
		next := runOnce(ctx, &value, task, options)
		if next.quit {
			return value, next.err
		}

		timer := time.NewTimer(next.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return value, ctx.Err()
		case <-timer.C:
		}
	}
}

func runOnce[T any](ctx context.Context, value *T, task Task[T], options []Option) Next {
	rc := &runConfig{ctx: ctx, cleanup: func() {}}
	for _, opt := range options {
		opt(rc)
	}
	defer rc.cleanup()

	v, next := task(rc.ctx, *value)
	*value = v
	return next
}

type runConfig struct {
	ctx     context.Context
	cleanup func()
}

// Option configures each run of a task.
type Option func(*runConfig)

// WithTimeout sets a deadline d after the start of each run
// on the context passed to the task.
func WithTimeout(d time.Duration) Option {
	return func(rc *runConfig) {
		ctx, cancel := context.WithTimeout(rc.ctx, d)
		prev := rc.cleanup
		rc.ctx = ctx
		rc.cleanup = func() {
			cancel()
			prev()
		}
	}
}
