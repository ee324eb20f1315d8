// Package context derives contexts living as long as a test.
package context

import (
	"context"
	"time"
)

// margin is left before the deadline of tests, for cleanups.
const margin = time.Second

// Test is a subset of testing.TB.
type Test interface {
	Deadline() (time.Time, bool)
	Cleanup(func())
}

// WithTest derives a context which is done when t finishes,
// or a second before t times out.
func WithTest(ctx context.Context, t Test) context.Context {
	var cctx context.Context
	var cancel context.CancelFunc
	if deadline, ok := t.Deadline(); ok {
		cctx, cancel = context.WithDeadline(ctx, deadline.Add(-margin))
	} else {
		cctx, cancel = context.WithCancel(ctx)
	}
	t.Cleanup(cancel)
	return cctx
}
