// Package recurring decides how a loop.Task goes on, from whether its run
// did some work.
package recurring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/investperdiem/perdiem/pkg/loop"
)

// Task returns whether it did some work in this run, with the next value.
type Task[T any] func(context.Context, T) (T, bool, error)

// Applied converts the task into a loop.Task, deciding what comes next by p.
func (rt Task[T]) Applied(p Policy) loop.Task[T] {
	return func(ctx context.Context, value T) (T, loop.Next) {
		v, worked, err := rt(ctx, value)
		return v, p.Next(worked, err)
	}
}

type Policy interface {
	Next(worked bool, err error) loop.Next
	String() string
}

// ParsePolicy parses "forever", "forever:INTERVAL" or "backlog".
func ParsePolicy(s string) (Policy, error) {
	name, param, hasParam := strings.Cut(s, ":")
	switch name {
	case "forever":
		if param == "" {
			return Forever(0), nil
		}
		d, err := time.ParseDuration(param)
		if err != nil {
			return nil, fmt.Errorf(`%s is not "forever:INTERVAL": %w`, s, err)
		}
		return Forever(d), nil
	case "backlog":
		if hasParam {
			return nil, fmt.Errorf("backlog takes no parameter: %s", s)
		}
		return Backlog(), nil
	}
	return nil, fmt.Errorf("unknown policy: %q (forever[:INTERVAL]|backlog)", s)
}

// Forever runs again immediately after a run which did some work,
// otherwise after interval. Errors do not stop it.
func Forever(interval time.Duration) Policy {
	return forever(interval)
}

type forever time.Duration

func (f forever) String() string {
	return "forever:" + time.Duration(f).String()
}

func (f forever) Next(worked bool, _ error) loop.Next {
	if worked {
		return loop.Continue(0)
	}
	return loop.Continue(time.Duration(f))
}

// Backlog runs again while runs do some work, and stops at the first idle run.
func Backlog() Policy {
	return backlog{}
}

type backlog struct{}

func (backlog) String() string { return "backlog" }

func (backlog) Next(worked bool, _ error) loop.Next {
	if worked {
		return loop.Continue(0)
	}
	return loop.Break(nil)
}

// UntilError stops on the first error, and follows p otherwise.
func UntilError(p Policy) Policy {
	return untilError{base: p}
}

type untilError struct {
	base Policy
}

func (u untilError) String() string {
	return u.base.String() + " (until error)"
}

func (u untilError) Next(worked bool, err error) loop.Next {
	if err != nil {
		return loop.Break(err)
	}
	return u.base.Next(worked, err)
}
