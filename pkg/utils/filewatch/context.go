// Package filewatch derives contexts bound to files on disk.
package filewatch

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// UntilModifyContext returns a context cancelled when any of paths
// (or a file in it, for a directory) is written, created, removed or renamed.
//
// Empty paths are ignored. The cause of cancellation tells which file is modified.
func UntilModifyContext(ctx context.Context, paths ...string) (context.Context, context.CancelFunc, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := w.Add(p); err != nil {
			w.Close()
			return nil, nil, fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}

	cctx, cancel := context.WithCancelCause(ctx)
	go func() {
		defer w.Close()
		for {
			select {
			case <-cctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
					continue
				}
				cancel(fmt.Errorf("%s is modified (%s)", ev.Name, ev.Op))
				return
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				cancel(fmt.Errorf("stop watching files: %w", err))
				return
			}
		}
	}()

	return cctx, func() { cancel(nil) }, nil
}
