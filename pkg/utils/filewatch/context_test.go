package filewatch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/investperdiem/perdiem/pkg/utils/filewatch"
)

func TestUntilModifyContext(t *testing.T) {
	type when struct {
		// prepare returns the path to be watched.
		prepare func(t *testing.T, dir string) string
		modify  func(t *testing.T, dir string)
	}

	theory := func(when when) func(*testing.T) {
		return func(t *testing.T) {
			dir := t.TempDir()
			target := when.prepare(t, dir)

			ctx, cancel, err := filewatch.UntilModifyContext(context.Background(), target, "")
			if err != nil {
				t.Fatal(err)
			}
			defer cancel()

			if err := ctx.Err(); err != nil {
				t.Fatalf("context is done too early: %v", err)
			}

			when.modify(t, dir)

			select {
			case <-ctx.Done():
				if context.Cause(ctx) == nil {
					t.Error("cause is not set")
				}
			case <-time.After(5 * time.Second):
				t.Error("context is not cancelled")
			}
		}
	}

	t.Run("a file created in a watched directory", theory(when{
		prepare: func(t *testing.T, dir string) string { return dir },
		modify: func(t *testing.T, dir string) {
			if err := os.WriteFile(filepath.Join(dir, "new"), nil, 0o644); err != nil {
				t.Fatal(err)
			}
		},
	}))

	t.Run("a watched file is written", theory(when{
		prepare: func(t *testing.T, dir string) string {
			file := filepath.Join(dir, "config.yaml")
			if err := os.WriteFile(file, []byte("a: 1"), 0o644); err != nil {
				t.Fatal(err)
			}
			return file
		},
		modify: func(t *testing.T, dir string) {
			if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("a: 2"), 0o644); err != nil {
				t.Fatal(err)
			}
		},
	}))

	t.Run("a watched file is removed", theory(when{
		prepare: func(t *testing.T, dir string) string {
			file := filepath.Join(dir, "config.yaml")
			if err := os.WriteFile(file, []byte("a: 1"), 0o644); err != nil {
				t.Fatal(err)
			}
			return file
		},
		modify: func(t *testing.T, dir string) {
			if err := os.Remove(filepath.Join(dir, "config.yaml")); err != nil {
				t.Fatal(err)
			}
		},
	}))
}

func TestUntilModifyContext_Missing(t *testing.T) {
	_, _, err := filewatch.UntilModifyContext(
		context.Background(), filepath.Join(t.TempDir(), "not-exist"),
	)
	if err == nil {
		t.Error("expected error does not occur")
	}
}
