// Package backendtest checks cache.Backend implementations.
package backendtest

import (
	"context"
	"testing"

	"github.com/investperdiem/perdiem/pkg/cache"
	"github.com/investperdiem/perdiem/pkg/utils/try"
)

// Run tests a backend. newBackend should return an empty backend each time.
func Run(t *testing.T, newBackend func(*testing.T) cache.Backend) {
	ctx := context.Background()

	t.Run("missing key is not found, at epoch 0", func(t *testing.T) {
		b := newBackend(t)
		_, ok := try.To2(b.Get(ctx, "missing")).OrFatal(t)
		if ok {
			t.Error("missing key is found")
		}
		if e := try.To(b.Epoch(ctx, "missing")).OrFatal(t); e != 0 {
			t.Errorf("epoch: (actual, expected) = (%d, %d)", e, 0)
		}
	})

	t.Run("value set at the current epoch can be got", func(t *testing.T) {
		b := newBackend(t)
		e := try.To(b.Epoch(ctx, "k")).OrFatal(t)
		if err := b.SetIfEpoch(ctx, "k", []byte("v1"), e); err != nil {
			t.Fatal(err)
		}
		v, ok := try.To2(b.Get(ctx, "k")).OrFatal(t)
		if !ok || string(v) != "v1" {
			t.Errorf("(actual, expected) = (%q (%v), %q)", v, ok, "v1")
		}
	})

	t.Run("delete removes values and bumps epochs", func(t *testing.T) {
		b := newBackend(t)
		for _, k := range []string{"a", "b"} {
			if err := b.SetIfEpoch(ctx, k, []byte(k), 0); err != nil {
				t.Fatal(err)
			}
		}
		if err := b.Delete(ctx, "a", "b", "never-set"); err != nil {
			t.Fatal(err)
		}
		for _, k := range []string{"a", "b", "never-set"} {
			if _, ok := try.To2(b.Get(ctx, k)).OrFatal(t); ok {
				t.Errorf("%s: still found", k)
			}
			if e := try.To(b.Epoch(ctx, k)).OrFatal(t); e != 1 {
				t.Errorf("%s: epoch: (actual, expected) = (%d, %d)", k, e, 1)
			}
		}
	})

	t.Run("value computed before delete is not set", func(t *testing.T) {
		b := newBackend(t)
		stale := try.To(b.Epoch(ctx, "k")).OrFatal(t)
		if err := b.Delete(ctx, "k"); err != nil {
			t.Fatal(err)
		}
		if err := b.SetIfEpoch(ctx, "k", []byte("stale"), stale); err != nil {
			t.Fatal(err)
		}
		if v, ok := try.To2(b.Get(ctx, "k")).OrFatal(t); ok {
			t.Errorf("stale value is set: %q", v)
		}
	})
}
