package schema_test

import (
	"context"
	"errors"
	"testing"

	"github.com/investperdiem/perdiem/pkg/domain/schema"
)

type fakeSchema struct {
	cause error
}

func (fakeSchema) Upgrade(context.Context) error { return nil }

func (fakeSchema) Version(context.Context) (int, error) { return 1, nil }

func (f fakeSchema) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	cctx, cancel := context.WithCancelCause(ctx)
	if f.cause != nil {
		cancel(f.cause)
	}
	return cctx, func() { cancel(nil) }
}

func TestServe(t *testing.T) {
	t.Run("it serves while the schema is up to date", func(t *testing.T) {
		testee := schema.New(fakeSchema{})

		ctx, cancel, err := testee.Serve(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if ctx.Err() != nil {
			t.Errorf("context is done: %v", ctx.Err())
		}
		cancel()
		if ctx.Err() == nil {
			t.Errorf("context is not done after cancel")
		}
	})

	t.Run("it fails when the schema is outdated", func(t *testing.T) {
		cause := errors.New("schema is outdated: 1 < 2")
		testee := schema.New(fakeSchema{cause: cause})

		_, _, err := testee.Serve(context.Background())
		if !errors.Is(err, schema.ErrOutdated) || !errors.Is(err, cause) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("it fails with the error of the given context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		testee := schema.New(fakeSchema{})

		_, _, err := testee.Serve(ctx)
		if !errors.Is(err, context.Canceled) || errors.Is(err, schema.ErrOutdated) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
