package tracing_test

import (
	"context"
	"testing"

	"github.com/investperdiem/perdiem/pkg/tracing"
	"github.com/investperdiem/perdiem/pkg/utils/try"
)

func TestSetup(t *testing.T) {
	t.Run("without endpoint, it is a no-op", func(t *testing.T) {
		ctx := context.Background()
		shutdown := try.To(tracing.Setup(ctx, "", "perdiemd")).OrFatal(t)
		if err := shutdown(ctx); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		_, span := tracing.Tracer("test").Start(ctx, "span")
		defer span.End()
		if span.SpanContext().IsValid() {
			t.Error("span should not be recorded")
		}
	})
}
