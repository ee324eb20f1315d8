package events_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/investperdiem/perdiem/pkg/events"
)

func TestBus(t *testing.T) {
	ctx := context.Background()

	t.Run("every subscriber gets events in subscription order, even after one fails", func(t *testing.T) {
		logs := new(bytes.Buffer)
		testee := events.New(log.New(logs, "", 0))

		got := []string{}
		testee.Subscribe("first", func(_ context.Context, ev domain.Event) error {
			got = append(got, "first:"+string(ev.Kind()))
			return errors.New("fake error")
		})
		testee.Subscribe("second", func(_ context.Context, ev domain.Event) error {
			got = append(got, "second:"+string(ev.Kind()))
			return nil
		})

		testee.Publish(ctx, domain.RevenueReported{ProjectId: 1})
		testee.Publish(ctx, domain.SubscriptionChanged{UserId: 1})

		expected := []string{
			"first:revenue-reported", "second:revenue-reported",
			"first:subscription-changed", "second:subscription-changed",
		}
		if strings.Join(got, ",") != strings.Join(expected, ",") {
			t.Errorf("(actual, expected) = (%v, %v)", got, expected)
		}
		if !strings.Contains(logs.String(), "first: failed to handle revenue-reported: fake error") {
			t.Errorf("failure is not logged: %s", logs.String())
		}
	})

	t.Run("null bus drops events", func(t *testing.T) {
		testee := events.Null()
		testee.Subscribe("never", func(context.Context, domain.Event) error {
			t.Error("should not be called")
			return nil
		})
		testee.Publish(ctx, domain.RevenueReported{})
	})
}
