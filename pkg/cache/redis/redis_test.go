package redis_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/investperdiem/perdiem/pkg/cache"
	"github.com/investperdiem/perdiem/pkg/cache/backendtest"
	kredis "github.com/investperdiem/perdiem/pkg/cache/redis"
	"github.com/investperdiem/perdiem/pkg/utils/try"
	goredis "github.com/redis/go-redis/v9"
)

// PERDIEM_TEST_REDIS_ADDR points a redis whose databases 1-15 can be flushed.
const envRedisAddr = "PERDIEM_TEST_REDIS_ADDR"

func TestBackend(t *testing.T) {
	addr := os.Getenv(envRedisAddr)
	if addr == "" {
		t.Skipf("%s is not set. skipped.", envRedisAddr)
	}
	ctx := context.Background()

	db := 0
	backendtest.Run(t, func(t *testing.T) cache.Backend {
		db = db%15 + 1
		flusher := goredis.NewClient(&goredis.Options{Addr: addr, DB: db})
		defer flusher.Close()
		if err := flusher.FlushDB(ctx).Err(); err != nil {
			t.Fatal(fmt.Errorf("failed to flush db %d: %w", db, err))
		}

		b := try.To(kredis.New(ctx, kredis.Config{Addr: addr, DB: db})).OrFatal(t)
		t.Cleanup(func() { b.Close() })
		return b
	})
}
