// Package redis is a cache backend on redis.
//
// The epoch of key k is kept as an integer at "epoch:" + k.
package redis

import (
	"context"
	"errors"

	"github.com/investperdiem/perdiem/pkg/cache"
	xe "github.com/investperdiem/perdiem/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
)

type backend struct {
	client *goredis.Client
}

var _ cache.Backend = &backend{}

type Config struct {
	Addr     string
	Password string
	DB       int
}

// New connects to redis, and checks the connection.
func New(ctx context.Context, conf Config) (cache.Backend, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, xe.Wrap(err)
	}
	return &backend{client: client}, nil
}

func epochKey(key string) string {
	return "epoch:" + key
}

func (b *backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, xe.Wrap(err)
	}
	return v, true, nil
}

func (b *backend) Epoch(ctx context.Context, key string) (uint64, error) {
	return readEpoch(ctx, b.client, key)
}

func readEpoch(ctx context.Context, c goredis.Cmdable, key string) (uint64, error) {
	e, err := c.Get(ctx, epochKey(key)).Uint64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	} else if err != nil {
		return 0, xe.Wrap(err)
	}
	return e, nil
}

func (b *backend) SetIfEpoch(ctx context.Context, key string, value []byte, epoch uint64) error {
	err := b.client.Watch(ctx, func(tx *goredis.Tx) error {
		current, err := readEpoch(ctx, tx, key)
		if err != nil {
			return err
		}
		if current != epoch {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			p.Set(ctx, key, value, 0)
			return nil
		})
		return err
	}, epochKey(key))

	// the epoch moved while setting.
	if errors.Is(err, goredis.TxFailedErr) {
		return nil
	}
	return xe.Wrap(err)
}

func (b *backend) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := b.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		for _, k := range keys {
			p.Incr(ctx, epochKey(k))
			p.Del(ctx, k)
		}
		return nil
	})
	return xe.Wrap(err)
}

func (b *backend) Close() error {
	return b.client.Close()
}
