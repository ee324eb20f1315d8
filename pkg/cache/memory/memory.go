// Package memory is a cache backend in the process memory.
package memory

import (
	"context"
	"sync"

	"github.com/investperdiem/perdiem/pkg/cache"
)

type backend struct {
	mu     sync.Mutex
	values map[string][]byte
	epochs map[string]uint64
}

var _ cache.Backend = &backend{}

func New() cache.Backend {
	return &backend{values: map[string][]byte{}, epochs: map[string]uint64{}}
}

func (b *backend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.values[key]
	return v, ok, nil
}

func (b *backend) Epoch(_ context.Context, key string) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.epochs[key], nil
}

func (b *backend) SetIfEpoch(_ context.Context, key string, value []byte, epoch uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.epochs[key] != epoch {
		return nil
	}
	b.values[key] = value
	return nil
}

func (b *backend) Delete(_ context.Context, keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range keys {
		delete(b.values, k)
		b.epochs[k] += 1
	}
	return nil
}

func (b *backend) Close() error { return nil }
