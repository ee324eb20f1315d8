// Package cache is the derived-view cache.
//
// Values are computed projections, kept until their key is invalidated.
// Each key has an epoch which is bumped by invalidation; a value computed
// before an invalidation is never stored after it.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// Backend stores bytes by key.
type Backend interface {
	// Get returns the value of key. false when missing.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Epoch returns the current epoch of key. Keys never deleted have epoch 0.
	Epoch(ctx context.Context, key string) (uint64, error)

	// SetIfEpoch stores value only when the epoch of key is still epoch.
	//
	// When the epoch has moved, it does nothing and returns nil.
	SetIfEpoch(ctx context.Context, key string, value []byte, epoch uint64) error

	// Delete removes values of keys, and bumps their epochs.
	Delete(ctx context.Context, keys ...string) error

	Close() error
}

const LeaderboardKey = "leaderboard"

func ProfileContextKey(profileId int64) string {
	return fmt.Sprintf("profile_context:%d", profileId)
}

// Store is a Backend used by projections.
//
// Backend failures are logged, and never fail reads.
type Store struct {
	backend Backend
	logger  *log.Logger
}

func New(backend Backend, logger *log.Logger) *Store {
	return &Store{backend: backend, logger: logger}
}

// Invalidate deletes keys. Failures are logged.
func (s *Store) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := s.backend.Delete(ctx, keys...); err != nil {
		s.logger.Printf("failed to invalidate %v: %v", keys, err)
	}
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// GetOrSet returns the cached value of key, or computes, caches and returns it.
//
// Only errors from compute are returned.
func GetOrSet[T any](ctx context.Context, s *Store, key string, compute func(context.Context) (T, error)) (T, error) {
	if raw, ok, err := s.backend.Get(ctx, key); err != nil {
		s.logger.Printf("failed to get %s: %v", key, err)
	} else if ok {
		v := new(T)
		if err := json.Unmarshal(raw, v); err == nil {
			return *v, nil
		} else {
			s.logger.Printf("broken value in %s: %v", key, err)
		}
	}

	epoch, epochErr := s.backend.Epoch(ctx, key)
	if epochErr != nil {
		s.logger.Printf("failed to get epoch of %s: %v", key, epochErr)
	}

	v, err := compute(ctx)
	if err != nil {
		return v, err
	}
	if epochErr != nil {
		return v, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.Printf("failed to encode %s: %v", key, err)
		return v, nil
	}
	if err := s.backend.SetIfEpoch(ctx, key, raw, epoch); err != nil {
		s.logger.Printf("failed to set %s: %v", key, err)
	}
	return v, nil
}

// Set computes the value of key and stores it regardless of what is cached.
func Set[T any](ctx context.Context, s *Store, key string, compute func(context.Context) (T, error)) (T, error) {
	epoch, err := s.backend.Epoch(ctx, key)
	if err != nil {
		return *new(T), err
	}
	v, err := compute(ctx)
	if err != nil {
		return v, err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return v, err
	}
	return v, s.backend.SetIfEpoch(ctx, key, raw, epoch)
}
