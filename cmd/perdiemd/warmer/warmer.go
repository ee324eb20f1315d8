// Package warmer keeps the cached leaderboard fresh.
//
// The leaderboard folds every holding of every investor; computing it on a
// request after invalidation is slow, so it is recomputed on a schedule.
package warmer

import (
	"context"
	"log"
	"time"

	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/investperdiem/perdiem/pkg/loop"
	"github.com/investperdiem/perdiem/pkg/loop/recurring"
)

type Leaderboard interface {
	WarmLeaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error)
}

// Task warms lb, then waits interval. Errors are logged and do not stop it.
//
// The value passed between runs is the number of successful runs.
func Task(lb Leaderboard, interval time.Duration, logger *log.Logger) loop.Task[int] {
	return recurring.Task[int](func(ctx context.Context, runs int) (int, bool, error) {
		entries, err := lb.WarmLeaderboard(ctx)
		if err != nil {
			logger.Printf("failed to warm leaderboard: %+v", err)
			return runs, false, err
		}
		logger.Printf("leaderboard warmed: %d investors", len(entries))
		return runs + 1, false, nil
	}).Applied(recurring.Forever(interval))
}

// Start warms lb until ctx is done. A run taking longer than timeout is cancelled.
func Start(ctx context.Context, lb Leaderboard, interval time.Duration, timeout time.Duration, logger *log.Logger) (int, error) {
	return loop.Start(ctx, 0, Task(lb, interval, logger), loop.WithTimeout(timeout))
}
