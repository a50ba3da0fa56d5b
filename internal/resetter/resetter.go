// Package resetter re-arms completion flags once per user's local
// midnight. It holds nothing but a store reference and runs on an
// external one-minute tick: no process-wide singleton, no catch-up.
// If the process is down during a user's midnight minute, that reset
// is skipped until the next one.
package resetter

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/routinely/routinely/internal/logger"
	"github.com/routinely/routinely/internal/storage"
)

const (
	tickInterval = time.Minute
	// fanOut caps concurrent per-user resets on a tick.
	fanOut = 8
)

type Scheduler struct {
	store storage.Provider
	now   func() time.Time
}

func New(store storage.Provider) *Scheduler {
	return &Scheduler{store: store, now: time.Now}
}

// Run ticks once per minute until the context is cancelled. Tick
// failures are logged and the loop keeps going; a missed reset heals at
// the user's next midnight.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				logger.Error("completion reset tick failed", "error", err)
			}
		}
	}
}

// Tick checks every user and resets those whose local wall clock reads
// exactly 00:00. Unknown timezones fall back to UTC rather than
// skipping the user forever.
func (s *Scheduler) Tick(ctx context.Context) error {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return err
	}
	now := s.now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOut)
	for _, user := range users {
		user := user
		if !atMidnight(now, user.Timezone) {
			continue
		}
		g.Go(func() error {
			n, err := s.store.ResetCompletedForUser(ctx, user.ID)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("activities reset for user", "user", user.ID, "timezone", user.Timezone, "count", n)
			}
			return nil
		})
	}
	return g.Wait()
}

func atMidnight(now time.Time, timezone string) bool {
	loc := time.UTC
	if timezone != "" {
		if l, err := time.LoadLocation(timezone); err == nil {
			loc = l
		} else {
			logger.Warn("invalid user timezone, using UTC", "timezone", timezone)
		}
	}
	return now.In(loc).Format("15:04") == "00:00"
}
