package main

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

const staleVisitorAge = 30 * time.Minute

type (
	sessionCleaner interface{ CleanupExpired() int }
	codePurger     interface {
		PurgeExpiredVerificationCodes(ctx context.Context) (int64, error)
	}
	visitorCleaner interface{ CleanupStale(idle time.Duration) int }
)

// StartScheduler registers the housekeeping jobs and starts the cron runner.
// The caller stops it on shutdown.
func StartScheduler(sessions sessionCleaner, codes codePurger, visitors visitorCleaner, logger *log.Logger) (*cron.Cron, error) {
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.With("component", "scheduler")
	c := cron.New()

	// every 10 minutes --> 0 */10 * * * *
	if _, err := c.AddFunc("@every 10m", func() {
		if n := sessions.CleanupExpired(); n > 0 {
			logger.Info("expired 2FA session tokens removed", "count", n)
		}
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := codes.PurgeExpiredVerificationCodes(ctx)
		if err != nil {
			logger.Error("purging verification codes", "err", err)
			return
		}
		logger.Info("expired verification codes purged", "count", n)
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc("@every 15m", func() {
		visitors.CleanupStale(staleVisitorAge)
	}); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
