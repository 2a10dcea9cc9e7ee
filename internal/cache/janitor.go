package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/codyseavey/cardledger/backend/internal/metrics"
)

// Purger is a tier that needs expired rows removed explicitly.
type Purger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Janitor periodically removes expired entries from a durable tier.
type Janitor struct {
	purger   Purger
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewJanitor(purger Purger, interval time.Duration, logger *zap.Logger) *Janitor {
	return &Janitor{
		purger:   purger,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

// Start runs until ctx is cancelled. It sweeps once on startup.
func (j *Janitor) Start(ctx context.Context) {
	j.logger.Info("Cache janitor started", zap.Duration("interval", j.interval))

	j.sweep(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("Cache janitor stopping")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	removed, err := j.purger.PurgeExpired(ctx, j.now())
	if err != nil {
		j.logger.Warn("Cache janitor sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		metrics.CacheEntriesExpired.Add(float64(removed))
		j.logger.Debug("Cache janitor removed expired entries", zap.Int64("rows", removed))
	}
}
