package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/infrastructure/metrics"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/pkg/logger"
)

const (
	expiryBatchSize       = 100
	defaultExpiryInterval = 5 * time.Minute
)

type pendingTopUpExpirer interface {
	ExpirePending(ctx context.Context, cutoff time.Time, limit int) (int64, error)
}

// PendingTopUpExpiryJob fails top-ups whose checkout was never completed
type PendingTopUpExpiryJob struct {
	repo     pendingTopUpExpirer
	maxAge   time.Duration
	interval time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func NewPendingTopUpExpiryJob(repo pendingTopUpExpirer, maxAge, interval time.Duration) *PendingTopUpExpiryJob {
	if interval <= 0 {
		interval = defaultExpiryInterval
	}
	return &PendingTopUpExpiryJob{
		repo:     repo,
		maxAge:   maxAge,
		interval: interval,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

func (j *PendingTopUpExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting pending top-up expiry job",
		zap.Duration("max_age", j.maxAge),
		zap.Duration("interval", j.interval),
	)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Pending top-up expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Pending top-up expiry job stopped")
			return
		case <-ticker.C:
			j.expireStale(ctx)
		}
	}
}

func (j *PendingTopUpExpiryJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

func (j *PendingTopUpExpiryJob) expireStale(ctx context.Context) {
	cutoff := j.now().Add(-j.maxAge)
	for {
		n, err := j.repo.ExpirePending(ctx, cutoff, expiryBatchSize)
		if err != nil {
			logger.Error(ctx, "Failed to expire pending top-ups", zap.Error(err))
			return
		}
		if n == 0 {
			return
		}

		metrics.ExpiredTopUps.Add(float64(n))
		logger.Info(ctx, "Expired pending top-ups", zap.Int64("count", n), zap.Time("cutoff", cutoff))

		if n < expiryBatchSize {
			return
		}
	}
}
