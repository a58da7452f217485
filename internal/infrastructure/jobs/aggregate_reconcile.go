package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"donation-platform.backend/internal/domain/entities"
	"donation-platform.backend/pkg/logger"
	"donation-platform.backend/pkg/metrics"
)

type charityAggregateStore interface {
	ListAll(ctx context.Context) ([]*entities.Charity, error)
	RecomputeAggregates(ctx context.Context, id uuid.UUID) (before, after entities.CharityAggregate, err error)
}

type donationAggregateSource interface {
	AggregateByCharity(ctx context.Context) ([]entities.CharityAggregate, error)
}

// AggregateReconcileJob periodically recomputes each charity's totalDonations
// and donationCount from its completed donations and corrects drift.
type AggregateReconcileJob struct {
	charities charityAggregateStore
	donations donationAggregateSource
	interval  time.Duration
	stop      chan struct{}
	stopOnce  sync.Once
	mu        sync.Mutex
}

func NewAggregateReconcileJob(charities charityAggregateStore, donations donationAggregateSource, interval time.Duration) *AggregateReconcileJob {
	if interval <= 0 {
		interval = time.Hour
	}
	return &AggregateReconcileJob{
		charities: charities,
		donations: donations,
		interval:  interval,
		stop:      make(chan struct{}),
	}
}

func (j *AggregateReconcileJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting aggregate reconcile job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Aggregate reconcile job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Aggregate reconcile job stopped")
			return
		case <-ticker.C:
			if _, err := j.Reconcile(ctx); err != nil {
				logger.Error(ctx, "Aggregate reconcile failed", zap.Error(err))
			}
		}
	}
}

func (j *AggregateReconcileJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

// Reconcile runs one pass and returns how many charities were corrected.
// Concurrent calls are serialized.
func (j *AggregateReconcileJob) Reconcile(ctx context.Context) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	charities, err := j.charities.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(charities) == 0 {
		return 0, nil
	}

	aggs, err := j.donations.AggregateByCharity(ctx)
	if err != nil {
		return 0, err
	}
	expected := make(map[uuid.UUID]entities.CharityAggregate, len(aggs))
	for _, agg := range aggs {
		expected[agg.CharityID] = agg
	}

	corrected := 0
	for _, c := range charities {
		want, ok := expected[c.ID]
		if !ok {
			want = entities.CharityAggregate{CharityID: c.ID, Total: decimal.Zero}
		}
		if c.TotalDonations.Equal(want.Total) && c.DonationCount == want.Count {
			continue
		}
		// The snapshot above is only a drift hint; the write recomputes under a row lock.
		before, after, err := j.charities.RecomputeAggregates(ctx, c.ID)
		if err != nil {
			logger.Error(ctx, "Failed to correct charity aggregates", zap.String("charity_id", c.ID.String()), zap.Error(err))
			continue
		}
		if before.Total.Equal(after.Total) && before.Count == after.Count {
			continue
		}
		logger.Warn(ctx, "Corrected charity aggregates",
			zap.String("charity_id", c.ID.String()),
			zap.String("total_was", before.Total.String()),
			zap.String("total_now", after.Total.String()),
			zap.Int64("count_was", before.Count),
			zap.Int64("count_now", after.Count),
		)
		corrected++
	}

	if corrected > 0 {
		metrics.AggregatesCorrected.Add(float64(corrected))
	}
	return corrected, nil
}
