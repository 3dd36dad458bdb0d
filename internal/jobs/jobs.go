// internal/jobs/jobs.go
package jobs

import (
	"context"
	"time"

	"scout-service/internal/domain/delivery"

	"go.uber.org/zap"
)

const sweepTimeout = time.Minute

// StatusSweeper moves campaigns through their lifecycle as dates pass.
type StatusSweeper interface {
	Today() delivery.Date
	SweepStatuses(ctx context.Context, today delivery.Date) (activated, completed int64, err error)
}

// Jobs holds the scheduled tasks.
type Jobs struct {
	campaigns StatusSweeper
	logger    *zap.Logger
}

func NewJobs(campaigns StatusSweeper, logger *zap.Logger) *Jobs {
	return &Jobs{
		campaigns: campaigns,
		logger:    logger,
	}
}

// SweepCampaignStatuses activates campaigns whose first day has come and
// completes those whose last day has passed.
func (j *Jobs) SweepCampaignStatuses() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	today := j.campaigns.Today()
	activated, completed, err := j.campaigns.SweepStatuses(ctx, today)
	if err != nil {
		j.logger.Error("campaign status sweep failed", zap.Stringer("today", today), zap.Error(err))
		return
	}

	j.logger.Info("campaign status sweep finished",
		zap.Stringer("today", today),
		zap.Int64("activated", activated),
		zap.Int64("completed", completed),
	)
}
