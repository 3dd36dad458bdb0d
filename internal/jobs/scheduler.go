// internal/jobs/scheduler.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs Jobs on cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	jobs   *Jobs
	logger *zap.Logger
}

// NewScheduler evaluates schedules in loc. A panicking job is logged and
// does not stop later runs.
func NewScheduler(jobs *Jobs, loc *time.Location, logger *zap.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(zap.NewStdLog(logger.Named("cron")))
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	return &Scheduler{
		cron:   c,
		jobs:   jobs,
		logger: logger,
	}
}

// Start registers the jobs and starts the scheduler. An invalid schedule
// is returned and nothing is started.
func (s *Scheduler) Start(statusSweepSchedule string) error {
	if _, err := s.cron.AddFunc(statusSweepSchedule, s.jobs.SweepCampaignStatuses); err != nil {
		return fmt.Errorf("schedule campaign status sweep %q: %w", statusSweepSchedule, err)
	}
	s.logger.Info("scheduled campaign status sweep", zap.String("schedule", statusSweepSchedule))

	s.cron.Start()
	return nil
}

// Stop stops the scheduler. The returned context is done once running jobs
// have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
