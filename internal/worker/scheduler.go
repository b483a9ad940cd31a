// Package worker runs periodic background jobs.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const jobTimeout = 2 * time.Minute

// SubscriptionSweeper expires subscriptions whose paid period has ended.
type SubscriptionSweeper interface {
	ExpireLapsed(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron    *cron.Cron
	sweeper SubscriptionSweeper
	logger  zerolog.Logger
	baseCtx context.Context
	cancel  context.CancelFunc
}

// NewScheduler registers the subscription sweep on sweepSpec (standard cron
// syntax or descriptors such as "@hourly").
func NewScheduler(sweeper SubscriptionSweeper, sweepSpec string, logger zerolog.Logger) (*Scheduler, error) {
	baseCtx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		sweeper: sweeper,
		logger:  logger.With().Str("component", "scheduler").Logger(),
		baseCtx: baseCtx,
		cancel:  cancel,
	}

	if _, err := s.cron.AddFunc(sweepSpec, func() { s.SweepSubscriptions(s.baseCtx) }); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid subscription sweep schedule %q: %w", sweepSpec, err)
	}
	return s, nil
}

// Run starts the jobs and blocks until ctx is done and running jobs finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	s.logger.Info().Int("jobs", len(s.cron.Entries())).Msg("Scheduler started")

	<-ctx.Done()
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Scheduler stopped")
}

// SweepSubscriptions runs one expiry pass.
func (s *Scheduler) SweepSubscriptions(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	start := time.Now()
	expired, err := s.sweeper.ExpireLapsed(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Subscription sweep failed")
		return
	}
	s.logger.Info().
		Int64("expired", expired).
		Dur("duration", time.Since(start)).
		Msg("Subscription sweep complete")
}
