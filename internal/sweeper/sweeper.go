// Package sweeper runs the daily membership expiry job. It scans for
// subscriptions whose end date has passed, flips them to expired, and
// downgrades the member's role. Each lapsed subscription is processed
// independently so one bad row cannot stall the rest of the batch.
package sweeper

import (
	"context"
	"time"

	"github.com/Dikshant005/Titan-Strength/internal/logger"
	"github.com/Dikshant005/Titan-Strength/internal/metrics"
	"github.com/Dikshant005/Titan-Strength/internal/subscription"

	"github.com/robfig/cron/v3"
)

// Schedule is the daily midnight sweep.
const Schedule = "0 0 * * *"

// Notifier mirrors the subscription package's fire-and-forget hook.
type Notifier interface {
	Notify(ctx context.Context, userID int, title, message string)
}

type Sweeper struct {
	repo     subscription.Repository
	notifier Notifier
	cron     *cron.Cron
	timeout  time.Duration
}

type Option func(*Sweeper)

func WithNotifier(n Notifier) Option {
	return func(s *Sweeper) { s.notifier = n }
}

func WithRunTimeout(d time.Duration) Option {
	return func(s *Sweeper) { s.timeout = d }
}

func New(repo subscription.Repository, opts ...Option) *Sweeper {
	s := &Sweeper{
		repo:    repo,
		cron:    cron.New(),
		timeout: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start registers the schedule and begins running sweeps in the background.
// With runNow set an immediate sweep fires before the first scheduled one,
// which covers expiries missed while the process was down.
func (s *Sweeper) Start(runNow bool) error {
	if _, err := s.cron.AddFunc(Schedule, s.runScheduled); err != nil {
		return err
	}

	s.cron.Start()
	logger.Infof("expiry sweeper scheduled (%s)", Schedule)

	if runNow {
		go s.runScheduled()
	}

	return nil
}

// Stop halts the schedule and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Sweeper) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.Run(ctx); err != nil {
		logger.Errorf("expiry sweep failed: %v", err)
	}
}

// Run performs one sweep and returns how many subscriptions were expired.
// A scan failure aborts the run; a failure on an individual subscription is
// logged and counted, and the sweep moves on to the next one.
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	pairs, err := s.repo.ListExpiredActive(ctx)
	if err != nil {
		metrics.RecordSweeperRun("error")
		return 0, err
	}

	if len(pairs) == 0 {
		metrics.RecordSweeperRun("ok")
		return 0, nil
	}

	expired := 0
	for _, pair := range pairs {
		if err := s.repo.ExpirePair(ctx, pair); err != nil {
			metrics.SweeperItemFailuresTotal.Inc()
			logger.Errorf("failed to expire subscription %d for user %d: %v",
				pair.SubscriptionID, pair.UserID, err)
			continue
		}

		expired++
		metrics.SubscriptionsExpiredTotal.Inc()

		if s.notifier != nil {
			s.notifier.Notify(ctx, pair.UserID,
				"Membership Expired",
				"Your membership has expired. Renew to keep booking classes and checking in.",
			)
		}
	}

	logger.Infof("expiry sweep finished: %d expired, %d failed", expired, len(pairs)-expired)
	metrics.RecordSweeperRun("ok")
	return expired, nil
}
