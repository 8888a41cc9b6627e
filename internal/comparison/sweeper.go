package comparison

import (
	"context"
	"time"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/adapters"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Sweeper periodically purges expired persistent cache rows and persists
// the in-memory quota counters so usage survives restarts. Failures here
// are logged and retried on the next tick; they never affect requests.
type Sweeper struct {
	cacheRepo adapters.RateCacheRepository
	usageRepo adapters.UsageRepository
	quota     *QuotaKeeper
	interval  time.Duration
	maxAge    time.Duration
	// -----
	sched gocron.Scheduler
}

func NewSweeper(cacheRepo adapters.RateCacheRepository, usageRepo adapters.UsageRepository, quota *QuotaKeeper, interval, maxAge time.Duration) *Sweeper {
	return &Sweeper{
		cacheRepo: cacheRepo,
		usageRepo: usageRepo,
		quota:     quota,
		interval:  interval,
		maxAge:    maxAge,
	}
}

func (s *Sweeper) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.sched = scheduler

	job := func(jobCtx context.Context) {
		execID := uuid.NewString()
		s.runOnce(jobCtx, execID)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	scheduler.Start()

	// Stop the scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Sweeper shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *Sweeper) Shutdown() error {
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}

func (s *Sweeper) runOnce(ctx context.Context, execID string) {
	if s.cacheRepo != nil {
		purged, err := s.cacheRepo.PurgeExpired(ctx, s.maxAge)
		if err != nil {
			logrus.WithError(err).Warnf("Cache purge failed; execID: %s", execID)
		} else if purged > 0 {
			logrus.Infof("Purged %d expired cache rows; execID: %s", purged, execID)
		}
	}

	if s.usageRepo == nil {
		return
	}
	for code, usage := range s.quota.Snapshot() {
		if err := s.usageRepo.Save(ctx, code, usage); err != nil {
			logrus.WithError(err).Warnf("Failed to persist usage for %s; execID: %s", code, execID)
		}
	}
}
