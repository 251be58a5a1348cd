package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/indusnetwork/bridge/internal/config"
	"github.com/indusnetwork/bridge/internal/dependencies/random"
)

// StatusSyncer pushes online status and current stats for connected players.
type StatusSyncer interface {
	SyncOnline(ctx context.Context)
}

// DeliverySweeper checks pending deliveries for connected players.
type DeliverySweeper interface {
	SweepOnline(ctx context.Context)
}

// Flusher pushes all locally held state to the remote service.
type Flusher interface {
	FlushAll(ctx context.Context)
}

// Scheduler runs the periodic reconciliation jobs: status sync, delivery
// sweeps, and stat/balance flushes. Each job gets its own goroutine and
// its own interval; a slow job delays only its own next firing. Fire
// times carry a little jitter so the jobs don't pile their requests onto
// the remote service in lockstep.
type Scheduler struct {
	intervals config.Intervals
	syncer    StatusSyncer
	sweeper   DeliverySweeper
	flushers  []Flusher
	random    random.Random
	logger    *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a scheduler. The flushers run together on the stats-flush
// interval.
func New(
	intervals config.Intervals,
	syncer StatusSyncer,
	sweeper DeliverySweeper,
	rng random.Random,
	logger *slog.Logger,
	flushers ...Flusher,
) *Scheduler {
	return &Scheduler{
		intervals: intervals,
		syncer:    syncer,
		sweeper:   sweeper,
		flushers:  flushers,
		random:    rng,
		logger:    logger,
	}
}

// Start launches the reconciliation loops. Calling Start on a running
// scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)

	s.spawn(ctx, "status_sync", s.intervals.StatusSync.Std(), s.syncer.SyncOnline)
	s.spawn(ctx, "delivery_sweep", s.intervals.DeliverySweep.Std(), s.sweeper.SweepOnline)
	s.spawn(ctx, "stats_flush", s.intervals.StatsFlush.Std(), func(ctx context.Context) {
		for _, f := range s.flushers {
			f.FlushAll(ctx)
		}
	})

	s.logger.Info("reconciliation scheduler started",
		slog.Duration("status_sync", s.intervals.StatusSync.Std()),
		slog.Duration("delivery_sweep", s.intervals.DeliverySweep.Std()),
		slog.Duration("stats_flush", s.intervals.StatsFlush.Std()))
}

// Stop halts the loops and waits for any in-flight job run to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.logger.Info("reconciliation scheduler stopped")
}

func (s *Scheduler) spawn(ctx context.Context, name string, interval time.Duration, job func(context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		timer := time.NewTimer(s.jittered(interval))
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				started := time.Now()
				job(ctx)
				s.logger.Debug("reconciliation job ran",
					slog.String("job", name),
					slog.Duration("took", time.Since(started)))
				timer.Reset(s.jittered(interval))
			}
		}
	}()
}

// jittered spreads the base interval to anywhere in [90%, 110%].
func (s *Scheduler) jittered(base time.Duration) time.Duration {
	spread := int(base / 5)
	if spread <= 0 {
		return base
	}
	return base - base/10 + time.Duration(s.random.Intn(spread+1))
}
