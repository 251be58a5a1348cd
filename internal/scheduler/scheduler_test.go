package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/indusnetwork/bridge/internal/config"
	"github.com/indusnetwork/bridge/internal/dependencies/mocks"
	"github.com/indusnetwork/bridge/internal/testutil"
)

type countingJobs struct {
	syncs   atomic.Int64
	sweeps  atomic.Int64
	flushes atomic.Int64
}

func (c *countingJobs) SyncOnline(ctx context.Context)  { c.syncs.Add(1) }
func (c *countingJobs) SweepOnline(ctx context.Context) { c.sweeps.Add(1) }
func (c *countingJobs) FlushAll(ctx context.Context)    { c.flushes.Add(1) }

type SchedulerSuite struct {
	suite.Suite
	jobs      *countingJobs
	scheduler *Scheduler
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerSuite))
}

func (s *SchedulerSuite) SetupTest() {
	s.jobs = &countingJobs{}
	intervals := config.Intervals{
		StatusSync:    config.Duration(5 * time.Millisecond),
		DeliverySweep: config.Duration(5 * time.Millisecond),
		StatsFlush:    config.Duration(5 * time.Millisecond),
	}
	s.scheduler = New(intervals, s.jobs, s.jobs, mocks.NewMockRandom(), testutil.NopLogger(), s.jobs, s.jobs)
}

func (s *SchedulerSuite) TestRunsEveryJobRepeatedly() {
	s.scheduler.Start(context.Background())
	defer s.scheduler.Stop()

	s.Eventually(func() bool {
		return s.jobs.syncs.Load() >= 2 &&
			s.jobs.sweeps.Load() >= 2 &&
			s.jobs.flushes.Load() >= 4 // two flushers per firing
	}, time.Second, time.Millisecond)
}

func (s *SchedulerSuite) TestStopHaltsFiring() {
	s.scheduler.Start(context.Background())
	s.Eventually(func() bool { return s.jobs.syncs.Load() >= 1 }, time.Second, time.Millisecond)

	s.scheduler.Stop()
	after := s.jobs.syncs.Load()
	time.Sleep(25 * time.Millisecond)
	s.Equal(after, s.jobs.syncs.Load())
}

func (s *SchedulerSuite) TestStopWithoutStartIsSafe() {
	s.scheduler.Stop()
}

func (s *SchedulerSuite) TestStartTwiceRunsOneSetOfLoops() {
	ctx := context.Background()
	s.scheduler.Start(ctx)
	s.scheduler.Start(ctx)
	defer s.scheduler.Stop()

	s.Eventually(func() bool { return s.jobs.syncs.Load() >= 1 }, time.Second, time.Millisecond)
}

func (s *SchedulerSuite) TestContextCancelStopsLoops() {
	ctx, cancel := context.WithCancel(context.Background())
	s.scheduler.Start(ctx)
	s.Eventually(func() bool { return s.jobs.syncs.Load() >= 1 }, time.Second, time.Millisecond)

	cancel()
	time.Sleep(10 * time.Millisecond)
	after := s.jobs.syncs.Load()
	time.Sleep(25 * time.Millisecond)
	s.Equal(after, s.jobs.syncs.Load())
}

func (s *SchedulerSuite) TestJitterStaysWithinTenPercent() {
	rng := mocks.NewMockRandom()
	sched := New(config.Intervals{}, s.jobs, s.jobs, rng, testutil.NopLogger())

	base := time.Second
	rng.QueueIntn(0)
	s.Equal(900*time.Millisecond, sched.jittered(base))

	rng.QueueIntn(int(base / 5))
	s.Equal(1100*time.Millisecond, sched.jittered(base))

	s.Equal(time.Duration(2), sched.jittered(2)) // too small to jitter
}
