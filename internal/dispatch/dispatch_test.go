package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/indusnetwork/bridge/internal/model"
	"github.com/indusnetwork/bridge/internal/testutil"
)

type DispatcherSuite struct {
	suite.Suite
	dispatcher *Dispatcher
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	s.dispatcher = New(16, testutil.NopLogger())
}

func (s *DispatcherSuite) TearDownTest() {
	s.dispatcher.Close()
}

func (s *DispatcherSuite) TestSubmitWaitRunsTask() {
	ran := false
	err := s.dispatcher.SubmitWait(context.Background(), func() error {
		ran = true
		return nil
	})
	s.Require().NoError(err)
	s.True(ran)
}

func (s *DispatcherSuite) TestSubmitWaitPropagatesError() {
	boom := errors.New("boom")
	err := s.dispatcher.SubmitWait(context.Background(), func() error {
		return boom
	})
	s.ErrorIs(err, boom)
}

func (s *DispatcherSuite) TestTasksRunInSubmissionOrder() {
	var mu sync.Mutex
	var order []int

	for i := 0; i < 10; i++ {
		n := i
		s.Require().NoError(s.dispatcher.Submit(func() {
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
		}))
	}

	// Barrier: once this runs, everything before it has run.
	s.Require().NoError(s.dispatcher.SubmitWait(context.Background(), func() error { return nil }))

	mu.Lock()
	defer mu.Unlock()
	s.Equal([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func (s *DispatcherSuite) TestTasksAreSerialized() {
	var active, maxActive int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		s.Require().NoError(s.dispatcher.Submit(func() {
			defer wg.Done()
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}))
	}
	wg.Wait()

	s.Equal(1, maxActive)
}

func (s *DispatcherSuite) TestPanicDoesNotKillLoop() {
	_ = s.dispatcher.Submit(func() { panic("bad command") })

	err := s.dispatcher.SubmitWait(context.Background(), func() error { return nil })
	s.NoError(err)
}

func (s *DispatcherSuite) TestSubmitAfterCloseFails() {
	s.dispatcher.Close()

	err := s.dispatcher.Submit(func() {})
	s.ErrorIs(err, model.ErrDispatcherClosed)
}

func (s *DispatcherSuite) TestCloseDrainsQueuedTasks() {
	var mu sync.Mutex
	count := 0
	for i := 0; i < 5; i++ {
		s.Require().NoError(s.dispatcher.Submit(func() {
			mu.Lock()
			count++
			mu.Unlock()
		}))
	}

	s.dispatcher.Close()

	mu.Lock()
	defer mu.Unlock()
	s.Equal(5, count)
}

func (s *DispatcherSuite) TestSubmitWaitHonorsContext() {
	release := make(chan struct{})
	_ = s.dispatcher.Submit(func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := s.dispatcher.SubmitWait(ctx, func() error { return nil })
	s.ErrorIs(err, context.DeadlineExceeded)

	close(release)
}
