package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/indusnetwork/bridge/internal/dependencies/mocks"
	"github.com/indusnetwork/bridge/internal/model"
	"github.com/indusnetwork/bridge/internal/testutil"
)

const playerID = model.PlayerID("p-1")

type TrackerSuite struct {
	suite.Suite
	remote  *mocks.MockRemote
	clock   *mocks.MockClock
	tracker *Tracker
	ctx     context.Context
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerSuite))
}

func (s *TrackerSuite) SetupTest() {
	s.remote = mocks.NewMockRemote()
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.tracker = New(s.remote, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *TrackerSuite) TestTrackAndUpdate() {
	s.tracker.Track(playerID, "Steve")
	s.tracker.Update(playerID, model.StatsSnapshot{Kills: 3, Deaths: 1})

	got, ok := s.tracker.Get(playerID)
	s.Require().True(ok)
	s.Equal(3, got.Kills)
}

func (s *TrackerSuite) TestUpdateUntrackedPlayerIsDropped() {
	s.tracker.Update(playerID, model.StatsSnapshot{Kills: 3})

	_, ok := s.tracker.Get(playerID)
	s.False(ok)
}

func (s *TrackerSuite) TestTrackIsIdempotentForSession() {
	s.tracker.Track(playerID, "Steve")
	s.tracker.Update(playerID, model.StatsSnapshot{Kills: 5})

	s.tracker.Track(playerID, "Steve")

	got, _ := s.tracker.Get(playerID)
	s.Equal(5, got.Kills) // rejoin keeps session stats
}

func (s *TrackerSuite) TestSessionDuration() {
	s.tracker.Track(playerID, "Steve")
	s.clock.Advance(42 * time.Minute)

	s.Equal(42*time.Minute, s.tracker.SessionDuration(playerID))
	s.Zero(s.tracker.SessionDuration("p-ghost"))
}

func (s *TrackerSuite) TestPushUploadsSnapshot() {
	s.tracker.Track(playerID, "Steve")
	s.tracker.Update(playerID, model.StatsSnapshot{Kills: 1})

	s.True(s.tracker.Push(s.ctx, playerID))
	s.Equal([]model.PlayerID{playerID}, s.remote.StatsPushes())
}

func (s *TrackerSuite) TestPushUntrackedIsNoop() {
	s.False(s.tracker.Push(s.ctx, playerID))
	s.Empty(s.remote.StatsPushes())
}

func (s *TrackerSuite) TestRemoveStopsTracking() {
	s.tracker.Track(playerID, "Steve")
	s.tracker.Remove(playerID)

	_, ok := s.tracker.Get(playerID)
	s.False(ok)
}

func (s *TrackerSuite) TestFlushAllPushesEveryone() {
	s.tracker.Track(playerID, "Steve")
	s.tracker.Track("p-2", "Alex")

	s.tracker.FlushAll(s.ctx)

	s.ElementsMatch([]model.PlayerID{playerID, "p-2"}, s.remote.StatsPushes())
}

func (s *TrackerSuite) TestSnapshotHelpers() {
	snapshot := model.StatsSnapshot{Kills: 10, Deaths: 4, PlaytimeMinutes: 135}
	s.InDelta(2.5, snapshot.KDRatio(), 1e-9)
	s.Equal("2h 15m", snapshot.FormattedPlaytime())

	flawless := model.StatsSnapshot{Kills: 7}
	s.InDelta(7.0, flawless.KDRatio(), 1e-9)
}
