package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/indusnetwork/bridge/internal/config"
	"github.com/indusnetwork/bridge/internal/dependencies/mocks"
	"github.com/indusnetwork/bridge/internal/model"
	"github.com/indusnetwork/bridge/internal/remote"
)

const playerID = model.PlayerID("p-1")

// IntegrationSuite drives full player journeys through a fully wired app.
type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.Require().NoError(s.app.Shutdown(s.ctx))
}

func (s *IntegrationSuite) TestNewAccountJourney() {
	s.app.Session.OnJoin(s.ctx, playerID, "Steve")

	s.Equal(100, s.app.Coins.Balance(s.ctx, playerID))

	s.Require().NoError(s.app.Coins.Add(s.ctx, playerID, 20))
	s.Equal(120, s.app.Coins.Balance(s.ctx, playerID))

	s.app.Session.OnLeave(s.ctx, playerID)
	s.False(s.app.Registry.IsOnline(playerID))
	s.Equal(0, s.app.Coins.Balance(s.ctx, playerID)) // cache evicted
}

func (s *IntegrationSuite) TestReturningAccountJourney() {
	s.app.MockRemote.Accounts[playerID] = remote.FetchResult{
		Status:  remote.FetchFound,
		Account: model.AccountSnapshot{Username: "Steve", Rank: "vip", Coins: 300, Verified: true},
	}

	s.app.Session.OnJoin(s.ctx, playerID, "Steve")

	s.Equal(300, s.app.Coins.Balance(s.ctx, playerID))
	// Verified remote rank wins over the empty local grouping.
	s.Contains(s.app.MockGroups.Added(), mocks.GroupAdd{PlayerID: playerID, Group: "group.vip"})

	// vip earns at 1.5x, rounded up.
	s.Equal(8, s.app.Coins.ApplyRankMultiplier(s.ctx, playerID, 5))
}

func (s *IntegrationSuite) TestRejoinDoesNotRewriteAlignedRank() {
	s.app.MockRemote.Accounts[playerID] = remote.FetchResult{
		Status:  remote.FetchFound,
		Account: model.AccountSnapshot{Username: "Steve", Rank: "vip", Coins: 300, Verified: true},
	}

	s.app.Session.OnJoin(s.ctx, playerID, "Steve")
	s.Require().Len(s.app.MockGroups.Added(), 1)

	s.app.Session.OnLeave(s.ctx, playerID)
	s.app.Session.OnJoin(s.ctx, playerID, "Steve")

	// The permission group already reflects the rank; no second write.
	s.Len(s.app.MockGroups.Added(), 1)
}

func (s *IntegrationSuite) TestDeliveryJourney() {
	s.app.MockRemote.Pending[playerID] = []model.DeliveryItem{
		{ID: "d-1", ItemID: "sword", Commands: []string{
			"give {player} diamond_sword",
			"broadcast {username} bought a sword",
		}},
	}

	s.app.Session.OnJoin(s.ctx, playerID, "Steve")

	s.Equal([]string{
		"give Steve diamond_sword",
		"broadcast Steve bought a sword",
	}, s.app.MockSink.Commands())
	s.Equal([]string{"d-1"}, s.app.MockRemote.CompletedDeliveries())
	s.Empty(s.app.MockRemote.Pending[playerID])
}

func (s *IntegrationSuite) TestSchedulerStartStop() {
	s.app.Scheduler.Start(s.ctx)
	s.app.Scheduler.Stop()
}

func (s *IntegrationSuite) TestShutdownFlushesBalances() {
	s.app.Session.OnJoin(s.ctx, playerID, "Steve")
	s.Require().NoError(s.app.Shutdown(s.ctx))

	updates := s.app.MockRemote.CoinUpdates()
	s.Require().NotEmpty(updates)
	s.Equal(100, updates[len(updates)-1].Coins)

	// TearDownTest shuts down again; give it a fresh app.
	s.app = NewTestApp()
}

func (s *IntegrationSuite) TestDefaultBackendsWireWithoutHost() {
	cfg := config.Default()
	app, err := New(Config{Config: &cfg})
	s.Require().NoError(err)
	s.NotNil(app.Session)
	s.Require().NoError(app.Shutdown(s.ctx))
}

func (s *IntegrationSuite) TestNewRequiresConfig() {
	_, err := New(Config{})
	s.Error(err)
}
