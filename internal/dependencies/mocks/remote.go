package mocks

import (
	"context"
	"sync"

	"github.com/indusnetwork/bridge/internal/model"
	"github.com/indusnetwork/bridge/internal/remote"
)

// CoinUpdate records one UpdateCoins call.
type CoinUpdate struct {
	PlayerID model.PlayerID
	Coins    int
}

// RankUpdate records one UpdateRank call.
type RankUpdate struct {
	PlayerID model.PlayerID
	RankID   string
}

// StatusUpdate records one PushStatus call.
type StatusUpdate struct {
	PlayerID model.PlayerID
	Online   bool
}

// MockRemote is an in-memory stand-in for the remote API client. All
// operations succeed unless the corresponding *OK flag is cleared, and
// every call is recorded for assertions.
type MockRemote struct {
	mu sync.Mutex

	VerifyOK   bool
	RankOK     bool
	CoinsOK    bool
	StatusOK   bool
	StatsOK    bool
	CompleteOK bool

	Accounts map[model.PlayerID]remote.FetchResult
	Pending  map[model.PlayerID][]model.DeliveryItem

	verifies  []model.PlayerID
	ranks     []RankUpdate
	coins     []CoinUpdate
	statuses  []StatusUpdate
	stats     []model.PlayerID
	completed []string
}

// NewMockRemote creates a MockRemote with every operation succeeding.
func NewMockRemote() *MockRemote {
	return &MockRemote{
		VerifyOK:   true,
		RankOK:     true,
		CoinsOK:    true,
		StatusOK:   true,
		StatsOK:    true,
		CompleteOK: true,
		Accounts:   make(map[model.PlayerID]remote.FetchResult),
		Pending:    make(map[model.PlayerID][]model.DeliveryItem),
	}
}

func (m *MockRemote) VerifyPlayer(ctx context.Context, id model.PlayerID, code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifies = append(m.verifies, id)
	return m.VerifyOK
}

func (m *MockRemote) FetchAccount(ctx context.Context, id model.PlayerID) remote.FetchResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	result, ok := m.Accounts[id]
	if !ok {
		return remote.FetchResult{Status: remote.FetchNotFound}
	}
	return result
}

func (m *MockRemote) UpdateRank(ctx context.Context, id model.PlayerID, rankID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ranks = append(m.ranks, RankUpdate{PlayerID: id, RankID: rankID})
	return m.RankOK
}

func (m *MockRemote) UpdateCoins(ctx context.Context, id model.PlayerID, coins int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coins = append(m.coins, CoinUpdate{PlayerID: id, Coins: coins})
	return m.CoinsOK
}

func (m *MockRemote) PushStatus(ctx context.Context, id model.PlayerID, online bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, StatusUpdate{PlayerID: id, Online: online})
	return m.StatusOK
}

func (m *MockRemote) PushStats(ctx context.Context, id model.PlayerID, stats model.StatsSnapshot) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = append(m.stats, id)
	return m.StatsOK
}

func (m *MockRemote) PendingDeliveries(ctx context.Context, id model.PlayerID) []model.DeliveryItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.Pending[id]
	out := make([]model.DeliveryItem, len(items))
	copy(out, items)
	return out
}

func (m *MockRemote) CompleteDelivery(ctx context.Context, deliveryID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed = append(m.completed, deliveryID)
	if m.CompleteOK {
		// Mirror the remote service: acknowledged items leave the queue.
		for id, items := range m.Pending {
			kept := items[:0:0]
			for _, item := range items {
				if item.ID != deliveryID {
					kept = append(kept, item)
				}
			}
			m.Pending[id] = kept
		}
	}
	return m.CompleteOK
}

// Recorded call accessors (copies, safe to inspect concurrently)

func (m *MockRemote) Verifies() []model.PlayerID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.PlayerID(nil), m.verifies...)
}

func (m *MockRemote) RankUpdates() []RankUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RankUpdate(nil), m.ranks...)
}

func (m *MockRemote) CoinUpdates() []CoinUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CoinUpdate(nil), m.coins...)
}

func (m *MockRemote) StatusUpdates() []StatusUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]StatusUpdate(nil), m.statuses...)
}

func (m *MockRemote) StatsPushes() []model.PlayerID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.PlayerID(nil), m.stats...)
}

func (m *MockRemote) CompletedDeliveries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.completed...)
}
