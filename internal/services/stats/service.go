package stats

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/indusnetwork/bridge/internal/dependencies/clock"
	"github.com/indusnetwork/bridge/internal/model"
)

// Remote is the slice of the remote API the tracker pushes to.
type Remote interface {
	PushStats(ctx context.Context, id model.PlayerID, stats model.StatsSnapshot) bool
}

type entry struct {
	username     string
	stats        model.StatsSnapshot
	sessionStart time.Time
}

// Tracker holds the per-session gameplay statistics for online players.
// The host simulation feeds numbers in through Update; the scheduler
// periodically pushes them to the remote service.
type Tracker struct {
	remote Remote
	clock  clock.Clock
	logger *slog.Logger

	mu      sync.RWMutex
	players map[model.PlayerID]*entry
}

// New creates a stats tracker.
func New(remote Remote, clk clock.Clock, logger *slog.Logger) *Tracker {
	return &Tracker{
		remote:  remote,
		clock:   clk,
		logger:  logger,
		players: make(map[model.PlayerID]*entry),
	}
}

// Track starts tracking a player. Tracking an already-tracked player is
// a no-op so a rejoin within the same process keeps its session stats.
func (t *Tracker) Track(id model.PlayerID, username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.players[id]; ok {
		return
	}
	t.players[id] = &entry{
		username:     username,
		sessionStart: t.clock.Now(),
	}
}

// Update replaces the player's stat snapshot. Updates for untracked
// players are dropped; a response that arrives after the player left
// must not resurrect their entry.
func (t *Tracker) Update(id model.PlayerID, stats model.StatsSnapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.players[id]; ok {
		e.stats = stats
	}
}

// Get returns the player's current snapshot and whether they are tracked.
func (t *Tracker) Get(id model.PlayerID) (model.StatsSnapshot, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.players[id]
	if !ok {
		return model.StatsSnapshot{}, false
	}
	return e.stats, true
}

// SessionDuration returns how long the player's current session has
// lasted, or zero for untracked players.
func (t *Tracker) SessionDuration(id model.PlayerID) time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.players[id]
	if !ok {
		return 0
	}
	return t.clock.Now().Sub(e.sessionStart)
}

// Remove stops tracking a player.
func (t *Tracker) Remove(id model.PlayerID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.players, id)
}

// Push uploads the player's current snapshot. Best-effort: a failed
// push is logged and retried by the next flush.
func (t *Tracker) Push(ctx context.Context, id model.PlayerID) bool {
	snapshot, ok := t.Get(id)
	if !ok {
		return false
	}
	if !t.remote.PushStats(ctx, id, snapshot) {
		t.logger.Warn("failed to push stats",
			slog.String("player_id", string(id)))
		return false
	}
	return true
}

// FlushAll pushes every tracked player's snapshot.
func (t *Tracker) FlushAll(ctx context.Context) {
	for _, id := range t.trackedIDs() {
		t.Push(ctx, id)
	}
}

func (t *Tracker) trackedIDs() []model.PlayerID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]model.PlayerID, 0, len(t.players))
	for id := range t.players {
		ids = append(ids, id)
	}
	return ids
}
