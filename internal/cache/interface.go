package cache

import (
	"context"

	"github.com/indusnetwork/bridge/internal/model"
)

// Cache is the process-wide mapping from player identity to last-known
// account snapshot. It is the single source of truth for what the game
// currently believes about a player; reads are purely local and must
// never block on network I/O to the remote service.
//
// Implementations must support concurrent Get/Put/Remove. Per-entry
// atomic replace is sufficient; no cross-entry transactions are needed.
type Cache interface {
	// Get returns the cached snapshot, or model.ErrAccountNotFound when
	// the player has no entry.
	Get(ctx context.Context, id model.PlayerID) (model.AccountSnapshot, error)

	// Put replaces the player's snapshot wholesale (last-write-wins).
	Put(ctx context.Context, id model.PlayerID, snapshot model.AccountSnapshot) error

	// Remove drops the player's entry, if any.
	Remove(ctx context.Context, id model.PlayerID) error

	// All returns a copy of every cached snapshot, keyed by player.
	All(ctx context.Context) (map[model.PlayerID]model.AccountSnapshot, error)

	// Close releases any resources held by the cache.
	Close() error
}

// Snapshot returns the cached snapshot for the player, or a zero-value
// snapshot when the player is absent or the backend errored. Gameplay
// read paths use this so a missing entry reads as "no rank, no coins"
// rather than an error.
func Snapshot(ctx context.Context, c Cache, id model.PlayerID) model.AccountSnapshot {
	snapshot, err := c.Get(ctx, id)
	if err != nil {
		return model.AccountSnapshot{PlayerID: id}
	}
	return snapshot
}
