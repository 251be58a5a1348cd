package session

import (
	"sync"

	"github.com/indusnetwork/bridge/internal/model"
)

// Registry is the live online-player set. It is the only record of who
// is currently connected; periodic reconciliation iterates it at fire
// time, and late network responses consult it before touching anything.
type Registry struct {
	mu     sync.RWMutex
	online map[model.PlayerID]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		online: make(map[model.PlayerID]string),
	}
}

// Add marks a player online.
func (r *Registry) Add(id model.PlayerID, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.online[id] = username
}

// Remove marks a player offline.
func (r *Registry) Remove(id model.PlayerID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.online, id)
}

// IsOnline reports whether the player is currently connected.
func (r *Registry) IsOnline(id model.PlayerID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.online[id]
	return ok
}

// Username returns the player's connected username.
func (r *Registry) Username(id model.PlayerID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.online[id]
	return name, ok
}

// OnlinePlayers returns a snapshot of the online set.
func (r *Registry) OnlinePlayers() []model.OnlinePlayer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.OnlinePlayer, 0, len(r.online))
	for id, name := range r.online {
		out = append(out, model.OnlinePlayer{ID: id, Username: name})
	}
	return out
}
