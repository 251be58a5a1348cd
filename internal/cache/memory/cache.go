package memory

import (
	"context"
	"sync"

	"github.com/indusnetwork/bridge/internal/cache"
	"github.com/indusnetwork/bridge/internal/model"
)

// Cache is an in-memory implementation of the account cache. This is
// the default backend: each bridge instance owns the snapshots of the
// players connected to it.
type Cache struct {
	mu       sync.RWMutex
	accounts map[model.PlayerID]model.AccountSnapshot
}

// New creates a new in-memory account cache.
func New() *Cache {
	return &Cache{
		accounts: make(map[model.PlayerID]model.AccountSnapshot),
	}
}

// Ensure Cache implements the interface
var _ cache.Cache = (*Cache)(nil)

func (c *Cache) Get(ctx context.Context, id model.PlayerID) (model.AccountSnapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snapshot, ok := c.accounts[id]
	if !ok {
		return model.AccountSnapshot{}, model.ErrAccountNotFound
	}
	return snapshot, nil
}

func (c *Cache) Put(ctx context.Context, id model.PlayerID, snapshot model.AccountSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accounts[id] = snapshot
	return nil
}

func (c *Cache) Remove(ctx context.Context, id model.PlayerID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.accounts, id)
	return nil
}

func (c *Cache) All(ctx context.Context) (map[model.PlayerID]model.AccountSnapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[model.PlayerID]model.AccountSnapshot, len(c.accounts))
	for id, snapshot := range c.accounts {
		out[id] = snapshot
	}
	return out, nil
}

func (c *Cache) Close() error {
	return nil
}
