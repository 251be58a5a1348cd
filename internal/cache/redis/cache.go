package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/indusnetwork/bridge/internal/cache"
	"github.com/indusnetwork/bridge/internal/model"
)

// Cache is a Redis-backed implementation of the account cache. It lets
// several bridge instances (e.g. a proxied multi-server network) share
// one view of each player's last-known account state.
type Cache struct {
	client *redis.Client
	cfg    Config
}

// New creates a Redis cache from a connection URL, verifying the
// connection before returning.
func New(cfg Config) (*Cache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Cache{client: client, cfg: cfg}, nil
}

// NewWithClient creates a Redis cache with an existing client (for testing).
func NewWithClient(client *redis.Client, cfg Config) *Cache {
	return &Cache{client: client, cfg: cfg}
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Ensure Cache implements the interface
var _ cache.Cache = (*Cache)(nil)

func (c *Cache) Get(ctx context.Context, id model.PlayerID) (model.AccountSnapshot, error) {
	data, err := c.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.AccountSnapshot{}, model.ErrAccountNotFound
		}
		return model.AccountSnapshot{}, err
	}

	var snapshot model.AccountSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return model.AccountSnapshot{}, err
	}
	return snapshot, nil
}

func (c *Cache) Put(ctx context.Context, id model.PlayerID, snapshot model.AccountSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	// SET replaces the whole value, which gives per-entry last-write-wins.
	pipe := c.client.Pipeline()
	pipe.Set(ctx, accountKey(id), data, c.cfg.AccountTTL)
	pipe.SAdd(ctx, accountIndexKey(), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (c *Cache) Remove(ctx context.Context, id model.PlayerID) error {
	pipe := c.client.Pipeline()
	pipe.Del(ctx, accountKey(id))
	pipe.SRem(ctx, accountIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (c *Cache) All(ctx context.Context) (map[model.PlayerID]model.AccountSnapshot, error) {
	ids, err := c.client.SMembers(ctx, accountIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	out := make(map[model.PlayerID]model.AccountSnapshot, len(ids))
	for _, raw := range ids {
		id := model.PlayerID(raw)
		snapshot, err := c.Get(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrAccountNotFound) {
				// Entry expired but the index still holds the id.
				_ = c.client.SRem(ctx, accountIndexKey(), raw).Err()
				continue
			}
			return nil, err
		}
		out[id] = snapshot
	}
	return out, nil
}
