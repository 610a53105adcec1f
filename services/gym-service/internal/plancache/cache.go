// Package plancache keeps the public plan list in Redis.
package plancache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
	"github.com/redis/go-redis/v9"
)

const DefaultKey = "gym:plans:v1"

type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

type Loader func(ctx context.Context) ([]model.Plan, error)

// Cache is read-through. Redis failures are logged and the loader is used
// directly, so a cache outage never fails a request. A nil client disables it.
//
// Entries are stored under a generation number that Invalidate bumps. A reader
// that loaded before an invalidation writes under the old generation, which is
// never read again and expires with its TTL.
type Cache struct {
	client Client
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

func New(client Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Cache{client: client, key: DefaultKey, ttl: ttl, logger: logger}
}

func (c *Cache) Plans(ctx context.Context, load Loader) ([]model.Plan, error) {
	if c == nil || c.client == nil {
		return load(ctx)
	}

	gen, err := c.client.Get(ctx, c.genKey()).Result()
	switch {
	case errors.Is(err, redis.Nil):
		gen = "0"
	case err != nil:
		c.logger.Warn("plan cache read failed", "err", err)
		return load(ctx)
	}
	entry := c.key + ":" + gen

	raw, err := c.client.Get(ctx, entry).Bytes()
	switch {
	case err == nil:
		var plans []model.Plan
		if err := json.Unmarshal(raw, &plans); err == nil {
			return plans, nil
		}
		c.logger.Warn("plan cache entry unreadable", "key", entry)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("plan cache read failed", "err", err)
	}

	plans, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if encoded, err := json.Marshal(plans); err == nil {
		if err := c.client.Set(ctx, entry, encoded, c.ttl).Err(); err != nil {
			c.logger.Warn("plan cache write failed", "err", err)
		}
	}
	return plans, nil
}

func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, c.genKey()).Err(); err != nil {
		c.logger.Warn("plan cache invalidate failed", "err", err)
	}
}

func (c *Cache) genKey() string { return c.key + ":gen" }
